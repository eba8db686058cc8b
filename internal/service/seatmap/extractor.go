package seatmap

import (
	"fmt"
	"strings"

	"github.com/LouYuanbo1/seatcrawler/internal/domain/entity"
	"github.com/PuerkitoBio/goquery"
)

// 目标站点用 data-component 标记元素角色,没有稳定的class
const (
	sectionSelector = "g[data-component='svg_block']"
	rowSelector     = "g"
	seatSelector    = "circle[data-component='svg__seat']"
)

// Extract 解析页面HTML,按 区域 -> 排 -> 座位 的层级提取座位图
func Extract(html string) ([]entity.Section, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("解析HTML失败: %w", err)
	}
	return ExtractDocument(doc), nil
}

// ExtractDocument 按文档顺序提取所有区域
//   - 区域: 任意深度的 g[data-component='svg_block']
//   - 排: 区域的直接子元素 g,并且 data-row-name 非空
//   - 座位: 排内任意深度的 circle[data-component='svg__seat']
func ExtractDocument(doc *goquery.Document) []entity.Section {
	sections := make([]entity.Section, 0)
	doc.Find(sectionSelector).Each(func(_ int, block *goquery.Selection) {
		section := entity.Section{
			SectionName: attr(block, "data-section-name"),
			SectionID:   attr(block, "data-section-id"),
			Rows:        make([]entity.Row, 0),
		}
		block.ChildrenFiltered(rowSelector).Each(func(_ int, g *goquery.Selection) {
			rowName, ok := g.Attr("data-row-name")
			if !ok || rowName == "" {
				return
			}
			row := entity.Row{
				RowName: rowName,
				Seats:   make([]entity.Seat, 0),
			}
			g.Find(seatSelector).Each(func(_ int, circle *goquery.Selection) {
				row.Seats = append(row.Seats, entity.Seat{
					SeatID:   attr(circle, "id"),
					SeatName: attr(circle, "data-seat-name"),
					Type:     attr(circle, "type"),
					Cx:       attr(circle, "cx"),
					Cy:       attr(circle, "cy"),
					R:        attr(circle, "r"),
				})
			})
			section.Rows = append(section.Rows, row)
		})
		sections = append(sections, section)
	})
	return sections
}

// attr 属性不存在时返回nil,导出为null
func attr(s *goquery.Selection, name string) *string {
	v, ok := s.Attr(name)
	if !ok {
		return nil
	}
	return &v
}
