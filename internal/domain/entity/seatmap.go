package entity

import (
	"fmt"
	"time"

	"github.com/LouYuanbo1/seatcrawler/internal/domain/model"
	"github.com/google/uuid"
)

// Section 座位图中的一个区块(g[data-component=svg_block])
type Section struct {
	SectionName *string `json:"section_name"`
	SectionID   *string `json:"section_id"`
	Rows        []Row   `json:"rows"`
}

// Row 区块的直接子元素中带 data-row-name 的 g
type Row struct {
	RowName string `json:"row_name"`
	Seats   []Seat `json:"seats"`
}

// Seat 座位圆点,所有字段都是页面上的原始属性值,缺失时为nil
type Seat struct {
	SeatID   *string `json:"seat_id"`
	SeatName *string `json:"seat_name"`
	Type     *string `json:"type"`
	Cx       *string `json:"cx"`
	Cy       *string `json:"cy"`
	R        *string `json:"r"`
}

// SeatCount 区块内座位总数
func (s *Section) SeatCount() int {
	n := 0
	for _, row := range s.Rows {
		n += len(row.Seats)
	}
	return n
}

// ToDocuments 把区块展开成每个座位一条文档
// 文档ID由活动URL和座位在图中的下标(区块,行,座位)决定,重复抓取同一活动会覆盖旧文档
// 页面上的id和行名可能重复,不参与ID计算
func (s *Section) ToDocuments(eventUrl string, sectionIndex int, scrapedAt time.Time) []*model.SeatDoc {
	docs := make([]*model.SeatDoc, 0, s.SeatCount())
	for r, row := range s.Rows {
		for i, seat := range row.Seats {
			key := fmt.Sprintf("%s|%d|%d|%d", eventUrl, sectionIndex, r, i)
			docs = append(docs, &model.SeatDoc{
				ID:          uuid.NewSHA1(uuid.NameSpaceURL, []byte(key)).String(),
				EventUrl:    eventUrl,
				SectionName: s.SectionName,
				SectionID:   s.SectionID,
				RowName:     row.RowName,
				SeatID:      seat.SeatID,
				SeatName:    seat.SeatName,
				Type:        seat.Type,
				Cx:          seat.Cx,
				Cy:          seat.Cy,
				R:           seat.R,
				Position:    i,
				ScrapedAt:   scrapedAt,
			})
		}
	}
	return docs
}

// SeatDocuments 展开所有区块
func SeatDocuments(eventUrl string, sections []Section, scrapedAt time.Time) []*model.SeatDoc {
	var docs []*model.SeatDoc
	for i := range sections {
		docs = append(docs, sections[i].ToDocuments(eventUrl, i, scrapedAt)...)
	}
	return docs
}
