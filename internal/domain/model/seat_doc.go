package model

import (
	"time"

	"github.com/elastic/go-elasticsearch/v9/typedapi/types"
)

// SeatDoc 扁平化后的单个座位,区块和排的信息冗余存储,方便按区块/排过滤
// 坐标保持页面上的原始字符串,不做数值转换
type SeatDoc struct {
	ID          string    `json:"id"`
	EventUrl    string    `json:"event_url"`
	SectionName *string   `json:"section_name"`
	SectionID   *string   `json:"section_id"`
	RowName     string    `json:"row_name"`
	SeatID      *string   `json:"seat_id"`
	SeatName    *string   `json:"seat_name"`
	Type        *string   `json:"type"`
	Cx          *string   `json:"cx"`
	Cy          *string   `json:"cy"`
	R           *string   `json:"r"`
	Position    int       `json:"position"`
	ScrapedAt   time.Time `json:"scraped_at"`
}

func (d *SeatDoc) GetID() string {
	return d.ID
}

func (*SeatDoc) GetTypeMapping() *types.TypeMapping {
	return &types.TypeMapping{
		Properties: map[string]types.Property{
			"id":           types.NewKeywordProperty(),
			"event_url":    types.NewKeywordProperty(),
			"section_name": types.NewKeywordProperty(),
			"section_id":   types.NewKeywordProperty(),
			"row_name":     types.NewKeywordProperty(),
			"seat_id":      types.NewKeywordProperty(),
			"seat_name":    types.NewKeywordProperty(),
			"type":         types.NewKeywordProperty(),
			"cx":           types.NewKeywordProperty(),
			"cy":           types.NewKeywordProperty(),
			"r":            types.NewKeywordProperty(),
			"position":     types.NewIntegerNumberProperty(),
			"scraped_at":   types.NewDateProperty(),
		},
	}
}
