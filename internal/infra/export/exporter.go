package export

import (
	"context"

	"github.com/LouYuanbo1/seatcrawler/internal/domain/entity"
)

// Exporter 把一次抓取得到的座位图写到某个目标
type Exporter interface {
	Export(ctx context.Context, eventUrl string, sections []entity.Section) error
}
