package export

import (
	"context"

	"github.com/LouYuanbo1/seatcrawler/internal/domain/entity"
	"golang.org/x/sync/errgroup"
)

type multiExporter struct {
	final  Exporter
	others []Exporter
}

// InitMultiExporter others并发写入,全部成功后才写final
// 任一目标失败时final不会被调用,JSON文件作为final时不会留下部分结果
// 没有others时直接返回final
func InitMultiExporter(final Exporter, others ...Exporter) Exporter {
	if len(others) == 0 {
		return final
	}
	return &multiExporter{final: final, others: others}
}

func (me *multiExporter) Export(ctx context.Context, eventUrl string, sections []entity.Section) error {
	g, gCtx := errgroup.WithContext(ctx)
	for _, exporter := range me.others {
		g.Go(func() error {
			return exporter.Export(gCtx, eventUrl, sections)
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	return me.final.Export(ctx, eventUrl, sections)
}
