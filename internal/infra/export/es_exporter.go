package export

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/LouYuanbo1/seatcrawler/internal/domain/entity"
	"github.com/LouYuanbo1/seatcrawler/internal/domain/model"
	"github.com/LouYuanbo1/seatcrawler/internal/infra/persistence/es"
	"github.com/elastic/go-elasticsearch/v9/typedapi/types"
)

type esExporter struct {
	client es.TypedEsClient[*model.SeatDoc]
	now    func() time.Time
}

// InitEsExporter 每个座位写成一条文档
func InitEsExporter(client es.TypedEsClient[*model.SeatDoc]) Exporter {
	return &esExporter{client: client, now: time.Now}
}

func (ee *esExporter) Export(ctx context.Context, eventUrl string, sections []entity.Section) error {
	if err := ee.client.CreateIndexWithMapping(ctx); err != nil {
		return err
	}
	docs := entity.SeatDocuments(eventUrl, sections, ee.now().UTC())
	if len(docs) == 0 {
		slog.Warn("没有座位可以写入Elasticsearch", "url", eventUrl)
		return nil
	}
	if err := ee.client.BulkIndexDocsWithID(ctx, docs); err != nil {
		return fmt.Errorf("写入Elasticsearch失败: %w", err)
	}

	count, err := ee.client.CountDocs(ctx, &types.Query{
		Term: map[string]types.TermQuery{
			"event_url": {Value: eventUrl},
		},
	})
	if err != nil {
		slog.Warn("统计已写入座位失败", "err", err)
		return nil
	}
	slog.Info("座位已写入Elasticsearch", "index", ee.client.Index(), "seats", len(docs), "event_total", count)
	return nil
}
