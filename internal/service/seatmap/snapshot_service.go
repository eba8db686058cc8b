package seatmap

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/LouYuanbo1/seatcrawler/internal/infra/crawler/collector"
	"github.com/LouYuanbo1/seatcrawler/internal/infra/export"
)

// SnapshotService 不启动浏览器,直接从保存好的HTML(或服务端渲染的页面)提取座位
type SnapshotService interface {
	Import(ctx context.Context, url string) (*Result, error)
}

type snapshotService struct {
	collyCrawler collector.CollyCrawler
	exporter     export.Exporter
}

func InitSnapshotService(collyCrawler collector.CollyCrawler, exporter export.Exporter) SnapshotService {
	return &snapshotService{
		collyCrawler: collyCrawler,
		exporter:     exporter,
	}
}

func (ss *snapshotService) Import(ctx context.Context, url string) (*Result, error) {
	if url == "" {
		return nil, ErrInvalidParams
	}
	html, err := ss.collyCrawler.FetchHTML(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("读取页面失败: %w", err)
	}

	sections, err := Extract(html)
	if err != nil {
		return nil, fmt.Errorf("提取座位失败: %w", err)
	}
	result := &Result{Sections: sections, HTMLBytes: len(html)}
	slog.Info("座位提取完成", "url", url, "sections", len(sections), "seats", result.Seats())

	if err := ss.exporter.Export(ctx, url, sections); err != nil {
		return nil, fmt.Errorf("导出失败: %w", err)
	}
	return result, nil
}
