package seatmap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/LouYuanbo1/seatcrawler/internal/domain/entity"
	"github.com/LouYuanbo1/seatcrawler/internal/infra/crawler/chrome"
	"github.com/LouYuanbo1/seatcrawler/internal/infra/export"
	"github.com/LouYuanbo1/seatcrawler/param"
)

var ErrInvalidParams = errors.New("抓取参数无效")

// Result 一次抓取的结果
// Wait 只在poll策略下有值
type Result struct {
	Sections  []entity.Section `json:"sections"`
	Wait      *WaitResult      `json:"wait,omitempty"`
	HTMLBytes int              `json:"html_bytes"`
}

// Seats 所有区块的座位总数
func (r *Result) Seats() int {
	n := 0
	for i := range r.Sections {
		n += r.Sections[i].SeatCount()
	}
	return n
}

type SeatmapService interface {
	Scrape(ctx context.Context, params *param.Scrape) (*Result, error)
}

type seatmapService struct {
	chromeCrawler chrome.ChromeCrawler
	exporter      export.Exporter
}

func InitSeatmapService(chromeCrawler chrome.ChromeCrawler, exporter export.Exporter) SeatmapService {
	return &seatmapService{
		chromeCrawler: chromeCrawler,
		exporter:      exporter,
	}
}

// Scrape 按顺序执行: 导航 -> 等待座位加载 -> 获取HTML -> 提取 -> 导出 -> 保存快照
// 导航失败直接返回错误,不会导出任何内容
func (ss *seatmapService) Scrape(ctx context.Context, params *param.Scrape) (*Result, error) {
	if params == nil || !params.IsValid() {
		return nil, ErrInvalidParams
	}
	slog.Info("开始抓取座位图", "url", params.Url, "strategy", params.Strategy)

	// settle策略的座位图可能要滚动后才挂载,导航时不等待svg
	waitSelector := params.SvgSelector
	if params.Strategy == param.StrategySettle {
		waitSelector = ""
	}
	if err := ss.chromeCrawler.InitAndNavigate(ctx, params.Url, waitSelector, params.NavigateTimeout); err != nil {
		return nil, fmt.Errorf("导航失败: %w", err)
	}
	slog.Info("导航成功", "wait_selector", waitSelector)

	result := &Result{}
	switch params.Strategy {
	case param.StrategyPoll:
		wait, err := WaitForSeats(ctx, ss.chromeCrawler, params.Wait)
		if err != nil {
			return nil, fmt.Errorf("等待座位加载失败: %w", err)
		}
		result.Wait = wait
	case param.StrategySettle:
		if err := ss.settle(ctx, params); err != nil {
			return nil, err
		}
	}

	html, err := ss.chromeCrawler.Content(ctx)
	if err != nil {
		return nil, fmt.Errorf("获取页面HTML失败: %w", err)
	}
	result.HTMLBytes = len(html)

	sections, err := Extract(html)
	if err != nil {
		return nil, fmt.Errorf("提取座位失败: %w", err)
	}
	result.Sections = sections
	slog.Info("座位提取完成", "sections", len(sections), "seats", result.Seats())

	if err := ss.exporter.Export(ctx, params.Url, sections); err != nil {
		return nil, fmt.Errorf("导出失败: %w", err)
	}

	// 快照只在导出成功后写入
	if params.SnapshotPath != "" {
		if err := export.WriteFileAtomic(params.SnapshotPath, []byte(html)); err != nil {
			slog.Warn("保存页面快照失败", "path", params.SnapshotPath, "err", err)
		} else {
			slog.Info("页面快照已保存", "path", params.SnapshotPath, "bytes", len(html))
		}
	}
	return result, nil
}

// settle 固定等待,滚动页面触发懒加载,再等待一次
func (ss *seatmapService) settle(ctx context.Context, params *param.Scrape) error {
	slog.Info("等待页面稳定", "delay", params.SettleDelay)
	if err := sleep(ctx, params.SettleDelay); err != nil {
		return err
	}
	if params.ScrollRatio > 0 {
		if err := ss.chromeCrawler.PerformScrolling(ctx, params.ScrollRatio); err != nil {
			return fmt.Errorf("滑动失败: %w", err)
		}
		slog.Debug("已滑动", "ratio", params.ScrollRatio)
	}
	return sleep(ctx, params.ScrollDelay)
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
