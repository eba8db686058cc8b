package commands

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/LouYuanbo1/seatcrawler/internal/config"
	"github.com/LouYuanbo1/seatcrawler/internal/domain/model"
	"github.com/LouYuanbo1/seatcrawler/internal/infra/crawler/chrome"
	"github.com/LouYuanbo1/seatcrawler/internal/infra/export"
	"github.com/LouYuanbo1/seatcrawler/internal/infra/persistence/es"
	"github.com/LouYuanbo1/seatcrawler/internal/service/seatmap"
	"github.com/LouYuanbo1/seatcrawler/param"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(rodCmd, chromedpCmd, playwrightCmd)
}

var rodCmd = &cobra.Command{
	Use:   "rod",
	Short: "Scrape with go-rod (optionally through a stealth page).",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runScrape(cmd.Context(), appcfg, func() (chrome.ChromeCrawler, error) {
			crawler, err := chrome.InitRodCrawler(appcfg)
			if err != nil {
				return nil, fmt.Errorf("初始化Rod爬虫失败: %w", err)
			}
			return crawler, nil
		})
	},
}

var chromedpCmd = &cobra.Command{
	Use:   "chromedp",
	Short: "Scrape with chromedp.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runScrape(cmd.Context(), appcfg, func() (chrome.ChromeCrawler, error) {
			return chrome.InitChromedpCrawler(cmd.Context(), appcfg), nil
		})
	},
}

var playwrightCmd = &cobra.Command{
	Use:   "playwright",
	Short: "Scrape with playwright (chromium).",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runScrape(cmd.Context(), appcfg, func() (chrome.ChromeCrawler, error) {
			crawler, err := chrome.InitPlaywrightCrawler(appcfg)
			if err != nil {
				return nil, fmt.Errorf("初始化Playwright爬虫失败: %w", err)
			}
			return crawler, nil
		})
	},
}

// buildExporter JSON文件总是输出,Elasticsearch按配置开启
// JSON最后写入,Elasticsearch失败时不会留下JSON文件
func buildExporter(cfg *config.Config) (export.Exporter, error) {
	var exporters []export.Exporter
	if cfg.Output.Elasticsearch {
		//运行前确保es服务启动完成
		esClient, err := es.InitTypedEsClient[*model.SeatDoc](cfg)
		if err != nil {
			return nil, err
		}
		exporters = append(exporters, export.InitEsExporter(esClient))
	}
	return export.InitMultiExporter(export.InitJsonFileExporter(cfg.Output.JsonPath), exporters...), nil
}

// runScrape 参数校验通过后才启动浏览器
func runScrape(ctx context.Context, cfg *config.Config, initCrawler func() (chrome.ChromeCrawler, error)) error {
	params := param.FromConfig(cfg)
	if !params.IsValid() {
		return fmt.Errorf("%w: url=%q strategy=%q", seatmap.ErrInvalidParams, params.Url, params.Strategy)
	}
	exporter, err := buildExporter(cfg)
	if err != nil {
		return err
	}

	crawler, err := initCrawler()
	if err != nil {
		return err
	}
	defer crawler.Close()

	t1 := time.Now()
	result, err := seatmap.InitSeatmapService(crawler, exporter).Scrape(ctx, params)
	if err != nil {
		return err
	}

	attrs := []any{
		"sections", len(result.Sections),
		"seats", result.Seats(),
		"html_bytes", result.HTMLBytes,
		"seconds", time.Since(t1).Seconds(),
	}
	if result.Wait != nil {
		attrs = append(attrs, "outcome", result.Wait.Outcome, "samples", result.Wait.Samples)
	}
	slog.Info("抓取完成", attrs...)
	return nil
}
