package commands

import (
	"fmt"
	"log/slog"

	"github.com/LouYuanbo1/seatcrawler/internal/infra/crawler/collector"
	"github.com/LouYuanbo1/seatcrawler/internal/service/seatmap"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(fileCmd)
}

var fileCmd = &cobra.Command{
	Use:   "file <path-or-url>",
	Short: "Extract seats from a saved HTML snapshot (or a server-rendered page) without a browser.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		url, err := collector.ToURL(args[0])
		if err != nil {
			return fmt.Errorf("无效的路径 %s: %w", args[0], err)
		}
		collyCrawler, err := collector.InitCollyCrawler(appcfg)
		if err != nil {
			return fmt.Errorf("初始化Colly爬虫失败: %w", err)
		}
		exporter, err := buildExporter(appcfg)
		if err != nil {
			return err
		}

		result, err := seatmap.InitSnapshotService(collyCrawler, exporter).Import(cmd.Context(), url)
		if err != nil {
			return err
		}
		slog.Info("导入完成", "sections", len(result.Sections), "seats", result.Seats(), "out", appcfg.Output.JsonPath)
		return nil
	},
}
