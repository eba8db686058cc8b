package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/LouYuanbo1/seatcrawler/internal/config"
	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"
)

var (
	defaultConfig []byte
	appcfg        *config.Config

	configPath   *string
	urlFlag      *string
	outFlag      *string
	strategyFlag *string
	snapshotFlag *string
	esFlag       *bool
	verboseFlag  *bool
)

var rootCmd = &cobra.Command{
	Use:   "seatcrawler",
	Short: "seatcrawler scrapes the seat map of an event page and exports seat geometry.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		initSlog(*verboseFlag)

		cfg, err := loadConfig()
		if err != nil {
			return fmt.Errorf("读取配置失败: %w", err)
		}
		applyFlags(cmd, cfg)
		appcfg = cfg
		return nil
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	flags := rootCmd.PersistentFlags()
	configPath = flags.String("config", "", "Config file (json5); <name>.local.<ext> next to it overrides fields. Defaults to the embedded config.")
	urlFlag = flags.String("url", "", "Event page to scrape.")
	outFlag = flags.StringP("out", "o", "", "Path of the JSON output file.")
	strategyFlag = flags.String("strategy", "", "Load strategy: poll or settle.")
	snapshotFlag = flags.String("snapshot", "", "Also save the rendered HTML to this path.")
	esFlag = flags.Bool("es", false, "Also index every seat into Elasticsearch.")
	verboseFlag = flags.BoolP("verbose", "v", false, "Enable debug logging.")
}

func initSlog(verbose bool) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      level,
		TimeFormat: time.Kitchen,
	}))
	slog.SetDefault(logger)
}

func loadConfig() (*config.Config, error) {
	if *configPath != "" {
		return config.ReadConfig(*configPath)
	}
	return config.ParseConfig(defaultConfig)
}

// applyFlags 命令行参数优先于配置文件
func applyFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("url") {
		cfg.Seatmap.Url = *urlFlag
	}
	if flags.Changed("out") {
		cfg.Output.JsonPath = *outFlag
	}
	if flags.Changed("strategy") {
		cfg.Seatmap.Strategy = *strategyFlag
	}
	if flags.Changed("snapshot") {
		cfg.Output.SnapshotPath = *snapshotFlag
	}
	if flags.Changed("es") {
		cfg.Output.Elasticsearch = *esFlag
	}
}

func ExecuteContext(ctx context.Context, appConfig []byte) {
	if err := execute(ctx, appConfig); err != nil {
		os.Exit(1)
	}
}

// execute 运行命令,失败时记录日志后返回错误
func execute(ctx context.Context, appConfig []byte) error {
	defaultConfig = appConfig
	err := rootCmd.ExecuteContext(ctx)
	if err != nil {
		slog.Error("运行失败", "err", err)
	}
	return err
}
