package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"dario.cat/mergo"
	"github.com/titanous/json5"
)

// 配置缺省时使用的默认值
const (
	DefaultUrl             = "https://www.ticketmaster.co.uk/foo-fighters-hospitality-liverpool-27-06-2026/event/3E00636CCF0072C1"
	DefaultStrategy        = "poll"
	DefaultSvgSelector     = "svg"
	DefaultSeatSelector    = "circle[data-component='svg__seat']"
	DefaultSeatThreshold   = 200
	DefaultStableSamples   = 20
	DefaultPollIntervalMs  = 200
	DefaultWaitTimeout     = 120
	DefaultSettleDelay     = 10
	DefaultScrollRatio     = 0.5
	DefaultScrollDelay     = 5
	DefaultNavigateTimeout = 30
	DefaultJsonPath        = "ticketmaster_seats.json"
	DefaultIndex           = "seatmap_seats"
)

// ParseConfig 解析配置内容,支持json5语法(注释、尾逗号)
func ParseConfig(byteConfig []byte) (*Config, error) {
	var cfg Config
	err := json5.Unmarshal(byteConfig, &cfg)
	if err != nil {
		return nil, err
	}
	if err := finalize(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ReadConfig 读取配置文件,如果存在 <name>.local.<ext> 则用它覆盖同名字段
// 例如 appconfig.json 与 appconfig.local.json
func ReadConfig(name string) (*Config, error) {
	var cfg Config

	data, err := os.ReadFile(name)
	if err != nil {
		return nil, err
	}
	if err := json5.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("解析配置文件失败 %s: %w", name, err)
	}

	localPath := localName(name)
	localData, err := os.ReadFile(localPath)
	if err != nil && !os.IsNotExist(err) {
		return nil, err
	}
	if len(localData) > 0 {
		var override Config
		if err := json5.Unmarshal(localData, &override); err != nil {
			return nil, fmt.Errorf("解析配置文件失败 %s: %w", localPath, err)
		}
		// mergo只会用非零值覆盖,布尔值无法被覆盖成false
		// WithoutDereference 让显式写成0的指针字段也能覆盖
		if err := mergo.Merge(&cfg, override, mergo.WithOverride, mergo.WithoutDereference); err != nil {
			return nil, err
		}
		slog.Info("使用本地配置覆盖", "local", localPath)
	}

	if err := finalize(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func localName(name string) string {
	ext := filepath.Ext(name)
	return strings.TrimSuffix(name, ext) + ".local" + ext
}

func finalize(cfg *Config) error {
	for _, dir := range []*string{&cfg.Chromedp.UserDataDir, &cfg.Rod.UserDataDir} {
		if *dir == "" {
			continue
		}
		absPath, err := filepath.Abs(*dir)
		if err != nil {
			return err
		}
		*dir = absPath
	}

	sm := &cfg.Seatmap
	if sm.Url == "" {
		sm.Url = DefaultUrl
	}
	if sm.Strategy == "" {
		sm.Strategy = DefaultStrategy
	}
	if sm.SvgSelector == "" {
		sm.SvgSelector = DefaultSvgSelector
	}
	if sm.SeatSelector == "" {
		sm.SeatSelector = DefaultSeatSelector
	}
	if sm.SeatThreshold == nil {
		sm.SeatThreshold = ptr(DefaultSeatThreshold)
	}
	if sm.StableSamples == nil {
		sm.StableSamples = ptr(DefaultStableSamples)
	}
	if sm.SettleDelaySeconds == nil {
		sm.SettleDelaySeconds = ptr(DefaultSettleDelay)
	}
	if sm.ScrollRatio == nil {
		sm.ScrollRatio = ptr(DefaultScrollRatio)
	}
	if sm.ScrollDelaySeconds == nil {
		sm.ScrollDelaySeconds = ptr(DefaultScrollDelay)
	}
	if sm.PollIntervalMs <= 0 {
		sm.PollIntervalMs = DefaultPollIntervalMs
	}
	if sm.WaitTimeoutSeconds == 0 {
		sm.WaitTimeoutSeconds = DefaultWaitTimeout
	}
	if sm.NavigateTimeoutSeconds <= 0 {
		sm.NavigateTimeoutSeconds = DefaultNavigateTimeout
	}
	if cfg.Output.JsonPath == "" {
		cfg.Output.JsonPath = DefaultJsonPath
	}
	if cfg.Elasticsearch.Index == "" {
		cfg.Elasticsearch.Index = DefaultIndex
	}
	if cfg.Chromedp.LifeTime <= 0 {
		cfg.Chromedp.LifeTime = 600
	}
	return nil
}

func ptr[T any](v T) *T {
	return &v
}
