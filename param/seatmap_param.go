package param

import (
	"time"

	"github.com/LouYuanbo1/seatcrawler/internal/config"
)

type Strategy string

const (
	// StrategyPoll 导航后轮询座位数量,直到加载完成、停滞或超时
	StrategyPoll Strategy = "poll"
	// StrategySettle 导航后固定等待,再滚动触发懒加载
	StrategySettle Strategy = "settle"
)

// Wait 座位加载检测参数
type Wait struct {
	Selector      string        `json:"selector"`
	Threshold     int           `json:"threshold"`
	StableSamples int           `json:"stable_samples"`
	PollInterval  time.Duration `json:"poll_interval"`
	// Timeout <= 0 表示不限制总等待时间
	Timeout time.Duration `json:"timeout"`
}

// Scrape 一次座位图抓取的全部参数
type Scrape struct {
	Url             string        `json:"url"`
	Strategy        Strategy      `json:"strategy"`
	SvgSelector     string        `json:"svg_selector"`
	NavigateTimeout time.Duration `json:"navigate_timeout"`
	SettleDelay     time.Duration `json:"settle_delay"`
	// ScrollRatio 滚动到页面高度的比例,0表示不滚动
	ScrollRatio  float64       `json:"scroll_ratio"`
	ScrollDelay  time.Duration `json:"scroll_delay"`
	Wait         Wait          `json:"wait"`
	SnapshotPath string        `json:"snapshot_path"`
}

func (s *Scrape) IsValid() bool {
	if s.Url == "" ||
		s.SvgSelector == "" ||
		s.NavigateTimeout < 0 ||
		s.SettleDelay < 0 ||
		s.ScrollDelay < 0 ||
		s.ScrollRatio < 0 || s.ScrollRatio > 1 {
		return false
	}
	switch s.Strategy {
	case StrategySettle:
		return true
	case StrategyPoll:
		return s.Wait.Selector != "" &&
			s.Wait.Threshold >= 0 &&
			s.Wait.StableSamples >= 0 &&
			s.Wait.PollInterval > 0
	default:
		return false
	}
}

// FromConfig 把配置转换成显式的抓取参数
// 配置中显式写成0的值原样保留
func FromConfig(cfg *config.Config) *Scrape {
	sm := cfg.Seatmap
	return &Scrape{
		Url:             sm.Url,
		Strategy:        Strategy(sm.Strategy),
		SvgSelector:     sm.SvgSelector,
		NavigateTimeout: time.Duration(sm.NavigateTimeoutSeconds) * time.Second,
		SettleDelay:     time.Duration(valueOr(sm.SettleDelaySeconds, config.DefaultSettleDelay)) * time.Second,
		ScrollRatio:     valueOr(sm.ScrollRatio, config.DefaultScrollRatio),
		ScrollDelay:     time.Duration(valueOr(sm.ScrollDelaySeconds, config.DefaultScrollDelay)) * time.Second,
		Wait: Wait{
			Selector:      sm.SeatSelector,
			Threshold:     valueOr(sm.SeatThreshold, config.DefaultSeatThreshold),
			StableSamples: valueOr(sm.StableSamples, config.DefaultStableSamples),
			PollInterval:  time.Duration(sm.PollIntervalMs) * time.Millisecond,
			Timeout:       time.Duration(sm.WaitTimeoutSeconds) * time.Second,
		},
		SnapshotPath: cfg.Output.SnapshotPath,
	}
}

// valueOr 未经finalize的配置里指针可能为nil
func valueOr[T any](p *T, def T) T {
	if p == nil {
		return def
	}
	return *p
}
