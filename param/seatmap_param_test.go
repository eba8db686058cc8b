package param

import (
	"testing"
	"time"

	"github.com/LouYuanbo1/seatcrawler/internal/config"
	"github.com/stretchr/testify/require"
)

func validPoll() Scrape {
	return Scrape{
		Url:         "https://example.com/event",
		Strategy:    StrategyPoll,
		SvgSelector: "svg",
		Wait: Wait{
			Selector:      "circle",
			Threshold:     200,
			StableSamples: 20,
			PollInterval:  200 * time.Millisecond,
		},
	}
}

func TestScrapeIsValid(t *testing.T) {
	tests := []struct {
		name   string
		modify func(s *Scrape)
		want   bool
	}{
		{name: "valid poll", modify: func(s *Scrape) {}, want: true},
		{name: "valid settle", modify: func(s *Scrape) { s.Strategy = StrategySettle; s.Wait = Wait{} }, want: true},
		{name: "empty url", modify: func(s *Scrape) { s.Url = "" }, want: false},
		{name: "unknown strategy", modify: func(s *Scrape) { s.Strategy = "click" }, want: false},
		{name: "empty strategy", modify: func(s *Scrape) { s.Strategy = "" }, want: false},
		{name: "zero poll interval", modify: func(s *Scrape) { s.Wait.PollInterval = 0 }, want: false},
		{name: "empty seat selector", modify: func(s *Scrape) { s.Wait.Selector = "" }, want: false},
		{name: "negative stable samples", modify: func(s *Scrape) { s.Wait.StableSamples = -1 }, want: false},
		{name: "scroll ratio above one", modify: func(s *Scrape) { s.ScrollRatio = 1.5 }, want: false},
		{name: "no timeout is fine", modify: func(s *Scrape) { s.Wait.Timeout = -1 }, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := validPoll()
			tt.modify(&s)
			require.Equal(t, tt.want, s.IsValid())
		})
	}
}

func TestFromConfig(t *testing.T) {
	cfg, err := config.ParseConfig([]byte(`{output: {snapshot_path: "page.html"}}`))
	require.NoError(t, err)

	s := FromConfig(cfg)
	require.True(t, s.IsValid())
	require.Equal(t, StrategyPoll, s.Strategy)
	require.Equal(t, 200*time.Millisecond, s.Wait.PollInterval)
	require.Equal(t, 200, s.Wait.Threshold)
	require.Equal(t, 20, s.Wait.StableSamples)
	require.Equal(t, 30*time.Second, s.NavigateTimeout)
	require.Equal(t, 10*time.Second, s.SettleDelay)
	require.Equal(t, 0.5, s.ScrollRatio)
	require.Equal(t, "page.html", s.SnapshotPath)
}

func TestFromConfigSettleDefaults(t *testing.T) {
	cfg, err := config.ParseConfig([]byte(`{seatmap: {strategy: "settle"}}`))
	require.NoError(t, err)

	s := FromConfig(cfg)
	require.True(t, s.IsValid())
	require.Equal(t, 10*time.Second, s.SettleDelay)
	require.Equal(t, 0.5, s.ScrollRatio)
	require.Equal(t, 5*time.Second, s.ScrollDelay)
}

func TestFromConfigKeepsExplicitZero(t *testing.T) {
	cfg, err := config.ParseConfig([]byte(`{seatmap: {
		strategy: "settle",
		seat_threshold: 0,
		stable_samples: 0,
		settle_delay_seconds: 0,
		scroll_ratio: 0,
		scroll_delay_seconds: 0,
	}}`))
	require.NoError(t, err)

	s := FromConfig(cfg)
	require.True(t, s.IsValid())
	require.Zero(t, s.Wait.Threshold)
	require.Zero(t, s.Wait.StableSamples)
	require.Zero(t, s.SettleDelay)
	require.Zero(t, s.ScrollRatio)
	require.Zero(t, s.ScrollDelay)
}

func TestFromConfigUnfinalized(t *testing.T) {
	s := FromConfig(&config.Config{})
	require.Equal(t, config.DefaultSeatThreshold, s.Wait.Threshold)
	require.Equal(t, config.DefaultStableSamples, s.Wait.StableSamples)
	require.Equal(t, 10*time.Second, s.SettleDelay)
}
