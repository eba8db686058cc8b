package config

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseConfigDefaults(t *testing.T) {
	cfg, err := ParseConfig([]byte(`{}`))
	require.NoError(t, err)

	require.Equal(t, DefaultUrl, cfg.Seatmap.Url)
	require.Equal(t, "poll", cfg.Seatmap.Strategy)
	require.Equal(t, "circle[data-component='svg__seat']", cfg.Seatmap.SeatSelector)
	require.Equal(t, 200, *cfg.Seatmap.SeatThreshold)
	require.Equal(t, 20, *cfg.Seatmap.StableSamples)
	require.Equal(t, 200, cfg.Seatmap.PollIntervalMs)
	require.Equal(t, "ticketmaster_seats.json", cfg.Output.JsonPath)
	require.Equal(t, "seatmap_seats", cfg.Elasticsearch.Index)
}

func TestParseConfigJson5(t *testing.T) {
	cfg, err := ParseConfig([]byte(`{
		// 注释
		seatmap: {
			url: "https://example.com/event/1",
			seat_threshold: 50,
			wait_timeout_seconds: -1,
		},
		rod: {user_data_dir: "data/rod", stealth: true},
	}`))
	require.NoError(t, err)

	require.Equal(t, "https://example.com/event/1", cfg.Seatmap.Url)
	require.Equal(t, 50, *cfg.Seatmap.SeatThreshold)
	require.Equal(t, -1, cfg.Seatmap.WaitTimeoutSeconds)
	require.True(t, cfg.Rod.Stealth)
	require.True(t, filepath.IsAbs(cfg.Rod.UserDataDir))
}

func TestParseConfigInvalid(t *testing.T) {
	_, err := ParseConfig([]byte(`{seatmap: `))
	require.Error(t, err)
}

func TestReadConfigLocalOverride(t *testing.T) {
	dir := t.TempDir()
	base := filepath.Join(dir, "appconfig.json")
	local := filepath.Join(dir, "appconfig.local.json")

	require.NoError(t, os.WriteFile(base, []byte(`{
		"seatmap": {"url": "https://example.com/a", "seat_threshold": 300},
		"output": {"json_path": "a.json"}
	}`), 0o644))
	require.NoError(t, os.WriteFile(local, []byte(`{
		"seatmap": {"url": "https://example.com/b"}
	}`), 0o644))

	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, nil)))
	t.Cleanup(func() { slog.SetDefault(prev) })

	cfg, err := ReadConfig(base)
	require.NoError(t, err)
	require.Contains(t, buf.String(), "msg=使用本地配置覆盖")
	require.Equal(t, "https://example.com/b", cfg.Seatmap.Url)
	require.Equal(t, 300, *cfg.Seatmap.SeatThreshold)
	require.Equal(t, "a.json", cfg.Output.JsonPath)
}

func TestReadConfigMissing(t *testing.T) {
	_, err := ReadConfig(filepath.Join(t.TempDir(), "nope.json"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestParseConfigExplicitZero(t *testing.T) {
	cfg, err := ParseConfig([]byte(`{seatmap: {seat_threshold: 0, stable_samples: 0, settle_delay_seconds: 0, scroll_ratio: 0}}`))
	require.NoError(t, err)

	require.Equal(t, 0, *cfg.Seatmap.SeatThreshold)
	require.Equal(t, 0, *cfg.Seatmap.StableSamples)
	require.Equal(t, 0, *cfg.Seatmap.SettleDelaySeconds)
	require.Equal(t, 0.0, *cfg.Seatmap.ScrollRatio)
	// 没写的字段仍然使用默认值
	require.Equal(t, DefaultScrollDelay, *cfg.Seatmap.ScrollDelaySeconds)
}

func TestReadConfigLocalOverrideToZero(t *testing.T) {
	dir := t.TempDir()
	base := filepath.Join(dir, "appconfig.json")
	local := filepath.Join(dir, "appconfig.local.json")

	require.NoError(t, os.WriteFile(base, []byte(`{"seatmap": {"seat_threshold": 300, "stable_samples": 20}}`), 0o644))
	require.NoError(t, os.WriteFile(local, []byte(`{"seatmap": {"seat_threshold": 0}}`), 0o644))

	cfg, err := ReadConfig(base)
	require.NoError(t, err)
	require.Equal(t, 0, *cfg.Seatmap.SeatThreshold)
	require.Equal(t, 20, *cfg.Seatmap.StableSamples)
}
