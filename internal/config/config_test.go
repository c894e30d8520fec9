package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "input/decks", cfg.DeckDir)
	assert.Equal(t, 30, cfg.FPS)
	assert.Equal(t, 60, cfg.PresentFPS)
	assert.Zero(t, cfg.Quality)
	assert.True(t, cfg.StopAtPauses)
	assert.Zero(t, cfg.Workers)
	assert.NoError(t, cfg.Validate())
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PHENOMENON_FPS", "24")
	t.Setenv("PHENOMENON_WORKERS", "3")
	t.Setenv("PHENOMENON_STOP_AT_PAUSES", "false")
	t.Setenv("PHENOMENON_ENCODER", "h264_nvenc")
	t.Setenv("PHENOMENON_STATS", "true")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 24, cfg.FPS)
	assert.Equal(t, 3, cfg.Workers)
	assert.False(t, cfg.StopAtPauses)
	assert.Equal(t, "h264_nvenc", cfg.VideoEncoder)
	assert.True(t, cfg.ShowStats)
}

func TestLoadRejectsMalformedEnv(t *testing.T) {
	t.Setenv("PHENOMENON_FPS", "fast")
	_, err := Load()
	assert.ErrorContains(t, err, "parse env")
}

func TestValidate(t *testing.T) {
	base, err := Load()
	require.NoError(t, err)

	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"fps", func(c *Config) { c.FPS = 0 }, "fps 0"},
		{"present fps", func(c *Config) { c.PresentFPS = 1000 }, "present fps"},
		{"workers", func(c *Config) { c.Workers = -1 }, "workers"},
		{"dpi", func(c *Config) { c.DPI = 0 }, "dpi"},
		{"quality", func(c *Config) { c.Quality = -5 }, "quality"},
		{"log level", func(c *Config) { c.LogLevel = "loud" }, "log level"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := *base
			tt.mutate(&cfg)
			assert.ErrorContains(t, cfg.Validate(), tt.want)
		})
	}
}
