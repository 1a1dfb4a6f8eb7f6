package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	viper.Reset()

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yml"))
	require.NoError(t, err)

	assert.Equal(t, "ffmpeg", cfg.FFmpegPath)
	assert.Equal(t, "ffprobe", cfg.FFprobePath)
	assert.Equal(t, 3600, cfg.JobTimeoutSec)
	assert.True(t, cfg.EnableHWAccel)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 4, cfg.StderrTailKB)
	assert.Empty(t, cfg.WebhookURL)
}

func TestLoadConfigFromFile(t *testing.T) {
	viper.Reset()

	content := []byte(`
ffmpeg_path: /opt/ffmpeg/bin/ffmpeg
job_timeout_seconds: 120
enable_hw_accel: false
webhook_url: http://localhost:9000/hook
`)
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, content, 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "/opt/ffmpeg/bin/ffmpeg", cfg.FFmpegPath)
	assert.Equal(t, 120, cfg.JobTimeoutSec)
	assert.False(t, cfg.EnableHWAccel)
	assert.Equal(t, "http://localhost:9000/hook", cfg.WebhookURL)
	// Unset keys keep their defaults.
	assert.Equal(t, "ffprobe", cfg.FFprobePath)
}

func TestLoadConfigEnvOverride(t *testing.T) {
	viper.Reset()

	t.Setenv("FFTK_LOG_LEVEL", "debug")
	t.Setenv("FFTK_JOB_TIMEOUT_SECONDS", "42")

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yml"))
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 42, cfg.JobTimeoutSec)
}
