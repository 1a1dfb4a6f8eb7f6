package config

import (
	"strings"

	"github.com/spf13/viper"
)

// Config holds all the settings for the toolkit.
type Config struct {
	FFmpegPath    string `mapstructure:"ffmpeg_path"`
	FFprobePath   string `mapstructure:"ffprobe_path"`
	JobTimeoutSec int    `mapstructure:"job_timeout_seconds"`
	EnableHWAccel bool   `mapstructure:"enable_hw_accel"`
	LogLevel      string `mapstructure:"log_level"`
	WebhookURL    string `mapstructure:"webhook_url"`

	// Size of the captured stderr tail attached to failure results, in KiB.
	StderrTailKB int `mapstructure:"stderr_tail_kb"`
}

// LoadConfig initializes Viper and merges all config sources.
func LoadConfig(path string) (*Config, error) {
	// 1. Set Defaults
	viper.SetDefault("ffmpeg_path", "ffmpeg")
	viper.SetDefault("ffprobe_path", "ffprobe")
	viper.SetDefault("job_timeout_seconds", 3600)
	viper.SetDefault("enable_hw_accel", true)
	viper.SetDefault("log_level", "info")
	viper.SetDefault("stderr_tail_kb", 4)

	// 2. Read from File
	viper.SetConfigFile(path)
	viper.SetConfigType("yaml")

	if err := viper.ReadInConfig(); err != nil {
		// It's okay if the config file is missing; we might use Env vars.
	}

	viper.SetEnvPrefix("FFTK")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	var cfg Config
	err := viper.Unmarshal(&cfg)
	return &cfg, err
}
