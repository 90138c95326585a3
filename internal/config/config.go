// Package config loads server settings from flags, PLATEPLAY_* environment
// variables and an optional config file.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/abrezinsky/plateplay/internal/logger"
)

// EnvPrefix is prepended to every environment variable, e.g. PLATEPLAY_PORT
const EnvPrefix = "PLATEPLAY"

// Config holds everything the server needs at startup
type Config struct {
	Port                  int           `mapstructure:"port"`
	DB                    string        `mapstructure:"db"`
	Owners                []string      `mapstructure:"owners"`
	LogLevel              string        `mapstructure:"log_level"`
	LogFormat             string        `mapstructure:"log_format"`
	BaseURL               string        `mapstructure:"base_url"`
	NATSURL               string        `mapstructure:"nats_url"`
	BackupInterval        time.Duration `mapstructure:"backup_interval"`
	BackupDir             string        `mapstructure:"backup_dir"`
	BackupS3Bucket        string        `mapstructure:"backup_s3_bucket"`
	BackupS3Region        string        `mapstructure:"backup_s3_region"`
	BackupS3Endpoint      string        `mapstructure:"backup_s3_endpoint"`
	BackupS3Key           string        `mapstructure:"backup_s3_key"`
	ReviewCleanupInterval time.Duration `mapstructure:"review_cleanup_interval"`
	NoKeyboard            bool          `mapstructure:"no_keyboard"`
}

// flagKeys maps command-line flag names to config keys
var flagKeys = map[string]string{
	"port":               "port",
	"db":                 "db",
	"owner":              "owners",
	"log-level":          "log_level",
	"log-format":         "log_format",
	"base-url":           "base_url",
	"nats-url":           "nats_url",
	"backup-interval":    "backup_interval",
	"backup-dir":         "backup_dir",
	"backup-s3-bucket":   "backup_s3_bucket",
	"backup-s3-region":   "backup_s3_region",
	"backup-s3-endpoint": "backup_s3_endpoint",
	"backup-s3-key":      "backup_s3_key",
	"no-keyboard":        "no_keyboard",
}

// SetDefaults registers every key so environment variables are picked up
// even when no flag or file mentions them
func SetDefaults(v *viper.Viper) {
	v.SetDefault("port", 8080)
	v.SetDefault("db", "plateplay.db")
	v.SetDefault("owners", []string{})
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", logger.FormatText)
	v.SetDefault("base_url", "")
	v.SetDefault("nats_url", "")
	v.SetDefault("backup_interval", "0s")
	v.SetDefault("backup_dir", "")
	v.SetDefault("backup_s3_bucket", "")
	v.SetDefault("backup_s3_region", "us-east-1")
	v.SetDefault("backup_s3_endpoint", "")
	v.SetDefault("backup_s3_key", "plateplay/boards.jsonl")
	v.SetDefault("review_cleanup_interval", "1h")
	v.SetDefault("no_keyboard", false)
}

// BindFlags binds any of cmd's flags that correspond to config keys
func BindFlags(v *viper.Viper, cmd *cobra.Command) error {
	for name, key := range flagKeys {
		f := cmd.Flags().Lookup(name)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return fmt.Errorf("bind flag %s: %w", name, err)
		}
	}
	return nil
}

// Load reads the config file (if given) and the environment into a Config
func Load(v *viper.Viper, cfgFile string) (*Config, error) {
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	decoderConfigOption := viper.DecoderConfigOption(func(dc *mapstructure.DecoderConfig) {
		dc.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		)
	})
	if err := v.Unmarshal(&cfg, decoderConfigOption); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	cfg.Owners = trimAll(cfg.Owners)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func trimAll(list []string) []string {
	out := list[:0]
	for _, s := range list {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// Validate checks ranges and combinations that cannot work
func (c *Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535, got %d", c.Port)
	}
	if strings.TrimSpace(c.DB) == "" {
		return fmt.Errorf("db path is required")
	}
	if c.BackupInterval < 0 {
		return fmt.Errorf("backup_interval must not be negative")
	}
	if c.BackupInterval > 0 && !c.HasBackupDestination() {
		return fmt.Errorf("backup_interval is set but neither backup_dir nor backup_s3_bucket is")
	}
	if c.ReviewCleanupInterval < 0 {
		return fmt.Errorf("review_cleanup_interval must not be negative")
	}
	switch strings.ToLower(c.LogFormat) {
	case logger.FormatText, logger.FormatJSON:
	default:
		return fmt.Errorf("log_format must be %q or %q", logger.FormatText, logger.FormatJSON)
	}
	return nil
}

// Addr is the listen address for the HTTP server
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

// HasBackupDestination reports whether any backup target is configured
func (c *Config) HasBackupDestination() bool {
	return c.BackupDir != "" || c.BackupS3Bucket != ""
}

// BackupEnabled reports whether periodic backups should run
func (c *Config) BackupEnabled() bool {
	return c.BackupInterval > 0 && c.HasBackupDestination()
}
