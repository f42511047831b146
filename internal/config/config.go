// internal/config/config.go
package config

import (
	"errors"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
type Config struct {
	LogLevel      string        `mapstructure:"LOG_LEVEL"`
	DBURL         string        `mapstructure:"DB_URL"`
	GithubToken   string        `mapstructure:"GITHUB_TOKEN"`
	HTTPAddr      string        `mapstructure:"HTTP_ADDR"`
	TopReposLimit int           `mapstructure:"TOP_REPOS_LIMIT"`
	SyncInterval  time.Duration `mapstructure:"SYNC_INTERVAL"`
}

// LoadConfig reads configuration from file and/or environment variables.
func LoadConfig() (*Config, error) {
	// Set default values
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("HTTP_ADDR", ":8080")
	viper.SetDefault("TOP_REPOS_LIMIT", 100)
	viper.SetDefault("SYNC_INTERVAL", "24h")

	// Load from .env file if it exists
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	_ = viper.ReadInConfig() // Ignore error if file not found

	// Bind environment variables
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	// Validate required fields. The GitHub token is optional: unauthenticated
	// requests work, just with a much lower rate limit.
	if cfg.DBURL == "" {
		return nil, errors.New("DB_URL is a required configuration field")
	}
	if cfg.TopReposLimit <= 0 || cfg.TopReposLimit > 100 {
		return nil, errors.New("TOP_REPOS_LIMIT must be between 1 and 100")
	}
	if cfg.SyncInterval <= 0 {
		return nil, errors.New("SYNC_INTERVAL must be a positive duration")
	}

	return &cfg, nil
}
