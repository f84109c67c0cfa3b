// Package config loads server settings from the environment, an optional .env file
// and an optional config.yml.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

const (
	StorageSQLite = "sqlite"
	StorageMemory = "memory"
)

// Config holds the values handed to the stores, the photo gateway and the router.
type Config struct {
	ListenAddr        string `mapstructure:"LISTEN_ADDR"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	StorageType       string `mapstructure:"STORAGE_TYPE"`
	DataSourceName    string `mapstructure:"DATA_SOURCE_NAME"`
	SQLiteDriver      string `mapstructure:"SQLITE_DRIVER"`
	UnsplashAccessKey string `mapstructure:"UNSPLASH_ACCESS_KEY"`
	UnsplashBaseURL   string `mapstructure:"UNSPLASH_BASE_URL"`
	AllowedOrigins    string `mapstructure:"ALLOWED_ORIGINS"`
}

// Load reads config.yml from the working directory when present, then lets
// environment variables override every key.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yml")
	v.AddConfigPath(".")
	v.AutomaticEnv()

	v.SetDefault("LISTEN_ADDR", ":8000")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("STORAGE_TYPE", StorageSQLite)
	v.SetDefault("DATA_SOURCE_NAME", "data/posts.db")
	v.SetDefault("SQLITE_DRIVER", "sqlite")
	v.SetDefault("UNSPLASH_ACCESS_KEY", "")
	v.SetDefault("UNSPLASH_BASE_URL", "https://api.unsplash.com")
	v.SetDefault("ALLOWED_ORIGINS", "*")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	} else {
		logrus.WithField("file", v.ConfigFileUsed()).Info("Loaded config file")
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config into struct: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// Validate rejects settings the server cannot start with. A missing Unsplash key is
// allowed: discovery then answers 500 while the rest of the API works.
func (c *Config) Validate() error {
	if c.ListenAddr == "" {
		return errors.New("LISTEN_ADDR is required")
	}
	switch c.StorageType {
	case StorageSQLite:
		if c.DataSourceName == "" {
			return errors.New("DATA_SOURCE_NAME is required for sqlite storage")
		}
		switch c.SQLiteDriver {
		case "sqlite", "sqlite3":
		default:
			return fmt.Errorf("unsupported SQLITE_DRIVER %q", c.SQLiteDriver)
		}
	case StorageMemory:
	default:
		return fmt.Errorf("unsupported STORAGE_TYPE %q", c.StorageType)
	}
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}
	return nil
}

// Origins splits ALLOWED_ORIGINS on commas.
func (c *Config) Origins() []string {
	var origins []string
	for _, o := range strings.Split(c.AllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}
