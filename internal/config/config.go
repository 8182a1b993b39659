// Package config loads explorer configuration from a YAML file with
// environment variable expansion.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Page size bounds for the browse session.
const (
	MinPageSize = 5
	MaxPageSize = 50
)

type Config struct {
	API      APIConfig      `yaml:"api"`
	Cache    CacheConfig    `yaml:"cache"`
	Explorer ExplorerConfig `yaml:"explorer"`
	Batch    BatchConfig    `yaml:"batch"`
	Server   ServerConfig   `yaml:"server"`
	LogLevel string         `yaml:"log_level"`
}

type APIConfig struct {
	BaseURL   string        `yaml:"base_url"`
	UserAgent string        `yaml:"user_agent"`
	Timeout   time.Duration `yaml:"timeout"`
}

type CacheConfig struct {
	TTL time.Duration `yaml:"ttl"`

	// RedisAddr enables the shared Redis cache backend when set;
	// empty means the in-process store.
	RedisAddr     string `yaml:"redis_addr"`
	RedisPassword string `yaml:"redis_password"`
	RedisDB       int    `yaml:"redis_db"`
}

type ExplorerConfig struct {
	PageSize       int   `yaml:"page_size"`
	OnlyWithImages *bool `yaml:"only_with_images"`
}

// ImagesOnly resolves the OnlyWithImages flag (default true).
func (e ExplorerConfig) ImagesOnly() bool {
	return e.OnlyWithImages == nil || *e.OnlyWithImages
}

type BatchConfig struct {
	MaxConcurrency int `yaml:"max_concurrency"`
}

type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// Load reads the config file at path. A missing path is not an error;
// defaults apply. `${VAR}` references in the file are expanded from the
// environment (a .env file is honored when present).
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	var cfg Config

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}

		expanded := os.ExpandEnv(string(data))

		if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	cfg.setDefaults()

	return &cfg, nil
}

func (c *Config) setDefaults() {
	if c.API.BaseURL == "" {
		c.API.BaseURL = "https://collectionapi.metmuseum.org/public/collection/v1"
	}
	if c.API.UserAgent == "" {
		c.API.UserAgent = "met-explorer/1.0"
	}
	if c.API.Timeout == 0 {
		c.API.Timeout = 10 * time.Second
	}
	if c.Cache.TTL == 0 {
		c.Cache.TTL = 1 * time.Hour
	}
	if c.Explorer.PageSize == 0 {
		c.Explorer.PageSize = 20
	}
	if c.Explorer.PageSize < MinPageSize {
		c.Explorer.PageSize = MinPageSize
	}
	if c.Explorer.PageSize > MaxPageSize {
		c.Explorer.PageSize = MaxPageSize
	}
	if c.Batch.MaxConcurrency == 0 {
		c.Batch.MaxConcurrency = 5
	}
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
}
