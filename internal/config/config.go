// File: internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type RuntimeConfig struct {
	Dev bool
}

type LogConfig struct {
	Level    string `yaml:"level"`    // trace|debug|info|warn|error
	Format   string `yaml:"format"`   // json|console
	Sampling bool   `yaml:"sampling"` // enable sampling in prod
}

type SearchAPIConfig struct {
	BaseURL      string        `yaml:"base_url"`       // e.g. http://localhost:8000
	MediaBaseURL string        `yaml:"media_base_url"` // e.g. http://localhost:8000/media
	Timeout      time.Duration `yaml:"timeout"`
}

type TrackerConfig struct {
	PollInterval time.Duration `yaml:"poll_interval"` // per-job poll period
	SyncInterval time.Duration `yaml:"sync_interval"` // list reconciliation period
	SettleDelay  time.Duration `yaml:"settle_delay"`  // delay before the post-failure sync pass
	StuckTimeout time.Duration `yaml:"stuck_timeout"` // non-terminal jobs older than this show as failed
}

type RedisConfig struct {
	URL      string `yaml:"url"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type WebConfig struct {
	Port       int           `yaml:"port"`
	APIKey     string        `yaml:"api_key"`
	JWTSecret  string        `yaml:"jwt_secret"`
	SessionTTL time.Duration `yaml:"session_ttl"`
	Lang       string        `yaml:"lang"` // en|ru, user-visible messages
}

type Config struct {
	Log       LogConfig       `yaml:"log"`
	SearchAPI SearchAPIConfig `yaml:"search_api"`
	Tracker   TrackerConfig   `yaml:"tracker"`
	Redis     RedisConfig     `yaml:"redis"`
	Web       WebConfig       `yaml:"web"`

	Runtime RuntimeConfig `yaml:"-"`
}

func LoadConfig(path string, dev bool) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	// defaults
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}
	if cfg.SearchAPI.Timeout <= 0 {
		cfg.SearchAPI.Timeout = 10 * time.Second
	}
	if cfg.Tracker.PollInterval <= 0 {
		cfg.Tracker.PollInterval = 2 * time.Second
	}
	if cfg.Tracker.SyncInterval <= 0 {
		cfg.Tracker.SyncInterval = 5 * time.Second
	}
	if cfg.Tracker.SettleDelay <= 0 {
		cfg.Tracker.SettleDelay = 500 * time.Millisecond
	}
	if cfg.Tracker.StuckTimeout <= 0 {
		cfg.Tracker.StuckTimeout = 15 * time.Minute
	}
	if cfg.Web.Port == 0 {
		cfg.Web.Port = 8080
	}
	if cfg.Web.SessionTTL <= 0 {
		cfg.Web.SessionTTL = 30 * time.Minute
	}
	if cfg.Web.Lang == "" {
		cfg.Web.Lang = "en"
	}

	// Minimal validation
	if cfg.SearchAPI.BaseURL == "" {
		return nil, errors.New("search_api.base_url is required")
	}
	if cfg.Redis.URL == "" {
		return nil, errors.New("redis.url is required")
	}

	cfg.Runtime.Dev = dev
	return &cfg, nil
}
