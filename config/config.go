package config

import (
	"log"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the overall application configuration.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Sync       SyncConfig       `yaml:"sync"`
	Database   DatabaseConfig   `yaml:"database"`
	Push       PushConfig       `yaml:"push"`
	WorkerPool WorkerPoolConfig `yaml:"worker_pool"`
	Engine     EngineConfig     `yaml:"engine"`
}

// ServerConfig holds the server-related configuration.
type ServerConfig struct {
	Port            int     `yaml:"port"`
	RequestIPHeader string  `yaml:"request_ip_header"`
	RateLimitPerSec float64 `yaml:"rate_limit_per_sec"`
	CacheTTLSeconds int     `yaml:"cache_ttl_seconds"`
}

// SyncConfig holds the remote sheet-bridge configuration.
type SyncConfig struct {
	Enabled               bool              `yaml:"enabled"`
	BaseURL               string            `yaml:"base_url"`
	Headers               map[string]string `yaml:"headers"`
	RefreshSeconds        int               `yaml:"refresh_seconds"`
	RefreshInterval       time.Duration     `yaml:"-"` // Ignored by YAML parser
	OutboxIntervalSeconds int               `yaml:"outbox_interval_seconds"`
	OutboxInterval        time.Duration     `yaml:"-"`
}

// DatabaseConfig holds the database connection configuration.
type DatabaseConfig struct {
	DSN                    string `yaml:"dsn"`
	MaxOpenConns           int    `yaml:"max_open_conns"`
	MaxIdleConns           int    `yaml:"max_idle_conns"`
	ConnMaxLifetimeMinutes int    `yaml:"conn_max_lifetime_minutes"`
}

// PushConfig holds the VAPID keys for web push alert notifications.
type PushConfig struct {
	PublicKey  string `yaml:"vapid_public_key"`
	PrivateKey string `yaml:"vapid_private_key"`
	Subject    string `yaml:"subject"`
	TTL        int    `yaml:"ttl"`
}

// WorkerPoolConfig holds the configuration for the notification worker pool.
type WorkerPoolConfig struct {
	Size int `yaml:"size"`
}

// EngineConfig selects tunables for the consistency rules.
type EngineConfig struct {
	// MeterPolicy picks how per-tour run-hours are derived from the three
	// hour meters: "max3" (default) or "primary".
	MeterPolicy string `yaml:"meter_policy"`
}

// Load reads the configuration from the given path.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var cfg Config
	decoder := yaml.NewDecoder(f)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, err
	}

	if cfg.Sync.RefreshSeconds <= 0 {
		cfg.Sync.RefreshSeconds = 300
	}
	cfg.Sync.RefreshInterval = time.Duration(cfg.Sync.RefreshSeconds) * time.Second

	if cfg.Sync.OutboxIntervalSeconds <= 0 {
		cfg.Sync.OutboxIntervalSeconds = 15
	}
	cfg.Sync.OutboxInterval = time.Duration(cfg.Sync.OutboxIntervalSeconds) * time.Second

	if cfg.Push.TTL <= 0 {
		cfg.Push.TTL = 3600
	}

	if cfg.WorkerPool.Size <= 0 {
		log.Printf("worker_pool.size is not set or invalid; defaulting to 1")
		cfg.WorkerPool.Size = 1
	}

	if cfg.Engine.MeterPolicy == "" {
		cfg.Engine.MeterPolicy = "max3"
	}

	return &cfg, nil
}
