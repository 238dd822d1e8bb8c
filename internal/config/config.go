package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// StoreConfig is the storefront identity.
type StoreConfig struct {
	Name      string `yaml:"name"`
	Address   string `yaml:"address"`
	MapsQuery string `yaml:"maps_query"`
	Timezone  string `yaml:"timezone"`
	Phone     string `yaml:"phone"`
	ShowPhone bool   `yaml:"show_phone"`
	WhatsApp  string `yaml:"whatsapp"`
}

type Config struct {
	Store     StoreConfig `yaml:"store"`
	HoursPath string      `yaml:"hours_path"`

	Server struct {
		Port           int      `yaml:"port"`
		AllowedOrigins []string `yaml:"allowed_origins"`
	} `yaml:"server"`

	Logging struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"logging"`

	Database struct {
		Path string `yaml:"path"`
	} `yaml:"database"`

	Backup struct {
		Enabled       bool   `yaml:"enabled"`
		IntervalHours int    `yaml:"interval_hours"`
		Path          string `yaml:"path"`
		RetentionDays int    `yaml:"retention_days"`
	} `yaml:"backup"`

	Redis struct {
		Address         string `yaml:"address"`
		Password        string `yaml:"password"`
		DB              int    `yaml:"db"`
		CacheTTLSeconds int    `yaml:"cache_ttl_seconds"`
	} `yaml:"redis"`

	Monitoring struct {
		HealthCheckPort   int  `yaml:"health_check_port"`
		PrometheusEnabled bool `yaml:"prometheus_enabled"`
		PrometheusPort    int  `yaml:"prometheus_port"`
	} `yaml:"monitoring"`

	Status struct {
		RefreshSeconds int `yaml:"refresh_seconds"`
	} `yaml:"status"`

	Telegram struct {
		Enabled           bool   `yaml:"enabled"`
		BotToken          string `yaml:"bot_token"`
		ChatID            int64  `yaml:"chat_id"`
		MessagesPerMinute int    `yaml:"messages_per_minute"`
	} `yaml:"telegram"`
}

// Load reads the YAML config at path, expanding ${ENV_VAR} placeholders.
func Load(path string) (*Config, error) {
	if path == "" {
		path = "configs/config.yaml"
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return Parse(data)
}

// Parse decodes raw YAML, applies defaults and validates the result.
func Parse(data []byte) (*Config, error) {
	data = []byte(os.ExpandEnv(string(data)))

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.HoursPath == "" {
		c.HoursPath = "configs/hours.yaml"
	}
	if c.Store.Timezone == "" {
		c.Store.Timezone = "Europe/Berlin"
	}
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Database.Path == "" {
		c.Database.Path = "data/kiosk.db"
	}
	if c.Backup.Path == "" {
		c.Backup.Path = "backups"
	}
	if c.Backup.IntervalHours <= 0 {
		c.Backup.IntervalHours = 24
	}
	if c.Backup.RetentionDays <= 0 {
		c.Backup.RetentionDays = 14
	}
	if c.Monitoring.HealthCheckPort == 0 {
		c.Monitoring.HealthCheckPort = 8090
	}
	if c.Monitoring.PrometheusPort == 0 {
		c.Monitoring.PrometheusPort = 9090
	}
	if c.Telegram.MessagesPerMinute <= 0 {
		c.Telegram.MessagesPerMinute = 6
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Store.Name) == "" {
		return fmt.Errorf("store.name is required")
	}
	if strings.TrimSpace(c.Store.Address) == "" {
		return fmt.Errorf("store.address is required")
	}
	if _, err := time.LoadLocation(c.Store.Timezone); err != nil {
		return fmt.Errorf("store.timezone: unknown zone '%s'", c.Store.Timezone)
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port: invalid port %d", c.Server.Port)
	}
	if c.Status.RefreshSeconds < 0 {
		return fmt.Errorf("status.refresh_seconds cannot be negative")
	}
	if c.Telegram.Enabled {
		if c.Telegram.BotToken == "" {
			return fmt.Errorf("telegram.bot_token is required when telegram is enabled")
		}
		if c.Telegram.ChatID == 0 {
			return fmt.Errorf("telegram.chat_id is required when telegram is enabled")
		}
	}
	return nil
}

// EnsureDirs creates the directories the database file lives in.
func (c *Config) EnsureDirs() error {
	return os.MkdirAll(filepath.Dir(c.Database.Path), 0o755)
}

// Location resolves the store timezone.
func (c *Config) Location() (*time.Location, error) {
	return time.LoadLocation(c.Store.Timezone)
}

// RefreshInterval is how often the status badge is re-evaluated.
func (c *Config) RefreshInterval() time.Duration {
	if c.Status.RefreshSeconds <= 0 {
		return 60 * time.Second
	}
	return time.Duration(c.Status.RefreshSeconds) * time.Second
}

// CacheTTL is the Redis TTL for cached preferences.
func (c *Config) CacheTTL() time.Duration {
	if c.Redis.CacheTTLSeconds <= 0 {
		return 24 * time.Hour
	}
	return time.Duration(c.Redis.CacheTTLSeconds) * time.Second
}

// BackupInterval is the delay between database backups.
func (c *Config) BackupInterval() time.Duration {
	return time.Duration(c.Backup.IntervalHours) * time.Hour
}
