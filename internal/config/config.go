package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultCloudbedsBaseURL is the Cloudbeds API v1.1 root.
const DefaultCloudbedsBaseURL = "https://hotels.cloudbeds.com/api/v1.1"

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Cloudbeds CloudbedsConfig `yaml:"cloudbeds"`
	Database  DatabaseConfig  `yaml:"database"`
	Redis     RedisConfig     `yaml:"redis"`
	Auth      AuthConfig      `yaml:"auth"`
	Logging   LoggingConfig   `yaml:"logging"`
	Sync      SyncConfig      `yaml:"sync"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port int    `yaml:"port"`
	Host string `yaml:"host"`
}

// GetHost returns the server host, with container detection
func (c ServerConfig) GetHost() string {
	if os.Getenv("ECS_CONTAINER_METADATA_URI") != "" || os.Getenv("AWS_EXECUTION_ENV") != "" {
		return "0.0.0.0"
	}
	if host := os.Getenv("SERVER_HOST"); host != "" {
		return host
	}
	return c.Host
}

// CloudbedsConfig holds Cloudbeds API credentials and the property this
// deployment serves.
type CloudbedsConfig struct {
	BaseURL        string `yaml:"base_url"`
	APIKey         string `yaml:"api_key"`
	PropertyID     string `yaml:"property_id"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
	// MaxRetries bounds retries of a transient failure on one endpoint.
	// Negative disables retrying.
	MaxRetries int `yaml:"max_retries"`
}

// Timeout returns the configured timeout as a duration
func (c CloudbedsConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// DatabaseConfig holds the Postgres connection. An empty URL selects the
// in-memory store.
type DatabaseConfig struct {
	URL          string `yaml:"url"`
	MaxOpenConns int    `yaml:"max_open_conns"`
	MaxIdleConns int    `yaml:"max_idle_conns"`
}

// Driver names the storage backend selected by the config.
func (c DatabaseConfig) Driver() string {
	if c.URL == "" {
		return "memory"
	}
	return "postgres"
}

// RedisConfig holds the optional Redis connection used for the sync lock.
type RedisConfig struct {
	URL string `yaml:"url"`
}

// AuthConfig holds the operator token. Empty means no auth (dev mode).
type AuthConfig struct {
	AdminToken string `yaml:"admin_token"`
}

// LoggingConfig controls the structured logger.
type LoggingConfig struct {
	Level     string `yaml:"level"`
	RedactPII *bool  `yaml:"redact_pii"`
}

// ShouldRedactPII defaults to true when unset.
func (c LoggingConfig) ShouldRedactPII() bool {
	return c.RedactPII == nil || *c.RedactPII
}

// SyncConfig controls reservation pulls. An empty Schedule disables the
// in-process scheduler.
type SyncConfig struct {
	LockTTLSeconds int    `yaml:"lock_ttl_seconds"`
	Schedule       string `yaml:"schedule"`
}

// LockTTL returns how long a pull may hold the sync lock.
func (c SyncConfig) LockTTL() time.Duration {
	return time.Duration(c.LockTTLSeconds) * time.Second
}

// Load reads and parses the configuration file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	return &cfg, nil
}

func (cfg *Config) applyDefaults() {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.Host == "" {
		cfg.Server.Host = "localhost"
	}
	if cfg.Cloudbeds.BaseURL == "" {
		cfg.Cloudbeds.BaseURL = DefaultCloudbedsBaseURL
	}
	if cfg.Cloudbeds.TimeoutSeconds == 0 {
		cfg.Cloudbeds.TimeoutSeconds = 60
	}
	if cfg.Cloudbeds.MaxRetries == 0 {
		cfg.Cloudbeds.MaxRetries = 2
	}
	if cfg.Database.MaxOpenConns == 0 {
		cfg.Database.MaxOpenConns = 10
	}
	if cfg.Database.MaxIdleConns == 0 {
		cfg.Database.MaxIdleConns = 5
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Sync.LockTTLSeconds == 0 {
		cfg.Sync.LockTTLSeconds = 300
	}
}

// LoadFromEnv loads configuration with environment variable overrides.
// It loads a .env file (if present) before reading env vars, so secrets can
// live in .env locally and in real env vars in production. A missing config
// file is not an error: the defaults plus the environment are used.
func LoadFromEnv(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg, err := Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		cfg = &Config{}
		cfg.applyDefaults()
	} else if err != nil {
		return nil, err
	}

	if v := os.Getenv("CLOUDBEDS_BASE_URL"); v != "" {
		cfg.Cloudbeds.BaseURL = v
	}
	if v := os.Getenv("CLOUDBEDS_API_KEY"); v != "" {
		cfg.Cloudbeds.APIKey = v
	}
	if v := os.Getenv("CLOUDBEDS_PROPERTY_ID"); v != "" {
		cfg.Cloudbeds.PropertyID = v
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.Database.URL = v
	}
	if v := os.Getenv("REDIS_URL"); v != "" {
		cfg.Redis.URL = v
	}
	if v := os.Getenv("ADMIN_TOKEN"); v != "" {
		cfg.Auth.AdminToken = v
	}
	if v := os.Getenv("SYNC_SCHEDULE"); v != "" {
		cfg.Sync.Schedule = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}

	return cfg, nil
}
