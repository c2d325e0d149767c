package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// DefaultPath is where the CLI looks for a config file.
const DefaultPath = "admit.yaml"

// Config holds all admitcast configuration.
type Config struct {
	// Core settings
	Name    string `yaml:"name"`
	Version string `yaml:"version"`

	// Gemini enrichment of the college catalog
	Gemini GeminiConfig `yaml:"gemini"`

	// Enrichment result cache
	Cache CacheConfig `yaml:"cache"`

	// HTTP surface
	Server ServerConfig `yaml:"server"`

	// Scripted assistant
	Chat ChatConfig `yaml:"chat"`

	// Scoring
	Predictor PredictorConfig `yaml:"predictor"`

	// Logging
	Logging LoggingConfig `yaml:"logging"`
}

// GeminiConfig configures the college statistics lookup.
type GeminiConfig struct {
	// APIKey is optional. Without it the static catalog is used as-is.
	APIKey  string `yaml:"api_key" env:"GEMINI_API_KEY"`
	Model   string `yaml:"model" env:"ADMIT_GEMINI_MODEL"`
	Timeout string `yaml:"timeout" env:"ADMIT_GEMINI_TIMEOUT"` // per lookup, "0" disables
}

// Cache backends.
const (
	CacheNone   = "none"
	CacheSQLite = "sqlite"
	CacheRedis  = "redis"
)

// CacheConfig configures where enrichment results are remembered.
type CacheConfig struct {
	Backend   string `yaml:"backend" env:"ADMIT_CACHE_BACKEND"` // none, sqlite, redis
	Path      string `yaml:"path" env:"ADMIT_CACHE_PATH"`       // sqlite file
	RedisAddr string `yaml:"redis_addr" env:"REDIS_ADDR"`
	TTL       string `yaml:"ttl" env:"ADMIT_CACHE_TTL"`
}

// ServerConfig configures `admit serve`.
type ServerConfig struct {
	Addr            string   `yaml:"addr" env:"ADMIT_ADDR"`
	AllowOrigins    []string `yaml:"allow_origins" env:"ADMIT_ALLOW_ORIGINS" envSeparator:","`
	ShutdownTimeout string   `yaml:"shutdown_timeout"`
}

// ChatConfig configures the scripted assistant.
type ChatConfig struct {
	ReplyDelay string `yaml:"reply_delay" env:"ADMIT_CHAT_DELAY"`
}

// PredictorConfig configures the random source. Seed 0 means unseeded.
type PredictorConfig struct {
	Seed int64 `yaml:"seed" env:"ADMIT_SEED"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Name:    "admitcast",
		Version: "0.3.0",

		Gemini: GeminiConfig{
			Model:   "gemini-2.5-flash",
			Timeout: "20s",
		},

		Cache: CacheConfig{
			Backend: CacheNone,
			Path:    ".admit/cache.db",
			TTL:     "168h",
		},

		Server: ServerConfig{
			Addr:            ":8080",
			AllowOrigins:    []string{"*"},
			ShutdownTimeout: "10s",
		},

		Chat: ChatConfig{
			ReplyDelay: "1s",
		},

		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
			File:   ".admit/admit.log",
		},
	}
}

// Load loads configuration from a YAML file, then applies environment
// overrides. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	if err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// applyEnvOverrides overwrites fields whose environment variable is set.
func (c *Config) applyEnvOverrides() error {
	if err := env.Parse(c); err != nil {
		return fmt.Errorf("failed to read environment: %w", err)
	}
	return nil
}

// EnrichmentEnabled reports whether a Gemini credential is configured.
func (c *Config) EnrichmentEnabled() bool {
	return strings.TrimSpace(c.Gemini.APIKey) != ""
}

// GetGeminiTimeout returns the per-lookup timeout. Zero means none.
func (c *Config) GetGeminiTimeout() time.Duration {
	return parseDuration(c.Gemini.Timeout, 20*time.Second)
}

// GetCacheTTL returns how long cached enrichment stays valid.
func (c *Config) GetCacheTTL() time.Duration {
	return parseDuration(c.Cache.TTL, 168*time.Hour)
}

// GetChatDelay returns the scripted reply delay.
func (c *Config) GetChatDelay() time.Duration {
	return parseDuration(c.Chat.ReplyDelay, time.Second)
}

// GetShutdownTimeout returns the server drain timeout.
func (c *Config) GetShutdownTimeout() time.Duration {
	return parseDuration(c.Server.ShutdownTimeout, 10*time.Second)
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil || d < 0 {
		return fallback
	}
	return d
}

// ValidCacheBackends lists the supported cache backends.
var ValidCacheBackends = []string{CacheNone, CacheSQLite, CacheRedis}

// Validate validates the configuration.
func (c *Config) Validate() error {
	validBackend := false
	for _, b := range ValidCacheBackends {
		if c.Cache.Backend == b {
			validBackend = true
			break
		}
	}
	if !validBackend {
		return fmt.Errorf("invalid cache backend: %s (valid: %v)", c.Cache.Backend, ValidCacheBackends)
	}
	if c.Cache.Backend == CacheSQLite && c.Cache.Path == "" {
		return fmt.Errorf("cache backend sqlite requires cache.path")
	}
	if c.Cache.Backend == CacheRedis && c.Cache.RedisAddr == "" {
		return fmt.Errorf("cache backend redis requires cache.redis_addr (or REDIS_ADDR)")
	}
	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr must not be empty")
	}
	return nil
}
