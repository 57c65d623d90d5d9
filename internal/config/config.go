// Package config handles wplan configuration.
package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ichigooo/workout-planner/internal/errors"
)

// APIConfig contains backend connection settings.
type APIConfig struct {
	BaseURL string `yaml:"base_url"`
	Token   string `yaml:"token,omitempty"` // falls back to WPLAN_API_TOKEN
}

// CacheConfig contains plan-item cache settings.
type CacheConfig struct {
	TTL       string `yaml:"ttl,omitempty"`        // e.g. "5m"
	DaysBack  int    `yaml:"days_back,omitempty"`  // window start offset
	DaysAhead int    `yaml:"days_ahead,omitempty"` // window end offset
}

// TemplatesConfig contains workout template import settings.
type TemplatesConfig struct {
	// Sources lists GitHub locations to import from, as "owner/repo" or
	// "owner/repo/path/to/template.yaml".
	Sources []string `yaml:"sources,omitempty"`
}

// Config represents the wplan configuration file.
type Config struct {
	Version   int             `yaml:"version"`
	PlanID    string          `yaml:"plan_id"`
	API       APIConfig       `yaml:"api"`
	Cache     CacheConfig     `yaml:"cache,omitempty"`
	Templates TemplatesConfig `yaml:"templates,omitempty"`
}

// Default values.
const (
	DefaultVersion  = 1
	DefaultCacheTTL = "5m"
)

// Load reads and validates config from the default location.
func Load() (*Config, error) {
	paths := NewPaths()
	return LoadFrom(paths.ConfigFile)
}

// LoadFrom reads and validates config from an explicit path.
func LoadFrom(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.ConfigNotFound(path)
		}
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.ConfigInvalid(err.Error())
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Save writes the config to the default location, creating the config
// directory if needed.
func (c *Config) Save() error {
	paths := NewPaths()
	return c.SaveTo(paths.ConfigDir, paths.ConfigFile)
}

// SaveTo writes the config to an explicit directory and file.
func (c *Config) SaveTo(dir, path string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) applyDefaults() {
	if c.Version == 0 {
		c.Version = DefaultVersion
	}
	if c.Cache.TTL == "" {
		c.Cache.TTL = DefaultCacheTTL
	}
}

// Validate checks required fields and value formats.
func (c *Config) Validate() error {
	if c.PlanID == "" {
		return errors.ConfigInvalid("plan_id is required")
	}
	if c.API.BaseURL == "" {
		return errors.ConfigInvalid("api.base_url is required")
	}
	if _, err := time.ParseDuration(c.Cache.TTL); err != nil {
		return errors.ConfigInvalid("cache.ttl must be a duration like 5m")
	}
	if c.Cache.DaysBack < 0 || c.Cache.DaysAhead < 0 {
		return errors.ConfigInvalid("cache window offsets must not be negative")
	}
	return nil
}

// CacheTTL returns the parsed cache TTL. Validate guarantees it parses.
func (c *Config) CacheTTL() time.Duration {
	d, _ := time.ParseDuration(c.Cache.TTL)
	return d
}

// APIToken returns the configured token, or the WPLAN_API_TOKEN environment
// variable when the file has none.
func (c *Config) APIToken() string {
	if c.API.Token != "" {
		return c.API.Token
	}
	return os.Getenv("WPLAN_API_TOKEN")
}
