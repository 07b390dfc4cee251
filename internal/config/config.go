package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

type ServerConfig struct {
	Port int `toml:"port"`
}

type RegistryConfig struct {
	BaseURL         string `toml:"base_url"`
	CacheDir        string `toml:"cache_dir"`
	CacheMaxAgeDays int    `toml:"cache_max_age_days"`
	MaxCompanies    int    `toml:"max_companies"`
	UseRealData     bool   `toml:"use_real_data"`
}

type ISIRConfig struct {
	Enabled           bool    `toml:"enabled"`
	BaseURL           string  `toml:"base_url"`
	RequestsPerSecond float64 `toml:"requests_per_second"`
	Burst             int     `toml:"burst"`
	CacheTTLMinutes   int     `toml:"cache_ttl_minutes"`
}

type ForeignConfig struct {
	Enabled         bool   `toml:"enabled"`
	BaseURL         string `toml:"base_url"`
	CacheTTLMinutes int    `toml:"cache_ttl_minutes"`
}

type Config struct {
	Server   ServerConfig   `toml:"server"`
	Registry RegistryConfig `toml:"registry"`
	ISIR     ISIRConfig     `toml:"isir"`
	Foreign  ForeignConfig  `toml:"foreign"`
}

// Default returns the configuration used when no config file is present.
func Default() *Config {
	return &Config{
		Server: ServerConfig{Port: 8080},
		Registry: RegistryConfig{
			BaseURL:         "https://dataor.justice.cz/api/3/action",
			CacheDir:        "/var/cache/prepify/or-cache",
			CacheMaxAgeDays: 7,
			MaxCompanies:    1000,
		},
		ISIR: ISIRConfig{
			BaseURL:           "https://isir.justice.cz/isir/common/api/v1",
			RequestsPerSecond: 2,
			Burst:             2,
			CacheTTLMinutes:   24 * 60,
		},
		Foreign: ForeignConfig{
			BaseURL:         "https://api.opencorporates.com/v0.4",
			CacheTTLMinutes: 24 * 60,
		},
	}
}

// Load reads a TOML config file over the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file '%s': %w", path, err)
	}

	cfg := Default()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse TOML: %w", err)
	}
	return cfg, nil
}

// ApplyEnv overrides config fields from environment variables when set.
func (c *Config) ApplyEnv() {
	if port := os.Getenv("PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			c.Server.Port = p
		}
	}
	if v := os.Getenv("USE_REAL_DATA"); v != "" {
		c.Registry.UseRealData = isTruthy(v)
	}
	if dir := os.Getenv("OR_CACHE_DIR"); dir != "" {
		c.Registry.CacheDir = dir
	}
	if v := os.Getenv("MAX_COMPANIES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Registry.MaxCompanies = n
		}
	}
}

func isTruthy(v string) bool {
	switch strings.ToLower(v) {
	case "true", "1", "yes":
		return true
	}
	return false
}
