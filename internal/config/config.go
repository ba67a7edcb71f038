package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config captures the settings required to boot the crash-stats web service.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Middleware MiddlewareConfig `yaml:"middleware"`
	Site       SiteConfig       `yaml:"site"`
	Logging    LoggingConfig    `yaml:"logging"`
	Cache      CacheConfig      `yaml:"cache"`
}

// ServerConfig controls HTTP listener behaviour.
type ServerConfig struct {
	Address         string        `yaml:"address"`
	MetricsAddress  string        `yaml:"metricsAddress"`
	ReadTimeout     time.Duration `yaml:"readTimeout"`
	WriteTimeout    time.Duration `yaml:"writeTimeout"`
	GracefulTimeout time.Duration `yaml:"gracefulTimeout"`
}

// MiddlewareConfig configures access to the aggregation/search service.
type MiddlewareConfig struct {
	BaseURL     string        `yaml:"baseURL"`
	Timeout     time.Duration `yaml:"timeout"`
	VersionsTTL time.Duration `yaml:"versionsTTL"`
}

// SiteConfig carries the static site settings the report handlers consume:
// the default product, the recognized operating systems, the bug-tracker
// product map, and VCS URL templates for dump source links.
type SiteConfig struct {
	DefaultProduct   string                       `yaml:"defaultProduct"`
	OperatingSystems []string                     `yaml:"operatingSystems"`
	BugProductMap    map[string]string            `yaml:"bugProductMap"`
	VCSMappings      map[string]map[string]string `yaml:"vcsMappings"`
}

// RecognizedOS reports whether name is one of the configured systems.
func (s SiteConfig) RecognizedOS(name string) bool {
	for _, os := range s.OperatingSystems {
		if os == name {
			return true
		}
	}
	return false
}

// LoggingConfig controls structured logging.
type LoggingConfig struct {
	Level string `yaml:"level"`
	JSON  bool   `yaml:"json"`
}

// CacheConfig controls Valkey-backed caching of the version table snapshot.
type CacheConfig struct {
	Enabled      bool          `yaml:"enabled"`
	Addr         string        `yaml:"addr"`
	Username     string        `yaml:"username"`
	Password     string        `yaml:"password"`
	DB           int           `yaml:"db"`
	DialTimeout  time.Duration `yaml:"dialTimeout"`
	ReadTimeout  time.Duration `yaml:"readTimeout"`
	WriteTimeout time.Duration `yaml:"writeTimeout"`
	MaxRetries   int           `yaml:"maxRetries"`
	TLS          bool          `yaml:"tls"`
}

// Load initialises Config from a YAML file and optional environment overrides.
func Load(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv("CRASHSTATS_CONFIG")
	}

	cfg := defaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("config file %s not found: %w", path, err)
			}
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	applyEnvOverrides(&cfg)
	return &cfg, nil
}

func defaultConfig() Config {
	return Config{
		Server: ServerConfig{
			Address:         ":8000",
			MetricsAddress:  ":2112",
			ReadTimeout:     5 * time.Second,
			WriteTimeout:    30 * time.Second,
			GracefulTimeout: 10 * time.Second,
		},
		Middleware: MiddlewareConfig{
			Timeout:     10 * time.Second,
			VersionsTTL: 5 * time.Minute,
		},
		Site: SiteConfig{
			DefaultProduct:   "Firefox",
			OperatingSystems: []string{"Windows", "Mac OS X", "Linux"},
			BugProductMap:    map[string]string{},
			VCSMappings: map[string]map[string]string{
				"hg": {
					"hg.mozilla.org": "https://hg.mozilla.org/{repo}/annotate/{revision}/{file}#l{line}",
				},
			},
		},
		Logging: LoggingConfig{Level: "info", JSON: false},
		Cache: CacheConfig{
			Enabled:      false,
			DialTimeout:  2 * time.Second,
			ReadTimeout:  500 * time.Millisecond,
			WriteTimeout: 500 * time.Millisecond,
			MaxRetries:   2,
		},
	}
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("CRASHSTATS_SERVER_ADDRESS"); v != "" {
		cfg.Server.Address = v
	}
	if v := os.Getenv("CRASHSTATS_METRICS_ADDRESS"); v != "" {
		cfg.Server.MetricsAddress = v
	}
	if v := os.Getenv("CRASHSTATS_MIDDLEWARE_BASE_URL"); v != "" {
		cfg.Middleware.BaseURL = v
	}
	if v := os.Getenv("CRASHSTATS_MIDDLEWARE_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Middleware.Timeout = d
		}
	}
	if v := os.Getenv("CRASHSTATS_MIDDLEWARE_VERSIONS_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Middleware.VersionsTTL = d
		}
	}
	if v := os.Getenv("CRASHSTATS_DEFAULT_PRODUCT"); v != "" {
		cfg.Site.DefaultProduct = v
	}
	if v := os.Getenv("CRASHSTATS_OPERATING_SYSTEMS"); v != "" {
		cfg.Site.OperatingSystems = splitAndTrim(v)
	}
	if v := os.Getenv("CRASHSTATS_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("CRASHSTATS_LOG_FORMAT"); v == "json" {
		cfg.Logging.JSON = true
	}
	if v := os.Getenv("CRASHSTATS_CACHE_ADDR"); v != "" {
		cfg.Cache.Addr = v
	}
	if v := os.Getenv("CRASHSTATS_CACHE_ENABLED"); v != "" {
		cfg.Cache.Enabled = strings.EqualFold(v, "true") || strings.EqualFold(v, "1")
	}
	if v := os.Getenv("CRASHSTATS_CACHE_USERNAME"); v != "" {
		cfg.Cache.Username = v
	}
	if v := os.Getenv("CRASHSTATS_CACHE_PASSWORD"); v != "" {
		cfg.Cache.Password = v
	}
	if v := os.Getenv("CRASHSTATS_CACHE_DB"); v != "" {
		if db, err := strconv.Atoi(v); err == nil {
			cfg.Cache.DB = db
		}
	}
	if v := os.Getenv("CRASHSTATS_CACHE_TLS"); strings.EqualFold(v, "true") || strings.EqualFold(v, "1") {
		cfg.Cache.TLS = true
	}
	if v := os.Getenv("CRASHSTATS_CACHE_MAX_RETRIES"); v != "" {
		if retry, err := strconv.Atoi(v); err == nil {
			cfg.Cache.MaxRetries = retry
		}
	}
}

func splitAndTrim(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
