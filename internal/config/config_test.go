package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Server.Address != ":8000" {
		t.Errorf("Address = %q", cfg.Server.Address)
	}
	if cfg.Site.DefaultProduct != "Firefox" {
		t.Errorf("DefaultProduct = %q", cfg.Site.DefaultProduct)
	}
	if cfg.Middleware.VersionsTTL != 5*time.Minute {
		t.Errorf("VersionsTTL = %v", cfg.Middleware.VersionsTTL)
	}
	if cfg.Cache.Enabled {
		t.Error("cache enabled by default")
	}
}

func TestLoadYAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
server:
  address: ":9000"
middleware:
  baseURL: "http://middleware.internal:8080"
site:
  defaultProduct: Thunderbird
  operatingSystems:
    - Windows
    - Linux
logging:
  level: debug
  json: true
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Server.Address != ":9000" {
		t.Errorf("Address = %q", cfg.Server.Address)
	}
	if cfg.Middleware.BaseURL != "http://middleware.internal:8080" {
		t.Errorf("BaseURL = %q", cfg.Middleware.BaseURL)
	}
	if cfg.Site.DefaultProduct != "Thunderbird" {
		t.Errorf("DefaultProduct = %q", cfg.Site.DefaultProduct)
	}
	if !reflect.DeepEqual(cfg.Site.OperatingSystems, []string{"Windows", "Linux"}) {
		t.Errorf("OperatingSystems = %v", cfg.Site.OperatingSystems)
	}
	if !cfg.Logging.JSON || cfg.Logging.Level != "debug" {
		t.Errorf("logging = %+v", cfg.Logging)
	}
	// Unset sections keep their defaults.
	if cfg.Middleware.Timeout != 10*time.Second {
		t.Errorf("Timeout = %v, want default kept", cfg.Middleware.Timeout)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing config file")
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("CRASHSTATS_SERVER_ADDRESS", ":7777")
	t.Setenv("CRASHSTATS_DEFAULT_PRODUCT", "SeaMonkey")
	t.Setenv("CRASHSTATS_OPERATING_SYSTEMS", "Windows, Linux")
	t.Setenv("CRASHSTATS_MIDDLEWARE_TIMEOUT", "30s")
	t.Setenv("CRASHSTATS_CACHE_ENABLED", "true")
	t.Setenv("CRASHSTATS_CACHE_ADDR", "valkey:6379")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Server.Address != ":7777" {
		t.Errorf("Address = %q", cfg.Server.Address)
	}
	if cfg.Site.DefaultProduct != "SeaMonkey" {
		t.Errorf("DefaultProduct = %q", cfg.Site.DefaultProduct)
	}
	if !reflect.DeepEqual(cfg.Site.OperatingSystems, []string{"Windows", "Linux"}) {
		t.Errorf("OperatingSystems = %v", cfg.Site.OperatingSystems)
	}
	if cfg.Middleware.Timeout != 30*time.Second {
		t.Errorf("Timeout = %v", cfg.Middleware.Timeout)
	}
	if !cfg.Cache.Enabled || cfg.Cache.Addr != "valkey:6379" {
		t.Errorf("cache = %+v", cfg.Cache)
	}
}

func TestRecognizedOS(t *testing.T) {
	site := SiteConfig{OperatingSystems: []string{"Windows", "Mac OS X", "Linux"}}
	if !site.RecognizedOS("Mac OS X") {
		t.Error("Mac OS X should be recognized")
	}
	if site.RecognizedOS("BeOS") {
		t.Error("BeOS should not be recognized")
	}
	if site.RecognizedOS("") {
		t.Error("empty name should not be recognized")
	}
}
