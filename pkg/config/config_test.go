package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeTempConfig(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(p, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return p
}

func TestLoadParsesYAML(t *testing.T) {
	p := writeTempConfig(t, `
storage:
  db_path: /tmp/kit.db
sync:
  base_url: https://api.example.com
  rps: 2.5
  burst: 4
writer:
  catalog_quiet_ms: 100
logging:
  level: debug
`)
	cfg, err := Load(p)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Storage.DBPath != "/tmp/kit.db" {
		t.Fatalf("db_path = %q", cfg.Storage.DBPath)
	}
	if cfg.Sync.BaseURL != "https://api.example.com" || cfg.Sync.RPS != 2.5 || cfg.Sync.Burst != 4 {
		t.Fatalf("sync = %+v", cfg.Sync)
	}
	if cfg.Writer.CatalogQuietMS != 100 {
		t.Fatalf("catalog_quiet_ms = %d", cfg.Writer.CatalogQuietMS)
	}
	if cfg.Logging.Level != "debug" {
		t.Fatalf("level = %q", cfg.Logging.Level)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestQuietIntervalDefaults(t *testing.T) {
	var cfg Config
	if got := cfg.CatalogQuiet(); got != DefaultCatalogQuietMS*time.Millisecond {
		t.Fatalf("CatalogQuiet default = %v", got)
	}
	if got := cfg.KitLogQuiet(); got != DefaultKitLogQuietMS*time.Millisecond {
		t.Fatalf("KitLogQuiet default = %v", got)
	}

	cfg.Writer.CatalogQuietMS = 100
	cfg.Writer.KitLogQuietMS = -1
	if got := cfg.CatalogQuiet(); got != 100*time.Millisecond {
		t.Fatalf("CatalogQuiet override = %v", got)
	}
	// a non-positive configured value falls back to the default
	if got := cfg.KitLogQuiet(); got != DefaultKitLogQuietMS*time.Millisecond {
		t.Fatalf("KitLogQuiet with negative value = %v", got)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("KITLOCAL_DB_PATH", "/data/kit")
	t.Setenv("KITLOCAL_SYNC_BASE_URL", "https://env.example.com")
	t.Setenv("KITLOCAL_SYNC_RPS", "7.5")
	t.Setenv("KITLOCAL_CATALOG_QUIET_MS", "50")
	t.Setenv("KITLOCAL_MAINTENANCE_ENABLED", "true")
	t.Setenv("KITLOCAL_LOG_LEVEL", "warn")

	var cfg Config
	if !LoadEnvOverrides(&cfg) {
		t.Fatal("expected env overrides to be reported as used")
	}
	if cfg.Storage.DBPath != "/data/kit" {
		t.Fatalf("db_path = %q", cfg.Storage.DBPath)
	}
	if cfg.Sync.BaseURL != "https://env.example.com" || cfg.Sync.RPS != 7.5 {
		t.Fatalf("sync = %+v", cfg.Sync)
	}
	if cfg.Writer.CatalogQuietMS != 50 {
		t.Fatalf("catalog_quiet_ms = %d", cfg.Writer.CatalogQuietMS)
	}
	if !cfg.Maintenance.Enabled {
		t.Fatal("maintenance should be enabled")
	}
	if cfg.Logging.Level != "warn" {
		t.Fatalf("level = %q", cfg.Logging.Level)
	}
}

func TestEnvOverridesIgnoreMalformedNumbers(t *testing.T) {
	t.Setenv("KITLOCAL_SYNC_RPS", "not-a-number")
	t.Setenv("KITLOCAL_CATALOG_QUIET_MS", "fast")

	var cfg Config
	LoadEnvOverrides(&cfg)
	if cfg.Sync.RPS != 0 || cfg.Writer.CatalogQuietMS != 0 {
		t.Fatalf("malformed values applied: %+v", cfg)
	}
}

func TestLoadEffectiveMissingFileStillAppliesEnv(t *testing.T) {
	t.Setenv("KITLOCAL_DB_PATH", "/env/db")
	cfg, envUsed, err := LoadEffective(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("LoadEffective: %v", err)
	}
	if !envUsed {
		t.Fatal("env overrides not reported")
	}
	if cfg.Storage.DBPath != "/env/db" {
		t.Fatalf("db_path = %q", cfg.Storage.DBPath)
	}
}

func TestResolveConfigPath(t *testing.T) {
	if got := ResolveConfigPath("/flag/cfg.yaml", true); got != "/flag/cfg.yaml" {
		t.Fatalf("flag-set path = %q", got)
	}
	t.Setenv("KITLOCAL_CONFIG", "/env/cfg.yaml")
	if got := ResolveConfigPath("/default/cfg.yaml", false); got != "/env/cfg.yaml" {
		t.Fatalf("env path = %q", got)
	}
	os.Unsetenv("KITLOCAL_CONFIG")
	if got := ResolveConfigPath("/default/cfg.yaml", false); got != "/default/cfg.yaml" {
		t.Fatalf("default path = %q", got)
	}
}
