package config

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Quiet-interval defaults (milliseconds). Tuning knobs, not correctness.
const (
	DefaultCatalogQuietMS = 250
	DefaultKitLogQuietMS  = 450
)

type Config struct {
	Storage struct {
		DBPath string `yaml:"db_path"`
	} `yaml:"storage"`
	Secrets struct {
		// Path of the legacy encrypted secret file; empty disables Pass B.
		Path          string `yaml:"path"`
		MasterKeyFile string `yaml:"master_key_file"`
	} `yaml:"secrets"`
	Sync struct {
		BaseURL string  `yaml:"base_url"`
		APIKey  string  `yaml:"api_key"`
		RPS     float64 `yaml:"rps"`
		Burst   int     `yaml:"burst"`
	} `yaml:"sync"`
	Writer struct {
		CatalogQuietMS int `yaml:"catalog_quiet_ms"`
		KitLogQuietMS  int `yaml:"kitlog_quiet_ms"`
	} `yaml:"writer"`
	Maintenance struct {
		Enabled bool   `yaml:"enabled"`
		Cron    string `yaml:"cron"`
	} `yaml:"maintenance"`
	Logging struct {
		Level string `yaml:"level"`
	} `yaml:"logging"`
}

// CatalogQuiet returns the catalog debounce interval with the default applied.
func (c *Config) CatalogQuiet() time.Duration {
	ms := c.Writer.CatalogQuietMS
	if ms <= 0 {
		ms = DefaultCatalogQuietMS
	}
	return time.Duration(ms) * time.Millisecond
}

// KitLogQuiet returns the kit log debounce interval with the default applied.
func (c *Config) KitLogQuiet() time.Duration {
	ms := c.Writer.KitLogQuietMS
	if ms <= 0 {
		ms = DefaultKitLogQuietMS
	}
	return time.Duration(ms) * time.Millisecond
}

func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config file not found: %s", path)
		}
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ParseCommandFlags defines and parses command-line flags and returns their
// values along with a map indicating which flags were explicitly set.
func ParseCommandFlags() (dbPath string, cfgPath string, setFlags map[string]bool) {
	dbPtr := flag.String("db", "./.kitlocal", "Pebble DB path")
	cfgPtr := flag.String("config", "./config.yaml", "Path to config file")
	flag.Parse()
	setFlags = map[string]bool{}
	flag.Visit(func(f *flag.Flag) { setFlags[f.Name] = true })
	return *dbPtr, *cfgPtr, setFlags
}

// LoadEnvOverrides applies environment overrides onto the provided cfg and
// reports whether any env vars were used.
func LoadEnvOverrides(cfg *Config) bool {
	envUsed := false

	if v := os.Getenv("KITLOCAL_DB_PATH"); v != "" {
		envUsed = true
		cfg.Storage.DBPath = v
	}
	if v := os.Getenv("KITLOCAL_SECRETS_PATH"); v != "" {
		envUsed = true
		cfg.Secrets.Path = v
	}
	if v := os.Getenv("KITLOCAL_SECRETS_MASTER_KEY_FILE"); v != "" {
		envUsed = true
		cfg.Secrets.MasterKeyFile = v
	}
	if v := os.Getenv("KITLOCAL_SYNC_BASE_URL"); v != "" {
		envUsed = true
		cfg.Sync.BaseURL = v
	}
	if v := os.Getenv("KITLOCAL_SYNC_API_KEY"); v != "" {
		envUsed = true
		cfg.Sync.APIKey = v
	}
	if v := os.Getenv("KITLOCAL_SYNC_RPS"); v != "" {
		if f, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
			envUsed = true
			cfg.Sync.RPS = f
		}
	}
	if v := os.Getenv("KITLOCAL_SYNC_BURST"); v != "" {
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			envUsed = true
			cfg.Sync.Burst = n
		}
	}
	if v := os.Getenv("KITLOCAL_CATALOG_QUIET_MS"); v != "" {
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			envUsed = true
			cfg.Writer.CatalogQuietMS = n
		}
	}
	if v := os.Getenv("KITLOCAL_KITLOG_QUIET_MS"); v != "" {
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			envUsed = true
			cfg.Writer.KitLogQuietMS = n
		}
	}
	if v := os.Getenv("KITLOCAL_MAINTENANCE_ENABLED"); v != "" {
		envUsed = true
		vl := strings.ToLower(strings.TrimSpace(v))
		cfg.Maintenance.Enabled = vl == "1" || vl == "true" || vl == "yes"
	}
	if v := os.Getenv("KITLOCAL_MAINTENANCE_CRON"); v != "" {
		envUsed = true
		cfg.Maintenance.Cron = v
	}
	if v := os.Getenv("KITLOCAL_LOG_LEVEL"); v != "" {
		envUsed = true
		cfg.Logging.Level = v
	}
	return envUsed
}

// LoadEffective loads config from the given path (file) and applies
// environment overrides. A missing file is not fatal; env and defaults still
// apply.
func LoadEffective(path string) (*Config, bool, error) {
	cfg, err := Load(path)
	if err != nil {
		cfg = &Config{}
	}
	envUsed := LoadEnvOverrides(cfg)
	return cfg, envUsed, nil
}

// ResolveConfigPath decides the config file path using the flag-provided value
// and the environment variable `KITLOCAL_CONFIG` when the flag was not set.
func ResolveConfigPath(flagPath string, flagSet bool) string {
	if flagSet {
		return flagPath
	}
	if p := os.Getenv("KITLOCAL_CONFIG"); p != "" {
		return p
	}
	return flagPath
}
