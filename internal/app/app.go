// Package app is the composition root. It owns the single store handle and
// wires config, migration, reconciliation and the maintenance scheduler; the
// UI layer asks it for a Session after sign-in.
package app

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/joho/godotenv"

	"kitlocal/pkg/chat"
	"kitlocal/pkg/config"
	"kitlocal/pkg/keys"
	"kitlocal/pkg/logger"
	"kitlocal/pkg/maintenance"
	"kitlocal/pkg/migrate"
	"kitlocal/pkg/remote"
	"kitlocal/pkg/secrets"
	"kitlocal/pkg/store"
)

type App struct {
	cfg       *config.Config
	store     *store.Store
	secrets   *secrets.FileStore
	engine    *migrate.Engine
	remote    *remote.Client
	overrides *chat.Overrides

	mu       sync.Mutex
	sessions map[*Session]struct{}

	cancelMaint context.CancelFunc
}

// New loads configuration and constructs the application's shared
// components. The store opens lazily on first use.
func New(cfgPath string) (*App, error) {
	_ = godotenv.Load(".env")

	cfg, envUsed, err := config.LoadEffective(cfgPath)
	if err != nil {
		return nil, err
	}
	logger.InitWithLevel(cfg.Logging.Level)
	logger.Info("config_loaded", "path", cfgPath, "env_used", envUsed)

	if cfg.Storage.DBPath == "" {
		cfg.Storage.DBPath = "./.kitlocal"
	}

	a := &App{
		cfg:       cfg,
		store:     store.New(cfg.Storage.DBPath),
		overrides: chat.NewOverrides(),
		sessions:  map[*Session]struct{}{},
	}

	if cfg.Secrets.Path != "" {
		key, err := readMasterKey(cfg.Secrets.MasterKeyFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read secrets master key: %w", err)
		}
		ss, err := secrets.Open(context.Background(), cfg.Secrets.Path, key)
		if err != nil {
			return nil, fmt.Errorf("failed to open legacy secret store: %w", err)
		}
		a.secrets = ss
	}
	a.engine = migrate.New(a.store, secretStoreOrNil(a.secrets))

	if cfg.Sync.BaseURL != "" {
		a.remote = remote.New(cfg.Sync.BaseURL, cfg.Sync.APIKey, cfg.Sync.RPS, cfg.Sync.Burst)
	}
	return a, nil
}

// secretStoreOrNil avoids handing migrate a non-nil interface wrapping a nil
// pointer.
func secretStoreOrNil(s *secrets.FileStore) migrate.SecretStore {
	if s == nil {
		return nil
	}
	return s
}

func readMasterKey(path string) ([]byte, error) {
	if path == "" {
		return nil, fmt.Errorf("secrets.master_key_file not configured")
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return []byte(strings.TrimSpace(string(b))), nil
}

// Start opens the store and starts the maintenance scheduler if enabled.
func (a *App) Start(ctx context.Context) error {
	if err := a.store.Open(); err != nil {
		return fmt.Errorf("failed to open store at %s: %w", a.cfg.Storage.DBPath, err)
	}
	if a.cfg.Maintenance.Enabled {
		cancel, err := maintenance.Start(ctx, a.cfg.Maintenance.Cron, []maintenance.Job{
			{Name: "store_disk_usage", Run: func() error { a.store.RefreshDiskUsage(); return nil }},
			{Name: "flush_pending_writes", Run: a.flushPending},
		})
		if err != nil {
			return err
		}
		a.cancelMaint = cancel
	}
	return nil
}

// SignIn resolves the account scope, runs the legacy migration for it (once
// per process per scope) and returns a ready Session. Migration failures are
// best-effort: reported, logged, never fatal.
func (a *App) SignIn(ctx context.Context, userID, email string) (*Session, error) {
	scope := keys.ResolveScope(userID, email)
	if scope == "" {
		return nil, fmt.Errorf("sign-in requires a user id or email")
	}
	if keys.ScopeHasSeparator(scope) {
		logger.Warn("scope_contains_separator", "scope", scope)
	}

	if report := a.engine.RunOnce(ctx, scope); report != nil {
		for _, s := range report.Failed() {
			logger.Warn("migration_step_failed", "key", s.Key, "pass", s.Pass, "error", s.Err)
		}
	}
	return a.openSession(scope)
}

// flushPending persists any pending debounced writes across every open
// session. Run by the maintenance checkpoint so a long-lived quiet interval
// cannot hold a dirty document in memory indefinitely.
func (a *App) flushPending() error {
	a.mu.Lock()
	open := make([]*Session, 0, len(a.sessions))
	for s := range a.sessions {
		open = append(open, s)
	}
	a.mu.Unlock()

	var first error
	for _, s := range open {
		if err := s.Flush(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

func (a *App) registerSession(s *Session) {
	a.mu.Lock()
	a.sessions[s] = struct{}{}
	a.mu.Unlock()
}

func (a *App) unregisterSession(s *Session) {
	a.mu.Lock()
	delete(a.sessions, s)
	a.mu.Unlock()
}

// Store exposes the shared store handle (e.g. to the inspect tool).
func (a *App) Store() *store.Store { return a.store }

// Overrides exposes the process-lifetime chat overrides.
func (a *App) Overrides() *chat.Overrides { return a.overrides }

// Remote returns the document API client, or nil when sync is not
// configured.
func (a *App) Remote() *remote.Client { return a.remote }

// Close stops background work and closes the store.
func (a *App) Close() error {
	if a.cancelMaint != nil {
		a.cancelMaint()
	}
	return a.store.Close()
}
