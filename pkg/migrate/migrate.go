// Package migrate moves per-account documents out of the two legacy
// backends (the pre-scoping unscoped keys in the current store, and the old
// secret-credential store) into the current scoped key layout. Both passes
// are idempotent and safe to re-run; a failure migrating one document never
// blocks the others, and a failed write-in leaves the legacy source
// untouched.
package migrate

import (
	"context"
	"errors"
	"sync"

	"kitlocal/pkg/keys"
	"kitlocal/pkg/logger"
	"kitlocal/pkg/store"
)

// SecretStore is the old secret-credential backend, consulted only during
// migration. GetItem reports ok=false when the key has no value.
type SecretStore interface {
	GetItem(ctx context.Context, key string) (value string, ok bool, err error)
	DeleteItem(ctx context.Context, key string) error
}

// Engine runs the legacy migration for one account scope.
type Engine struct {
	store   *store.Store
	secrets SecretStore

	mu  sync.Mutex
	ran map[string]bool
}

// New returns an Engine. secrets may be nil, in which case Pass B is
// skipped (no legacy secret store present on this device).
func New(st *store.Store, secrets SecretStore) *Engine {
	return &Engine{store: st, secrets: secrets, ran: map[string]bool{}}
}

// RunOnce runs the migration for a scope at most once per process. Repeat
// calls for the same scope return nil without touching storage.
func (e *Engine) RunOnce(ctx context.Context, scope string) *Report {
	e.mu.Lock()
	if e.ran[scope] {
		e.mu.Unlock()
		return nil
	}
	e.ran[scope] = true
	e.mu.Unlock()
	return e.Run(ctx, scope)
}

// Run migrates every known document for the scope: Pass A (unscoped legacy
// keys in the current backend) first, then Pass B (old secret store), so
// Pass B's already-exists short-circuit sees Pass A's result. All failures
// are best-effort: recorded in the report, never fatal.
func (e *Engine) Run(ctx context.Context, scope string) *Report {
	r := newReport(scope)
	for _, base := range keys.DocumentKeys() {
		e.passA(base, scope, r)
	}
	if e.secrets != nil {
		for _, base := range keys.DocumentKeys() {
			e.passB(ctx, base, scope, r)
		}
	}
	r.finish()
	if failed := r.Failed(); len(failed) > 0 {
		logger.Warn("migration_completed_with_failures", "scope", scope, "failed", len(failed), "steps", len(r.Steps))
	} else {
		logger.Info("migration_completed", "scope", scope, "steps", len(r.Steps))
	}
	return r
}

// passA copies an unscoped legacy value to the scoped key within the current
// backend. The scoped copy wins when both exist; the unscoped key is cleaned
// up either way.
func (e *Engine) passA(base, scope string, r *Report) {
	scoped := keys.MakeScopedKey(base, scope)
	if scoped == base {
		// no scope: nothing to migrate to
		return
	}

	exists, err := e.store.Has(scoped)
	if err != nil {
		r.add(base, PassScopedCopy, ActionFailed, err)
		return
	}
	if exists {
		e.cleanupUnscoped(base, r)
		return
	}

	legacy, err := e.store.GetString(base)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			r.add(base, PassScopedCopy, ActionSkipped, nil)
			return
		}
		r.add(base, PassScopedCopy, ActionFailed, err)
		return
	}

	if err := e.store.SetString(scoped, legacy); err != nil {
		// legacy copy stays in place; nothing lost
		r.add(base, PassScopedCopy, ActionFailed, err)
		return
	}
	r.add(base, PassScopedCopy, ActionMigrated, nil)
	e.cleanupUnscoped(base, r)
}

func (e *Engine) cleanupUnscoped(base string, r *Report) {
	exists, err := e.store.Has(base)
	if err != nil {
		r.add(base, PassScopedCopy, ActionFailed, err)
		return
	}
	if !exists {
		return
	}
	if err := e.store.DeleteKey(base); err != nil {
		r.add(base, PassScopedCopy, ActionFailed, err)
		return
	}
	r.add(base, PassScopedCopy, ActionCleaned, nil)
}

// passB imports a document from the old secret store into the current
// backend. When the scoped key already holds a value this pass only cleans
// up leftover secret-store entries. A failed write into the current backend
// leaves the secret-store values untouched.
func (e *Engine) passB(ctx context.Context, base, scope string, r *Report) {
	scoped := keys.MakeScopedKey(base, scope)

	exists, err := e.store.Has(scoped)
	if err != nil {
		r.add(base, PassSecretImport, ActionFailed, err)
		return
	}
	if exists {
		e.cleanupSecret(ctx, base, scoped, r)
		return
	}

	value, ok, err := e.secrets.GetItem(ctx, scoped)
	if err != nil {
		r.add(base, PassSecretImport, ActionFailed, err)
		return
	}
	if !ok {
		value, ok, err = e.secrets.GetItem(ctx, base)
		if err != nil {
			r.add(base, PassSecretImport, ActionFailed, err)
			return
		}
	}
	if !ok {
		r.add(base, PassSecretImport, ActionSkipped, nil)
		return
	}

	if err := e.store.SetString(scoped, value); err != nil {
		// secret-store copies stay in place; nothing lost
		r.add(base, PassSecretImport, ActionFailed, err)
		return
	}
	r.add(base, PassSecretImport, ActionMigrated, nil)
	e.cleanupSecret(ctx, base, scoped, r)
}

func (e *Engine) cleanupSecret(ctx context.Context, base, scoped string, r *Report) {
	cleaned := false
	for _, k := range []string{scoped, base} {
		if _, ok, err := e.secrets.GetItem(ctx, k); err != nil || !ok {
			continue
		}
		if err := e.secrets.DeleteItem(ctx, k); err != nil {
			r.add(base, PassSecretImport, ActionFailed, err)
			continue
		}
		cleaned = true
	}
	if cleaned {
		r.add(base, PassSecretImport, ActionCleaned, nil)
	}
}
