package migrate

import (
	"context"
	"errors"
	"testing"

	"kitlocal/pkg/keys"
	"kitlocal/pkg/store"
)

// memSecrets is an in-memory stand-in for the old secret-credential store.
type memSecrets struct {
	items map[string]string
}

func newMemSecrets() *memSecrets { return &memSecrets{items: map[string]string{}} }

func (m *memSecrets) GetItem(_ context.Context, key string) (string, bool, error) {
	v, ok := m.items[key]
	return v, ok, nil
}

func (m *memSecrets) DeleteItem(_ context.Context, key string) error {
	delete(m.items, key)
	return nil
}

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	s := store.New(t.TempDir())
	t.Cleanup(func() { _ = s.Close() })
	return s
}

const scope = "u1"

func scoped(base string) string { return keys.MakeScopedKey(base, scope) }

func TestPassAMovesLegacyUnscopedValue(t *testing.T) {
	st := newTestStore(t)
	if err := st.SetString(keys.CatalogKey, `{"version":1,"clients":[]}`); err != nil {
		t.Fatalf("seed legacy: %v", err)
	}

	New(st, nil).Run(context.Background(), scope)

	v, err := st.GetString(scoped(keys.CatalogKey))
	if err != nil {
		t.Fatalf("scoped key missing after migration: %v", err)
	}
	if v != `{"version":1,"clients":[]}` {
		t.Fatalf("unexpected migrated value: %q", v)
	}
	if _, err := st.GetString(keys.CatalogKey); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("legacy unscoped key should be gone; got %v", err)
	}
}

func TestPassAScopedWinsButCleanupStillOccurs(t *testing.T) {
	st := newTestStore(t)
	if err := st.SetString(scoped(keys.KitLogKey), "scoped"); err != nil {
		t.Fatalf("seed scoped: %v", err)
	}
	if err := st.SetString(keys.KitLogKey, "legacy"); err != nil {
		t.Fatalf("seed legacy: %v", err)
	}

	New(st, nil).Run(context.Background(), scope)

	v, err := st.GetString(scoped(keys.KitLogKey))
	if err != nil || v != "scoped" {
		t.Fatalf("scoped value changed: %q %v", v, err)
	}
	if _, err := st.GetString(keys.KitLogKey); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("legacy key not cleaned: %v", err)
	}
}

func TestPassBImportsFromSecretStoreUnscopedForm(t *testing.T) {
	st := newTestStore(t)
	ss := newMemSecrets()
	ss.items[keys.ChatHistoryKey] = `{"openChats":["u2"]}`

	New(st, ss).Run(context.Background(), scope)

	v, err := st.GetString(scoped(keys.ChatHistoryKey))
	if err != nil {
		t.Fatalf("scoped key missing: %v", err)
	}
	if v != `{"openChats":["u2"]}` {
		t.Fatalf("unexpected value: %q", v)
	}
	if _, ok := ss.items[keys.ChatHistoryKey]; ok {
		t.Fatal("unscoped secret-store entry not removed")
	}
	if _, ok := ss.items[scoped(keys.ChatHistoryKey)]; ok {
		t.Fatal("scoped secret-store entry not removed")
	}
}

func TestPassBScopedSecretPreferredOverUnscoped(t *testing.T) {
	st := newTestStore(t)
	ss := newMemSecrets()
	ss.items[scoped(keys.CatalogKey)] = "scoped-secret"
	ss.items[keys.CatalogKey] = "unscoped-secret"

	New(st, ss).Run(context.Background(), scope)

	v, err := st.GetString(scoped(keys.CatalogKey))
	if err != nil || v != "scoped-secret" {
		t.Fatalf("expected scoped secret to win: %q %v", v, err)
	}
	if len(ss.items) != 0 {
		t.Fatalf("secret-store entries not cleaned: %v", ss.items)
	}
}

func TestPassBOnlyCleansWhenCurrentBackendHasValue(t *testing.T) {
	st := newTestStore(t)
	if err := st.SetString(scoped(keys.CatalogKey), "current"); err != nil {
		t.Fatalf("seed current: %v", err)
	}
	ss := newMemSecrets()
	ss.items[keys.CatalogKey] = "stale-secret"

	New(st, ss).Run(context.Background(), scope)

	v, _ := st.GetString(scoped(keys.CatalogKey))
	if v != "current" {
		t.Fatalf("current value overwritten: %q", v)
	}
	if _, ok := ss.items[keys.CatalogKey]; ok {
		t.Fatal("stale secret-store entry not cleaned")
	}
}

func TestFailedWriteLeavesSecretStoreUntouched(t *testing.T) {
	st := store.New(t.TempDir())
	if err := st.Open(); err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := st.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	ss := newMemSecrets()
	ss.items[keys.CatalogKey] = "precious"

	report := New(st, ss).Run(context.Background(), scope)

	if _, ok := ss.items[keys.CatalogKey]; !ok {
		t.Fatal("secret-store value lost despite failed write")
	}
	if len(report.Failed()) == 0 {
		t.Fatal("expected failed steps in report")
	}
}

func TestCleanupFailureIsRecordedNotDropped(t *testing.T) {
	st := store.New(t.TempDir())
	if err := st.Open(); err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := st.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	e := New(st, nil)
	r := newReport(scope)
	e.cleanupUnscoped(keys.CatalogKey, r)

	failed := r.Failed()
	if len(failed) != 1 {
		t.Fatalf("expected 1 failed step; got %+v", r.Steps)
	}
	if failed[0].Key != keys.CatalogKey || failed[0].Pass != PassScopedCopy {
		t.Fatalf("unexpected step: %+v", failed[0])
	}
	if failed[0].Err == "" {
		t.Fatal("step should carry the error")
	}
}

func TestRunIsIdempotent(t *testing.T) {
	st := newTestStore(t)
	if err := st.SetString(keys.CatalogKey, "v"); err != nil {
		t.Fatalf("seed: %v", err)
	}
	e := New(st, newMemSecrets())

	e.Run(context.Background(), scope)
	e.Run(context.Background(), scope)

	v, err := st.GetString(scoped(keys.CatalogKey))
	if err != nil || v != "v" {
		t.Fatalf("value wrong after re-run: %q %v", v, err)
	}
}

func TestRunOncePerScope(t *testing.T) {
	st := newTestStore(t)
	e := New(st, nil)

	first := e.RunOnce(context.Background(), scope)
	if first == nil {
		t.Fatal("first RunOnce should produce a report")
	}
	if second := e.RunOnce(context.Background(), scope); second != nil {
		t.Fatal("second RunOnce for same scope should be a no-op")
	}
	if other := e.RunOnce(context.Background(), "u2"); other == nil {
		t.Fatal("different scope should still run")
	}
}

func TestFailureIsolatedPerDocument(t *testing.T) {
	st := newTestStore(t)
	ss := newMemSecrets()
	ss.items[keys.CatalogKey] = "a"
	ss.items[keys.KitLogKey] = "b"

	report := New(st, ss).Run(context.Background(), scope)

	if got := len(report.Migrated()); got != 2 {
		t.Fatalf("expected 2 migrated steps; got %d (%+v)", got, report.Steps)
	}
	for _, base := range []string{keys.CatalogKey, keys.KitLogKey} {
		if _, err := st.GetString(scoped(base)); err != nil {
			t.Fatalf("document %s not migrated: %v", base, err)
		}
	}
}
