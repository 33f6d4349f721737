package docs

import (
	"sync"
	"time"

	"kitlocal/pkg/keys"
	"kitlocal/pkg/models"
	"kitlocal/pkg/normalize"
	"kitlocal/pkg/store"
	"kitlocal/pkg/writer"
)

// KitLog owns the kit log document for one account scope.
type KitLog struct {
	st  *store.Store
	key string

	mu  sync.Mutex
	doc models.KitLogDocument
	deb *writer.Debounced
}

// OpenKitLog loads and normalizes the kit log for scope.
func OpenKitLog(st *store.Store, scope string, quiet time.Duration) (*KitLog, error) {
	key := keys.MakeScopedKey(keys.KitLogKey, scope)
	raw, err := loadRaw(st, key)
	if err != nil {
		return nil, err
	}
	k := &KitLog{st: st, key: key, doc: normalize.KitLog(raw)}
	k.deb = writer.NewDebounced("kitlog", quiet, k.save)
	return k, nil
}

// Get returns a snapshot of the current document.
func (k *KitLog) Get() models.KitLogDocument {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.doc
}

// Update applies a mutation to the in-memory document and schedules a
// debounced write.
func (k *KitLog) Update(fn func(*models.KitLogDocument)) {
	k.mu.Lock()
	fn(&k.doc)
	k.mu.Unlock()
	k.deb.Trigger()
}

// CategoryNames returns the canonical category list used by the catalog's
// product picker. Both this and stored-document normalization go through the
// same alias table, so an alias resolves identically at either call site.
func (k *KitLog) CategoryNames() []string {
	return normalize.KitCategoryNames(k.Get())
}

// Flush persists the current state immediately, surfacing any store error.
func (k *KitLog) Flush() error { return k.deb.Flush() }

// Close cancels any pending write and flushes.
func (k *KitLog) Close() error { return k.deb.Flush() }

func (k *KitLog) save() error {
	k.mu.Lock()
	doc := k.doc
	k.mu.Unlock()
	return saveJSON(k.st, k.key, doc)
}
