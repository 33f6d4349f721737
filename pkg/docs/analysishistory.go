package docs

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"kitlocal/pkg/keys"
	"kitlocal/pkg/models"
	"kitlocal/pkg/normalize"
	"kitlocal/pkg/store"
	"kitlocal/pkg/writer"
)

// AnalysisHistory owns the face-analysis history document for one scope.
type AnalysisHistory struct {
	st  *store.Store
	key string

	mu  sync.Mutex
	doc models.AnalysisHistoryDocument
	deb *writer.Debounced
}

// OpenAnalysisHistory loads and normalizes the analysis history for scope.
func OpenAnalysisHistory(st *store.Store, scope string, quiet time.Duration) (*AnalysisHistory, error) {
	key := keys.MakeScopedKey(keys.AnalysisHistoryKey, scope)
	raw, err := loadRaw(st, key)
	if err != nil {
		return nil, err
	}
	a := &AnalysisHistory{st: st, key: key, doc: normalize.AnalysisHistory(raw)}
	a.deb = writer.NewDebounced("analysis_history", quiet, a.save)
	return a, nil
}

// Get returns a snapshot of the current document.
func (a *AnalysisHistory) Get() models.AnalysisHistoryDocument {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.doc
}

// Append records a new analysis entry and schedules a debounced write.
func (a *AnalysisHistory) Append(e models.AnalysisEntry) {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.CreatedAt == 0 {
		e.CreatedAt = time.Now().UTC().UnixMilli()
	}
	a.mu.Lock()
	a.doc.Entries = append(a.doc.Entries, e)
	a.mu.Unlock()
	a.deb.Trigger()
}

// Flush persists the current state immediately, surfacing any store error.
func (a *AnalysisHistory) Flush() error { return a.deb.Flush() }

// Close cancels any pending write and flushes.
func (a *AnalysisHistory) Close() error { return a.deb.Flush() }

func (a *AnalysisHistory) save() error {
	a.mu.Lock()
	doc := a.doc
	a.mu.Unlock()
	return saveJSON(a.st, a.key, doc)
}
