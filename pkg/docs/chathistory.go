package docs

import (
	"sync"
	"time"

	"kitlocal/pkg/chat"
	"kitlocal/pkg/keys"
	"kitlocal/pkg/models"
	"kitlocal/pkg/normalize"
	"kitlocal/pkg/store"
	"kitlocal/pkg/writer"
)

// ChatHistory owns the locally-cached chat state for one account scope. The
// reconciliation layer sits between the remote fetch and this cache: server
// snapshots are folded through the process-lifetime overrides before being
// stored.
type ChatHistory struct {
	st  *store.Store
	key string

	mu  sync.Mutex
	st8 models.ChatState
	deb *writer.Debounced
}

// OpenChatHistory loads and normalizes the cached chat state for scope.
func OpenChatHistory(st *store.Store, scope string, quiet time.Duration) (*ChatHistory, error) {
	key := keys.MakeScopedKey(keys.ChatHistoryKey, scope)
	raw, err := loadRaw(st, key)
	if err != nil {
		return nil, err
	}
	h := &ChatHistory{st: st, key: key, st8: normalize.ChatState(raw)}
	h.deb = writer.NewDebounced("chat_history", quiet, h.save)
	return h, nil
}

// Get returns a snapshot of the current cached state.
func (h *ChatHistory) Get() models.ChatState {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.st8
}

// ApplyServerSnapshot merges local overrides onto an authoritative server
// snapshot, caches the result and schedules a debounced write. Returns the
// merged state.
func (h *ChatHistory) ApplyServerSnapshot(o *chat.Overrides, server models.ChatState) models.ChatState {
	merged := o.ApplyTo(server)
	merged.UpdatedAt = time.Now().UTC().UnixMilli()
	h.mu.Lock()
	h.st8 = merged
	h.mu.Unlock()
	h.deb.Trigger()
	return merged
}

// Update applies a local mutation to the cached state and schedules a
// debounced write.
func (h *ChatHistory) Update(fn func(*models.ChatState)) {
	h.mu.Lock()
	fn(&h.st8)
	h.mu.Unlock()
	h.deb.Trigger()
}

// Flush persists the current state immediately, surfacing any store error.
func (h *ChatHistory) Flush() error { return h.deb.Flush() }

// Close cancels any pending write and flushes.
func (h *ChatHistory) Close() error { return h.deb.Flush() }

func (h *ChatHistory) save() error {
	h.mu.Lock()
	st8 := h.st8
	h.mu.Unlock()
	return saveJSON(h.st, h.key, st8)
}
