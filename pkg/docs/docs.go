// Package docs provides typed handles over the persisted documents. A
// handle loads its document by scoped key, normalizes whatever was stored,
// holds the in-memory copy the owning screen mutates, and persists it back
// through a debounced writer. One handle per document per session: the
// handle is the single in-memory mutator of its key.
package docs

import (
	"encoding/json"
	"errors"

	"kitlocal/pkg/logger"
	"kitlocal/pkg/store"
)

// loadRaw reads and decodes a document value. A missing key or malformed
// JSON both read as "no data" (nil), which normalizers turn into the default
// document; store I/O failures propagate.
func loadRaw(st *store.Store, key string) (any, error) {
	s, err := st.GetString(key)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	var raw any
	if err := json.Unmarshal([]byte(s), &raw); err != nil {
		logger.Warn("document_json_malformed", "key", key, "error", err)
		return nil, nil
	}
	return raw, nil
}

// saveJSON serializes a document and upserts it under key.
func saveJSON(st *store.Store, key string, doc any) error {
	b, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	return st.SetString(key, string(b))
}
