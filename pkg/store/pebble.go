package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/cockroachdb/pebble"

	"kitlocal/pkg/logger"
)

// ErrNotFound is returned when a key has no stored value.
var ErrNotFound = errors.New("store: key not found")

// ErrClosed is returned for operations on a closed store.
var ErrClosed = errors.New("store: closed")

// kvPrefix namespaces document records so system keys can coexist in the
// same Pebble instance.
const kvPrefix = "kv:"

// Record is the stored envelope for one key: the opaque value plus the
// last-write timestamp (UTC millis). Value and timestamp are written in a
// single Pebble set so readers never observe one without the other.
type Record struct {
	Value     string `json:"value"`
	UpdatedAt int64  `json:"updated_at"`
}

// Store is a durable string key/value table over a write-ahead-logged Pebble
// database. The zero value is not usable; construct with New. The backing
// file is opened lazily on first use and the one handle is shared for the
// Store's lifetime; concurrent first access is deduplicated into a single
// open.
type Store struct {
	path string

	openOnce sync.Once
	openErr  error

	mu     sync.RWMutex
	db     *pebble.DB
	closed bool
}

// New returns a Store for the given path without opening it.
func New(path string) *Store {
	return &Store{path: path}
}

// Path returns the backing directory path.
func (s *Store) Path() string { return s.path }

// Open eagerly opens the backing database. Calling Open is optional; every
// operation opens on first use.
func (s *Store) Open() error { return s.ensureOpen() }

func (s *Store) ensureOpen() error {
	s.openOnce.Do(func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.closed {
			// Close ran before first use; opening now would leak a handle
			s.openErr = ErrClosed
			return
		}
		logger.Info("opening_pebble_db", "path", s.path)
		db, err := pebble.Open(s.path, &pebble.Options{})
		if err != nil {
			logger.Error("pebble_open_failed", "path", s.path, "error", err)
			s.openErr = err
			return
		}
		s.db = db
		logger.Info("pebble_opened", "path", s.path)
	})
	return s.openErr
}

// Close closes the opened database if present. The store cannot be reopened.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		s.closed = true
		return nil
	}
	err := s.db.Close()
	s.db = nil
	s.closed = true
	if err != nil {
		return err
	}
	logger.Info("pebble_closed", "path", s.path)
	return nil
}

func (s *Store) handle() (*pebble.DB, error) {
	if err := s.ensureOpen(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed || s.db == nil {
		return nil, ErrClosed
	}
	return s.db, nil
}

// GetRecord returns the full record for a key, including its last-write
// timestamp. Returns ErrNotFound when the key is absent.
func (s *Store) GetRecord(key string) (Record, error) {
	db, err := s.handle()
	if err != nil {
		return Record{}, err
	}
	v, closer, err := db.Get([]byte(kvPrefix + key))
	if err != nil {
		if errors.Is(err, pebble.ErrNotFound) {
			return Record{}, ErrNotFound
		}
		recordReadError()
		logger.Error("kv_get_failed", "key", key, "error", err)
		return Record{}, err
	}
	if closer != nil {
		defer closer.Close()
	}
	var rec Record
	if err := json.Unmarshal(v, &rec); err != nil {
		recordReadError()
		logger.Error("kv_record_corrupt", "key", key, "error", err)
		return Record{}, fmt.Errorf("corrupt record for %q: %w", key, err)
	}
	recordRead()
	logger.Debug("kv_get_ok", "key", key, "len", len(rec.Value))
	return rec, nil
}

// GetString returns the stored value for a key, or ErrNotFound.
func (s *Store) GetString(key string) (string, error) {
	rec, err := s.GetRecord(key)
	if err != nil {
		return "", err
	}
	return rec.Value, nil
}

// SetString upserts the value for a key, stamping the last-write timestamp.
func (s *Store) SetString(key, value string) error {
	db, err := s.handle()
	if err != nil {
		return err
	}
	rec := Record{Value: value, UpdatedAt: time.Now().UTC().UnixMilli()}
	b, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal record: %w", err)
	}
	if err := db.Set([]byte(kvPrefix+key), b, pebble.Sync); err != nil {
		recordWriteError()
		logger.Error("kv_set_failed", "key", key, "error", err)
		return err
	}
	recordWrite()
	logger.Debug("kv_set_ok", "key", key, "len", len(value))
	return nil
}

// DeleteKey removes a key. Deleting an absent key is not an error.
func (s *Store) DeleteKey(key string) error {
	db, err := s.handle()
	if err != nil {
		return err
	}
	if err := db.Delete([]byte(kvPrefix+key), pebble.Sync); err != nil {
		recordWriteError()
		logger.Error("kv_delete_failed", "key", key, "error", err)
		return err
	}
	recordDelete()
	logger.Debug("kv_delete_ok", "key", key)
	return nil
}

// Has reports whether a key currently holds a value.
func (s *Store) Has(key string) (bool, error) {
	_, err := s.GetRecord(key)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	return false, err
}

// ListKeys returns all document keys that start with the given prefix, in
// lexicographic order. An empty prefix returns every key.
func (s *Store) ListKeys(prefix string) ([]string, error) {
	db, err := s.handle()
	if err != nil {
		return nil, err
	}
	pfx := []byte(kvPrefix + prefix)
	iter, err := db.NewIter(&pebble.IterOptions{})
	if err != nil {
		return nil, err
	}
	defer iter.Close()
	var out []string
	for iter.SeekGE(pfx); iter.Valid(); iter.Next() {
		if !bytes.HasPrefix(iter.Key(), pfx) {
			break
		}
		k := append([]byte(nil), iter.Key()...)
		out = append(out, string(k[len(kvPrefix):]))
	}
	return out, iter.Error()
}
