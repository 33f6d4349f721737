// Package secrets is a small encrypted file-backed secret store. It stands
// in for the platform keychain the legacy app kept documents in, and is
// consulted by the migration engine as a read-and-delete source. Values are
// sealed with an AES-GCM AEAD wrapper keyed by a caller-supplied master key.
package secrets

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	wrapping "github.com/hashicorp/go-kms-wrapping/v2"
	"github.com/hashicorp/go-kms-wrapping/v2/aead"

	"kitlocal/pkg/logger"
)

// FileStore persists sealed values as a JSON map in a single 0600 file.
type FileStore struct {
	mu      sync.Mutex
	path    string
	wrapper wrapping.Wrapper
}

// Open configures the AEAD wrapper with the master key and binds the store
// to path. The file is created on first write.
func Open(ctx context.Context, path string, masterKey []byte) (*FileStore, error) {
	if len(masterKey) == 0 {
		return nil, fmt.Errorf("secrets: empty master key")
	}
	w := aead.NewWrapper()
	// the AEAD wrapper expects a base64-encoded key
	if _, err := w.SetConfig(ctx, wrapping.WithConfigMap(map[string]string{
		"key": base64.StdEncoding.EncodeToString(masterKey),
	})); err != nil {
		return nil, fmt.Errorf("secrets: failed to configure AEAD wrapper: %w", err)
	}
	return &FileStore{path: path, wrapper: w}, nil
}

// GetItem returns the plaintext value for key, with ok=false when absent.
func (s *FileStore) GetItem(ctx context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	items, err := s.load()
	if err != nil {
		return "", false, err
	}
	raw, ok := items[key]
	if !ok {
		return "", false, nil
	}
	var blob wrapping.BlobInfo
	if err := json.Unmarshal(raw, &blob); err != nil {
		return "", false, fmt.Errorf("secrets: corrupt entry for %q: %w", key, err)
	}
	pt, err := s.wrapper.Decrypt(ctx, &blob)
	if err != nil {
		return "", false, fmt.Errorf("secrets: decrypt failed for %q: %w", key, err)
	}
	return string(pt), true, nil
}

// SetItem seals and stores a value under key.
func (s *FileStore) SetItem(ctx context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	items, err := s.load()
	if err != nil {
		return err
	}
	blob, err := s.wrapper.Encrypt(ctx, []byte(value))
	if err != nil {
		return fmt.Errorf("secrets: encrypt failed for %q: %w", key, err)
	}
	raw, err := json.Marshal(blob)
	if err != nil {
		return err
	}
	items[key] = raw
	return s.save(items)
}

// DeleteItem removes a key. Deleting an absent key is not an error.
func (s *FileStore) DeleteItem(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	items, err := s.load()
	if err != nil {
		return err
	}
	if _, ok := items[key]; !ok {
		return nil
	}
	delete(items, key)
	return s.save(items)
}

func (s *FileStore) load() (map[string]json.RawMessage, error) {
	b, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]json.RawMessage{}, nil
		}
		return nil, err
	}
	items := map[string]json.RawMessage{}
	if err := json.Unmarshal(b, &items); err != nil {
		logger.Error("secrets_file_corrupt", "path", s.path, "error", err)
		return nil, fmt.Errorf("secrets: corrupt file %s: %w", s.path, err)
	}
	return items, nil
}

func (s *FileStore) save(items map[string]json.RawMessage) error {
	b, err := json.Marshal(items)
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, b, 0o600)
}
