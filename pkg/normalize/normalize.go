// Package normalize upgrades arbitrarily-shaped stored document payloads to
// the current canonical shape. Every normalizer is total: whatever the input
// (old app versions, partial writes, garbage), the result is a structurally
// valid versioned document. Reads are permissive, writes are strict.
package normalize

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

func nowMillis() int64 { return time.Now().UTC().UnixMilli() }

func asMap(v any) (map[string]any, bool) {
	m, ok := v.(map[string]any)
	return m, ok
}

func asSlice(v any) ([]any, bool) {
	s, ok := v.([]any)
	return s, ok
}

// str returns the trimmed string at key, or "" when absent or not a string.
func str(m map[string]any, key string) string {
	if v, ok := m[key].(string); ok {
		return strings.TrimSpace(v)
	}
	return ""
}

// id returns the stored id when it is a non-empty string, otherwise a fresh
// one.
func id(m map[string]any, key string) string {
	if v := str(m, key); v != "" {
		return v
	}
	return uuid.NewString()
}

// millis reads a numeric timestamp, returning def when absent or invalid.
// Values arrive as float64 from encoding/json but int forms are accepted for
// callers that build trees by hand.
func millis(m map[string]any, key string, def int64) int64 {
	switch v := m[key].(type) {
	case float64:
		if v > 0 {
			return int64(v)
		}
	case int64:
		if v > 0 {
			return v
		}
	case int:
		if v > 0 {
			return int64(v)
		}
	}
	return def
}

// intval reads an integer field, returning def when absent or invalid.
func intval(m map[string]any, key string, def int) int {
	switch v := m[key].(type) {
	case float64:
		if v >= 0 {
			return int(v)
		}
	case int:
		if v >= 0 {
			return v
		}
	}
	return def
}

// enum coerces a stored value to the closed vocabulary, substituting def
// when the value is not a member.
func enum(m map[string]any, key string, allowed []string, def string) string {
	v := str(m, key)
	for _, a := range allowed {
		if v == a {
			return v
		}
	}
	return def
}
