// Package keys derives storage keys for the per-account documents. A key is
// the document base name, optionally suffixed with "::" and the account
// scope. The unscoped form is the pre-scoping legacy layout and is produced
// only when no scope is supplied.
package keys

import "strings"

// Base names of the persisted documents. These are part of the persisted
// contract and must not change.
const (
	CatalogKey         = "io_catalog_v1"
	KitLogKey          = "io_kitlog_v1"
	AnalysisHistoryKey = "io_face_analysis_history_v1"
	ChatHistoryKey     = "io_face_chat_history_v1"
)

// ScopeSeparator joins a base key and a scope. The separator is not escaped
// against occurring inside a scope value; see ScopeHasSeparator.
const ScopeSeparator = "::"

// DocumentKeys returns the base names of every known document.
func DocumentKeys() []string {
	return []string{CatalogKey, KitLogKey, AnalysisHistoryKey, ChatHistoryKey}
}

// MakeScopedKey returns the storage key for a document under the given
// scope. An empty (or whitespace-only) scope yields the legacy unscoped key.
func MakeScopedKey(baseKey, scope string) string {
	s := strings.TrimSpace(scope)
	if s == "" {
		return baseKey
	}
	return baseKey + ScopeSeparator + s
}

// ResolveScope picks the tenant scope for a signed-in account: the stable
// user id when present, otherwise the lower-cased trimmed email. Returns ""
// when neither is available.
func ResolveScope(userID, email string) string {
	if s := strings.TrimSpace(userID); s != "" {
		return s
	}
	return strings.ToLower(strings.TrimSpace(email))
}

// ScopeHasSeparator reports whether a scope value contains the key
// separator, which would make the derived key ambiguous. Callers should log
// the hazard; the separator choice itself is kept for compatibility with
// already-persisted keys.
func ScopeHasSeparator(scope string) bool {
	return strings.Contains(scope, ScopeSeparator)
}
