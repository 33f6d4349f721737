// Package chat reconciles a server-fetched chat snapshot with edits made
// locally since the last successful fetch. Overrides live for the process
// lifetime only; the merge is pure and idempotent, so a fixed overrides set
// applied to the same snapshot always yields the same state.
package chat

import (
	"sync"

	"kitlocal/pkg/models"
)

// Patch is a partial set of local chat edits.
type Patch struct {
	Inbox     map[string]string
	Messages  map[string][]models.ChatMessage
	OpenChats []string
}

// Overrides accumulates local-only chat edits: inbox reassignments, message
// list replacements, newly opened conversations and tombstoned deletions.
type Overrides struct {
	mu        sync.Mutex
	inbox     map[string]string
	messages  map[string][]models.ChatMessage
	openChats []string
	deleted   map[string]struct{}
}

func NewOverrides() *Overrides {
	return &Overrides{
		inbox:    map[string]string{},
		messages: map[string][]models.ChatMessage{},
		deleted:  map[string]struct{}{},
	}
}

// Merge folds a patch into the overrides. Inbox and messages merge shallowly
// key-by-key (the patch wins per key, untouched keys stay); openChats is a
// set union.
func (o *Overrides) Merge(p Patch) {
	o.mu.Lock()
	defer o.mu.Unlock()
	for k, v := range p.Inbox {
		o.inbox[k] = v
	}
	for k, v := range p.Messages {
		o.messages[k] = append([]models.ChatMessage(nil), v...)
	}
	for _, id := range p.OpenChats {
		if !containsString(o.openChats, id) {
			o.openChats = append(o.openChats, id)
		}
	}
}

// MarkDeleted tombstones a chat id. Deletion is terminal: the id is
// suppressed from every part of the merged state regardless of server
// content or other overrides.
func (o *Overrides) MarkDeleted(chatID string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.deleted[chatID] = struct{}{}
}

// Deleted reports whether a chat id is tombstoned.
func (o *Overrides) Deleted(chatID string) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	_, ok := o.deleted[chatID]
	return ok
}

// Reset drops all accumulated overrides, typically after a successful push
// to the server.
func (o *Overrides) Reset() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.inbox = map[string]string{}
	o.messages = map[string][]models.ChatMessage{}
	o.openChats = nil
	o.deleted = map[string]struct{}{}
}

// ApplyTo merges the overrides on top of a server snapshot and returns the
// merged state. The snapshot is not mutated. Overrides win per key for inbox
// and messages; openChats is a de-duplicated union; tombstoned ids are then
// removed everywhere.
func (o *Overrides) ApplyTo(server models.ChatState) models.ChatState {
	o.mu.Lock()
	defer o.mu.Unlock()

	merged := models.ChatState{
		ActiveChat:   server.ActiveChat,
		UpdatedAt:    server.UpdatedAt,
		OpenChats:    []string{},
		Messages:     map[string][]models.ChatMessage{},
		UnreadCounts: copyCounts(server.UnreadCounts),
	}

	for id, msgs := range server.Messages {
		merged.Messages[id] = append([]models.ChatMessage(nil), msgs...)
	}
	for id, msgs := range o.messages {
		merged.Messages[id] = append([]models.ChatMessage(nil), msgs...)
	}

	if len(server.Inbox) > 0 || len(o.inbox) > 0 {
		merged.Inbox = map[string]string{}
		for id, tier := range server.Inbox {
			merged.Inbox[id] = tier
		}
		for id, tier := range o.inbox {
			merged.Inbox[id] = tier
		}
	}

	for _, id := range server.OpenChats {
		if !containsString(merged.OpenChats, id) {
			merged.OpenChats = append(merged.OpenChats, id)
		}
	}
	for _, id := range o.openChats {
		if !containsString(merged.OpenChats, id) {
			merged.OpenChats = append(merged.OpenChats, id)
		}
	}

	for id := range o.deleted {
		delete(merged.Messages, id)
		delete(merged.Inbox, id)
		delete(merged.UnreadCounts, id)
		merged.OpenChats = removeString(merged.OpenChats, id)
		if merged.ActiveChat == id {
			merged.ActiveChat = ""
		}
	}
	return merged
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func removeString(list []string, s string) []string {
	out := list[:0]
	for _, v := range list {
		if v != s {
			out = append(out, v)
		}
	}
	return out
}

func copyCounts(in map[string]int) map[string]int {
	if in == nil {
		return nil
	}
	out := make(map[string]int, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
