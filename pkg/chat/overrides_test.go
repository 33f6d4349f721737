package chat

import (
	"testing"

	"github.com/stretchr/testify/require"

	"kitlocal/pkg/models"
)

func msg(id, text string) models.ChatMessage {
	return models.ChatMessage{ID: id, Text: text}
}

func TestMergeLastPatchWinsPerKey(t *testing.T) {
	o := NewOverrides()
	o.Merge(Patch{Messages: map[string][]models.ChatMessage{"u1": {msg("m1", "a")}}})
	o.Merge(Patch{Messages: map[string][]models.ChatMessage{"u1": {msg("m2", "b")}}})

	merged := o.ApplyTo(models.EmptyChatState())
	require.Equal(t, []models.ChatMessage{msg("m2", "b")}, merged.Messages["u1"],
		"shallow merge replaces per key, not appends")
}

func TestMergeUntouchedKeysSurvive(t *testing.T) {
	o := NewOverrides()
	o.Merge(Patch{
		Inbox:    map[string]string{"u1": models.InboxVIP, "u2": models.InboxAll},
		Messages: map[string][]models.ChatMessage{"u1": {msg("m1", "a")}},
	})
	o.Merge(Patch{Inbox: map[string]string{"u1": models.InboxAll}})

	merged := o.ApplyTo(models.EmptyChatState())
	require.Equal(t, models.InboxAll, merged.Inbox["u1"])
	require.Equal(t, models.InboxAll, merged.Inbox["u2"], "key absent from patch untouched")
	require.Len(t, merged.Messages["u1"], 1)
}

func TestApplyToOverrideWinsOverServer(t *testing.T) {
	o := NewOverrides()
	o.Merge(Patch{
		Inbox:     map[string]string{"u1": models.InboxVIP},
		Messages:  map[string][]models.ChatMessage{"u1": {msg("m-local", "local")}},
		OpenChats: []string{"u1", "u3"},
	})

	server := models.ChatState{
		OpenChats: []string{"u1", "u2"},
		Messages: map[string][]models.ChatMessage{
			"u1": {msg("m-server", "server")},
			"u2": {msg("m2", "x")},
		},
		Inbox: map[string]string{"u1": models.InboxAll, "u2": models.InboxAll},
	}
	merged := o.ApplyTo(server)

	require.Equal(t, models.InboxVIP, merged.Inbox["u1"], "override wins on key collision")
	require.Equal(t, models.InboxAll, merged.Inbox["u2"], "server-only keys kept")
	require.Equal(t, []models.ChatMessage{msg("m-local", "local")}, merged.Messages["u1"])
	require.Len(t, merged.Messages["u2"], 1)
	require.ElementsMatch(t, []string{"u1", "u2", "u3"}, merged.OpenChats)
}

func TestDeletedIsTerminal(t *testing.T) {
	o := NewOverrides()
	o.Merge(Patch{OpenChats: []string{"u1"}})
	o.MarkDeleted("u1")

	server := models.ChatState{
		OpenChats:    []string{"u1", "u2"},
		Messages:     map[string][]models.ChatMessage{"u1": {msg("m1", "x")}},
		Inbox:        map[string]string{"u1": models.InboxVIP},
		UnreadCounts: map[string]int{"u1": 3},
		ActiveChat:   "u1",
	}
	merged := o.ApplyTo(server)

	require.NotContains(t, merged.OpenChats, "u1")
	require.NotContains(t, merged.Messages, "u1")
	require.NotContains(t, merged.Inbox, "u1")
	require.NotContains(t, merged.UnreadCounts, "u1")
	require.Empty(t, merged.ActiveChat)
	require.Contains(t, merged.OpenChats, "u2")
}

func TestApplyToIsIdempotentAndPure(t *testing.T) {
	o := NewOverrides()
	o.Merge(Patch{
		Messages:  map[string][]models.ChatMessage{"u1": {msg("m1", "a")}},
		OpenChats: []string{"u1"},
	})
	o.MarkDeleted("u9")

	server := models.ChatState{
		OpenChats: []string{"u2", "u9"},
		Messages:  map[string][]models.ChatMessage{"u9": {msg("m9", "z")}},
	}
	serverCopyOpen := append([]string(nil), server.OpenChats...)

	first := o.ApplyTo(server)
	second := o.ApplyTo(server)
	require.Equal(t, first, second, "same overrides and snapshot yield same merge")
	require.Equal(t, serverCopyOpen, server.OpenChats, "server snapshot not mutated")
	require.Contains(t, server.Messages, "u9", "server snapshot not mutated")
}

func TestResetDropsOverrides(t *testing.T) {
	o := NewOverrides()
	o.Merge(Patch{OpenChats: []string{"u1"}})
	o.MarkDeleted("u2")
	o.Reset()

	server := models.ChatState{OpenChats: []string{"u2"}}
	merged := o.ApplyTo(server)
	require.Equal(t, []string{"u2"}, merged.OpenChats, "tombstones cleared on reset")
	require.False(t, o.Deleted("u2"))
}
