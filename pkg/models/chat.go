package models

// Inbox tier vocabulary. Stored values outside this set normalize to
// InboxAll.
const (
	InboxAll = "ALL"
	InboxVIP = "VIP"
)

// InboxTiers lists the closed inbox vocabulary.
var InboxTiers = []string{InboxAll, InboxVIP}

// ChatState is the whole-document chat snapshot, both as persisted locally
// and as fetched from the remote document API.
type ChatState struct {
	OpenChats    []string                 `json:"openChats"`
	Messages     map[string][]ChatMessage `json:"messages"`
	ActiveChat   string                   `json:"activeChat,omitempty"`
	UnreadCounts map[string]int           `json:"unreadCounts,omitempty"`
	Inbox        map[string]string        `json:"inbox,omitempty"`
	UpdatedAt    int64                    `json:"updatedAt,omitempty"`
}

type ChatMessage struct {
	ID     string `json:"id"`
	Author string `json:"author,omitempty"`
	Text   string `json:"text"`
	TS     int64  `json:"ts,omitempty"`
}

// EmptyChatState returns a structurally valid default chat state.
func EmptyChatState() ChatState {
	return ChatState{
		OpenChats: []string{},
		Messages:  map[string][]ChatMessage{},
	}
}
