package normalize

import "kitlocal/pkg/models"

// ChatState normalizes an arbitrary decoded value into a canonical chat
// state. Unknown chat ids are kept; only structurally invalid entries are
// dropped.
func ChatState(v any) models.ChatState {
	st := models.EmptyChatState()
	m, ok := asMap(v)
	if !ok {
		return st
	}

	if open, ok := asSlice(m["openChats"]); ok {
		seen := map[string]struct{}{}
		for _, el := range open {
			s, ok := el.(string)
			if !ok || s == "" {
				continue
			}
			if _, dup := seen[s]; dup {
				continue
			}
			seen[s] = struct{}{}
			st.OpenChats = append(st.OpenChats, s)
		}
	}

	if msgs, ok := asMap(m["messages"]); ok {
		for chatID, raw := range msgs {
			if chatID == "" {
				continue
			}
			list, ok := asSlice(raw)
			if !ok {
				continue
			}
			out := make([]models.ChatMessage, 0, len(list))
			for _, el := range list {
				mm, ok := asMap(el)
				if !ok {
					continue
				}
				out = append(out, models.ChatMessage{
					ID:     id(mm, "id"),
					Author: str(mm, "author"),
					Text:   str(mm, "text"),
					TS:     millis(mm, "ts", 0),
				})
			}
			st.Messages[chatID] = out
		}
	}

	st.ActiveChat = str(m, "activeChat")

	if counts, ok := asMap(m["unreadCounts"]); ok {
		st.UnreadCounts = map[string]int{}
		for chatID, raw := range counts {
			if n, ok := raw.(float64); ok && n >= 0 {
				st.UnreadCounts[chatID] = int(n)
			}
		}
	}

	if inbox, ok := asMap(m["inbox"]); ok {
		st.Inbox = map[string]string{}
		for chatID, raw := range inbox {
			tier, _ := raw.(string)
			st.Inbox[chatID] = coerceTier(tier)
		}
	}

	st.UpdatedAt = millis(m, "updatedAt", 0)
	return st
}

// coerceTier maps a stored inbox value onto the closed tier vocabulary,
// defaulting to InboxAll.
func coerceTier(tier string) string {
	for _, t := range models.InboxTiers {
		if tier == t {
			return t
		}
	}
	return models.InboxAll
}
