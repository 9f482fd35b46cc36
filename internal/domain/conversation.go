package domain

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// Conversation summarizes the messages exchanged with one counterpart.
type Conversation struct {
	CounterpartID string    `json:"counterpartId"`
	LastMessage   Message   `json:"lastMessage"`
	MessageCount  int       `json:"messageCount"`
	UnreadCount   int       `json:"unreadCount"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// GroupConversations groups the messages involving userID by counterpart.
// Later messages in append order win ties on CreatedAt. The result is
// ordered most recently updated first.
func GroupConversations(userID string, messages []Message) []Conversation {
	byCounterpart := make(map[string]*Conversation)
	var order []string

	for _, m := range messages {
		if !m.Involves(userID) {
			continue
		}
		other := m.Counterpart(userID)
		c, ok := byCounterpart[other]
		if !ok {
			c = &Conversation{CounterpartID: other}
			byCounterpart[other] = c
			order = append(order, other)
		}
		c.MessageCount++
		if m.RecipientID == userID && !m.Read {
			c.UnreadCount++
		}
		if !m.CreatedAt.Before(c.UpdatedAt) {
			c.LastMessage = m
			c.UpdatedAt = m.CreatedAt
		}
	}

	out := make([]Conversation, 0, len(order))
	for _, id := range order {
		out = append(out, *byCounterpart[id])
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].UpdatedAt.After(out[j].UpdatedAt)
	})
	return out
}

// TimeAgo renders the feed's relative timestamp label.
func TimeAgo(t, now time.Time) string {
	hours := int(now.Sub(t) / time.Hour)
	switch {
	case hours < 1:
		return "Just now"
	case hours < 24:
		return fmt.Sprintf("%dh", hours)
	default:
		return fmt.Sprintf("%dd", hours/24)
	}
}

// FilterConversations keeps the conversations whose counterpart name
// contains query, ignoring case. names maps counterpart ids to display
// names; a counterpart missing from names is matched by id. An empty query
// keeps everything.
func FilterConversations(convs []Conversation, query string, names map[string]string) []Conversation {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return convs
	}
	out := make([]Conversation, 0, len(convs))
	for _, c := range convs {
		name, ok := names[c.CounterpartID]
		if !ok {
			name = c.CounterpartID
		}
		if strings.Contains(strings.ToLower(name), query) {
			out = append(out, c)
		}
	}
	return out
}
