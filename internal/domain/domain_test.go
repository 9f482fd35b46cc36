package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func TestProfileUpdateApplyMergesOnlySuppliedFields(t *testing.T) {
	created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	id := Identity{
		ID:          "u1",
		Email:       "a@b.com",
		FirstName:   "A",
		LastName:    "B",
		Headline:    "Eng",
		Location:    "X",
		Bio:         "bio",
		Connections: 3,
		CreatedAt:   created,
		UpdatedAt:   created,
	}
	before := id

	ProfileUpdate{Headline: ptr("Staff Eng")}.Apply(&id)

	assert.Equal(t, "Staff Eng", id.Headline)
	id.Headline = before.Headline
	assert.Equal(t, before, id)
}

func TestProfileUpdateApplyConnections(t *testing.T) {
	id := Identity{Connections: 3}
	ProfileUpdate{Connections: ptr(0)}.Apply(&id)
	assert.Equal(t, 0, id.Connections)
}

func TestProfileUpdateIsEmpty(t *testing.T) {
	assert.True(t, ProfileUpdate{}.IsEmpty())
	assert.False(t, ProfileUpdate{Bio: ptr("")}.IsEmpty())
}

func TestIdentityFullName(t *testing.T) {
	assert.Equal(t, "John Doe", Identity{FirstName: "John", LastName: "Doe"}.FullName())
	assert.Equal(t, "John", Identity{FirstName: "John"}.FullName())
}

func TestAuthorSnapshot(t *testing.T) {
	id := Identity{FirstName: "Sarah", LastName: "Chen", Headline: "PM", ProfileImage: "img", Email: "s@c.com"}
	assert.Equal(t, Author{FirstName: "Sarah", LastName: "Chen", Headline: "PM", ProfileImage: "img"}, id.AuthorSnapshot())
}

func TestTimeAgo(t *testing.T) {
	now := time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)
	cases := []struct {
		at   time.Time
		want string
	}{
		{now.Add(-10 * time.Minute), "Just now"},
		{now.Add(-2 * time.Hour), "2h"},
		{now.Add(-23*time.Hour - 59*time.Minute), "23h"},
		{now.Add(-24 * time.Hour), "1d"},
		{now.Add(-75 * time.Hour), "3d"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, TimeAgo(tc.at, now))
	}
}

func TestGroupConversations(t *testing.T) {
	base := time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)
	messages := []Message{
		{ID: "1", SenderID: "me", RecipientID: "bob", Content: "hi bob", CreatedAt: base},
		{ID: "2", SenderID: "alice", RecipientID: "me", Content: "hey", CreatedAt: base.Add(time.Minute)},
		{ID: "3", SenderID: "bob", RecipientID: "me", Content: "yo", CreatedAt: base.Add(2 * time.Minute)},
		{ID: "4", SenderID: "carol", RecipientID: "dave", Content: "not mine", CreatedAt: base.Add(3 * time.Minute)},
		{ID: "5", SenderID: "alice", RecipientID: "me", Content: "seen", Read: true, CreatedAt: base.Add(30 * time.Second)},
	}

	convs := GroupConversations("me", messages)
	require.Len(t, convs, 2)

	assert.Equal(t, "bob", convs[0].CounterpartID)
	assert.Equal(t, "3", convs[0].LastMessage.ID)
	assert.Equal(t, 2, convs[0].MessageCount)
	assert.Equal(t, 1, convs[0].UnreadCount)

	assert.Equal(t, "alice", convs[1].CounterpartID)
	assert.Equal(t, "2", convs[1].LastMessage.ID)
	assert.Equal(t, 2, convs[1].MessageCount)
	assert.Equal(t, 1, convs[1].UnreadCount)
}

func TestGroupConversationsEmpty(t *testing.T) {
	assert.Empty(t, GroupConversations("me", nil))
}

func TestFilterConversationsByName(t *testing.T) {
	convs := []Conversation{{CounterpartID: "u1"}, {CounterpartID: "u2"}, {CounterpartID: "x-7"}}
	names := map[string]string{"u1": "Sarah Chen", "u2": "Michael Rodriguez"}

	got := FilterConversations(convs, "  CHEN ", names)
	require.Len(t, got, 1)
	assert.Equal(t, "u1", got[0].CounterpartID)

	got = FilterConversations(convs, "x-7", names)
	require.Len(t, got, 1)
	assert.Equal(t, "x-7", got[0].CounterpartID)

	assert.Len(t, FilterConversations(convs, "", names), 3)
	assert.Empty(t, FilterConversations(convs, "u1", names))
}

func TestConnectionLinksEitherDirection(t *testing.T) {
	c := Connection{RequesterID: "a", RecipientID: "b"}
	assert.True(t, c.Links("a", "b"))
	assert.True(t, c.Links("b", "a"))
	assert.False(t, c.Links("a", "c"))
}
