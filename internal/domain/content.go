package domain

import "time"

// Author is the denormalized author snapshot stored on a post.
type Author struct {
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	Headline     string `json:"headline"`
	ProfileImage string `json:"profileImage"`
}

// Post is a feed entry.
type Post struct {
	ID          string    `json:"id"`
	UserID      string    `json:"userId"`
	Content     string    `json:"content"`
	ImageURL    string    `json:"imageUrl,omitempty"`
	DocumentURL string    `json:"documentUrl,omitempty"`
	Likes       int       `json:"likes"`
	Comments    int       `json:"comments"`
	Shares      int       `json:"shares"`
	Author      Author    `json:"user"`
	IsLiked     bool      `json:"isLiked"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// NewPost is a post as supplied by a caller, before an ID and timestamps
// are assigned.
type NewPost struct {
	UserID      string `json:"userId"`
	Content     string `json:"content"`
	ImageURL    string `json:"imageUrl,omitempty"`
	DocumentURL string `json:"documentUrl,omitempty"`
	Likes       int    `json:"likes"`
	Comments    int    `json:"comments"`
	Shares      int    `json:"shares"`
	Author      Author `json:"user"`
	IsLiked     bool   `json:"isLiked"`
}

// ConnectionStatus is the lifecycle state of a connection request.
type ConnectionStatus string

const (
	ConnectionPending  ConnectionStatus = "pending"
	ConnectionAccepted ConnectionStatus = "accepted"
	ConnectionDeclined ConnectionStatus = "declined"
)

// Connection links a requester and a recipient.
type Connection struct {
	ID          string           `json:"id"`
	RequesterID string           `json:"requesterId"`
	RecipientID string           `json:"recipientId"`
	Status      ConnectionStatus `json:"status"`
	CreatedAt   time.Time        `json:"createdAt"`
	User        Identity         `json:"user"`
}

// NewConnection is a connection before an ID and timestamp are assigned.
type NewConnection struct {
	RequesterID string           `json:"requesterId"`
	RecipientID string           `json:"recipientId"`
	Status      ConnectionStatus `json:"status"`
	User        Identity         `json:"user"`
}

// Message is a direct message between two members.
type Message struct {
	ID          string    `json:"id"`
	SenderID    string    `json:"senderId"`
	RecipientID string    `json:"recipientId"`
	Content     string    `json:"content"`
	Read        bool      `json:"read"`
	CreatedAt   time.Time `json:"createdAt"`
}

// NewMessage is a message before an ID and timestamp are assigned.
type NewMessage struct {
	SenderID    string `json:"senderId"`
	RecipientID string `json:"recipientId"`
	Content     string `json:"content"`
	Read        bool   `json:"read"`
}

// Counterpart returns the participant of m that is not userID.
func (m Message) Counterpart(userID string) string {
	if m.SenderID == userID {
		return m.RecipientID
	}
	return m.SenderID
}

// Involves reports whether userID sent or received m.
func (m Message) Involves(userID string) bool {
	return m.SenderID == userID || m.RecipientID == userID
}

// Links reports whether c connects a and b in either direction.
func (c Connection) Links(a, b string) bool {
	return (c.RequesterID == a && c.RecipientID == b) || (c.RequesterID == b && c.RecipientID == a)
}

// Suggestion is a "people you may know" entry.
type Suggestion struct {
	ID                string `json:"id"`
	FirstName         string `json:"firstName"`
	LastName          string `json:"lastName"`
	Headline          string `json:"headline"`
	ProfileImage      string `json:"profileImage"`
	MutualConnections int    `json:"mutualConnections"`
}
