// Package content holds the posts, connections and messages of the running
// application session. Nothing here is persisted.
package content

import (
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/ashureev/profnet/internal/domain"
	"github.com/ashureev/profnet/internal/metrics"
	"github.com/ashureev/profnet/internal/notify"
	"github.com/google/uuid"
)

// EventKind names a content mutation.
type EventKind string

const (
	EventPostAdded         EventKind = "post_added"
	EventPostLiked         EventKind = "post_liked"
	EventConnectionAdded   EventKind = "connection_added"
	EventConnectionUpdated EventKind = "connection_updated"
	EventMessageSent       EventKind = "message_sent"
)

// Event identifies the record a mutation touched.
type Event struct {
	Kind EventKind `json:"kind"`
	ID   string    `json:"id"`
}

// Store is the content store. Every operation is atomic with respect to
// the others, and mutation events are published under the write lock so
// subscribers see them in the same order as the collections.
type Store struct {
	mu          sync.RWMutex
	posts       []domain.Post
	connections []domain.Connection
	messages    []domain.Message
	suggestions []domain.Suggestion

	metrics *metrics.Metrics
	logger  *slog.Logger
	now     func() time.Time
	newID   func() string
	events  *notify.Broadcaster[Event]
}

// Option configures a Store.
type Option func(*Store)

// WithMetrics records mutation outcomes on m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Store) { s.metrics = m }
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithIDGenerator overrides identifier generation.
func WithIDGenerator(newID func() string) Option {
	return func(s *Store) { s.newID = newID }
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// WithSeed preloads the posts collection. The slice is copied.
func WithSeed(posts []domain.Post) Option {
	return func(s *Store) { s.posts = slices.Clone(posts) }
}

// WithSuggestions preloads the "people you may know" list. The slice is
// copied.
func WithSuggestions(people []domain.Suggestion) Option {
	return func(s *Store) { s.suggestions = slices.Clone(people) }
}

// New creates an empty Store unless WithSeed is given.
func New(opts ...Option) *Store {
	s := &Store{
		now:   func() time.Time { return time.Now().UTC() },
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	s.events = notify.New[Event](s.metrics.DroppedEvent("content"))
	return s
}

// AddPost assigns an ID and timestamps to p and puts it at the front of
// the feed.
func (s *Store) AddPost(p domain.NewPost) domain.Post {
	now := s.now()
	post := domain.Post{
		ID:          s.newID(),
		UserID:      p.UserID,
		Content:     p.Content,
		ImageURL:    p.ImageURL,
		DocumentURL: p.DocumentURL,
		Likes:       p.Likes,
		Comments:    p.Comments,
		Shares:      p.Shares,
		Author:      p.Author,
		IsLiked:     p.IsLiked,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.posts = slices.Insert(s.posts, 0, post)
	s.events.Publish(Event{Kind: EventPostAdded, ID: post.ID})

	s.logger.Debug("Post added", "post_id", post.ID, "user_id", post.UserID)
	s.metrics.ContentOp("add_post", true)
	return post
}

// LikePost toggles the viewer's like on post id and adjusts the like
// count. An unknown id is a no-op and returns false.
func (s *Store) LikePost(id string) (domain.Post, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := slices.IndexFunc(s.posts, func(p domain.Post) bool { return p.ID == id })
	if i < 0 {
		s.metrics.ContentOp("like_post", false)
		return domain.Post{}, false
	}
	p := &s.posts[i]
	if p.IsLiked {
		p.Likes--
	} else {
		p.Likes++
	}
	p.IsLiked = !p.IsLiked
	s.events.Publish(Event{Kind: EventPostLiked, ID: id})

	s.metrics.ContentOp("like_post", true)
	return *p, true
}

// AddConnection assigns an ID and timestamp to c and appends it.
func (s *Store) AddConnection(c domain.NewConnection) domain.Connection {
	conn := domain.Connection{
		ID:          s.newID(),
		RequesterID: c.RequesterID,
		RecipientID: c.RecipientID,
		Status:      c.Status,
		CreatedAt:   s.now(),
		User:        c.User,
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.connections = append(s.connections, conn)
	s.events.Publish(Event{Kind: EventConnectionAdded, ID: conn.ID})

	s.logger.Debug("Connection added", "connection_id", conn.ID, "status", conn.Status)
	s.metrics.ContentOp("add_connection", true)
	return conn
}

// UpdateConnectionStatus overwrites the status of connection id and
// nothing else. The prior status is not checked. An unknown id is a no-op
// and returns false.
func (s *Store) UpdateConnectionStatus(id string, status domain.ConnectionStatus) (domain.Connection, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := slices.IndexFunc(s.connections, func(c domain.Connection) bool { return c.ID == id })
	if i < 0 {
		s.metrics.ContentOp("update_connection_status", false)
		return domain.Connection{}, false
	}
	s.connections[i].Status = status
	s.events.Publish(Event{Kind: EventConnectionUpdated, ID: id})

	s.metrics.ContentOp("update_connection_status", true)
	return s.connections[i], true
}

// SendMessage assigns an ID and timestamp to m and appends it.
func (s *Store) SendMessage(m domain.NewMessage) domain.Message {
	msg := domain.Message{
		ID:          s.newID(),
		SenderID:    m.SenderID,
		RecipientID: m.RecipientID,
		Content:     m.Content,
		Read:        m.Read,
		CreatedAt:   s.now(),
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = append(s.messages, msg)
	s.events.Publish(Event{Kind: EventMessageSent, ID: msg.ID})

	s.logger.Debug("Message sent", "message_id", msg.ID, "sender_id", msg.SenderID)
	s.metrics.ContentOp("send_message", true)
	return msg
}

// Posts returns the feed, newest first.
func (s *Store) Posts() []domain.Post {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.posts)
}

// Post returns the post with the given id.
func (s *Store) Post(id string) (domain.Post, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.posts {
		if p.ID == id {
			return p, true
		}
	}
	return domain.Post{}, false
}

// Connections returns connections in insertion order.
func (s *Store) Connections() []domain.Connection {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.connections)
}

// Messages returns messages in the order they were sent.
func (s *Store) Messages() []domain.Message {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.messages)
}

// Suggestions returns the suggested people userID is not yet linked to by
// any connection, in any status.
func (s *Store) Suggestions(userID string) []domain.Suggestion {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Suggestion, 0, len(s.suggestions))
	for _, p := range s.suggestions {
		linked := slices.ContainsFunc(s.connections, func(c domain.Connection) bool {
			return c.Links(userID, p.ID)
		})
		if !linked {
			out = append(out, p)
		}
	}
	return out
}

// Conversations groups the messages involving userID by counterpart.
func (s *Store) Conversations(userID string) []domain.Conversation {
	return domain.GroupConversations(userID, s.Messages())
}

// Subscribe returns a channel of mutation events and a cancel func.
func (s *Store) Subscribe(buffer int) (<-chan Event, func()) {
	return s.events.Subscribe(buffer)
}

// Close releases subscribers.
func (s *Store) Close() {
	s.events.Close()
}
