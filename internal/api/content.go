package api

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/ashureev/profnet/internal/domain"
	"github.com/ashureev/profnet/internal/identity"
	"github.com/go-chi/chi/v5"
)

// ContentHandler serves the feed, connections and messaging endpoints.
type ContentHandler struct {
	*Handler
	now func() time.Time
}

// NewContentHandler creates a content handler.
func NewContentHandler(base *Handler) *ContentHandler {
	return &ContentHandler{Handler: base, now: time.Now}
}

// RegisterRoutes registers content routes.
func (h *ContentHandler) RegisterRoutes(r chi.Router) {
	r.Route("/api", func(r chi.Router) {
		r.Get("/posts", h.ListPosts)
		r.With(identity.RequireIdentity).Post("/posts", h.CreatePost)
		r.Get("/posts/{id}", h.GetPost)
		r.Post("/posts/{id}/like", h.LikePost)

		r.Get("/connections", h.ListConnections)
		r.Post("/connections", h.CreateConnection)
		r.Put("/connections/{id}/status", h.UpdateConnectionStatus)
		r.Get("/suggestions", h.ListSuggestions)

		r.Get("/messages", h.ListMessages)
		r.Post("/messages", h.SendMessage)
		r.With(identity.RequireIdentity).Get("/conversations", h.ListConversations)
	})
}

type postView struct {
	domain.Post
	TimeAgo string `json:"timeAgo"`
}

// ListPosts returns the feed, newest first.
func (h *ContentHandler) ListPosts(w http.ResponseWriter, r *http.Request) {
	posts := h.content.Posts()
	now := h.now()
	out := make([]postView, 0, len(posts))
	for _, p := range posts {
		out = append(out, postView{Post: p, TimeAgo: domain.TimeAgo(p.CreatedAt, now)})
	}
	JSON(w, http.StatusOK, out)
}

// GetPost returns a single post.
func (h *ContentHandler) GetPost(w http.ResponseWriter, r *http.Request) {
	post, ok := h.content.Post(chi.URLParam(r, "id"))
	if !ok {
		Error(w, http.StatusNotFound, "post not found")
		return
	}
	JSON(w, http.StatusOK, postView{Post: post, TimeAgo: domain.TimeAgo(post.CreatedAt, h.now())})
}

type createPostRequest struct {
	Content     string `json:"content"`
	ImageURL    string `json:"imageUrl"`
	DocumentURL string `json:"documentUrl"`
}

// CreatePost publishes a post authored by the active identity.
func (h *ContentHandler) CreatePost(w http.ResponseWriter, r *http.Request) {
	author, _ := identity.FromContext(r.Context())

	var req createPostRequest
	if err := decode(r, &req); err != nil {
		Error(w, http.StatusBadRequest, err.Error())
		return
	}
	text := strings.TrimSpace(req.Content)
	if text == "" {
		Error(w, http.StatusBadRequest, "content is required")
		return
	}

	post := h.content.AddPost(domain.NewPost{
		UserID:      author.ID,
		Content:     text,
		ImageURL:    req.ImageURL,
		DocumentURL: req.DocumentURL,
		Author:      author.AuthorSnapshot(),
	})
	JSON(w, http.StatusCreated, postView{Post: post, TimeAgo: domain.TimeAgo(post.CreatedAt, h.now())})
}

// LikePost toggles the like flag on a post. Unknown ids are not an error.
func (h *ContentHandler) LikePost(w http.ResponseWriter, r *http.Request) {
	post, ok := h.content.LikePost(chi.URLParam(r, "id"))
	if !ok {
		JSON(w, http.StatusOK, map[string]bool{"updated": false})
		return
	}
	JSON(w, http.StatusOK, postView{Post: post, TimeAgo: domain.TimeAgo(post.CreatedAt, h.now())})
}

// ListConnections returns every connection record.
func (h *ContentHandler) ListConnections(w http.ResponseWriter, r *http.Request) {
	JSON(w, http.StatusOK, h.content.Connections())
}

// CreateConnection appends a connection. The requester defaults to the
// active identity and the status to pending.
func (h *ContentHandler) CreateConnection(w http.ResponseWriter, r *http.Request) {
	var req domain.NewConnection
	if err := decode(r, &req); err != nil {
		Error(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.RequesterID == "" {
		req.RequesterID = identity.UserIDFromContext(r.Context())
	}
	if req.Status == "" {
		req.Status = domain.ConnectionPending
	}
	JSON(w, http.StatusCreated, h.content.AddConnection(req))
}

// ListSuggestions returns the people the active identity may know and is
// not yet connected to.
func (h *ContentHandler) ListSuggestions(w http.ResponseWriter, r *http.Request) {
	JSON(w, http.StatusOK, h.content.Suggestions(identity.UserIDFromContext(r.Context())))
}

type connectionStatusRequest struct {
	Status domain.ConnectionStatus `json:"status" validate:"required,oneof=accepted declined"`
}

// UpdateConnectionStatus accepts or declines a connection.
func (h *ContentHandler) UpdateConnectionStatus(w http.ResponseWriter, r *http.Request) {
	var req connectionStatusRequest
	if err := decode(r, &req); err != nil {
		Error(w, http.StatusBadRequest, err.Error())
		return
	}

	conn, ok := h.content.UpdateConnectionStatus(chi.URLParam(r, "id"), req.Status)
	if !ok {
		JSON(w, http.StatusOK, map[string]bool{"updated": false})
		return
	}
	JSON(w, http.StatusOK, conn)
}

// ListMessages returns every message in send order.
func (h *ContentHandler) ListMessages(w http.ResponseWriter, r *http.Request) {
	JSON(w, http.StatusOK, h.content.Messages())
}

// SendMessage appends a message. The sender defaults to the active identity.
func (h *ContentHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	var req domain.NewMessage
	if err := decode(r, &req); err != nil {
		Error(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.SenderID == "" {
		req.SenderID = identity.UserIDFromContext(r.Context())
	}
	JSON(w, http.StatusCreated, h.content.SendMessage(req))
}

// ListConversations groups the active identity's messages by counterpart.
// The optional q parameter filters by counterpart name.
func (h *ContentHandler) ListConversations(w http.ResponseWriter, r *http.Request) {
	convs := h.content.Conversations(identity.UserIDFromContext(r.Context()))

	q := r.URL.Query().Get("q")
	if strings.TrimSpace(q) == "" {
		JSON(w, http.StatusOK, convs)
		return
	}
	people, err := h.sessions.Directory(r.Context())
	if err != nil {
		// Fall back to matching counterpart ids.
		slog.Warn("Directory unavailable for conversation search", "error", err)
	}
	names := make(map[string]string, len(people))
	for _, p := range people {
		names[p.ID] = p.FullName()
	}
	JSON(w, http.StatusOK, domain.FilterConversations(convs, q, names))
}
