package realtime

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"slices"
	"time"

	"github.com/ashureev/profnet/internal/content"
	"github.com/ashureev/profnet/internal/identity"
	"github.com/ashureev/profnet/internal/session"
	"github.com/coder/websocket"
)

const (
	subscriberBuffer = 32
	writeTimeout     = 5 * time.Second
)

// SessionEvents is the session store's change feed.
type SessionEvents interface {
	Subscribe(buffer int) (<-chan session.Event, func())
}

// ContentEvents is the content store's change feed.
type ContentEvents interface {
	Subscribe(buffer int) (<-chan content.Event, func())
}

// Handler upgrades requests to websockets and forwards store events.
type Handler struct {
	hub            *Hub
	sessions       SessionEvents
	content        ContentEvents
	allowedOrigins []string
	isDev          bool
}

// NewHandler creates a websocket handler.
func NewHandler(hub *Hub, sessions SessionEvents, content ContentEvents, allowedOrigins []string, isDev bool) *Handler {
	return &Handler{
		hub:            hub,
		sessions:       sessions,
		content:        content,
		allowedOrigins: allowedOrigins,
		isDev:          isDev,
	}
}

// Message is the JSON frame exchanged with clients.
type Message struct {
	Type    string        `json:"type"`
	Kind    string        `json:"kind,omitempty"`
	ID      string        `json:"id,omitempty"`
	State   session.State `json:"state,omitempty"`
	Loading *bool         `json:"loading,omitempty"`
}

func sessionMessage(ev session.Event) Message {
	loading := ev.Loading
	msg := Message{Type: "session", Kind: string(ev.Kind), State: ev.State, Loading: &loading}
	if ev.Identity != nil {
		msg.ID = ev.Identity.ID
	}
	return msg
}

func contentMessage(ev content.Event) Message {
	return Message{Type: "content", Kind: string(ev.Kind), ID: ev.ID}
}

// ServeHTTP implements http.Handler for the websocket upgrade.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	clientID := identity.ClientIDFromContext(r.Context())
	slog.Info("WebSocket connection request", "client_id", clientID, "ip", identity.IPFromRequest(r))

	if !h.checkOrigin(r) {
		http.Error(w, "origin not allowed", http.StatusForbidden)
		return
	}

	// Subscribe before the handshake completes so no event published after
	// the client sees the upgrade is missed.
	sessEvents, cancelSess := h.sessions.Subscribe(subscriberBuffer)
	defer cancelSess()
	contEvents, cancelCont := h.content.Subscribe(subscriberBuffer)
	defer cancelCont()

	ws, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: []string{"*"},
	})
	if err != nil {
		slog.Error("Failed to accept WebSocket", "error", err, "client_id", clientID)
		return
	}
	defer func() {
		if closeErr := ws.Close(websocket.StatusNormalClosure, "session ended"); closeErr != nil {
			slog.Debug("Failed to close websocket", "error", closeErr, "client_id", clientID)
		}
	}()

	h.hub.Register(clientID, ws)
	defer h.hub.Unregister(clientID, ws)

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	go func() {
		defer cancel()
		h.inputLoop(ctx, ws, clientID)
	}()

	h.outputLoop(ctx, ws, sessEvents, contEvents)
	slog.Info("Realtime session ended", "client_id", clientID)
}

func (h *Handler) checkOrigin(r *http.Request) bool {
	if h.isDev {
		return true
	}
	origin := r.Header.Get("Origin")
	if origin == "" || slices.Contains(h.allowedOrigins, "*") || slices.Contains(h.allowedOrigins, origin) {
		return true
	}
	slog.Warn("WebSocket origin rejected", "origin", origin, "allowed", h.allowedOrigins)
	return false
}

func (h *Handler) inputLoop(ctx context.Context, ws *websocket.Conn, clientID string) {
	for {
		_, data, err := ws.Read(ctx)
		if err != nil {
			if websocket.CloseStatus(err) != -1 {
				slog.Debug("WebSocket closed by client", "client_id", clientID)
			} else if ctx.Err() == nil {
				slog.Warn("WebSocket read error", "error", err, "client_id", clientID)
			}
			return
		}

		var msg Message
		if err := json.Unmarshal(data, &msg); err != nil {
			slog.Debug("Ignoring malformed frame", "client_id", clientID)
			continue
		}
		if msg.Type == "ping" {
			if err := writeJSON(ctx, ws, Message{Type: "pong"}); err != nil {
				slog.Debug("Failed to send pong", "error", err)
				return
			}
		}
	}
}

func (h *Handler) outputLoop(ctx context.Context, ws *websocket.Conn, sessEvents <-chan session.Event, contEvents <-chan content.Event) {
	for {
		var msg Message
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-sessEvents:
			if !ok {
				return
			}
			msg = sessionMessage(ev)
		case ev, ok := <-contEvents:
			if !ok {
				return
			}
			msg = contentMessage(ev)
		}
		if err := writeJSON(ctx, ws, msg); err != nil {
			slog.Debug("WebSocket write error", "error", err)
			return
		}
	}
}

func writeJSON(ctx context.Context, ws *websocket.Conn, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()
	return ws.Write(ctx, websocket.MessageText, data)
}
