// Package realtime pushes session and content changes to browser tabs over
// websockets.
package realtime

import (
	"log/slog"
	"sync"

	"github.com/ashureev/profnet/internal/metrics"
	"github.com/coder/websocket"
)

// Hub tracks every open websocket connection, grouped by client id. Tabs
// that share a client id each keep their own connection.
type Hub struct {
	mu      sync.RWMutex
	active  map[string]map[*websocket.Conn]struct{}
	metrics *metrics.Metrics
}

// NewHub creates an empty hub. m may be nil.
func NewHub(m *metrics.Metrics) *Hub {
	return &Hub{
		active:  make(map[string]map[*websocket.Conn]struct{}),
		metrics: m,
	}
}

// Count returns the number of open connections.
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	n := 0
	for _, conns := range h.active {
		n += len(conns)
	}
	return n
}

// Register records conn under clientID. Registering the same connection
// twice is a no-op.
func (h *Hub) Register(clientID string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	conns, ok := h.active[clientID]
	if !ok {
		conns = make(map[*websocket.Conn]struct{})
		h.active[clientID] = conns
	}
	if _, dup := conns[conn]; dup {
		return
	}
	conns[conn] = struct{}{}
	h.metrics.RealtimeConnected(1)
	slog.Info("Realtime client registered", "client_id", clientID, "tabs", len(conns))
}

// Unregister removes conn from clientID's connections, if present.
func (h *Hub) Unregister(clientID string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	conns, ok := h.active[clientID]
	if !ok {
		return
	}
	if _, ok := conns[conn]; !ok {
		return
	}
	delete(conns, conn)
	if len(conns) == 0 {
		delete(h.active, clientID)
	}
	h.metrics.RealtimeConnected(-1)
	slog.Info("Realtime client unregistered", "client_id", clientID)
}

// CloseAll closes every open connection and returns how many it closed.
// The close handshakes run after the hub lock is released.
func (h *Hub) CloseAll() int {
	h.mu.Lock()
	var closing []*websocket.Conn
	for _, conns := range h.active {
		for conn := range conns {
			closing = append(closing, conn)
		}
	}
	clear(h.active)
	h.metrics.RealtimeConnected(-len(closing))
	h.mu.Unlock()

	for _, conn := range closing {
		_ = conn.Close(websocket.StatusGoingAway, "server shutting down")
	}
	return len(closing)
}
