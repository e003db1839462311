// Package ws implements the WebSocket adapter that pushes change events to
// connected dashboards.
package ws

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"

	"github.com/coder/websocket"
	"golang.org/x/sync/semaphore"

	"github.com/croftlabs/verdant/internal/domain/user"
	"github.com/croftlabs/verdant/internal/middleware"
)

// maxConcurrentWrites bounds the fan-out so one slow client cannot hold
// goroutines for every broadcast in flight.
const maxConcurrentWrites = 32

// Message is the envelope for all WebSocket messages.
type Message struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// conn wraps a single connection together with the tenant it may see.
// An empty orgID means unrestricted (super admin).
type conn struct {
	ws     *websocket.Conn
	orgID  string
	cancel context.CancelFunc
}

// Hub manages active connections and fans events out to them. Events
// carrying an organization reach only that organization's connections
// plus unrestricted ones.
type Hub struct {
	mu    sync.RWMutex
	conns map[*conn]struct{}
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{conns: make(map[*conn]struct{})}
}

// HandleWS upgrades the request to a WebSocket connection. The request must
// already carry an authenticated identity; the auth middleware accepts a
// ?token= parameter for this route.
func (h *Hub) HandleWS(w http.ResponseWriter, r *http.Request) {
	id, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		http.Error(w, `{"error":"authorization required"}`, http.StatusUnauthorized)
		return
	}

	sock, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		InsecureSkipVerify: true, // CORS handled by middleware
	})
	if err != nil {
		slog.Error("websocket accept failed", "error", err)
		return
	}

	orgID := id.OrganizationID
	if id.Role == user.RoleSuperAdmin {
		orgID = ""
	}

	ctx, cancel := context.WithCancel(r.Context())
	c := &conn{ws: sock, orgID: orgID, cancel: cancel}

	h.mu.Lock()
	h.conns[c] = struct{}{}
	h.mu.Unlock()

	slog.Info("websocket connected", "user_id", id.ID, "remote", r.RemoteAddr)

	// Read loop detects disconnects and consumes pings.
	go func() {
		defer func() {
			h.remove(c)
			_ = sock.Close(websocket.StatusNormalClosure, "")
		}()
		for {
			if _, _, err := sock.Read(ctx); err != nil {
				return
			}
		}
	}()
}

// Broadcast sends a message to every connection.
func (h *Hub) Broadcast(ctx context.Context, msg Message) {
	h.send(ctx, msg, func(*conn) bool { return true })
}

// BroadcastToOrganization sends a message to the organization's connections
// and to unrestricted ones. An empty orgID behaves like Broadcast.
func (h *Hub) BroadcastToOrganization(ctx context.Context, orgID string, msg Message) {
	h.send(ctx, msg, func(c *conn) bool {
		return orgID == "" || c.orgID == "" || c.orgID == orgID
	})
}

func (h *Hub) send(ctx context.Context, msg Message, want func(*conn) bool) {
	data, err := json.Marshal(msg)
	if err != nil {
		slog.Error("websocket marshal failed", "type", msg.Type, "error", err)
		return
	}

	h.mu.RLock()
	targets := make([]*conn, 0, len(h.conns))
	for c := range h.conns {
		if want(c) {
			targets = append(targets, c)
		}
	}
	h.mu.RUnlock()

	sem := semaphore.NewWeighted(maxConcurrentWrites)
	var wg sync.WaitGroup
	for _, c := range targets {
		if err := sem.Acquire(ctx, 1); err != nil {
			break
		}
		wg.Add(1)
		go func(c *conn) {
			defer wg.Done()
			defer sem.Release(1)
			if err := c.ws.Write(ctx, websocket.MessageText, data); err != nil {
				slog.Debug("websocket write failed", "error", err)
				h.remove(c)
			}
		}(c)
	}
	wg.Wait()
}

// ConnectionCount returns the number of active connections.
func (h *Hub) ConnectionCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.conns)
}

func (h *Hub) remove(c *conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.conns[c]; ok {
		c.cancel()
		delete(h.conns, c)
		slog.Info("websocket disconnected")
	}
}
