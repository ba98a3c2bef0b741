package server

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/observability"
	"github.com/ayusman/mudra/internal/app"
	"github.com/ayusman/mudra/internal/session"
)

// landmarkInterval paces landmark pushes at roughly 15 FPS.
const landmarkInterval = 66 * time.Millisecond

const writeWait = 5 * time.Second

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow local connections
	},
}

// EventSource is what EventsHandler reads from.
type EventSource interface {
	Snapshot() app.Snapshot
	Subscribe() (<-chan session.Change, func())
	Latest() *detector.Frame
}

// sessionEvent carries the full snapshot after any session change.
type sessionEvent struct {
	Type   string             `json:"type"`
	Kind   session.ChangeKind `json:"kind,omitempty"`
	Client string             `json:"client,omitempty"`
	app.Snapshot
}

type landmarksEvent struct {
	Type      string                   `json:"type"`
	Hands     []detector.HandLandmarks `json:"hands"`
	Timestamp int64                    `json:"timestamp"`
}

type client struct {
	id   string
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *client) send(v any) error {
	msg, err := json.Marshal(v)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteMessage(websocket.TextMessage, msg)
}

// EventsHandler pushes session changes and live landmarks over WebSocket.
type EventsHandler struct {
	source   EventSource
	interval time.Duration
	clients  map[string]*client
	mu       sync.RWMutex
	done     chan struct{}
	once     sync.Once
	log      zerolog.Logger
}

// NewEventsHandler creates an EventsHandler and starts its broadcast loops.
func NewEventsHandler(source EventSource) *EventsHandler {
	return newEventsHandler(source, landmarkInterval)
}

func newEventsHandler(source EventSource, interval time.Duration) *EventsHandler {
	h := &EventsHandler{
		source:   source,
		interval: interval,
		clients:  make(map[string]*client),
		done:     make(chan struct{}),
		log:      observability.Component("events"),
	}
	changes, unsubscribe := source.Subscribe()
	go h.forwardChanges(changes, unsubscribe)
	go h.broadcastLandmarks()
	return h
}

// ServeHTTP handles WebSocket upgrade requests. The first message a client
// receives is the current session snapshot.
func (h *EventsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}
	defer conn.Close()

	c := &client{id: uuid.NewString(), conn: conn}
	if err := c.send(sessionEvent{Type: "session", Client: c.id, Snapshot: h.source.Snapshot()}); err != nil {
		return
	}

	h.mu.Lock()
	h.clients[c.id] = c
	h.mu.Unlock()
	h.log.Debug().Str("client", c.id).Msg("events client connected")

	defer func() {
		h.mu.Lock()
		delete(h.clients, c.id)
		h.mu.Unlock()
		h.log.Debug().Str("client", c.id).Msg("events client disconnected")
	}()

	// Keep connection alive by reading messages
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
}

// Clients returns the number of connected clients.
func (h *EventsHandler) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Close stops the broadcast loops and disconnects every client.
func (h *EventsHandler) Close() {
	h.once.Do(func() {
		close(h.done)
		h.mu.Lock()
		for id, c := range h.clients {
			c.conn.Close()
			delete(h.clients, id)
		}
		h.mu.Unlock()
	})
}

func (h *EventsHandler) forwardChanges(changes <-chan session.Change, unsubscribe func()) {
	defer unsubscribe()
	for {
		select {
		case <-h.done:
			return
		case ch, ok := <-changes:
			if !ok {
				return
			}
			h.broadcast(sessionEvent{Type: "session", Kind: ch.Kind, Snapshot: h.source.Snapshot()})
		}
	}
}

// broadcastLandmarks pushes the latest frame whenever its timestamp moves.
func (h *EventsHandler) broadcastLandmarks() {
	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()

	var last int64
	for {
		select {
		case <-h.done:
			return
		case <-ticker.C:
		}

		frame := h.source.Latest()
		if frame == nil || frame.TimestampMs == last {
			continue
		}
		last = frame.TimestampMs

		hands := frame.Hands
		if hands == nil {
			hands = []detector.HandLandmarks{}
		}
		h.broadcast(landmarksEvent{Type: "landmarks", Hands: hands, Timestamp: frame.TimestampMs})
	}
}

func (h *EventsHandler) broadcast(v any) {
	h.mu.RLock()
	targets := make([]*client, 0, len(h.clients))
	for _, c := range h.clients {
		targets = append(targets, c)
	}
	h.mu.RUnlock()

	for _, c := range targets {
		if err := c.send(v); err != nil {
			h.log.Debug().Err(err).Str("client", c.id).Msg("events write failed")
			c.conn.Close()
		}
	}
}
