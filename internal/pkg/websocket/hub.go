package websocket

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Event types pushed to subscribers
const (
	EventSnapshot   = "snapshot"
	EventDashboard  = "dashboard"
	EventComponents = "components"
	EventClosed     = "session_closed"
)

// Event is one message sent to the subscribers of a session
type Event struct {
	Type      string      `json:"type"`
	SessionID uuid.UUID   `json:"sessionId"`
	Payload   interface{} `json:"payload,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// Hub fans recomputed results out to the live connections of each session
type Hub struct {
	clients map[uuid.UUID]map[*Client]bool

	broadcast  chan *Event
	register   chan *Client
	unregister chan *Client

	// stopped is closed once Run returns
	stopped  chan struct{}
	stopOnce sync.Once

	mu sync.RWMutex

	logger zerolog.Logger
}

// NewHub creates a new Hub instance
func NewHub(logger zerolog.Logger) *Hub {
	return &Hub{
		broadcast:  make(chan *Event, 64),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		stopped:    make(chan struct{}),
		clients:    make(map[uuid.UUID]map[*Client]bool),
		logger:     logger,
	}
}

// Run processes registrations and broadcasts until done is closed
func (h *Hub) Run(done <-chan struct{}) {
	for {
		select {
		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case event := <-h.broadcast:
			h.broadcastEvent(event)

		case <-done:
			h.closeAll()
			h.stopOnce.Do(func() { close(h.stopped) })
			return
		}
	}
}

// Register hands a client to the hub. It reports false once the hub has stopped.
func (h *Hub) Register(client *Client) bool {
	select {
	case h.register <- client:
		return true
	case <-h.stopped:
		return false
	}
}

// Unregister removes a client; after the hub stopped it is a no-op
func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.stopped:
	}
}

func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[client.sessionID]; !ok {
		h.clients[client.sessionID] = make(map[*Client]bool)
	}
	h.clients[client.sessionID][client] = true

	h.logger.Info().
		Str("sessionID", client.sessionID.String()).
		Str("addr", client.remoteAddr()).
		Msg("Live client registered")
}

func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.dropLocked(client)
}

// dropLocked removes a client; the write lock must be held
func (h *Hub) dropLocked(client *Client) {
	clients, ok := h.clients[client.sessionID]
	if !ok {
		return
	}
	if _, ok := clients[client]; !ok {
		return
	}

	delete(clients, client)
	close(client.send)
	if len(clients) == 0 {
		delete(h.clients, client.sessionID)
	}

	h.logger.Info().
		Str("sessionID", client.sessionID.String()).
		Str("addr", client.remoteAddr()).
		Msg("Live client unregistered")
}

func (h *Hub) broadcastEvent(event *Event) {
	data, err := json.Marshal(event)
	if err != nil {
		h.logger.Error().
			Err(err).
			Str("sessionID", event.SessionID.String()).
			Msg("Failed to marshal live event")
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	for client := range h.clients[event.SessionID] {
		select {
		case client.send <- data:
		default:
			// Slow consumer
			h.dropLocked(client)
		}
	}

	if event.Type == EventClosed {
		for client := range h.clients[event.SessionID] {
			h.dropLocked(client)
		}
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, clients := range h.clients {
		for client := range clients {
			h.dropLocked(client)
		}
	}
}

// Publish queues an event for a session's subscribers. It never blocks:
// events for sessions without subscribers are skipped and a full queue drops the event.
func (h *Hub) Publish(sessionID uuid.UUID, eventType string, payload interface{}) {
	if h.ClientCount(sessionID) == 0 {
		return
	}

	event := &Event{
		Type:      eventType,
		SessionID: sessionID,
		Payload:   payload,
		Timestamp: time.Now(),
	}
	select {
	case h.broadcast <- event:
	default:
		h.logger.Warn().Str("sessionID", sessionID.String()).Msg("Live event queue full, dropping event")
	}
}

// ClientCount returns the number of live connections for a session
func (h *Hub) ClientCount(sessionID uuid.UUID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[sessionID])
}
