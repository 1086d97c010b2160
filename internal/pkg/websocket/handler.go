package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

// SnapshotFunc produces the payload sent right after a client connects
type SnapshotFunc func(ctx context.Context, sessionID uuid.UUID) (interface{}, error)

// Handler upgrades session requests to live connections
type Handler struct {
	hub      *Hub
	snapshot SnapshotFunc
	logger   zerolog.Logger
}

// NewHandler creates a new WebSocket handler
func NewHandler(hub *Hub, snapshot SnapshotFunc, logger zerolog.Logger) *Handler {
	return &Handler{
		hub:      hub,
		snapshot: snapshot,
		logger:   logger,
	}
}

// HandleConnection godoc
// @Summary Subscribe to live dashboard updates
// @Description Upgrades to a WebSocket that receives the dashboard after every edit in the session
// @Tags sessions, websocket
// @Security BearerAuth
// @Success 101 {string} string "Switching Protocols to WebSocket"
// @Failure 401 {object} dto.ErrorResponse "Missing or invalid session token"
// @Router /sessions/me/live [get]
func (h *Handler) HandleConnection(c *gin.Context) {
	raw, exists := c.Get("sessionID")
	sessionID, ok := raw.(uuid.UUID)
	if !exists || !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "session not found in context"})
		return
	}

	// Build the first frame before upgrading so failures still get an HTTP status
	first, err := h.snapshot(c.Request.Context(), sessionID)
	if err != nil {
		h.logger.Error().Err(err).Str("sessionID", sessionID.String()).Msg("Failed to build live snapshot")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to build snapshot"})
		return
	}
	data, err := json.Marshal(&Event{
		Type:      EventSnapshot,
		SessionID: sessionID,
		Payload:   first,
		Timestamp: time.Now(),
	})
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to marshal live snapshot")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to build snapshot"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Error().
			Err(err).
			Str("sessionID", sessionID.String()).
			Msg("Failed to upgrade connection to WebSocket")
		return
	}

	client := &Client{
		hub:       h.hub,
		conn:      conn,
		send:      make(chan []byte, 32),
		sessionID: sessionID,
		logger:    h.logger,
	}
	client.send <- data
	if !h.hub.Register(client) {
		h.logger.Warn().Str("sessionID", sessionID.String()).Msg("Live hub stopped, closing connection")
		_ = conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"))
		conn.Close()
		return
	}

	go client.writePump()
	go client.readPump()
}
