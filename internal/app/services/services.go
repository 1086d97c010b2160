package services

import (
	"github.com/google/uuid"
	"github.com/yigit/qpidash/internal/pkg/websocket"
)

// Publisher delivers recomputed results to a session's live subscribers
type Publisher interface {
	Publish(sessionID uuid.UUID, eventType string, payload interface{})
}

// NopPublisher drops every event
type NopPublisher struct{}

// Publish does nothing
func (NopPublisher) Publish(uuid.UUID, string, interface{}) {}

var _ Publisher = (*websocket.Hub)(nil)
