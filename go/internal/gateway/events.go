package gateway

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// DashboardEvent is the envelope pushed to dashboard WebSocket clients.
type DashboardEvent struct {
	ID        string          `json:"id"`        // Event UUID
	EntityID  string          `json:"entity_id"` // Table or tournament UUID
	Type      EventType       `json:"type"`      // Event type
	Timestamp time.Time       `json:"timestamp"` // Event creation time
	Data      json.RawMessage `json:"data"`      // Derived state payload
}

// EventType represents the type of dashboard event.
type EventType string

const (
	EventTypeSessionTick    EventType = "SessionTick"
	EventTypeTournamentTick EventType = "TournamentTick"
	EventTypePlayerStatus   EventType = "PlayerStatus"
)

// NewTickEvent wraps a derived frame in an event envelope.
func NewTickEvent(eventType EventType, entityID uuid.UUID, frame any, now time.Time) (*DashboardEvent, error) {
	data, err := json.Marshal(frame)
	if err != nil {
		return nil, err
	}
	return &DashboardEvent{
		ID:        uuid.New().String(),
		EntityID:  entityID.String(),
		Type:      eventType,
		Timestamp: now,
		Data:      data,
	}, nil
}
