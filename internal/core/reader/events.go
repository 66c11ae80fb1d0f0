package reader

import (
	"time"

	"pagevoice/internal/core/model"
)

// EventType defines the type of reader event.
type EventType string

const (
	EventStateChange EventType = "state_change"
	EventProgress    EventType = "progress"
)

// Event represents a reader update for observers.
type Event struct {
	Type    EventType
	State   model.State
	Chunk   int
	Total   int
	Message string
	At      time.Time
}
