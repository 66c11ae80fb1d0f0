package messaging

import (
	"context"
	"errors"
	"sync"

	"pagevoice/internal/core/model"
)

// ErrUnreachable indicates no receiver is registered for the endpoint.
var ErrUnreachable = errors.New("receiver unreachable")

// EndpointSession is the endpoint owned by the session coordinator.
const EndpointSession = "session"

// Type identifies a control message.
type Type string

const (
	TypeStartReading  Type = "START_READING"
	TypePauseReading  Type = "PAUSE_READING"
	TypeResumeReading Type = "RESUME_READING"
	TypeStopReading   Type = "STOP_READING"
	TypeGetStatus     Type = "GET_STATUS"
)

// Message is a request delivered to a registered endpoint.
type Message struct {
	Type   Type   `json:"type"`
	Target string `json:"target,omitempty"`
}

// Response carries the single reply for a message.
type Response struct {
	Success   bool        `json:"success,omitempty"`
	Error     string      `json:"error,omitempty"`
	Status    model.State `json:"status,omitempty"`
	IsReading bool        `json:"isReading,omitempty"`
	IsPaused  bool        `json:"isPaused,omitempty"`
}

// Handler consumes one message and produces its response.
type Handler func(Message) Response

// Bus delivers typed messages between contexts. Each message reaches at
// most one handler and receives exactly one asynchronous response.
type Bus struct {
	mu       sync.RWMutex
	handlers map[string]Handler
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{handlers: make(map[string]Handler)}
}

// Handle registers the receiver for an endpoint, replacing any previous one.
func (bus *Bus) Handle(endpoint string, handler Handler) {
	bus.mu.Lock()
	defer bus.mu.Unlock()
	bus.handlers[endpoint] = handler
}

// Unhandle removes the receiver for an endpoint.
func (bus *Bus) Unhandle(endpoint string) {
	bus.mu.Lock()
	defer bus.mu.Unlock()
	delete(bus.handlers, endpoint)
}

// Send delivers the message and waits for its single response. The handler
// runs on its own goroutine; an expired ctx abandons the round-trip.
func (bus *Bus) Send(ctx context.Context, endpoint string, message Message) (Response, error) {
	bus.mu.RLock()
	handler := bus.handlers[endpoint]
	bus.mu.RUnlock()
	if handler == nil {
		return Response{}, ErrUnreachable
	}

	replies := make(chan Response, 1)
	go func() {
		replies <- handler(message)
	}()

	select {
	case response := <-replies:
		return response, nil
	case <-ctx.Done():
		return Response{}, ctx.Err()
	}
}

// Endpoint binds the bus to a fixed destination.
func (bus *Bus) Endpoint(name string) Endpoint {
	return Endpoint{bus: bus, name: name}
}

// Endpoint is a send-only view of one bus destination.
type Endpoint struct {
	bus  *Bus
	name string
}

// Send delivers a message to the bound endpoint.
func (endpoint Endpoint) Send(ctx context.Context, message Message) (Response, error) {
	return endpoint.bus.Send(ctx, endpoint.name, message)
}
