// Package popup implements the control surface logic: it never mutates
// session state directly, only requests mutation via message and displays
// the best-known state.
package popup

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"pagevoice/internal/core/model"
	"pagevoice/internal/messaging"
	"pagevoice/internal/ui/render"
)

// Client sends one control message and returns its single response.
type Client interface {
	Send(ctx context.Context, message messaging.Message) (messaging.Response, error)
}

// Renderer displays the popup's best-known session state.
type Renderer interface {
	Apply(view render.View)
}

// Config contains runtime options for the controller.
type Config struct {
	PollInterval time.Duration
	SendTimeout  time.Duration
}

// Controller holds the popup's display-state cache. The cache is eventually
// consistent; the reader behind the session endpoint stays authoritative.
type Controller struct {
	mu       sync.Mutex
	client   Client
	renderer Renderer
	config   Config
	display  model.State
	logger   *zap.Logger
}

// NewController creates a controller displaying the idle state.
func NewController(client Client, renderer Renderer, config Config, logger *zap.Logger) *Controller {
	if config.PollInterval <= 0 {
		config.PollInterval = time.Second
	}
	if config.SendTimeout <= 0 {
		config.SendTimeout = 90 * time.Second
	}
	return &Controller{
		client:   client,
		renderer: renderer,
		config:   config,
		display:  model.StateIdle,
		logger:   logger,
	}
}

// StartReading requests playback. Any failure — unreachable receiver or an
// error response — is shown as the error state.
func (c *Controller) StartReading(target string) {
	c.setDisplay(model.StateIdle)

	response, err := c.send(messaging.Message{Type: messaging.TypeStartReading, Target: target})
	if err != nil || response.Error != "" {
		c.logger.Warn("start reading failed",
			zap.Error(err),
			zap.String("response", response.Error))
		c.setDisplay(model.StateError)
		return
	}
	c.setDisplay(model.StateReading)
}

// PauseReading requests a pause. Failures are logged and the display left
// unchanged.
func (c *Controller) PauseReading() {
	c.control(messaging.TypePauseReading, model.StatePaused)
}

// ResumeReading requests a resume. Failures are logged and the display left
// unchanged.
func (c *Controller) ResumeReading() {
	c.control(messaging.TypeResumeReading, model.StateReading)
}

// StopReading requests a stop. Failures are logged and the display left
// unchanged.
func (c *Controller) StopReading() {
	c.control(messaging.TypeStopReading, model.StateStopped)
}

// RefreshStatus adopts the session's reported state. When the session is
// unreachable or the response is malformed the display falls back to idle —
// assume nothing is running, not an error.
func (c *Controller) RefreshStatus() {
	response, err := c.send(messaging.Message{Type: messaging.TypeGetStatus})
	if err != nil || response.Error != "" || !response.Status.Known() {
		c.setDisplay(model.StateIdle)
		return
	}
	c.setDisplay(response.Status)
}

// Poll refreshes status once immediately and then at every interval until
// ctx is canceled. It never fires after cancellation.
func (c *Controller) Poll(ctx context.Context) {
	ticker := time.NewTicker(c.config.PollInterval)
	defer ticker.Stop()

	c.RefreshStatus()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.RefreshStatus()
		}
	}
}

// Display returns the cached display state.
func (c *Controller) Display() model.State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.display
}

func (c *Controller) control(messageType messaging.Type, next model.State) {
	response, err := c.send(messaging.Message{Type: messageType})
	if err != nil || response.Error != "" {
		// transient control failure; keep showing the last known state
		c.logger.Warn("control failed",
			zap.String("type", string(messageType)),
			zap.Error(err),
			zap.String("response", response.Error))
		return
	}
	c.setDisplay(next)
}

func (c *Controller) send(message messaging.Message) (messaging.Response, error) {
	ctx, cancel := context.WithTimeout(context.Background(), c.config.SendTimeout)
	defer cancel()
	return c.client.Send(ctx, message)
}

func (c *Controller) setDisplay(state model.State) {
	c.mu.Lock()
	c.display = state
	c.mu.Unlock()
	if c.renderer != nil {
		c.renderer.Apply(render.For(state))
	}
}
