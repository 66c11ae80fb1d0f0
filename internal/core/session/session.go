// Package session bridges inbound control messages to the page reader and
// overlay, and pushes reader status changes back onto the overlay.
package session

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"pagevoice/internal/core/model"
	"pagevoice/internal/core/reader"
	"pagevoice/internal/extract"
	"pagevoice/internal/messaging"
)

const extractTimeout = 45 * time.Second

// PageReader is the playback engine owning authoritative session state.
type PageReader interface {
	Start(text string) error
	Pause() error
	Resume() error
	Stop() error
	Status() model.State
	IsReading() bool
	IsPaused() bool
	Subscribe(buffer int) <-chan reader.Event
}

// Overlay is the floating on-page control surface. It is created lazily;
// status and button updates before creation are no-ops.
type Overlay interface {
	Exists() bool
	Create()
	Show()
	UpdateStatus(state model.State)
	UpdateButtons(state model.State)
	UpdateProgress(chunk, total int)
	SetTitle(title string)
	SetCallbacks(onPause, onResume, onStop func())
}

// Extractor produces readable text for a reading target.
type Extractor interface {
	Extract(ctx context.Context, target string) (extract.Page, error)
}

// Coordinator owns the reader, overlay and extractor for one context and
// dispatches control messages to them.
type Coordinator struct {
	extractor Extractor
	reader    PageReader
	overlay   Overlay
	logger    *zap.Logger
}

// New wires the coordinator. Overlay button presses call straight into the
// reader; no message round-trip is involved inside the context.
func New(extractor Extractor, pageReader PageReader, overlay Overlay, logger *zap.Logger) *Coordinator {
	c := &Coordinator{
		extractor: extractor,
		reader:    pageReader,
		overlay:   overlay,
		logger:    logger,
	}
	overlay.SetCallbacks(
		func() { c.controlFromOverlay("pause", c.reader.Pause) },
		func() { c.controlFromOverlay("resume", c.reader.Resume) },
		func() { c.controlFromOverlay("stop", c.reader.Stop) },
	)
	return c
}

// Attach registers the coordinator as the session endpoint on the bus.
func (c *Coordinator) Attach(bus *messaging.Bus) {
	bus.Handle(messaging.EndpointSession, c.Handle)
}

// Run pumps reader events onto the overlay until the reader closes.
func (c *Coordinator) Run() {
	events := c.reader.Subscribe(8)
	go func() {
		for event := range events {
			switch event.Type {
			case reader.EventStateChange:
				c.overlay.UpdateStatus(event.State)
				c.overlay.UpdateButtons(event.State)
				if event.State == model.StateError {
					c.logger.Warn("reading failed", zap.String("reason", event.Message))
				} else if event.State.Terminal() {
					c.logger.Info("reading finished", zap.String("state", string(event.State)))
				}
			case reader.EventProgress:
				c.overlay.UpdateProgress(event.Chunk, event.Total)
			}
		}
	}()
}

// Handle dispatches one control message and returns its single response.
func (c *Coordinator) Handle(message messaging.Message) messaging.Response {
	switch message.Type {
	case messaging.TypeStartReading:
		return c.handleStart(message.Target)
	case messaging.TypePauseReading:
		return controlResponse(c.reader.Pause())
	case messaging.TypeResumeReading:
		return controlResponse(c.reader.Resume())
	case messaging.TypeStopReading:
		return controlResponse(c.reader.Stop())
	case messaging.TypeGetStatus:
		return messaging.Response{
			Status:    c.reader.Status(),
			IsReading: c.reader.IsReading(),
			IsPaused:  c.reader.IsPaused(),
		}
	default:
		return messaging.Response{Error: "unknown message type"}
	}
}

func (c *Coordinator) handleStart(target string) messaging.Response {
	ctx, cancel := context.WithTimeout(context.Background(), extractTimeout)
	defer cancel()

	page, err := c.extractor.Extract(ctx, target)
	if err != nil {
		return c.failStart(err)
	}
	if strings.TrimSpace(page.Text) == "" {
		return c.failStart(extract.ErrNoContent)
	}

	if !c.overlay.Exists() {
		c.overlay.Create()
	}
	c.overlay.Show()
	c.overlay.SetTitle(page.Title)
	c.overlay.UpdateStatus(model.StateIdle)
	c.overlay.UpdateButtons(model.StateIdle)

	if err := c.reader.Start(page.Text); err != nil {
		return c.failStart(err)
	}
	return messaging.Response{Success: true}
}

// failStart reports a start failure and, if the overlay already exists,
// flips it to the error state. An overlay is never created just to show an
// error.
func (c *Coordinator) failStart(err error) messaging.Response {
	c.logger.Warn("start reading failed", zap.Error(err))
	if c.overlay.Exists() {
		c.overlay.UpdateStatus(model.StateError)
		c.overlay.UpdateButtons(model.StateError)
	}
	return messaging.Response{Error: err.Error()}
}

func (c *Coordinator) controlFromOverlay(name string, op func() error) {
	if err := op(); err != nil {
		c.logger.Debug("overlay control ignored", zap.String("op", name), zap.Error(err))
	}
}

func controlResponse(err error) messaging.Response {
	if err != nil {
		return messaging.Response{Error: err.Error()}
	}
	return messaging.Response{Success: true}
}
