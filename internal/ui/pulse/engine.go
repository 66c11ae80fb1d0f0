// Package pulse animates the overlay's speaking indicator.
package pulse

import (
	"context"
	"sync"
	"time"
)

// Config contains indicator timing values.
type Config struct {
	Interval time.Duration
	Frames   []string
}

// DefaultConfig returns the trailing-dots indicator.
func DefaultConfig() Config {
	return Config{
		Interval: 400 * time.Millisecond,
		Frames:   []string{"", ".", "..", "..."},
	}
}

// Engine drives a frame callback on a fixed interval.
type Engine struct {
	mu     sync.Mutex
	config Config
	update func(frame string)
}

// New creates an engine pushing frames through the update callback.
func New(config Config, update func(string)) *Engine {
	if config.Interval <= 0 {
		config.Interval = DefaultConfig().Interval
	}
	if len(config.Frames) == 0 {
		config.Frames = DefaultConfig().Frames
	}
	return &Engine{config: config, update: update}
}

// Start runs the frame loop until ctx is canceled. The final callback
// resets the indicator to its first frame.
func (engine *Engine) Start(ctx context.Context) {
	go engine.run(ctx)
}

func (engine *Engine) run(ctx context.Context) {
	engine.mu.Lock()
	interval := engine.config.Interval
	frames := engine.config.Frames
	engine.mu.Unlock()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	index := 0
	engine.update(frames[0])
	for {
		select {
		case <-ctx.Done():
			engine.update(frames[0])
			return
		case <-ticker.C:
			index = (index + 1) % len(frames)
			engine.update(frames[index])
		}
	}
}
