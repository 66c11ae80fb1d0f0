package reader

import (
	"context"
	"errors"
	"sync"
	"time"

	"pagevoice/internal/core/model"
)

// ErrSpeechUnsupported indicates no speech backend is available on this system.
var ErrSpeechUnsupported = errors.New("speech synthesis unsupported")

var (
	// ErrNoText indicates the text to read contained nothing speakable.
	ErrNoText = errors.New("no readable text")
	// ErrBusy indicates a session is already reading or paused.
	ErrBusy = errors.New("reading already in progress")
	// ErrNotReading indicates pause was requested outside the reading state.
	ErrNotReading = errors.New("not reading")
	// ErrNotPaused indicates resume was requested outside the paused state.
	ErrNotPaused = errors.New("not paused")
	// ErrNotActive indicates stop was requested with no session in flight.
	ErrNotActive = errors.New("no active reading session")
)

// Synthesizer speaks one snippet of text, blocking until the utterance
// finishes or ctx is canceled.
type Synthesizer interface {
	Speak(ctx context.Context, text string) error
}

// Reader is the state machine that owns authoritative session state and
// drives speech playback chunk by chunk.
type Reader struct {
	mu          sync.Mutex
	config      model.ReaderConfig
	synth       Synthesizer
	state       model.State
	chunks      []string
	position    int
	generation  int
	resumeCh    chan struct{}
	cancelSpeak context.CancelFunc
	events      []chan Event
	closed      bool
}

// New creates a Reader in the idle state.
func New(config model.ReaderConfig, synth Synthesizer) *Reader {
	return &Reader{
		config: config,
		synth:  synth,
		state:  model.StateIdle,
	}
}

// SetSynthesizer swaps the speech backend. Takes effect on the next start.
func (r *Reader) SetSynthesizer(synth Synthesizer) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.synth = synth
}

// UpdateConfig updates runtime configuration. Takes effect on the next start.
func (r *Reader) UpdateConfig(config model.ReaderConfig) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.config = config
}

// Subscribe registers a new observer channel.
func (r *Reader) Subscribe(buffer int) <-chan Event {
	if buffer <= 0 {
		buffer = 1
	}
	ch := make(chan Event, buffer)
	r.mu.Lock()
	r.events = append(r.events, ch)
	r.mu.Unlock()
	return ch
}

// Start begins reading the given text. Legal from idle and from any
// terminal state; starting over an in-flight session fails.
func (r *Reader) Start(text string) error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return ErrNotActive
	}
	if r.state == model.StateReading || r.state == model.StatePaused {
		r.mu.Unlock()
		return ErrBusy
	}
	if r.synth == nil {
		r.mu.Unlock()
		return ErrSpeechUnsupported
	}
	chunks := splitChunks(text, r.config.MaxChunkRunes)
	if len(chunks) == 0 {
		r.mu.Unlock()
		return ErrNoText
	}
	r.generation++
	generation := r.generation
	r.chunks = chunks
	r.position = 0
	r.state = model.StateReading
	total := len(chunks)
	r.mu.Unlock()

	r.emit(Event{Type: EventStateChange, State: model.StateReading, Total: total, At: time.Now()})
	go r.run(generation)
	return nil
}

// Pause freezes playback. The in-flight utterance is cut short and will be
// spoken again from its start on resume.
func (r *Reader) Pause() error {
	r.mu.Lock()
	if r.state != model.StateReading {
		r.mu.Unlock()
		return ErrNotReading
	}
	r.state = model.StatePaused
	r.resumeCh = make(chan struct{})
	cancel := r.cancelSpeak
	r.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	r.emit(Event{Type: EventStateChange, State: model.StatePaused, At: time.Now()})
	return nil
}

// Resume continues playback from the current chunk.
func (r *Reader) Resume() error {
	r.mu.Lock()
	if r.state != model.StatePaused {
		r.mu.Unlock()
		return ErrNotPaused
	}
	r.state = model.StateReading
	if r.resumeCh != nil {
		close(r.resumeCh)
		r.resumeCh = nil
	}
	chunk, total := r.position+1, len(r.chunks)
	r.mu.Unlock()

	r.emit(Event{Type: EventStateChange, State: model.StateReading, Chunk: chunk, Total: total, At: time.Now()})
	return nil
}

// Stop ends the session. Legal only while reading or paused.
func (r *Reader) Stop() error {
	r.mu.Lock()
	if r.state != model.StateReading && r.state != model.StatePaused {
		r.mu.Unlock()
		return ErrNotActive
	}
	r.state = model.StateStopped
	if r.resumeCh != nil {
		close(r.resumeCh)
		r.resumeCh = nil
	}
	cancel := r.cancelSpeak
	r.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	r.emit(Event{Type: EventStateChange, State: model.StateStopped, At: time.Now()})
	return nil
}

// Status returns the current session state.
func (r *Reader) Status() model.State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// IsReading reports whether playback is in flight.
func (r *Reader) IsReading() bool {
	return r.Status() == model.StateReading
}

// IsPaused reports whether playback is paused.
func (r *Reader) IsPaused() bool {
	return r.Status() == model.StatePaused
}

// Close tears down the reader and closes observer channels.
func (r *Reader) Close() {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	r.closed = true
	r.generation++
	if r.resumeCh != nil {
		close(r.resumeCh)
		r.resumeCh = nil
	}
	cancel := r.cancelSpeak
	events := r.events
	r.events = nil
	r.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	for _, ch := range events {
		close(ch)
	}
}

func (r *Reader) run(generation int) {
	for {
		r.mu.Lock()
		if r.generation != generation || r.state == model.StateStopped {
			r.mu.Unlock()
			return
		}
		if r.state == model.StatePaused {
			resume := r.resumeCh
			r.mu.Unlock()
			if resume != nil {
				<-resume
			}
			continue
		}
		if r.position >= len(r.chunks) {
			r.state = model.StateComplete
			r.emitLocked(Event{Type: EventStateChange, State: model.StateComplete, At: time.Now()})
			r.mu.Unlock()
			return
		}

		chunk := r.chunks[r.position]
		position, total := r.position+1, len(r.chunks)
		ctx, cancel := context.WithCancel(context.Background())
		r.cancelSpeak = cancel
		synth := r.synth
		pause := r.config.SentencePause
		r.mu.Unlock()

		r.emit(Event{Type: EventProgress, State: model.StateReading, Chunk: position, Total: total, At: time.Now()})
		err := synth.Speak(ctx, chunk)
		cancel()

		r.mu.Lock()
		r.cancelSpeak = nil
		if r.generation != generation || r.state == model.StateStopped {
			r.mu.Unlock()
			return
		}
		if r.state == model.StatePaused {
			// the utterance was cut mid-way; re-speak it after resume
			r.mu.Unlock()
			continue
		}
		if err != nil {
			r.state = model.StateError
			r.emitLocked(Event{Type: EventStateChange, State: model.StateError, Message: err.Error(), At: time.Now()})
			r.mu.Unlock()
			return
		}
		r.position++
		r.mu.Unlock()

		if pause > 0 {
			time.Sleep(pause)
		}
	}
}

func (r *Reader) emit(event Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.emitLocked(event)
}

func (r *Reader) emitLocked(event Event) {
	events := append([]chan Event(nil), r.events...)
	for _, ch := range events {
		select {
		case ch <- event:
		default:
		}
	}
}
