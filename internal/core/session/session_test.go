package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"pagevoice/internal/core/model"
	"pagevoice/internal/core/reader"
	"pagevoice/internal/extract"
	"pagevoice/internal/messaging"
)

type fakeReader struct {
	mu       sync.Mutex
	status   model.State
	started  []string
	startErr error
	pauses   int
	pauseErr error
	resumes  int
	stops    int
	events   chan reader.Event
}

func newFakeReader() *fakeReader {
	return &fakeReader{status: model.StateIdle, events: make(chan reader.Event, 8)}
}

func (f *fakeReader) Start(text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.startErr != nil {
		return f.startErr
	}
	f.started = append(f.started, text)
	f.status = model.StateReading
	return nil
}

func (f *fakeReader) Pause() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pauses++
	return f.pauseErr
}

func (f *fakeReader) Resume() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.resumes++
	return nil
}

func (f *fakeReader) Stop() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stops++
	return nil
}

func (f *fakeReader) Status() model.State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.status
}

func (f *fakeReader) IsReading() bool { return f.Status() == model.StateReading }
func (f *fakeReader) IsPaused() bool  { return f.Status() == model.StatePaused }

func (f *fakeReader) Subscribe(int) <-chan reader.Event { return f.events }

type fakeOverlay struct {
	mu       sync.Mutex
	exists   bool
	creates  int
	shows    int
	statuses []model.State
	buttons  []model.State
	progress []int
	title    string
	onPause  func()
	onResume func()
	onStop   func()
}

func (f *fakeOverlay) Exists() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.exists
}

func (f *fakeOverlay) Create() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.creates++
	f.exists = true
}

func (f *fakeOverlay) Show() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.shows++
}

func (f *fakeOverlay) UpdateStatus(state model.State) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.statuses = append(f.statuses, state)
}

func (f *fakeOverlay) UpdateButtons(state model.State) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.buttons = append(f.buttons, state)
}

func (f *fakeOverlay) UpdateProgress(chunk, total int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.progress = append(f.progress, chunk)
}

func (f *fakeOverlay) SetTitle(title string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.title = title
}

func (f *fakeOverlay) SetCallbacks(onPause, onResume, onStop func()) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.onPause = onPause
	f.onResume = onResume
	f.onStop = onStop
}

func (f *fakeOverlay) lastStatus() model.State {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.statuses) == 0 {
		return ""
	}
	return f.statuses[len(f.statuses)-1]
}

type fakeExtractor struct {
	page extract.Page
	err  error
}

func (f *fakeExtractor) Extract(context.Context, string) (extract.Page, error) {
	return f.page, f.err
}

func newCoordinator(extractor Extractor, pageReader PageReader, overlay Overlay) *Coordinator {
	return New(extractor, pageReader, overlay, zap.NewNop())
}

func TestHandleUnknownType(t *testing.T) {
	pageReader := newFakeReader()
	overlay := &fakeOverlay{}
	c := newCoordinator(&fakeExtractor{}, pageReader, overlay)

	response := c.Handle(messaging.Message{Type: "REWIND"})
	require.Equal(t, "unknown message type", response.Error)
	require.False(t, response.Success)
	require.Equal(t, model.StateIdle, pageReader.Status())
	require.Zero(t, overlay.creates)
}

func TestGetStatusBeforeStart(t *testing.T) {
	c := newCoordinator(&fakeExtractor{}, newFakeReader(), &fakeOverlay{})

	response := c.Handle(messaging.Message{Type: messaging.TypeGetStatus})
	require.Equal(t, model.StateIdle, response.Status)
	require.False(t, response.IsReading)
	require.False(t, response.IsPaused)
	require.Empty(t, response.Error)
}

func TestStartHappyPath(t *testing.T) {
	pageReader := newFakeReader()
	overlay := &fakeOverlay{}
	extractor := &fakeExtractor{page: extract.Page{Title: "An Article", Text: "Body text."}}
	c := newCoordinator(extractor, pageReader, overlay)

	response := c.Handle(messaging.Message{Type: messaging.TypeStartReading})
	require.True(t, response.Success)
	require.Empty(t, response.Error)
	require.Equal(t, 1, overlay.creates)
	require.Equal(t, 1, overlay.shows)
	require.Equal(t, "An Article", overlay.title)
	require.Equal(t, []model.State{model.StateIdle}, overlay.statuses)
	require.Equal(t, []string{"Body text."}, pageReader.started)
}

func TestStartEmptyContentLeavesOverlayAlone(t *testing.T) {
	pageReader := newFakeReader()
	overlay := &fakeOverlay{}
	extractor := &fakeExtractor{page: extract.Page{Text: "   \n "}}
	c := newCoordinator(extractor, pageReader, overlay)

	response := c.Handle(messaging.Message{Type: messaging.TypeStartReading})
	require.Equal(t, extract.ErrNoContent.Error(), response.Error)
	require.Zero(t, overlay.creates)
	require.Zero(t, overlay.shows)
	require.False(t, overlay.Exists())
	require.Empty(t, pageReader.started)
}

func TestStartExtractorFailure(t *testing.T) {
	overlay := &fakeOverlay{}
	extractor := &fakeExtractor{err: errors.New("fetch failed")}
	c := newCoordinator(extractor, newFakeReader(), overlay)

	response := c.Handle(messaging.Message{Type: messaging.TypeStartReading})
	require.Equal(t, "fetch failed", response.Error)
	require.Zero(t, overlay.creates)
}

func TestStartTwiceCreatesOverlayOnce(t *testing.T) {
	overlay := &fakeOverlay{}
	extractor := &fakeExtractor{page: extract.Page{Text: "Body text."}}
	c := newCoordinator(extractor, newFakeReader(), overlay)

	require.True(t, c.Handle(messaging.Message{Type: messaging.TypeStartReading}).Success)
	require.True(t, c.Handle(messaging.Message{Type: messaging.TypeStartReading}).Success)
	require.Equal(t, 1, overlay.creates)
	require.Equal(t, 2, overlay.shows)
}

func TestStartReaderFailureFlipsOverlay(t *testing.T) {
	pageReader := newFakeReader()
	pageReader.startErr = reader.ErrBusy
	overlay := &fakeOverlay{}
	extractor := &fakeExtractor{page: extract.Page{Text: "Body text."}}
	c := newCoordinator(extractor, pageReader, overlay)

	response := c.Handle(messaging.Message{Type: messaging.TypeStartReading})
	require.Equal(t, reader.ErrBusy.Error(), response.Error)
	require.True(t, overlay.Exists())
	require.Equal(t, model.StateError, overlay.lastStatus())
}

func TestControlDispatch(t *testing.T) {
	pageReader := newFakeReader()
	c := newCoordinator(&fakeExtractor{}, pageReader, &fakeOverlay{})

	require.True(t, c.Handle(messaging.Message{Type: messaging.TypePauseReading}).Success)
	require.True(t, c.Handle(messaging.Message{Type: messaging.TypeResumeReading}).Success)
	require.True(t, c.Handle(messaging.Message{Type: messaging.TypeStopReading}).Success)
	require.Equal(t, 1, pageReader.pauses)
	require.Equal(t, 1, pageReader.resumes)
	require.Equal(t, 1, pageReader.stops)
}

func TestControlFailureResponse(t *testing.T) {
	pageReader := newFakeReader()
	pageReader.pauseErr = reader.ErrNotReading
	c := newCoordinator(&fakeExtractor{}, pageReader, &fakeOverlay{})

	response := c.Handle(messaging.Message{Type: messaging.TypePauseReading})
	require.Equal(t, reader.ErrNotReading.Error(), response.Error)
	require.False(t, response.Success)
}

func TestOverlayCallbacksDriveReader(t *testing.T) {
	pageReader := newFakeReader()
	overlay := &fakeOverlay{}
	newCoordinator(&fakeExtractor{}, pageReader, overlay)

	require.NotNil(t, overlay.onPause)
	overlay.onPause()
	overlay.onResume()
	overlay.onStop()
	require.Equal(t, 1, pageReader.pauses)
	require.Equal(t, 1, pageReader.resumes)
	require.Equal(t, 1, pageReader.stops)
}

func TestRunPumpsReaderEvents(t *testing.T) {
	pageReader := newFakeReader()
	overlay := &fakeOverlay{exists: true}
	c := newCoordinator(&fakeExtractor{}, pageReader, overlay)
	c.Run()

	pageReader.events <- reader.Event{Type: reader.EventStateChange, State: model.StateReading, At: time.Now()}
	pageReader.events <- reader.Event{Type: reader.EventProgress, State: model.StateReading, Chunk: 2, Total: 5, At: time.Now()}

	require.Eventually(t, func() bool {
		return overlay.lastStatus() == model.StateReading
	}, time.Second, 5*time.Millisecond)
	require.Eventually(t, func() bool {
		overlay.mu.Lock()
		defer overlay.mu.Unlock()
		return len(overlay.progress) == 1 && overlay.progress[0] == 2
	}, time.Second, 5*time.Millisecond)
	close(pageReader.events)
}
