package overlay

import (
	"context"
	"fmt"
	"image/color"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"pagevoice/internal/core/model"
	"pagevoice/internal/ui/pulse"
	"pagevoice/internal/ui/render"
)

// Config defines overlay visuals.
type Config struct {
	Opacity uint8
	Title   string
}

const (
	overlayWidth  = float32(360)
	overlayHeight = float32(140)
)

type splashWindowDriver interface {
	CreateSplashWindow() fyne.Window
}

// Controller manages the singleton floating overlay shown during reading.
// The window is created lazily on the first start.
type Controller struct {
	mu      sync.Mutex
	app     fyne.App
	config  Config
	created bool

	window        fyne.Window
	background    *canvas.Rectangle
	titleLabel    *canvas.Text
	statusLabel   *canvas.Text
	indicator     *canvas.Text
	progressLabel *canvas.Text
	pauseButton   *widget.Button
	resumeButton  *widget.Button
	stopButton    *widget.Button
	controlsRow   *fyne.Container

	engine      *pulse.Engine
	pulseCancel context.CancelFunc

	onPause  func()
	onResume func()
	onStop   func()
}

// New creates the controller without building any window yet.
func New(app fyne.App, config Config) *Controller {
	return &Controller{app: app, config: config}
}

// SetCallbacks registers the control handlers the overlay buttons invoke.
func (overlay *Controller) SetCallbacks(onPause, onResume, onStop func()) {
	overlay.mu.Lock()
	defer overlay.mu.Unlock()
	overlay.onPause = onPause
	overlay.onResume = onResume
	overlay.onStop = onStop
}

// Exists reports whether the overlay window has been created.
func (overlay *Controller) Exists() bool {
	overlay.mu.Lock()
	defer overlay.mu.Unlock()
	return overlay.created
}

// Create builds the overlay window. Calling it again is a no-op.
func (overlay *Controller) Create() {
	overlay.mu.Lock()
	if overlay.created {
		overlay.mu.Unlock()
		return
	}
	overlay.created = true
	overlay.mu.Unlock()

	fyne.Do(func() {
		overlay.build()
	})
}

// Show displays the overlay.
func (overlay *Controller) Show() {
	if !overlay.Exists() {
		return
	}
	fyne.Do(func() {
		overlay.window.Show()
	})
}

// Hide conceals the overlay and stops the indicator.
func (overlay *Controller) Hide() {
	if !overlay.Exists() {
		return
	}
	overlay.stopPulse()
	fyne.Do(func() {
		overlay.window.Hide()
	})
}

// SetTitle updates the page title line.
func (overlay *Controller) SetTitle(title string) {
	if !overlay.Exists() {
		return
	}
	fyne.Do(func() {
		if title == "" {
			title = overlay.config.Title
		}
		overlay.titleLabel.Text = title
		overlay.titleLabel.Refresh()
	})
}

// UpdateStatus renders the state's label and drives the speaking indicator.
func (overlay *Controller) UpdateStatus(state model.State) {
	if !overlay.Exists() {
		return
	}
	view := render.For(state)
	fyne.Do(func() {
		overlay.statusLabel.Text = view.Label
		overlay.statusLabel.Refresh()
	})
	if state == model.StateReading {
		overlay.startPulse()
	} else {
		overlay.stopPulse()
	}
}

// UpdateButtons enables the controls the state allows.
func (overlay *Controller) UpdateButtons(state model.State) {
	if !overlay.Exists() {
		return
	}
	view := render.For(state)
	fyne.Do(func() {
		setEnabled(overlay.pauseButton, view.ShowControls && view.Pause)
		setEnabled(overlay.resumeButton, view.ShowControls && view.Resume)
		setEnabled(overlay.stopButton, view.ShowControls && view.Stop)
		if view.ShowControls {
			overlay.controlsRow.Show()
		} else {
			overlay.controlsRow.Hide()
		}
	})
}

// UpdateProgress shows the chunk position within the page.
func (overlay *Controller) UpdateProgress(chunk, total int) {
	if !overlay.Exists() {
		return
	}
	fyne.Do(func() {
		overlay.progressLabel.Text = fmt.Sprintf("%d / %d", chunk, total)
		overlay.progressLabel.Refresh()
	})
}

// UpdateConfig updates overlay visuals.
func (overlay *Controller) UpdateConfig(config Config) {
	overlay.mu.Lock()
	overlay.config = config
	created := overlay.created
	overlay.mu.Unlock()
	if !created {
		return
	}
	fyne.Do(func() {
		overlay.background.FillColor = color.NRGBA{R: 20, G: 20, B: 24, A: config.Opacity}
		canvas.Refresh(overlay.background)
	})
}

func (overlay *Controller) build() {
	window := overlay.app.NewWindow(overlay.config.Title)
	if driver, ok := overlay.app.Driver().(splashWindowDriver); ok {
		// Splash window is undecorated (no native frame/buttons).
		window = driver.CreateSplashWindow()
	}
	window.SetPadded(false)

	background := canvas.NewRectangle(color.NRGBA{R: 20, G: 20, B: 24, A: overlay.config.Opacity})

	titleLabel := canvas.NewText(overlay.config.Title, color.NRGBA{R: 255, G: 255, B: 255, A: 255})
	titleLabel.TextStyle = fyne.TextStyle{Bold: true}
	titleLabel.TextSize = 16

	statusLabel := canvas.NewText("Ready", color.NRGBA{R: 232, G: 190, B: 66, A: 255})
	statusLabel.TextStyle = fyne.TextStyle{Bold: true}
	statusLabel.TextSize = 14

	indicator := canvas.NewText("", color.NRGBA{R: 232, G: 190, B: 66, A: 255})
	indicator.TextSize = 14

	progressLabel := canvas.NewText("", color.NRGBA{R: 200, G: 200, B: 200, A: 255})
	progressLabel.TextSize = 12

	pauseButton := widget.NewButton("Pause", func() { overlay.invoke(overlay.onPause) })
	resumeButton := widget.NewButton("Resume", func() { overlay.invoke(overlay.onResume) })
	stopButton := widget.NewButton("Stop", func() { overlay.invoke(overlay.onStop) })
	controlsRow := container.NewHBox(pauseButton, resumeButton, stopButton)

	content := container.NewVBox(
		titleLabel,
		container.NewHBox(statusLabel, indicator),
		progressLabel,
		controlsRow,
	)
	root := container.NewStack(background, container.NewPadded(content))
	window.SetContent(root)
	window.Resize(fyne.NewSize(overlayWidth, overlayHeight))
	window.CenterOnScreen()

	overlay.window = window
	overlay.background = background
	overlay.titleLabel = titleLabel
	overlay.statusLabel = statusLabel
	overlay.indicator = indicator
	overlay.progressLabel = progressLabel
	overlay.pauseButton = pauseButton
	overlay.resumeButton = resumeButton
	overlay.stopButton = stopButton
	overlay.controlsRow = controlsRow

	engine := pulse.New(pulse.DefaultConfig(), func(frame string) {
		fyne.Do(func() {
			indicator.Text = frame
			indicator.Refresh()
		})
	})
	overlay.mu.Lock()
	overlay.engine = engine
	overlay.mu.Unlock()
}

func (overlay *Controller) startPulse() {
	overlay.mu.Lock()
	defer overlay.mu.Unlock()
	if overlay.pulseCancel != nil || overlay.engine == nil {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	overlay.pulseCancel = cancel
	overlay.engine.Start(ctx)
}

func (overlay *Controller) stopPulse() {
	overlay.mu.Lock()
	defer overlay.mu.Unlock()
	if overlay.pulseCancel != nil {
		overlay.pulseCancel()
		overlay.pulseCancel = nil
	}
}

func (overlay *Controller) invoke(handler func()) {
	if handler != nil {
		handler()
	}
}

func setEnabled(button *widget.Button, enabled bool) {
	if enabled {
		button.Enable()
		return
	}
	button.Disable()
}
