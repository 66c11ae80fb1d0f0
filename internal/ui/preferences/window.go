package preferences

import (
	"fmt"
	"strconv"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"
)

// Window handles the preferences UI.
type Window struct {
	window    fyne.Window
	settings  Settings
	onSave    func(Settings)
	onCancel  func()
	pageURL   *widget.Entry
	rate      *widget.Entry
	voice     *widget.Entry
	pause     *widget.Entry
	opacity   *widget.Slider
	autostart *widget.Check
}

// New creates a preferences window.
func New(app fyne.App, settings Settings, onSave func(Settings)) *Window {
	window := app.NewWindow("pagevoice Settings")

	pageURL := widget.NewEntry()
	pageURL.SetPlaceHolder("https://example.com/article")
	pageURL.SetText(settings.PageURL)

	rate := widget.NewEntry()
	rate.SetText(fmt.Sprintf("%d", settings.SpeechRate))

	voice := widget.NewEntry()
	voice.SetPlaceHolder("system default")
	voice.SetText(settings.Voice)

	pause := widget.NewEntry()
	pause.SetText(fmt.Sprintf("%d", int(settings.SentencePause.Milliseconds())))

	opacity := widget.NewSlider(0.7, 0.95)
	opacity.Value = settings.OverlayOpacity
	opacity.Step = 0.01

	autostart := widget.NewCheck("Start at login", nil)
	autostart.SetChecked(settings.Autostart)

	form := container.NewVBox(
		widget.NewLabelWithStyle("Reading", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		widget.NewLabel("Page to read"),
		pageURL,
		container.NewHBox(widget.NewLabel("Speech rate"), rate, widget.NewLabel("wpm")),
		container.NewHBox(widget.NewLabel("Voice"), voice),
		container.NewHBox(widget.NewLabel("Pause between sentences"), pause, widget.NewLabel("ms")),
		widget.NewLabel("Overlay opacity"),
		opacity,
		autostart,
	)

	saveButton := widget.NewButton("Save", nil)
	cancelButton := widget.NewButton("Cancel", nil)
	buttons := container.NewHBox(saveButton, layout.NewSpacer(), cancelButton)

	content := container.NewBorder(nil, buttons, nil, nil, form)
	window.SetContent(content)
	window.Resize(fyne.NewSize(440, 400))

	prefs := &Window{
		window:    window,
		settings:  settings,
		onSave:    onSave,
		pageURL:   pageURL,
		rate:      rate,
		voice:     voice,
		pause:     pause,
		opacity:   opacity,
		autostart: autostart,
	}

	saveButton.OnTapped = prefs.handleSave
	cancelButton.OnTapped = func() {
		window.Hide()
		if prefs.onCancel != nil {
			prefs.onCancel()
		}
	}

	return prefs
}

// Show displays the preferences window.
func (prefs *Window) Show() {
	prefs.window.Show()
	prefs.window.RequestFocus()
}

// UpdateSettings replaces window values.
func (prefs *Window) UpdateSettings(settings Settings) {
	prefs.settings = settings
	prefs.pageURL.SetText(settings.PageURL)
	prefs.rate.SetText(fmt.Sprintf("%d", settings.SpeechRate))
	prefs.voice.SetText(settings.Voice)
	prefs.pause.SetText(fmt.Sprintf("%d", int(settings.SentencePause.Milliseconds())))
	prefs.opacity.Value = settings.OverlayOpacity
	prefs.opacity.Refresh()
	prefs.autostart.SetChecked(settings.Autostart)
}

func (prefs *Window) handleSave() {
	settings := prefs.settings

	settings.PageURL = prefs.pageURL.Text
	if rate, ok := parsePositiveInt(prefs.rate.Text); ok {
		settings.SpeechRate = rate
	}
	settings.Voice = prefs.voice.Text
	if pauseMillis, ok := parsePositiveInt(prefs.pause.Text); ok {
		settings.SentencePause = time.Duration(pauseMillis) * time.Millisecond
	}
	settings.OverlayOpacity = prefs.opacity.Value
	settings.Autostart = prefs.autostart.Checked

	prefs.settings = settings
	prefs.window.Hide()
	if prefs.onSave != nil {
		prefs.onSave(settings)
	}
}

func parsePositiveInt(value string) (int, bool) {
	parsed, err := strconv.Atoi(value)
	if err != nil || parsed <= 0 {
		return 0, false
	}
	return parsed, true
}
