package tray

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"

	"pagevoice/internal/ui/render"
)

// Callbacks defines tray action handlers.
type Callbacks struct {
	OnStart       func()
	OnPause       func()
	OnResume      func()
	OnStop        func()
	OnPreferences func()
	OnQuit        func()
}

// Manager handles system tray state. It renders the popup controller's view
// onto the menu.
type Manager struct {
	app        desktop.App
	statusItem *fyne.MenuItem
	startItem  *fyne.MenuItem
	pauseItem  *fyne.MenuItem
	resumeItem *fyne.MenuItem
	stopItem   *fyne.MenuItem
	callbacks  Callbacks
}

// New creates a tray manager with the provided callbacks.
func New(app desktop.App, callbacks Callbacks) *Manager {
	manager := &Manager{
		app:       app,
		callbacks: callbacks,
	}

	manager.statusItem = fyne.NewMenuItem("Status: starting...", nil)
	manager.statusItem.Disabled = true

	manager.startItem = fyne.NewMenuItem("Read this page", func() {
		if manager.callbacks.OnStart != nil {
			manager.callbacks.OnStart()
		}
	})

	manager.pauseItem = fyne.NewMenuItem("Pause", func() {
		if manager.callbacks.OnPause != nil {
			manager.callbacks.OnPause()
		}
	})
	manager.pauseItem.Disabled = true

	manager.resumeItem = fyne.NewMenuItem("Resume", func() {
		if manager.callbacks.OnResume != nil {
			manager.callbacks.OnResume()
		}
	})
	manager.resumeItem.Disabled = true

	manager.stopItem = fyne.NewMenuItem("Stop", func() {
		if manager.callbacks.OnStop != nil {
			manager.callbacks.OnStop()
		}
	})
	manager.stopItem.Disabled = true

	app.SetSystemTrayMenu(manager.buildMenu())

	return manager
}

// Apply renders the popup view. Safe to call from any goroutine.
func (manager *Manager) Apply(view render.View) {
	fyne.Do(func() {
		manager.statusItem.Label = "Status: " + view.Label
		manager.startItem.Disabled = !view.Start
		manager.pauseItem.Disabled = !(view.ShowControls && view.Pause)
		manager.resumeItem.Disabled = !(view.ShowControls && view.Resume)
		manager.stopItem.Disabled = !(view.ShowControls && view.Stop)
		manager.refreshMenu()
	})
}

func (manager *Manager) buildMenu() *fyne.Menu {
	return fyne.NewMenu("pagevoice",
		manager.statusItem,
		manager.startItem,
		manager.pauseItem,
		manager.resumeItem,
		manager.stopItem,
		fyne.NewMenuItem("Preferences", func() {
			if manager.callbacks.OnPreferences != nil {
				manager.callbacks.OnPreferences()
			}
		}),
		fyne.NewMenuItem("Quit", func() {
			if manager.callbacks.OnQuit != nil {
				manager.callbacks.OnQuit()
			}
		}),
	)
}

func (manager *Manager) refreshMenu() {
	if manager.app != nil {
		manager.app.SetSystemTrayMenu(manager.buildMenu())
	}
}
