package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"
	"go.uber.org/zap"

	"pagevoice/internal/core/reader"
	"pagevoice/internal/core/session"
	"pagevoice/internal/extract"
	"pagevoice/internal/logging"
	"pagevoice/internal/messaging"
	"pagevoice/internal/platform"
	"pagevoice/internal/storage"
	"pagevoice/internal/ui/overlay"
	"pagevoice/internal/ui/popup"
	"pagevoice/internal/ui/preferences"
	"pagevoice/internal/ui/tray"
)

const appName = "pagevoice"

func main() {
	if len(os.Args) > 1 {
		os.Exit(runCommand(os.Args[1:]))
	}

	logger := logging.New(os.Getenv("PAGEVOICE_LOG_LEVEL"))
	defer func() { _ = logger.Sync() }()

	guard, err := platform.AcquireSingleInstance(appName)
	if err != nil {
		logger.Error("pagevoice is already running", zap.Error(err))
		return
	}
	defer func() {
		_ = guard.Release()
	}()

	fyneApp := app.NewWithID("com.pagevoice.app")
	desktopApp, ok := fyneApp.(desktop.App)
	if !ok {
		logger.Error("system tray unsupported on this platform")
		return
	}

	trayWindow := fyneApp.NewWindow(appName)
	trayWindow.SetContent(widget.NewLabel("pagevoice is running in the system tray."))
	trayWindow.SetCloseIntercept(func() {
		trayWindow.Hide()
	})
	trayWindow.Hide()
	desktopApp.SetSystemTrayWindow(trayWindow)

	settings, err := storage.LoadSettings(appName)
	if err != nil {
		logger.Warn("settings load failed, using defaults", zap.Error(err))
	}

	pageReader := reader.New(settings.ReaderConfig(), platform.NewSynthesizer(settings.SpeechConfig()))
	extractor := extract.New(settings.PageURL, logger.Named("extract"))
	overlayController := overlay.New(fyneApp, overlay.Config{
		Opacity: opacityToAlpha(settings.OverlayOpacity),
		Title:   appName,
	})

	coordinator := session.New(extractor, pageReader, overlayController, logger.Named("session"))
	bus := messaging.NewBus()
	coordinator.Attach(bus)
	coordinator.Run()

	go messaging.Serve(guard.Listener(), bus, messaging.EndpointSession, logger.Named("wire"))

	autostartService := platform.NewService()
	prefsWindow := preferences.New(fyneApp, settings, func(updated preferences.Settings) {
		if updated.Autostart != settings.Autostart {
			applyAutostart(autostartService, updated.Autostart, logger)
		}
		settings = updated
		pageReader.UpdateConfig(updated.ReaderConfig())
		pageReader.SetSynthesizer(platform.NewSynthesizer(updated.SpeechConfig()))
		extractor.SetFallback(updated.PageURL)
		overlayController.UpdateConfig(overlay.Config{
			Opacity: opacityToAlpha(updated.OverlayOpacity),
			Title:   appName,
		})
		if err := storage.SaveSettings(appName, updated); err != nil {
			logger.Warn("settings save failed", zap.Error(err))
		}
	})

	popupCtx, cancelPopup := context.WithCancel(context.Background())
	var controller *popup.Controller

	trayManager := tray.New(desktopApp, tray.Callbacks{
		OnStart: func() {
			go controller.StartReading("")
		},
		OnPause: func() {
			go controller.PauseReading()
		},
		OnResume: func() {
			go controller.ResumeReading()
		},
		OnStop: func() {
			go controller.StopReading()
		},
		OnPreferences: func() {
			prefsWindow.Show()
		},
		OnQuit: func() {
			cancelPopup()
			pageReader.Close()
			fyneApp.Quit()
		},
	})

	controller = popup.NewController(bus.Endpoint(messaging.EndpointSession), trayManager, popup.Config{}, logger.Named("popup"))
	go controller.Poll(popupCtx)

	fyneApp.Run()
}

// runCommand forwards one control command to the running instance over the
// single-instance socket and prints the response.
func runCommand(args []string) int {
	messageType, ok := commandType(args[0])
	if !ok {
		fmt.Fprintf(os.Stderr, "unknown command %q\n", args[0])
		fmt.Fprintln(os.Stderr, "usage: pagevoice [start [target] | pause | resume | stop | status]")
		return 2
	}

	message := messaging.Message{Type: messageType}
	if len(args) > 1 {
		message.Target = strings.Join(args[1:], " ")
	}

	response, err := messaging.Call(platform.InstanceAddress(appName), message, 90*time.Second)
	if err != nil {
		fmt.Fprintf(os.Stderr, "pagevoice is not running: %v\n", err)
		return 1
	}
	if response.Error != "" {
		fmt.Fprintln(os.Stderr, response.Error)
		return 1
	}

	if messageType == messaging.TypeGetStatus {
		fmt.Printf("%s (reading=%t paused=%t)\n", response.Status, response.IsReading, response.IsPaused)
	} else {
		fmt.Println("ok")
	}
	return 0
}

func commandType(command string) (messaging.Type, bool) {
	switch strings.ToLower(command) {
	case "start":
		return messaging.TypeStartReading, true
	case "pause":
		return messaging.TypePauseReading, true
	case "resume":
		return messaging.TypeResumeReading, true
	case "stop":
		return messaging.TypeStopReading, true
	case "status":
		return messaging.TypeGetStatus, true
	}
	return "", false
}

func applyAutostart(service platform.Service, enabled bool, logger *zap.Logger) {
	execPath, err := os.Executable()
	if err != nil {
		logger.Warn("resolve executable path", zap.Error(err))
		return
	}
	if enabled {
		err = service.EnableAutostart(appName, execPath)
	} else {
		err = service.DisableAutostart(appName)
	}
	if err != nil {
		logger.Warn("autostart update failed", zap.Error(err))
	}
}

func opacityToAlpha(opacity float64) uint8 {
	if opacity < 0 {
		opacity = 0
	}
	if opacity > 1 {
		opacity = 1
	}
	return uint8(opacity * 255)
}
