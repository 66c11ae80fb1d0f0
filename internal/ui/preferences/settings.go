package preferences

import (
	"time"

	"pagevoice/internal/core/model"
)

// Settings defines editable user preferences.
type Settings struct {
	PageURL       string
	SpeechRate    int // words per minute
	Voice         string
	SentencePause time.Duration

	OverlayOpacity float64
	Autostart      bool
}

// DefaultSettings returns default settings for pagevoice.
func DefaultSettings() Settings {
	return Settings{
		SpeechRate:     180,
		SentencePause:  300 * time.Millisecond,
		OverlayOpacity: 0.85,
	}
}

// ReaderConfig converts settings to ReaderConfig.
func (settings Settings) ReaderConfig() model.ReaderConfig {
	return model.ReaderConfig{
		SentencePause: settings.SentencePause,
	}
}

// SpeechConfig converts settings to SpeechConfig.
func (settings Settings) SpeechConfig() model.SpeechConfig {
	return model.SpeechConfig{
		Rate:  settings.SpeechRate,
		Voice: settings.Voice,
	}
}
