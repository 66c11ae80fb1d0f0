package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"pagevoice/internal/ui/preferences"
)

const settingsFileName = "settings.yaml"

type yamlSettings struct {
	PageURL         string  `yaml:"page_url"`
	SpeechRateWPM   int     `yaml:"speech_rate_wpm"`
	Voice           string  `yaml:"voice"`
	SentencePauseMS int     `yaml:"sentence_pause_ms"`
	OverlayOpacity  float64 `yaml:"overlay_opacity"`
	Autostart       bool    `yaml:"autostart"`
}

// LoadSettings reads user preferences from YAML.
// If the config file does not exist, default settings are returned.
func LoadSettings(appName string) (preferences.Settings, error) {
	settings := preferences.DefaultSettings()
	configPath, err := resolveConfigPath(appName)
	if err != nil {
		return settings, err
	}

	rawData, err := os.ReadFile(configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return settings, nil
		}
		return settings, fmt.Errorf("read settings file: %w", err)
	}

	var fileData yamlSettings
	if err := yaml.Unmarshal(rawData, &fileData); err != nil {
		return settings, fmt.Errorf("parse settings yaml: %w", err)
	}

	applyYamlSettings(&settings, fileData)
	return settings, nil
}

// SaveSettings writes user preferences to YAML.
func SaveSettings(appName string, settings preferences.Settings) error {
	configPath, err := resolveConfigPath(appName)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	fileData := yamlSettings{
		PageURL:         settings.PageURL,
		SpeechRateWPM:   settings.SpeechRate,
		Voice:           settings.Voice,
		SentencePauseMS: int(settings.SentencePause / time.Millisecond),
		OverlayOpacity:  settings.OverlayOpacity,
		Autostart:       settings.Autostart,
	}

	serialized, err := yaml.Marshal(fileData)
	if err != nil {
		return fmt.Errorf("marshal settings yaml: %w", err)
	}

	if err := os.WriteFile(configPath, serialized, 0o644); err != nil {
		return fmt.Errorf("write settings file: %w", err)
	}

	return nil
}

func resolveConfigPath(appName string) (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve user config dir: %w", err)
	}
	return filepath.Join(configDir, appName, settingsFileName), nil
}

func applyYamlSettings(settings *preferences.Settings, fileData yamlSettings) {
	settings.PageURL = fileData.PageURL
	if fileData.SpeechRateWPM > 0 {
		settings.SpeechRate = fileData.SpeechRateWPM
	}
	settings.Voice = fileData.Voice
	if fileData.SentencePauseMS > 0 {
		settings.SentencePause = time.Duration(fileData.SentencePauseMS) * time.Millisecond
	}

	if fileData.OverlayOpacity >= 0.7 && fileData.OverlayOpacity <= 0.95 {
		settings.OverlayOpacity = fileData.OverlayOpacity
	}

	settings.Autostart = fileData.Autostart
}
