package storage

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"pagevoice/internal/ui/preferences"
)

const testAppName = "pagevoice-test"

func useTempConfigDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("AppData", dir)
	return dir
}

func TestLoadSettingsDefaultsWhenMissing(t *testing.T) {
	useTempConfigDir(t)

	settings, err := LoadSettings(testAppName)
	require.NoError(t, err)
	require.Equal(t, preferences.DefaultSettings(), settings)
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	useTempConfigDir(t)

	saved := preferences.Settings{
		PageURL:        "https://example.com/article",
		SpeechRate:     210,
		Voice:          "en+f3",
		SentencePause:  450 * time.Millisecond,
		OverlayOpacity: 0.9,
		Autostart:      true,
	}
	require.NoError(t, SaveSettings(testAppName, saved))

	loaded, err := LoadSettings(testAppName)
	require.NoError(t, err)
	require.Equal(t, saved, loaded)
}

func TestLoadSettingsRejectsOutOfRangeOpacity(t *testing.T) {
	dir := useTempConfigDir(t)

	configPath := filepath.Join(dir, testAppName, "settings.yaml")
	require.NoError(t, os.MkdirAll(filepath.Dir(configPath), 0o755))
	require.NoError(t, os.WriteFile(configPath, []byte("overlay_opacity: 0.2\n"), 0o644))

	settings, err := LoadSettings(testAppName)
	require.NoError(t, err)
	require.Equal(t, preferences.DefaultSettings().OverlayOpacity, settings.OverlayOpacity)
}

func TestLoadSettingsIgnoresNonPositiveRate(t *testing.T) {
	dir := useTempConfigDir(t)

	configPath := filepath.Join(dir, testAppName, "settings.yaml")
	require.NoError(t, os.MkdirAll(filepath.Dir(configPath), 0o755))
	require.NoError(t, os.WriteFile(configPath, []byte("speech_rate_wpm: -40\n"), 0o644))

	settings, err := LoadSettings(testAppName)
	require.NoError(t, err)
	require.Equal(t, preferences.DefaultSettings().SpeechRate, settings.SpeechRate)
}

func TestLoadSettingsBadYaml(t *testing.T) {
	dir := useTempConfigDir(t)

	configPath := filepath.Join(dir, testAppName, "settings.yaml")
	require.NoError(t, os.MkdirAll(filepath.Dir(configPath), 0o755))
	require.NoError(t, os.WriteFile(configPath, []byte("{not yaml"), 0o644))

	settings, err := LoadSettings(testAppName)
	require.Error(t, err)
	require.Equal(t, preferences.DefaultSettings(), settings)
}
