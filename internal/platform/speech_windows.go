//go:build windows

package platform

import (
	"context"
	"fmt"
	"os/exec"
	"strings"

	"pagevoice/internal/core/model"
)

type sapiSynthesizer struct {
	path   string
	config model.SpeechConfig
}

func newSynthesizer(config model.SpeechConfig) Synthesizer {
	path, err := exec.LookPath("powershell")
	if err != nil {
		return unsupportedSynthesizer{}
	}
	return &sapiSynthesizer{path: path, config: config}
}

func (s *sapiSynthesizer) Speak(ctx context.Context, text string) error {
	script := fmt.Sprintf(
		"Add-Type -AssemblyName System.Speech; "+
			"$speech = New-Object System.Speech.Synthesis.SpeechSynthesizer; "+
			"$speech.Rate = %d; "+
			"$speech.Speak([Console]::In.ReadToEnd());",
		sapiRate(s.config.Rate),
	)

	cmd := exec.CommandContext(ctx, s.path, "-NoProfile", "-NonInteractive", "-Command", script)
	cmd.Stdin = strings.NewReader(text)
	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("sapi: %w", err)
	}
	return nil
}

// sapiRate maps words per minute onto SAPI's [-10, 10] scale, with 180 wpm
// near zero.
func sapiRate(wpm int) int {
	if wpm <= 0 {
		return 0
	}
	rate := (wpm - 180) / 20
	if rate < -10 {
		rate = -10
	}
	if rate > 10 {
		rate = 10
	}
	return rate
}
