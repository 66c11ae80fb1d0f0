//go:build linux

package platform

import (
	"context"
	"fmt"
	"os/exec"
	"strconv"

	"pagevoice/internal/core/model"
)

type espeakSynthesizer struct {
	path   string
	config model.SpeechConfig
}

type spdSynthesizer struct {
	path   string
	config model.SpeechConfig
}

func newSynthesizer(config model.SpeechConfig) Synthesizer {
	if path, err := exec.LookPath("espeak-ng"); err == nil {
		return &espeakSynthesizer{path: path, config: config}
	}
	if path, err := exec.LookPath("espeak"); err == nil {
		return &espeakSynthesizer{path: path, config: config}
	}
	if path, err := exec.LookPath("spd-say"); err == nil {
		return &spdSynthesizer{path: path, config: config}
	}
	return unsupportedSynthesizer{}
}

func (s *espeakSynthesizer) Speak(ctx context.Context, text string) error {
	args := []string{}
	if s.config.Rate > 0 {
		args = append(args, "-s", strconv.Itoa(s.config.Rate))
	}
	if s.config.Voice != "" {
		args = append(args, "-v", s.config.Voice)
	}
	args = append(args, "--", text)

	cmd := exec.CommandContext(ctx, s.path, args...)
	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("espeak: %w", err)
	}
	return nil
}

func (s *spdSynthesizer) Speak(ctx context.Context, text string) error {
	// spd-say takes a relative rate in [-100, 100]; 180 wpm sits near the default.
	args := []string{"--wait", "-r", strconv.Itoa(relativeRate(s.config.Rate))}
	if s.config.Voice != "" {
		args = append(args, "-y", s.config.Voice)
	}
	args = append(args, "--", text)

	cmd := exec.CommandContext(ctx, s.path, args...)
	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("spd-say: %w", err)
	}
	return nil
}

func relativeRate(wpm int) int {
	if wpm <= 0 {
		return 0
	}
	rate := (wpm - 180) / 2
	if rate < -100 {
		rate = -100
	}
	if rate > 100 {
		rate = 100
	}
	return rate
}
