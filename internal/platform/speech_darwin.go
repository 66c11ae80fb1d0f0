//go:build darwin

package platform

import (
	"context"
	"fmt"
	"os/exec"
	"strconv"

	"pagevoice/internal/core/model"
)

type saySynthesizer struct {
	path   string
	config model.SpeechConfig
}

func newSynthesizer(config model.SpeechConfig) Synthesizer {
	path, err := exec.LookPath("say")
	if err != nil {
		return unsupportedSynthesizer{}
	}
	return &saySynthesizer{path: path, config: config}
}

func (s *saySynthesizer) Speak(ctx context.Context, text string) error {
	args := []string{}
	if s.config.Rate > 0 {
		args = append(args, "-r", strconv.Itoa(s.config.Rate))
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
		return fmt.Errorf("say: %w", err)
	}
	return nil
}
