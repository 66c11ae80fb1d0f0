package platform

import (
	"context"

	"pagevoice/internal/core/model"
	"pagevoice/internal/core/reader"
)

// Synthesizer speaks a snippet of text, blocking until the utterance
// finishes or ctx is canceled.
type Synthesizer interface {
	Speak(ctx context.Context, text string) error
}

// NewSynthesizer returns a platform-specific speech backend.
func NewSynthesizer(config model.SpeechConfig) Synthesizer {
	return newSynthesizer(config)
}

type unsupportedSynthesizer struct{}

func (unsupportedSynthesizer) Speak(context.Context, string) error {
	return reader.ErrSpeechUnsupported
}
