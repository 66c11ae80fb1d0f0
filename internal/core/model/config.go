package model

import "time"

// ReaderConfig contains runtime settings for the reading state machine.
type ReaderConfig struct {
	SentencePause time.Duration
	MaxChunkRunes int
}

// SpeechConfig contains settings passed to the platform synthesizer.
type SpeechConfig struct {
	Rate  int // words per minute
	Voice string
}
