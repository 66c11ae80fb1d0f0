package reader

import (
	"strings"
	"unicode"
)

const defaultMaxChunkRunes = 280

// splitChunks breaks text into utterance-sized pieces. Sentences end a
// chunk, as do line breaks; anything longer than maxRunes is split at the
// nearest word boundary so the synthesizer never receives a huge utterance.
func splitChunks(text string, maxRunes int) []string {
	if maxRunes <= 0 {
		maxRunes = defaultMaxChunkRunes
	}

	var chunks []string
	var current []rune

	flush := func() {
		chunk := strings.TrimSpace(string(current))
		current = current[:0]
		if chunk != "" {
			chunks = append(chunks, chunk)
		}
	}

	for _, r := range text {
		switch r {
		case '\n', '\r':
			flush()
		case '.', '!', '?', '…':
			current = append(current, r)
			flush()
		default:
			current = append(current, r)
		}

		if len(current) >= maxRunes {
			cut := len(current)
			for i := len(current) - 1; i > 0; i-- {
				if unicode.IsSpace(current[i]) {
					cut = i
					break
				}
			}
			rest := append([]rune(nil), current[cut:]...)
			current = current[:cut]
			flush()
			current = append(current, rest...)
		}
	}
	flush()

	return chunks
}
