package repositories

import "context"

// TextToSpeech abstracts any speech-synthesis provider.
type TextToSpeech interface {
	// Synthesize renders text into a complete encoded audio payload.
	Synthesize(ctx context.Context, text string) ([]byte, error)
}
