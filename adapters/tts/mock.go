package tts

import (
	"context"

	"github.com/voxlabs/voxgate/domain/repositories"
)

// MockSpeech is an offline stand-in for the speech-synthesis provider.
// The returned bytes are not real MP3 data; they only need to be
// non-empty and deterministic.
type MockSpeech struct{}

// NewMockSpeech creates a synthesizer that works without network access.
func NewMockSpeech() repositories.TextToSpeech {
	return &MockSpeech{}
}

// Synthesize implements repositories.TextToSpeech
func (m *MockSpeech) Synthesize(ctx context.Context, text string) ([]byte, error) {
	return append([]byte("mock-audio:"), text...), nil
}
