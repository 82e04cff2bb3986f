package llm

import (
	"context"
	"fmt"

	"github.com/voxlabs/voxgate/domain/repositories"
)

// MockChat is an offline stand-in for the chat-completion provider.
type MockChat struct{}

// NewMockChat creates a chat client that answers without network access.
func NewMockChat() repositories.LargeLanguageModel {
	return &MockChat{}
}

// Complete implements repositories.LargeLanguageModel
func (m *MockChat) Complete(ctx context.Context, text string) (string, error) {
	return fmt.Sprintf("You said: %s", text), nil
}
