package repositories

import "context"

// LargeLanguageModel abstracts any chat-completion provider.
type LargeLanguageModel interface {
	// Complete takes the user's text and returns the model's reply.
	// Every call is independent; no conversation history is kept.
	Complete(ctx context.Context, text string) (string, error)
}
