package driven

import (
	"context"

	"github.com/portico-labs/portico/internal/core/domain"
)

// ChatOptions tunes a single streaming completion request
type ChatOptions struct {
	Temperature float32
	MaxTokens   int
}

// ChatStream is one in-flight streaming completion. Recv blocks until
// the next text delta is available; it returns io.EOF when the upstream
// stream is exhausted. Close releases the underlying connection and
// must be called exactly once, including on early abandonment.
type ChatStream interface {
	Recv() (string, error)
	Close() error
}

// GenerationService drives streaming completions against a generative
// language model
type GenerationService interface {
	// StreamChat opens a streaming completion for the given messages.
	// Cancelling ctx aborts the stream.
	StreamChat(ctx context.Context, messages []domain.ChatMessage, opts ChatOptions) (ChatStream, error)

	// Model returns the model name being used
	Model() string

	// Close releases resources held by the generation service
	Close() error
}
