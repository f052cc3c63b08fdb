package driving

import (
	"context"

	"github.com/portico-labs/portico/internal/core/domain"
)

// AnswerService answers questions against the ingested corpus
type AnswerService interface {
	// Ask retrieves context for the question and starts a streaming
	// answer. The returned channel carries one context event, then
	// token events, then exactly one done event, and is closed when
	// the stream ends or ctx is cancelled. An error before streaming
	// starts (validation, retrieval, opening the generation stream)
	// is returned directly and no channel is created.
	Ask(ctx context.Context, question string) (<-chan domain.AnswerEvent, error)

	// Retrieve returns the ranked snippets for a query without
	// generating an answer
	Retrieve(ctx context.Context, query string, topK int) ([]domain.Snippet, error)
}
