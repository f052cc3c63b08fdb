package services

import (
	"context"
	"fmt"

	"github.com/portico-labs/portico/internal/core/domain"
	"github.com/portico-labs/portico/internal/core/ports/driven"
)

// DefaultTopK is the default number of snippets a retrieval returns.
const DefaultTopK = 6

// Retriever embeds a query and ranks stored chunks against it. It does
// not retry; embedding and store failures propagate to the caller.
type Retriever struct {
	embedding driven.EmbeddingService
	store     driven.VectorStore
}

// NewRetriever creates a new Retriever
func NewRetriever(embedding driven.EmbeddingService, store driven.VectorStore) *Retriever {
	return &Retriever{
		embedding: embedding,
		store:     store,
	}
}

// Retrieve returns up to topK (text, score) snippets for the query,
// ordered by descending similarity. Fewer matches than topK is success;
// topK is a ceiling, not a requirement.
func (r *Retriever) Retrieve(ctx context.Context, query string, topK int) ([]domain.Snippet, error) {
	if topK <= 0 {
		topK = DefaultTopK
	}

	embedding, err := r.embedding.EmbedQuery(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	snippets, err := r.store.Search(ctx, embedding, topK)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	return snippets, nil
}
