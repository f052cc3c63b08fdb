package driven

import (
	"context"

	"github.com/portico-labs/portico/internal/core/domain"
)

// VectorStore is the durable mapping from chunk id to (text, embedding,
// metadata) with cosine similarity search. Implementations compute
// embeddings through an EmbeddingService injected at construction.
//
// Reads may proceed concurrently; mutations are atomic with respect to
// a document id, so a concurrent Search never observes a partial set of
// a multi-chunk upsert.
type VectorStore interface {
	// Upsert embeds chunks and writes them under stable ids
	// "{docID}_{index}", replacing any previous entries for docID.
	// An empty chunk slice is a no-op.
	Upsert(ctx context.Context, docID string, chunks []string, meta domain.DocumentMeta) error

	// Search returns up to topK snippets ordered by descending
	// similarity. Fewer than topK matches is success, not error.
	Search(ctx context.Context, queryEmbedding []float32, topK int) ([]domain.Snippet, error)

	// DeleteDocument removes every entry belonging to docID and
	// reports whether anything was deleted. An unknown id is not an
	// error.
	DeleteDocument(ctx context.Context, docID string) (bool, error)

	// Reset destroys all entries. Resetting an empty store succeeds.
	Reset(ctx context.Context) error

	// Stats recomputes entry and distinct document counts.
	Stats(ctx context.Context) (domain.CollectionStats, error)
}
