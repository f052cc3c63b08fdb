package driven

import (
	"context"

	"github.com/portico-labs/portico/internal/core/domain"
)

// DocumentStore is the key-value ledger of ingested documents. It is a
// narrow interface so the backend can be swapped (in-memory, Redis,
// PostgreSQL) without touching the core.
type DocumentStore interface {
	// Put creates or replaces a document record
	Put(ctx context.Context, doc *domain.Document) error

	// Get retrieves a document record by id.
	// Returns domain.ErrNotFound for unknown ids.
	Get(ctx context.Context, id string) (*domain.Document, error)

	// Delete removes a document record.
	// Returns domain.ErrNotFound for unknown ids.
	Delete(ctx context.Context, id string) error

	// List returns all document records
	List(ctx context.Context) ([]*domain.Document, error)
}
