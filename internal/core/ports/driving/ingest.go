package driving

import (
	"context"

	"github.com/portico-labs/portico/internal/core/domain"
)

// IngestService manages the document corpus: ingestion, deletion, and
// collection maintenance
type IngestService interface {
	// Upload chunks and embeds a new document and records it in the
	// ledger. Returns the created document record.
	Upload(ctx context.Context, filename, content string) (*domain.Document, error)

	// Reingest re-chunks and re-embeds one document from its stored
	// content, overwriting its chunk entries consistently
	Reingest(ctx context.Context, id string) (*domain.Document, error)

	// ReingestAll re-ingests every document in the ledger. Returns the
	// number of documents processed and total chunks written.
	ReingestAll(ctx context.Context) (docs int, chunks int, err error)

	// Get returns one document record
	Get(ctx context.Context, id string) (*domain.Document, error)

	// List returns all document records
	List(ctx context.Context) ([]*domain.Document, error)

	// Delete removes a document and all its chunk entries. Reports
	// whether the document existed.
	Delete(ctx context.Context, id string) (bool, error)

	// Reset destroys all chunk entries and ledger records
	Reset(ctx context.Context) error

	// Stats returns collection statistics
	Stats(ctx context.Context) (domain.CollectionStats, error)
}
