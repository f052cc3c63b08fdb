package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/portico-labs/portico/internal/chunker"
	"github.com/portico-labs/portico/internal/core/domain"
	"github.com/portico-labs/portico/internal/core/ports/driven"
	"github.com/portico-labs/portico/internal/core/ports/driving"
)

// Ensure ingestService implements IngestService
var _ driving.IngestService = (*ingestService)(nil)

// ingestService implements the IngestService interface
type ingestService struct {
	documents   driven.DocumentStore
	vectorStore driven.VectorStore
	maxChunkLen int
	logger      *slog.Logger
}

// NewIngestService creates a new IngestService. maxChunkLen bounds the
// chunk size in characters; zero uses the chunker default.
func NewIngestService(
	documents driven.DocumentStore,
	vectorStore driven.VectorStore,
	maxChunkLen int,
	logger *slog.Logger,
) driving.IngestService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ingestService{
		documents:   documents,
		vectorStore: vectorStore,
		maxChunkLen: maxChunkLen,
		logger:      logger,
	}
}

// Upload chunks and embeds a new document and records it in the ledger
func (s *ingestService) Upload(ctx context.Context, filename, content string) (*domain.Document, error) {
	if strings.TrimSpace(filename) == "" || strings.TrimSpace(content) == "" {
		return nil, domain.ErrInvalidInput
	}

	now := time.Now()
	doc := &domain.Document{
		ID:         uuid.NewString(),
		Filename:   filename,
		Size:       len(content),
		Content:    content,
		UploadedAt: now,
		UpdatedAt:  now,
	}
	return s.ingest(ctx, doc)
}

// Reingest re-chunks and re-embeds one document from its stored content
func (s *ingestService) Reingest(ctx context.Context, id string) (*domain.Document, error) {
	doc, err := s.documents.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	doc.UpdatedAt = time.Now()
	return s.ingest(ctx, doc)
}

// ReingestAll re-ingests every document in the ledger. Documents that
// fail are logged and skipped so one bad record does not block the rest.
func (s *ingestService) ReingestAll(ctx context.Context) (int, int, error) {
	docs, err := s.documents.List(ctx)
	if err != nil {
		return 0, 0, fmt.Errorf("list documents: %w", err)
	}

	processed, chunks := 0, 0
	for _, doc := range docs {
		updated, err := s.Reingest(ctx, doc.ID)
		if err != nil {
			s.logger.Error("reingest failed", "document_id", doc.ID, "error", err)
			continue
		}
		processed++
		chunks += updated.ChunkCount
	}
	return processed, chunks, nil
}

// ingest writes the document's chunk entries and its ledger record.
// The vector store upsert is atomic per document id; the ledger record
// is written after, so a crash between the two leaves the chunks
// searchable and the ledger one update behind, which re-ingestion heals.
func (s *ingestService) ingest(ctx context.Context, doc *domain.Document) (*domain.Document, error) {
	chunks := chunker.Chunk(doc.Content, s.maxChunkLen)
	doc.ChunkCount = len(chunks)

	meta := domain.DocumentMeta{
		Filename:   doc.Filename,
		FileSize:   doc.Size,
		ChunkCount: len(chunks),
	}
	if err := s.vectorStore.Upsert(ctx, doc.ID, chunks, meta); err != nil {
		return nil, fmt.Errorf("upsert chunks: %w", err)
	}

	if err := s.documents.Put(ctx, doc); err != nil {
		return nil, fmt.Errorf("save document record: %w", err)
	}

	s.logger.Info("document ingested",
		"document_id", doc.ID,
		"filename", doc.Filename,
		"chunks", len(chunks))
	return doc, nil
}

// Get returns one document record
func (s *ingestService) Get(ctx context.Context, id string) (*domain.Document, error) {
	return s.documents.Get(ctx, id)
}

// List returns all document records
func (s *ingestService) List(ctx context.Context) ([]*domain.Document, error) {
	return s.documents.List(ctx)
}

// Delete removes a document and cascades to its chunk entries
func (s *ingestService) Delete(ctx context.Context, id string) (bool, error) {
	removed, err := s.vectorStore.DeleteDocument(ctx, id)
	if err != nil {
		return false, fmt.Errorf("delete chunks: %w", err)
	}

	err = s.documents.Delete(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return removed, nil
	}
	if err != nil {
		return removed, fmt.Errorf("delete document record: %w", err)
	}
	return true, nil
}

// Reset destroys all chunk entries and ledger records
func (s *ingestService) Reset(ctx context.Context) error {
	if err := s.vectorStore.Reset(ctx); err != nil {
		return fmt.Errorf("reset vector store: %w", err)
	}

	docs, err := s.documents.List(ctx)
	if err != nil {
		return fmt.Errorf("list documents: %w", err)
	}
	for _, doc := range docs {
		if err := s.documents.Delete(ctx, doc.ID); err != nil && !errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("delete document record %s: %w", doc.ID, err)
		}
	}
	s.logger.Info("collection reset", "documents_removed", len(docs))
	return nil
}

// Stats returns collection statistics
func (s *ingestService) Stats(ctx context.Context) (domain.CollectionStats, error) {
	return s.vectorStore.Stats(ctx)
}
