// Package redis implements the document ledger and task queue on Redis.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/redis/go-redis/v9"

	"github.com/portico-labs/portico/internal/core/domain"
	"github.com/portico-labs/portico/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.DocumentStore = (*DocumentStore)(nil)

const (
	// Key prefixes for Redis
	docPrefix   = "portico:doc:"
	docIndexKey = "portico:docs"
)

// DocumentStore implements driven.DocumentStore using Redis.
// Each document is a JSON blob keyed by id, with a set index for List.
type DocumentStore struct {
	client *redis.Client
}

// NewDocumentStore creates a new Redis-backed DocumentStore
func NewDocumentStore(client *redis.Client) *DocumentStore {
	return &DocumentStore{client: client}
}

// Put creates or replaces a document record
func (s *DocumentStore) Put(ctx context.Context, doc *domain.Document) error {
	if doc == nil || doc.ID == "" {
		return domain.ErrInvalidInput
	}

	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to marshal document: %w", err)
	}

	// Pipeline keeps blob and index in step
	pipe := s.client.Pipeline()
	pipe.Set(ctx, docPrefix+doc.ID, data, 0)
	pipe.SAdd(ctx, docIndexKey, doc.ID)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save document: %w", err)
	}
	return nil
}

// Get retrieves a document record by id
func (s *DocumentStore) Get(ctx context.Context, id string) (*domain.Document, error) {
	data, err := s.client.Get(ctx, docPrefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get document: %w", err)
	}

	var doc domain.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to unmarshal document: %w", err)
	}
	return &doc, nil
}

// Delete removes a document record
func (s *DocumentStore) Delete(ctx context.Context, id string) error {
	deleted, err := s.client.Del(ctx, docPrefix+id).Result()
	if err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}
	if deleted == 0 {
		return domain.ErrNotFound
	}
	s.client.SRem(ctx, docIndexKey, id)
	return nil
}

// List returns all document records, newest first
func (s *DocumentStore) List(ctx context.Context) ([]*domain.Document, error) {
	ids, err := s.client.SMembers(ctx, docIndexKey).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}

	docs := make([]*domain.Document, 0, len(ids))
	var stale []interface{}
	for _, id := range ids {
		doc, err := s.Get(ctx, id)
		if errors.Is(err, domain.ErrNotFound) {
			// Blob gone but index entry survived, track for cleanup
			stale = append(stale, id)
			continue
		}
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}

	if len(stale) > 0 {
		s.client.SRem(ctx, docIndexKey, stale...)
	}

	sort.Slice(docs, func(i, j int) bool {
		if docs[i].UploadedAt.Equal(docs[j].UploadedAt) {
			return docs[i].ID < docs[j].ID
		}
		return docs[i].UploadedAt.After(docs[j].UploadedAt)
	})
	return docs, nil
}
