package mocks

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/portico-labs/portico/internal/core/domain"
)

// MockVectorStore is a mock implementation of VectorStore for testing.
// Search ranks entries by a fixed per-entry score set with SetScore,
// defaulting to insertion order.
type MockVectorStore struct {
	mu      sync.RWMutex
	entries map[string]*domain.ChunkEntry
	order   []string
	scores  map[string]float64
	err     error
}

// NewMockVectorStore creates a new MockVectorStore
func NewMockVectorStore() *MockVectorStore {
	return &MockVectorStore{
		entries: make(map[string]*domain.ChunkEntry),
		scores:  make(map[string]float64),
	}
}

func (m *MockVectorStore) Upsert(ctx context.Context, docID string, chunks []string, meta domain.DocumentMeta) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.err != nil {
		return m.err
	}
	if len(chunks) == 0 {
		return nil
	}

	m.removeDocLocked(docID)
	for i, text := range chunks {
		id := fmt.Sprintf("%s_%d", docID, i)
		m.entries[id] = &domain.ChunkEntry{
			ID:         id,
			DocumentID: docID,
			Index:      i,
			Text:       text,
			Meta:       meta,
		}
		m.order = append(m.order, id)
	}
	return nil
}

func (m *MockVectorStore) Search(ctx context.Context, queryEmbedding []float32, topK int) ([]domain.Snippet, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.err != nil {
		return nil, m.err
	}

	ids := make([]string, 0, len(m.order))
	for _, id := range m.order {
		if _, ok := m.entries[id]; ok {
			ids = append(ids, id)
		}
	}
	sort.SliceStable(ids, func(i, j int) bool {
		return m.scores[ids[i]] > m.scores[ids[j]]
	})

	if topK < len(ids) {
		ids = ids[:topK]
	}
	results := make([]domain.Snippet, 0, len(ids))
	for _, id := range ids {
		results = append(results, domain.Snippet{Text: m.entries[id].Text, Score: m.scores[id]})
	}
	return results, nil
}

func (m *MockVectorStore) DeleteDocument(ctx context.Context, docID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.err != nil {
		return false, m.err
	}
	return m.removeDocLocked(docID), nil
}

func (m *MockVectorStore) Reset(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.err != nil {
		return m.err
	}
	m.entries = make(map[string]*domain.ChunkEntry)
	m.order = nil
	return nil
}

func (m *MockVectorStore) Stats(ctx context.Context) (domain.CollectionStats, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.err != nil {
		return domain.CollectionStats{}, m.err
	}
	docs := make(map[string]struct{})
	for _, e := range m.entries {
		docs[e.DocumentID] = struct{}{}
	}
	return domain.CollectionStats{
		TotalChunks:    len(m.entries),
		TotalDocuments: len(docs),
	}, nil
}

func (m *MockVectorStore) removeDocLocked(docID string) bool {
	removed := false
	for id, e := range m.entries {
		if e.DocumentID == docID {
			delete(m.entries, id)
			removed = true
		}
	}
	return removed
}

// Helper methods for testing

// SetScore pins the similarity score for a chunk entry id
func (m *MockVectorStore) SetScore(entryID string, score float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.scores[entryID] = score
}

// SetError makes every subsequent operation fail with err
func (m *MockVectorStore) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Entry returns the stored entry for an id, if present
func (m *MockVectorStore) Entry(id string) (*domain.ChunkEntry, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.entries[id]
	return e, ok
}
