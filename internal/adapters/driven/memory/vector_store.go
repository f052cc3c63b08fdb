// Package memory provides in-process adapter implementations used when
// no external backend is configured, and by tests.
package memory

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/portico-labs/portico/internal/core/domain"
	"github.com/portico-labs/portico/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.VectorStore = (*VectorStore)(nil)

// VectorStore implements driven.VectorStore with a brute-force cosine
// scan. Fine at this corpus scale (hundreds of chunks, not millions).
type VectorStore struct {
	embedding driven.EmbeddingService

	mu      sync.RWMutex
	entries []*domain.ChunkEntry // insertion order, for deterministic ties
}

// NewVectorStore creates a new in-memory VectorStore
func NewVectorStore(embedding driven.EmbeddingService) *VectorStore {
	return &VectorStore{embedding: embedding}
}

// Upsert embeds chunks and replaces the document's entries. Embeddings
// are computed before the write lock is taken, so the swap is atomic
// with respect to concurrent searches.
func (s *VectorStore) Upsert(ctx context.Context, docID string, chunks []string, meta domain.DocumentMeta) error {
	if len(chunks) == 0 {
		return nil
	}

	embeddings, err := s.embedding.Embed(ctx, chunks)
	if err != nil {
		return fmt.Errorf("embed chunks: %w", err)
	}
	if len(embeddings) != len(chunks) {
		return fmt.Errorf("embedding count mismatch: %d chunks, %d embeddings", len(chunks), len(embeddings))
	}

	fresh := make([]*domain.ChunkEntry, len(chunks))
	for i, text := range chunks {
		fresh[i] = &domain.ChunkEntry{
			ID:         fmt.Sprintf("%s_%d", docID, i),
			DocumentID: docID,
			Index:      i,
			Text:       text,
			Embedding:  embeddings[i],
			Meta:       meta,
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.removeDocLocked(docID)
	s.entries = append(s.entries, fresh...)
	return nil
}

// Search returns up to topK snippets ordered by descending similarity.
// Score is 1 minus the cosine distance; it is not clamped, so
// non-unit-normalized embeddings can produce values outside [0,1].
func (s *VectorStore) Search(_ context.Context, queryEmbedding []float32, topK int) ([]domain.Snippet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if topK <= 0 || len(s.entries) == 0 {
		return []domain.Snippet{}, nil
	}

	type scored struct {
		pos   int
		score float64
	}
	ranked := make([]scored, len(s.entries))
	for i, e := range s.entries {
		distance := 1 - cosineSimilarity(queryEmbedding, e.Embedding)
		ranked[i] = scored{pos: i, score: 1 - distance}
	}
	// Stable keeps insertion order for ties
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].score > ranked[j].score })

	if topK > len(ranked) {
		topK = len(ranked)
	}
	results := make([]domain.Snippet, topK)
	for i := 0; i < topK; i++ {
		e := s.entries[ranked[i].pos]
		results[i] = domain.Snippet{Text: e.Text, Score: ranked[i].score}
	}
	return results, nil
}

// DeleteDocument removes every entry belonging to docID
func (s *VectorStore) DeleteDocument(_ context.Context, docID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.removeDocLocked(docID), nil
}

// Reset destroys all entries
func (s *VectorStore) Reset(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = nil
	return nil
}

// Stats recomputes entry and distinct document counts
func (s *VectorStore) Stats(_ context.Context) (domain.CollectionStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	docs := make(map[string]struct{}, len(s.entries))
	for _, e := range s.entries {
		docs[e.DocumentID] = struct{}{}
	}
	return domain.CollectionStats{
		TotalChunks:    len(s.entries),
		TotalDocuments: len(docs),
	}, nil
}

func (s *VectorStore) removeDocLocked(docID string) bool {
	kept := s.entries[:0]
	removed := false
	for _, e := range s.entries {
		if e.DocumentID == docID {
			removed = true
			continue
		}
		kept = append(kept, e)
	}
	s.entries = kept
	return removed
}

// cosineSimilarity computes the cosine of the angle between a and b.
// Zero vectors or mismatched lengths score 0.
func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
