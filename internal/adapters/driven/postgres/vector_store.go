package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pgvector/pgvector-go"

	"github.com/portico-labs/portico/internal/core/domain"
	"github.com/portico-labs/portico/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.VectorStore = (*VectorStore)(nil)

// VectorStore implements driven.VectorStore on pgvector. Similarity is
// cosine: score is 1 minus the cosine distance reported by the <=>
// operator.
type VectorStore struct {
	db        *DB
	embedding driven.EmbeddingService
}

// NewVectorStore creates a new pgvector-backed VectorStore
func NewVectorStore(db *DB, embedding driven.EmbeddingService) *VectorStore {
	return &VectorStore{db: db, embedding: embedding}
}

// Upsert embeds chunks and replaces the document's rows in a single
// transaction, so readers see either the old chunk set or the new one.
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

	return s.db.Transaction(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM chunks WHERE document_id = $1`, docID); err != nil {
			return fmt.Errorf("delete stale chunks: %w", err)
		}

		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO chunks (id, document_id, chunk_index, content, embedding, filename)
			VALUES ($1, $2, $3, $4, $5, $6)
		`)
		if err != nil {
			return err
		}
		defer stmt.Close()

		for i, text := range chunks {
			_, err := stmt.ExecContext(ctx,
				fmt.Sprintf("%s_%d", docID, i),
				docID,
				i,
				text,
				pgvector.NewVector(embeddings[i]),
				meta.Filename,
			)
			if err != nil {
				return fmt.Errorf("insert chunk %d: %w", i, err)
			}
		}
		return nil
	})
}

// Search returns the topK most similar chunks, best first
func (s *VectorStore) Search(ctx context.Context, queryEmbedding []float32, topK int) ([]domain.Snippet, error) {
	if topK <= 0 {
		return []domain.Snippet{}, nil
	}

	query := `
		SELECT content, 1 - (embedding <=> $1) AS score
		FROM chunks
		ORDER BY embedding <=> $1
		LIMIT $2
	`

	rows, err := s.db.QueryContext(ctx, query, pgvector.NewVector(queryEmbedding), topK)
	if err != nil {
		return nil, fmt.Errorf("search chunks: %w", err)
	}
	defer rows.Close()

	results := make([]domain.Snippet, 0, topK)
	for rows.Next() {
		var snippet domain.Snippet
		if err := rows.Scan(&snippet.Text, &snippet.Score); err != nil {
			return nil, fmt.Errorf("scan snippet: %w", err)
		}
		results = append(results, snippet)
	}
	return results, rows.Err()
}

// DeleteDocument removes every chunk belonging to docID
func (s *VectorStore) DeleteDocument(ctx context.Context, docID string) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM chunks WHERE document_id = $1`, docID)
	if err != nil {
		return false, fmt.Errorf("delete chunks: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

// Reset truncates the chunk table
func (s *VectorStore) Reset(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `TRUNCATE chunks`); err != nil {
		return fmt.Errorf("truncate chunks: %w", err)
	}
	return nil
}

// Stats reports chunk and distinct document counts
func (s *VectorStore) Stats(ctx context.Context) (domain.CollectionStats, error) {
	var stats domain.CollectionStats
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*), COUNT(DISTINCT document_id) FROM chunks
	`).Scan(&stats.TotalChunks, &stats.TotalDocuments)
	if err != nil {
		return domain.CollectionStats{}, fmt.Errorf("collection stats: %w", err)
	}
	return stats, nil
}
