package domain

import (
	"encoding/json"
	"time"
)

// Document represents one ingested source file. It is the unit the
// document ledger tracks; its chunks live in the vector store.
type Document struct {
	ID         string    `json:"id"`
	Filename   string    `json:"filename"`
	Size       int       `json:"file_size"` // bytes of source text
	ChunkCount int       `json:"chunk_count"`
	Content    string    `json:"content,omitempty"` // raw text, kept for re-ingestion
	UploadedAt time.Time `json:"uploaded_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// DocumentMeta is the metadata attached to every stored chunk entry
// of a document.
type DocumentMeta struct {
	Filename   string `json:"filename"`
	FileSize   int    `json:"file_size"`
	ChunkCount int    `json:"chunk_count"`
}

// ChunkEntry is the persisted unit in the vector store: chunk text, its
// embedding, and enough metadata to filter by owning document.
// ID is "{doc_id}_{index}" so re-ingesting a document overwrites in place.
type ChunkEntry struct {
	ID         string    `json:"id"`
	DocumentID string    `json:"document_id"`
	Index      int       `json:"chunk_index"`
	Text       string    `json:"text"`
	Embedding  []float32 `json:"embedding,omitempty"`
	Meta       DocumentMeta
}

// Snippet is one ranked retrieval result. Score is 1 - cosine distance,
// higher is more similar. It is not clamped: malformed (non-unit)
// embeddings can push it outside [0,1].
type Snippet struct {
	Text  string
	Score float64
}

// MarshalJSON renders the snippet as a [text, score] pair, which is the
// shape the context event carries on the wire.
func (s Snippet) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]any{s.Text, s.Score})
}

// UnmarshalJSON accepts the [text, score] pair form.
func (s *Snippet) UnmarshalJSON(data []byte) error {
	var pair [2]json.RawMessage
	if err := json.Unmarshal(data, &pair); err != nil {
		return err
	}
	if err := json.Unmarshal(pair[0], &s.Text); err != nil {
		return err
	}
	return json.Unmarshal(pair[1], &s.Score)
}

// CollectionStats summarizes the vector store contents. Counts are
// recomputed on demand, not tracked incrementally.
type CollectionStats struct {
	TotalChunks    int `json:"total_chunks"`
	TotalDocuments int `json:"total_documents"`
}
