// Package entities contains core business entities.
// These are pure domain objects with no external dependencies.
package entities

import "time"

// Document represents an uploaded source document (PDF or TXT).
// Immutable after ingestion; ChunksCount always equals the number of
// chunks persisted for it.
type Document struct {
	ID          string
	FileName    string
	UploadedAt  time.Time
	ChunksCount int
}

// Chunk is a contiguous word-count segment of a document's extracted text,
// the atomic unit of retrieval.
type Chunk struct {
	DocumentID string
	Index      int       // zero-based position in the document, contiguous
	Text       string    // never empty, guaranteed by the chunker
	Embedding  []float32 // fixed dimensionality, never mutated after creation
}

// RankedChunk is a chunk paired with its similarity to a query.
type RankedChunk struct {
	Chunk Chunk
	Score float64
}
