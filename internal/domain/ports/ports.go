// Package ports defines interfaces for external dependencies.
// Usecases depend on these abstractions, not concrete implementations;
// adapters implement them.
package ports

import (
	"context"

	"github.com/docchat/docchat-go/internal/domain/entities"
)

// EmbeddingService generates vector embeddings for text.
type EmbeddingService interface {
	// Embed generates a vector embedding for the given text. One outbound
	// call per invocation, no retries. A response without a vector payload
	// yields an empty (non-nil) vector and a nil error; callers decide
	// whether that is acceptable.
	Embed(ctx context.Context, text string) ([]float32, error)
}

// GenerationService produces a grounded answer from a chat model.
type GenerationService interface {
	// Generate sends a system and user instruction pair and returns the
	// first completion's text.
	Generate(ctx context.Context, system, user string) (string, error)
}

// VectorStore persists documents with their embedded chunks.
type VectorStore interface {
	// Put persists a new document and all of its chunks as one unit.
	// Either everything is stored or nothing is.
	Put(ctx context.Context, doc entities.Document, chunks []entities.Chunk) error

	// ListDocuments returns all documents, most recently uploaded first.
	ListDocuments(ctx context.Context) ([]entities.Document, error)

	// ChunksForDocument returns the chunks of one document with their
	// embeddings. Order is unspecified. An unknown id yields an empty
	// slice, not an error.
	ChunksForDocument(ctx context.Context, documentID string) ([]entities.Chunk, error)

	// DeleteDocument removes a document and all of its chunks.
	DeleteDocument(ctx context.Context, documentID string) error
}

// TextExtractor turns raw file bytes into a flat text stream.
type TextExtractor interface {
	// Extract returns the text content of the file. The extension
	// includes the leading dot, e.g. ".pdf".
	Extract(data []byte, extension string) (string, error)

	// SupportedExtensions returns the extensions this extractor handles.
	SupportedExtensions() []string
}

// FileWatcher monitors a directory for new documents.
type FileWatcher interface {
	// Watch starts monitoring the directory and emits events until the
	// context is cancelled.
	Watch(ctx context.Context, dir string) (<-chan FileEvent, error)

	// Stop stops the watcher.
	Stop() error
}

// FileEvent represents a file system change.
type FileEvent struct {
	Path      string
	Operation FileOperation
}

// FileOperation is the type of file change.
type FileOperation int

const (
	FileCreated FileOperation = iota
	FileModified
	FileDeleted
)
