package vectordb

import (
	"context"
	"sort"
	"sync"

	"github.com/docchat/docchat-go/internal/domain/entities"
)

// InMemoryStore is a non-persistent vector store, useful for tests and
// local development without SQLite.
type InMemoryStore struct {
	mu     sync.RWMutex
	docs   map[string]entities.Document
	chunks map[string][]entities.Chunk // documentID -> chunks
	order  []string                    // insertion order of document ids
}

// NewInMemoryStore creates a new in-memory vector store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		docs:   make(map[string]entities.Document),
		chunks: make(map[string][]entities.Chunk),
	}
}

// Put stores the document with its chunks.
func (s *InMemoryStore) Put(ctx context.Context, doc entities.Document, chunks []entities.Chunk) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.docs[doc.ID] = doc
	s.chunks[doc.ID] = append([]entities.Chunk(nil), chunks...)
	s.order = append(s.order, doc.ID)
	return nil
}

// ListDocuments returns all documents, most recently uploaded first.
func (s *InMemoryStore) ListDocuments(ctx context.Context) ([]entities.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	docs := make([]entities.Document, 0, len(s.docs))
	for i := len(s.order) - 1; i >= 0; i-- {
		if doc, ok := s.docs[s.order[i]]; ok {
			docs = append(docs, doc)
		}
	}
	sort.SliceStable(docs, func(i, j int) bool {
		return docs[i].UploadedAt.After(docs[j].UploadedAt)
	})
	return docs, nil
}

// ChunksForDocument returns one document's chunks.
func (s *InMemoryStore) ChunksForDocument(ctx context.Context, documentID string) ([]entities.Chunk, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return append([]entities.Chunk(nil), s.chunks[documentID]...), nil
}

// DeleteDocument removes the document and its chunks.
func (s *InMemoryStore) DeleteDocument(ctx context.Context, documentID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.docs, documentID)
	delete(s.chunks, documentID)
	return nil
}
