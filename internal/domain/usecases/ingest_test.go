package usecases

import (
	"context"
	"errors"
	"testing"

	"github.com/docchat/docchat-go/internal/domain/faults"
)

func TestIngest_StoresDocumentWithChunks(t *testing.T) {
	embedder := &mockEmbedder{}
	store := newMockStore()
	uc := NewIngestUseCase(&mockExtractor{}, embedder, store, discardLogger(), 2, 1)

	doc, err := uc.Ingest(context.Background(), "notes.txt", []byte("one two three four five"))
	if err != nil {
		t.Fatalf("ingest failed: %v", err)
	}

	if doc.ID == "" {
		t.Error("expected a generated document id")
	}
	if doc.ChunksCount != 3 {
		t.Errorf("expected 3 chunks, got %d", doc.ChunksCount)
	}

	chunks := store.chunks[doc.ID]
	if len(chunks) != 3 {
		t.Fatalf("expected 3 stored chunks, got %d", len(chunks))
	}
	for i, c := range chunks {
		if c.Index != i {
			t.Errorf("chunk %d has index %d, want contiguous from 0", i, c.Index)
		}
		if c.DocumentID != doc.ID {
			t.Errorf("chunk %d references document %q", i, c.DocumentID)
		}
		if len(c.Embedding) == 0 {
			t.Errorf("chunk %d has no embedding", i)
		}
	}
}

func TestIngest_EmptyTextSucceedsWithZeroChunks(t *testing.T) {
	embedder := &mockEmbedder{}
	store := newMockStore()
	uc := NewIngestUseCase(&mockExtractor{}, embedder, store, discardLogger(), 250, 1)

	doc, err := uc.Ingest(context.Background(), "empty.txt", []byte("   \n  "))
	if err != nil {
		t.Fatalf("ingest failed: %v", err)
	}
	if doc.ChunksCount != 0 {
		t.Errorf("expected 0 chunks, got %d", doc.ChunksCount)
	}
	if embedder.calls != 0 {
		t.Errorf("expected no embedding calls, got %d", embedder.calls)
	}
	if store.putDocs != 1 {
		t.Error("empty document should still be persisted")
	}
}

func TestIngest_EmbedderFailureAbortsEverything(t *testing.T) {
	embedder := &mockEmbedder{
		embedFn: func(text string) ([]float32, error) {
			return nil, faults.New(faults.KindUnavailable, "cannot reach the embedding service")
		},
	}
	store := newMockStore()
	uc := NewIngestUseCase(&mockExtractor{}, embedder, store, discardLogger(), 1, 2)

	_, err := uc.Ingest(context.Background(), "doc.txt", []byte("one two three"))
	if err == nil {
		t.Fatal("expected error")
	}
	if !faults.IsKind(err, faults.KindUnavailable) {
		t.Errorf("expected unavailable fault, got %v", err)
	}
	if store.putDocs != 0 {
		t.Error("nothing must be persisted after a failed embedding")
	}
}

func TestIngest_EmptyVectorFailsIngestion(t *testing.T) {
	embedder := &mockEmbedder{
		embedFn: func(text string) ([]float32, error) {
			return []float32{}, nil
		},
	}
	store := newMockStore()
	uc := NewIngestUseCase(&mockExtractor{}, embedder, store, discardLogger(), 250, 1)

	_, err := uc.Ingest(context.Background(), "doc.txt", []byte("some words"))
	if err == nil {
		t.Fatal("expected error for empty embedding vector")
	}
	if !faults.IsKind(err, faults.KindUpstream) {
		t.Errorf("expected upstream fault, got %v", err)
	}
	if store.putDocs != 0 {
		t.Error("nothing must be persisted")
	}
}

func TestIngest_ExtractorFailurePropagates(t *testing.T) {
	uc := NewIngestUseCase(
		&mockExtractor{err: faults.Input("file type .docx is not supported")},
		&mockEmbedder{}, newMockStore(), discardLogger(), 250, 1)

	_, err := uc.Ingest(context.Background(), "doc.docx", []byte("x"))
	if !faults.IsKind(err, faults.KindInput) {
		t.Errorf("expected input fault, got %v", err)
	}
}

func TestIngest_ParallelWorkersPreserveChunkOrder(t *testing.T) {
	// Each chunk embeds to a vector encoding its own text, so a misplaced
	// result is detectable.
	embedder := &mockEmbedder{
		embedFn: func(text string) ([]float32, error) {
			return []float32{float32(len(text))}, nil
		},
	}
	store := newMockStore()
	uc := NewIngestUseCase(&mockExtractor{}, embedder, store, discardLogger(), 1, 8)

	doc, err := uc.Ingest(context.Background(), "doc.txt", []byte("a bb ccc dddd eeeee"))
	if err != nil {
		t.Fatalf("ingest failed: %v", err)
	}

	for _, c := range store.chunks[doc.ID] {
		if int(c.Embedding[0]) != len(c.Text) {
			t.Errorf("chunk %d: embedding %v does not match text %q", c.Index, c.Embedding, c.Text)
		}
	}
}

func TestIngest_InconsistentDimensionsFail(t *testing.T) {
	var n int
	embedder := &mockEmbedder{
		embedFn: func(text string) ([]float32, error) {
			n++
			return make([]float32, n), nil
		},
	}
	store := newMockStore()
	uc := NewIngestUseCase(&mockExtractor{}, embedder, store, discardLogger(), 1, 1)

	_, err := uc.Ingest(context.Background(), "doc.txt", []byte("one two"))
	if !faults.IsKind(err, faults.KindIntegrity) {
		t.Errorf("expected integrity fault, got %v", err)
	}
}

func TestIngest_StoreFailurePropagates(t *testing.T) {
	store := newMockStore()
	store.putErr = errors.New("disk full")
	uc := NewIngestUseCase(&mockExtractor{}, &mockEmbedder{}, store, discardLogger(), 250, 1)

	_, err := uc.Ingest(context.Background(), "doc.txt", []byte("words here"))
	if err == nil {
		t.Fatal("expected store error to propagate")
	}
}
