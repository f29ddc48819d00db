package vectordb

import (
	"context"
	"testing"
	"time"

	"github.com/docchat/docchat-go/internal/domain/entities"
)

func TestInMemoryStore_PutAndList(t *testing.T) {
	store := NewInMemoryStore()
	ctx := context.Background()

	base := time.Now().UTC()
	first := entities.Document{ID: "a", FileName: "a.txt", UploadedAt: base.Add(-time.Minute), ChunksCount: 1}
	second := entities.Document{ID: "b", FileName: "b.txt", UploadedAt: base, ChunksCount: 0}

	store.Put(ctx, first, []entities.Chunk{{DocumentID: "a", Index: 0, Text: "x", Embedding: []float32{1}}})
	store.Put(ctx, second, nil)

	docs, err := store.ListDocuments(ctx)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(docs) != 2 {
		t.Fatalf("expected 2 documents, got %d", len(docs))
	}
	if docs[0].ID != "b" {
		t.Errorf("expected newest first, got %s", docs[0].ID)
	}
}

func TestInMemoryStore_ChunksAreCopied(t *testing.T) {
	store := NewInMemoryStore()
	ctx := context.Background()

	chunks := []entities.Chunk{{DocumentID: "a", Index: 0, Text: "x", Embedding: []float32{1}}}
	store.Put(ctx, entities.Document{ID: "a"}, chunks)
	chunks[0].Text = "mutated"

	got, _ := store.ChunksForDocument(ctx, "a")
	if got[0].Text != "x" {
		t.Error("stored chunks must not alias the caller's slice")
	}
}

func TestInMemoryStore_DeleteDocument(t *testing.T) {
	store := NewInMemoryStore()
	ctx := context.Background()

	store.Put(ctx, entities.Document{ID: "a"}, []entities.Chunk{{DocumentID: "a", Index: 0, Text: "x"}})
	store.DeleteDocument(ctx, "a")

	docs, _ := store.ListDocuments(ctx)
	if len(docs) != 0 {
		t.Errorf("expected no documents after delete, got %d", len(docs))
	}
	got, _ := store.ChunksForDocument(ctx, "a")
	if len(got) != 0 {
		t.Errorf("expected no chunks after delete, got %d", len(got))
	}
}

func TestInMemoryStore_UnknownDocumentIsEmpty(t *testing.T) {
	store := NewInMemoryStore()

	got, err := store.ChunksForDocument(context.Background(), "missing")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected empty chunks, got %d", len(got))
	}
}
