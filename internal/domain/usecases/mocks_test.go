package usecases

import (
	"context"
	"io"
	"log/slog"
	"strings"

	"github.com/docchat/docchat-go/internal/domain/entities"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// mockEmbedder implements ports.EmbeddingService for testing.
type mockEmbedder struct {
	embedFn func(text string) ([]float32, error)
	calls   int
}

func (m *mockEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	m.calls++
	if m.embedFn != nil {
		return m.embedFn(text)
	}
	return []float32{0.1, 0.2, 0.3}, nil
}

// wordOverlapEmbed is a deterministic fake embedding: one dimension per
// vocabulary word, 1 when the text contains it. Texts sharing words score
// higher under cosine similarity.
func wordOverlapEmbed(vocabulary []string) func(string) ([]float32, error) {
	return func(text string) ([]float32, error) {
		vec := make([]float32, len(vocabulary))
		for i, w := range vocabulary {
			if strings.Contains(" "+text+" ", " "+w+" ") {
				vec[i] = 1
			}
		}
		return vec, nil
	}
}

// mockStore implements ports.VectorStore for testing.
type mockStore struct {
	docs    []entities.Document
	chunks  map[string][]entities.Chunk
	putErr  error
	putDocs int
}

func newMockStore() *mockStore {
	return &mockStore{chunks: make(map[string][]entities.Chunk)}
}

func (m *mockStore) Put(ctx context.Context, doc entities.Document, chunks []entities.Chunk) error {
	if m.putErr != nil {
		return m.putErr
	}
	m.putDocs++
	m.docs = append(m.docs, doc)
	m.chunks[doc.ID] = chunks
	return nil
}

func (m *mockStore) ListDocuments(ctx context.Context) ([]entities.Document, error) {
	return m.docs, nil
}

func (m *mockStore) ChunksForDocument(ctx context.Context, documentID string) ([]entities.Chunk, error) {
	return m.chunks[documentID], nil
}

func (m *mockStore) DeleteDocument(ctx context.Context, documentID string) error {
	delete(m.chunks, documentID)
	return nil
}

// mockExtractor implements ports.TextExtractor for testing.
type mockExtractor struct {
	text string
	err  error
}

func (m *mockExtractor) Extract(data []byte, extension string) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	if m.text != "" {
		return m.text, nil
	}
	return string(data), nil
}

func (m *mockExtractor) SupportedExtensions() []string {
	return []string{".pdf", ".txt"}
}

// mockGenerator implements ports.GenerationService for testing.
type mockGenerator struct {
	answer     string
	err        error
	calls      int
	lastSystem string
	lastUser   string
}

func (m *mockGenerator) Generate(ctx context.Context, system, user string) (string, error) {
	m.calls++
	m.lastSystem = system
	m.lastUser = user
	if m.err != nil {
		return "", m.err
	}
	return m.answer, nil
}
