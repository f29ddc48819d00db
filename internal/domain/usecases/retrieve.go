package usecases

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sort"

	"github.com/docchat/docchat-go/internal/domain/entities"
	"github.com/docchat/docchat-go/internal/domain/faults"
	"github.com/docchat/docchat-go/internal/domain/ports"
)

// RetrieveUseCase ranks a document's chunks against a query by cosine
// similarity.
type RetrieveUseCase struct {
	embedder    ports.EmbeddingService
	vectorStore ports.VectorStore
	logger      *slog.Logger
}

// NewRetrieveUseCase creates a RetrieveUseCase with injected dependencies.
func NewRetrieveUseCase(
	embedder ports.EmbeddingService,
	vectorStore ports.VectorStore,
	logger *slog.Logger,
) *RetrieveUseCase {
	return &RetrieveUseCase{
		embedder:    embedder,
		vectorStore: vectorStore,
		logger:      logger,
	}
}

// Rank embeds the query and returns the document's topK most similar
// chunks, best match first. A document with no chunks (or an unknown id)
// yields an empty slice, never an error. Equal scores keep original chunk
// order, so results are deterministic.
func (uc *RetrieveUseCase) Rank(ctx context.Context, documentID, query string, topK int) ([]entities.RankedChunk, error) {
	queryVector, err := uc.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}

	chunks, err := uc.vectorStore.ChunksForDocument(ctx, documentID)
	if err != nil {
		return nil, fmt.Errorf("loading chunks: %w", err)
	}
	if len(chunks) == 0 {
		return nil, nil
	}

	ranked := make([]entities.RankedChunk, 0, len(chunks))
	for _, chunk := range chunks {
		score, err := cosineSimilarity(queryVector, chunk.Embedding)
		if err != nil {
			return nil, faults.Wrap(faults.KindIntegrity, err,
				"chunk %d of document %s", chunk.Index, documentID)
		}
		ranked = append(ranked, entities.RankedChunk{Chunk: chunk, Score: score})
	}

	// Stores may return chunks in any order; normalize by index first so
	// the stable sort's tie-break is the original reading order.
	sort.Slice(ranked, func(i, j int) bool {
		return ranked[i].Chunk.Index < ranked[j].Chunk.Index
	})
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})

	if topK < len(ranked) {
		ranked = ranked[:topK]
	}

	uc.logger.Debug("ranked chunks",
		"documentId", documentID,
		"returned", len(ranked))

	return ranked, nil
}

// cosineSimilarity computes dot(a,b) / (|a|*|b|). A zero-magnitude vector
// yields 0. Unequal non-zero lengths indicate corrupted stored data and
// fail loudly instead of degrading to zero similarity.
func cosineSimilarity(a, b []float32) (float64, error) {
	if len(a) == 0 || len(b) == 0 {
		return 0, nil
	}
	if len(a) != len(b) {
		return 0, fmt.Errorf("vector dimension mismatch: %d vs %d", len(a), len(b))
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0, nil
	}

	return dot / (math.Sqrt(normA) * math.Sqrt(normB)), nil
}
