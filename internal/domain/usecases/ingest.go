// Package usecases contains application business rules. Usecases
// orchestrate entities and depend on port interfaces only.
package usecases

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/docchat/docchat-go/internal/domain/entities"
	"github.com/docchat/docchat-go/internal/domain/faults"
	"github.com/docchat/docchat-go/internal/domain/ports"
)

// IngestUseCase turns an uploaded file into a persisted, embedded document.
type IngestUseCase struct {
	extractor   ports.TextExtractor
	embedder    ports.EmbeddingService
	vectorStore ports.VectorStore
	logger      *slog.Logger
	chunkSize   int
	workers     int
}

// NewIngestUseCase creates an IngestUseCase with injected dependencies.
func NewIngestUseCase(
	extractor ports.TextExtractor,
	embedder ports.EmbeddingService,
	vectorStore ports.VectorStore,
	logger *slog.Logger,
	chunkSize, workers int,
) *IngestUseCase {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	if workers <= 0 {
		workers = 1
	}
	return &IngestUseCase{
		extractor:   extractor,
		embedder:    embedder,
		vectorStore: vectorStore,
		logger:      logger,
		chunkSize:   chunkSize,
		workers:     workers,
	}
}

// Ingest extracts text from the file, splits it into chunks, embeds every
// chunk and persists the document with all chunks as one unit. Any failure
// aborts the whole ingestion and leaves nothing behind.
func (uc *IngestUseCase) Ingest(ctx context.Context, fileName string, data []byte) (entities.Document, error) {
	ext := strings.ToLower(filepath.Ext(fileName))

	text, err := uc.extractor.Extract(data, ext)
	if err != nil {
		return entities.Document{}, err
	}

	segments := SplitText(text, uc.chunkSize)

	doc := entities.Document{
		ID:          uuid.NewString(),
		FileName:    fileName,
		UploadedAt:  time.Now().UTC(),
		ChunksCount: len(segments),
	}

	chunks, err := uc.embedSegments(ctx, doc.ID, segments)
	if err != nil {
		return entities.Document{}, err
	}

	if err := uc.vectorStore.Put(ctx, doc, chunks); err != nil {
		return entities.Document{}, err
	}

	uc.logger.Info("document ingested",
		"documentId", doc.ID,
		"fileName", doc.FileName,
		"chunks", doc.ChunksCount)

	return doc, nil
}

// embedSegments embeds all segments with bounded concurrency, collecting
// results by chunk index so the stored order matches the original text
// order regardless of call completion order.
func (uc *IngestUseCase) embedSegments(ctx context.Context, documentID string, segments []string) ([]entities.Chunk, error) {
	chunks := make([]entities.Chunk, len(segments))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(uc.workers)

	for i, segment := range segments {
		i, segment := i, segment
		g.Go(func() error {
			vector, err := uc.embedder.Embed(gctx, segment)
			if err != nil {
				return err
			}
			if len(vector) == 0 {
				// A chunk without a vector can never match any query;
				// fail the ingestion instead of storing it.
				return faults.New(faults.KindUpstream,
					"embedding service returned no vector for chunk %d", i)
			}
			chunks[i] = entities.Chunk{
				DocumentID: documentID,
				Index:      i,
				Text:       segment,
				Embedding:  vector,
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	for i := 1; i < len(chunks); i++ {
		if len(chunks[i].Embedding) != len(chunks[0].Embedding) {
			return nil, faults.New(faults.KindIntegrity,
				"embedding dimension changed mid-document: chunk 0 has %d, chunk %d has %d",
				len(chunks[0].Embedding), i, len(chunks[i].Embedding))
		}
	}

	return chunks, nil
}
