// Package vectordb provides vector store adapters implementing
// ports.VectorStore.
package vectordb

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	_ "github.com/mattn/go-sqlite3" // SQLite driver

	"github.com/docchat/docchat-go/internal/domain/entities"
	"github.com/docchat/docchat-go/internal/domain/faults"
)

// SQLiteStore persists documents and embedded chunks in SQLite. Embeddings
// are stored as JSON-encoded float32 arrays, which round-trip exactly.
type SQLiteStore struct {
	mu     sync.RWMutex
	db     *sql.DB
	logger *slog.Logger
}

// NewSQLiteStore creates a persistent vector store under dataPath.
func NewSQLiteStore(dataPath string, logger *slog.Logger) (*SQLiteStore, error) {
	if dataPath == "" {
		dataPath = "./data"
	}

	if err := os.MkdirAll(dataPath, 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataPath, "docchat.db")
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	store := &SQLiteStore{db: db, logger: logger}
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing schema: %w", err)
	}

	return store, nil
}

func (s *SQLiteStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS documents (
		id TEXT PRIMARY KEY,
		file_name TEXT NOT NULL,
		uploaded_at DATETIME NOT NULL,
		chunks_count INTEGER NOT NULL
	);
	CREATE TABLE IF NOT EXISTS chunks (
		document_id TEXT NOT NULL REFERENCES documents(id) ON DELETE CASCADE,
		chunk_index INTEGER NOT NULL,
		text TEXT NOT NULL,
		embedding BLOB NOT NULL,
		PRIMARY KEY (document_id, chunk_index)
	);
	CREATE INDEX IF NOT EXISTS idx_chunks_document_id ON chunks(document_id);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Put persists the document and all of its chunks in one transaction.
func (s *SQLiteStore) Put(ctx context.Context, doc entities.Document, chunks []entities.Chunk) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO documents (id, file_name, uploaded_at, chunks_count)
		VALUES (?, ?, ?, ?)
	`, doc.ID, doc.FileName, doc.UploadedAt, doc.ChunksCount)
	if err != nil {
		return fmt.Errorf("inserting document: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO chunks (document_id, chunk_index, text, embedding)
		VALUES (?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer stmt.Close()

	for _, chunk := range chunks {
		embeddingJSON, err := json.Marshal(chunk.Embedding)
		if err != nil {
			return fmt.Errorf("encoding embedding: %w", err)
		}
		if _, err := stmt.ExecContext(ctx, chunk.DocumentID, chunk.Index, chunk.Text, embeddingJSON); err != nil {
			return fmt.Errorf("inserting chunk %d: %w", chunk.Index, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing document: %w", err)
	}

	s.logger.Debug("document stored", "documentId", doc.ID, "chunks", len(chunks))
	return nil
}

// ListDocuments returns all documents, most recently uploaded first.
func (s *SQLiteStore) ListDocuments(ctx context.Context) ([]entities.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, file_name, uploaded_at, chunks_count
		FROM documents
		ORDER BY uploaded_at DESC, rowid DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("querying documents: %w", err)
	}
	defer rows.Close()

	var docs []entities.Document
	for rows.Next() {
		var doc entities.Document
		if err := rows.Scan(&doc.ID, &doc.FileName, &doc.UploadedAt, &doc.ChunksCount); err != nil {
			return nil, fmt.Errorf("scanning document: %w", err)
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}

// ChunksForDocument returns one document's chunks with embeddings. An
// unknown id yields an empty slice.
func (s *SQLiteStore) ChunksForDocument(ctx context.Context, documentID string) ([]entities.Chunk, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT document_id, chunk_index, text, embedding
		FROM chunks
		WHERE document_id = ?
	`, documentID)
	if err != nil {
		return nil, fmt.Errorf("querying chunks: %w", err)
	}
	defer rows.Close()

	var chunks []entities.Chunk
	for rows.Next() {
		var chunk entities.Chunk
		var embeddingJSON []byte
		if err := rows.Scan(&chunk.DocumentID, &chunk.Index, &chunk.Text, &embeddingJSON); err != nil {
			return nil, fmt.Errorf("scanning chunk: %w", err)
		}
		if err := json.Unmarshal(embeddingJSON, &chunk.Embedding); err != nil {
			return nil, faults.Wrap(faults.KindIntegrity, err,
				"corrupted embedding for chunk %d of document %s", chunk.Index, documentID)
		}
		chunks = append(chunks, chunk)
	}
	return chunks, rows.Err()
}

// DeleteDocument removes the document; chunks cascade.
func (s *SQLiteStore) DeleteDocument(ctx context.Context, documentID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, "DELETE FROM documents WHERE id = ?", documentID)
	return err
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
