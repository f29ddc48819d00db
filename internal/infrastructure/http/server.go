// Package http provides the HTTP server, the outermost transport layer.
package http

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/docchat/docchat-go/internal/domain/faults"
	"github.com/docchat/docchat-go/internal/domain/ports"
	"github.com/docchat/docchat-go/internal/domain/usecases"
)

// maxUploadBytes caps multipart uploads at 20 MB.
const maxUploadBytes = 20 << 20

// Server is the HTTP server for the document Q&A API.
type Server struct {
	ingest *usecases.IngestUseCase
	answer *usecases.AnswerUseCase
	store  ports.VectorStore
	logger *slog.Logger
	addr   string
}

// NewServer creates a new HTTP server.
func NewServer(
	ingest *usecases.IngestUseCase,
	answer *usecases.AnswerUseCase,
	store ports.VectorStore,
	logger *slog.Logger,
	addr string,
) *Server {
	return &Server{
		ingest: ingest,
		answer: answer,
		store:  store,
		logger: logger,
		addr:   addr,
	}
}

// Handler returns the routed handler with middleware applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/api/documents/upload", s.handleUpload)
	mux.HandleFunc("/api/documents", s.handleListDocuments)
	mux.HandleFunc("/api/documents/", s.handleDocumentByID)
	mux.HandleFunc("/api/chat/ask", s.handleAsk)
	mux.HandleFunc("/api/health", s.handleHealth)

	return corsMiddleware(s.loggingMiddleware(mux))
}

// Start runs the HTTP server until the context is cancelled.
func (s *Server) Start(ctx context.Context) error {
	server := &http.Server{
		Addr:         s.addr,
		Handler:      s.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		server.Shutdown(shutdownCtx)
	}()

	s.logger.Info("server starting", "addr", s.addr)
	err := server.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

type uploadResponse struct {
	Success     bool   `json:"success"`
	DocumentID  string `json:"documentId,omitempty"`
	ChunksCount int    `json:"chunksCount"`
	Error       string `json:"error,omitempty"`
}

// handleUpload ingests a multipart file upload.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeJSON(w, http.StatusBadRequest, uploadResponse{Success: false, Error: "invalid multipart form"})
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, uploadResponse{Success: false, Error: "missing file field"})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, uploadResponse{Success: false, Error: "failed to read file"})
		return
	}
	if len(data) == 0 {
		writeJSON(w, http.StatusBadRequest, uploadResponse{Success: false, Error: "file is empty"})
		return
	}

	doc, err := s.ingest.Ingest(r.Context(), header.Filename, data)
	if err != nil {
		s.logger.Error("ingestion failed", "fileName", header.Filename, "error", err)
		writeJSON(w, statusForError(err), uploadResponse{Success: false, Error: err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, uploadResponse{
		Success:     true,
		DocumentID:  doc.ID,
		ChunksCount: doc.ChunksCount,
	})
}

type documentItem struct {
	ID          string    `json:"id"`
	FileName    string    `json:"fileName"`
	UploadedAt  time.Time `json:"uploadedAt"`
	ChunksCount int       `json:"chunksCount"`
}

type listResponse struct {
	Success   bool           `json:"success"`
	Documents []documentItem `json:"documents,omitempty"`
	Error     string         `json:"error,omitempty"`
}

// handleListDocuments returns all documents, most recent first.
func (s *Server) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	docs, err := s.store.ListDocuments(r.Context())
	if err != nil {
		s.logger.Error("listing documents failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, listResponse{Success: false, Error: err.Error()})
		return
	}

	items := make([]documentItem, len(docs))
	for i, d := range docs {
		items[i] = documentItem{
			ID:          d.ID,
			FileName:    d.FileName,
			UploadedAt:  d.UploadedAt,
			ChunksCount: d.ChunksCount,
		}
	}
	writeJSON(w, http.StatusOK, listResponse{Success: true, Documents: items})
}

// handleDocumentByID handles DELETE /api/documents/{id}.
func (s *Server) handleDocumentByID(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	id := strings.TrimPrefix(r.URL.Path, "/api/documents/")
	if id == "" || strings.Contains(id, "/") {
		writeJSON(w, http.StatusBadRequest, map[string]any{"success": false, "error": "invalid document id"})
		return
	}

	if err := s.store.DeleteDocument(r.Context(), id); err != nil {
		s.logger.Error("deleting document failed", "documentId", id, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]any{"success": false, "error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

type askRequest struct {
	DocumentID string `json:"documentId"`
	Question   string `json:"question"`
}

type askResponse struct {
	Success bool   `json:"success"`
	Answer  string `json:"answer,omitempty"`
	Error   string `json:"error,omitempty"`
}

// handleAsk answers a question about one document. Empty question or
// document id is rejected before reaching the core.
func (s *Server) handleAsk(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req askRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, askResponse{Success: false, Error: "invalid JSON body"})
		return
	}

	if strings.TrimSpace(req.Question) == "" {
		writeJSON(w, http.StatusBadRequest, askResponse{Success: false, Error: "question must not be empty"})
		return
	}
	if strings.TrimSpace(req.DocumentID) == "" {
		writeJSON(w, http.StatusBadRequest, askResponse{Success: false, Error: "a document must be selected"})
		return
	}

	s.logger.Info("question received", "documentId", req.DocumentID)

	answer, err := s.answer.Answer(r.Context(), req.DocumentID, req.Question)
	if err != nil {
		s.logger.Error("answering failed", "documentId", req.DocumentID, "error", err)
		writeJSON(w, statusForError(err), askResponse{Success: false, Error: err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, askResponse{Success: true, Answer: answer})
}

// handleHealth returns server health status.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

// statusForError maps fault kinds to HTTP statuses.
func statusForError(err error) int {
	switch faults.KindOf(err) {
	case faults.KindInput:
		return http.StatusBadRequest
	case faults.KindUnavailable, faults.KindUpstream:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Info("request", "method", r.Method, "path", r.URL.Path, "duration", time.Since(start))
	})
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			return
		}
		next.ServeHTTP(w, r)
	})
}
