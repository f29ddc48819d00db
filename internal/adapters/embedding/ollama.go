// Package embedding provides the Ollama embedding adapter implementing
// ports.EmbeddingService. It knows about the Ollama wire format; the
// domain layer does not.
package embedding

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/docchat/docchat-go/internal/domain/faults"
)

const (
	defaultBaseURL = "http://localhost:11434"
	defaultModel   = "nomic-embed-text"
	requestTimeout = 30 * time.Second
)

// OllamaAdapter generates embeddings via the Ollama /api/embeddings API.
type OllamaAdapter struct {
	baseURL string
	model   string
	client  *http.Client
	logger  *slog.Logger
}

// NewOllamaAdapter creates a new Ollama embedding adapter.
func NewOllamaAdapter(baseURL, model string, logger *slog.Logger) *OllamaAdapter {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if model == "" {
		model = defaultModel
	}
	return &OllamaAdapter{
		baseURL: baseURL,
		model:   model,
		client: &http.Client{
			Timeout: requestTimeout,
		},
		logger: logger,
	}
}

type ollamaEmbedRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
}

type ollamaEmbedResponse struct {
	Embedding []float32 `json:"embedding"`
}

// Embed generates an embedding for a single text. One outbound call, no
// retries; a failed call fails the containing operation. A success response
// without a vector payload yields an empty vector, which callers must
// treat as unusable.
func (a *OllamaAdapter) Embed(ctx context.Context, text string) ([]float32, error) {
	reqBody := ollamaEmbedRequest{
		Model:  a.model,
		Prompt: text,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, faults.Wrap(faults.KindUnknown, err, "marshaling embedding request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+"/api/embeddings", bytes.NewReader(jsonData))
	if err != nil {
		return nil, faults.Wrap(faults.KindUnknown, err, "creating embedding request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		a.logger.Error("embedding service unreachable", "baseURL", a.baseURL, "error", err)
		return nil, faults.Wrap(faults.KindUnavailable, err,
			"cannot reach the embedding service at %s", a.baseURL)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		a.logger.Error("embedding service error", "status", resp.StatusCode)
		return nil, faults.New(faults.KindUpstream,
			"embedding service returned status %d", resp.StatusCode)
	}

	var embedResp ollamaEmbedResponse
	if err := json.NewDecoder(resp.Body).Decode(&embedResp); err != nil {
		return nil, faults.Wrap(faults.KindUpstream, err, "decoding embedding response")
	}

	a.logger.Debug("embedding generated", "dimensions", len(embedResp.Embedding))

	if embedResp.Embedding == nil {
		return []float32{}, nil
	}
	return embedResp.Embedding, nil
}
