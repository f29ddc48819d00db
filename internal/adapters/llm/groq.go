// Package llm provides the Groq chat-completions adapter implementing
// ports.GenerationService.
package llm

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
	defaultAPIURL = "https://api.groq.com/openai/v1/chat/completions"
	defaultModel  = "llama-3.1-8b-instant"

	// Low temperature favors faithfulness to the supplied context over
	// creativity; max tokens bounds the answer length.
	defaultTemperature = 0.3
	defaultMaxTokens   = 500

	requestTimeout = 60 * time.Second
)

// GroqAdapter generates answers via the Groq OpenAI-compatible
// chat-completions API, bearer-token authenticated.
type GroqAdapter struct {
	apiURL      string
	apiKey      string
	model       string
	temperature float64
	maxTokens   int
	client      *http.Client
	logger      *slog.Logger
}

// Config configures the Groq adapter. Zero values fall back to defaults,
// except APIKey, which has none.
type Config struct {
	APIURL      string
	APIKey      string
	Model       string
	Temperature float64
	MaxTokens   int
}

// NewGroqAdapter creates a new Groq generation adapter.
func NewGroqAdapter(cfg Config, logger *slog.Logger) *GroqAdapter {
	if cfg.APIURL == "" {
		cfg.APIURL = defaultAPIURL
	}
	if cfg.Model == "" {
		cfg.Model = defaultModel
	}
	if cfg.Temperature == 0 {
		cfg.Temperature = defaultTemperature
	}
	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = defaultMaxTokens
	}
	return &GroqAdapter{
		apiURL:      cfg.APIURL,
		apiKey:      cfg.APIKey,
		model:       cfg.Model,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
		client: &http.Client{
			Timeout: requestTimeout,
		},
		logger: logger,
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Generate sends the instruction pair to Groq and returns the first
// completion's text. A structurally empty response yields an empty string
// and a nil error; the caller substitutes its fallback answer.
func (a *GroqAdapter) Generate(ctx context.Context, system, user string) (string, error) {
	if a.apiKey == "" {
		return "", faults.New(faults.KindMisconfigured,
			"generation service API key is not configured; set GROQ_API_KEY")
	}

	reqBody := chatRequest{
		Model: a.model,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		Temperature: a.temperature,
		MaxTokens:   a.maxTokens,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", faults.Wrap(faults.KindUnknown, err, "marshaling chat request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.apiURL, bytes.NewReader(jsonData))
	if err != nil {
		return "", faults.Wrap(faults.KindUnknown, err, "creating chat request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+a.apiKey)

	resp, err := a.client.Do(req)
	if err != nil {
		a.logger.Error("generation service unreachable", "error", err)
		return "", faults.Wrap(faults.KindUnavailable, err,
			"cannot reach the generation service")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		a.logger.Error("generation service error", "status", resp.StatusCode)
		return "", faults.New(faults.KindUpstream,
			"generation service returned status %d", resp.StatusCode)
	}

	var chatResp chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		return "", faults.Wrap(faults.KindUpstream, err, "decoding chat response")
	}

	if len(chatResp.Choices) == 0 {
		a.logger.Warn("generation response had no choices")
		return "", nil
	}
	return chatResp.Choices[0].Message.Content, nil
}
