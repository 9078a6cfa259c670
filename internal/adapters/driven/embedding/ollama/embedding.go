// Package ollama embeds corpus chunks through a local Ollama daemon.
package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/SamiaIslam22/ucsb-rag-chatbot/internal/core/domain"
	"github.com/SamiaIslam22/ucsb-rag-chatbot/internal/core/ports/driven"
	"github.com/SamiaIslam22/ucsb-rag-chatbot/internal/logger"
)

var _ driven.EmbeddingService = (*EmbeddingService)(nil)

// Default configuration values.
const (
	DefaultBaseURL    = "http://localhost:11434"
	DefaultModel      = "nomic-embed-text"
	DefaultTimeout    = 2 * time.Minute
	DefaultDimensions = 768 // nomic-embed-text
)

// Config holds connection settings for the Ollama daemon. Zero fields
// fall back to the defaults above.
type Config struct {
	BaseURL    string
	Model      string
	Timeout    time.Duration
	Dimensions int
}

// EmbeddingService talks to Ollama's /api/embed endpoint, which accepts
// a whole batch of inputs in one request.
type EmbeddingService struct {
	client     *http.Client
	baseURL    string
	model      string
	dimensions int
}

// embedRequest is the /api/embed payload. Input takes a list of texts.
type embedRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

// embedResponse carries one vector per input, in order.
type embedResponse struct {
	Embeddings [][]float32 `json:"embeddings"`
}

// NewEmbeddingService creates an Ollama-backed embedding service.
func NewEmbeddingService(cfg Config) *EmbeddingService {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.Dimensions == 0 {
		if d, ok := domain.EmbeddingDimensions()[cfg.Model]; ok {
			cfg.Dimensions = d
		} else {
			cfg.Dimensions = DefaultDimensions
		}
	}

	return &EmbeddingService{
		client:     &http.Client{Timeout: cfg.Timeout},
		baseURL:    cfg.BaseURL,
		model:      cfg.Model,
		dimensions: cfg.Dimensions,
	}
}

// Embed generates a vector for a single text.
func (s *EmbeddingService) Embed(ctx context.Context, text string) ([]float32, error) {
	vectors, err := s.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	if len(vectors) != 1 {
		return nil, fmt.Errorf("ollama returned %d vectors for one input", len(vectors))
	}
	return vectors[0], nil
}

// EmbedBatch generates vectors for texts in a single /api/embed call,
// one vector per input in the same order.
func (s *EmbeddingService) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	payload, err := json.Marshal(embedRequest{Model: s.model, Input: texts})
	if err != nil {
		return nil, fmt.Errorf("encoding embed request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		s.baseURL+"/api/embed", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("building embed request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling ollama at %s: %w", s.baseURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, readError(resp)
	}

	var decoded embedResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decoding embed response: %w", err)
	}
	if len(decoded.Embeddings) != len(texts) {
		return nil, fmt.Errorf("ollama returned %d vectors for %d inputs",
			len(decoded.Embeddings), len(texts))
	}

	logger.Debug("Embedded %d texts with %s in %s", len(texts), s.model,
		time.Since(start).Round(time.Millisecond))
	return decoded.Embeddings, nil
}

// Dimensions returns the vector size produced by the configured model.
func (s *EmbeddingService) Dimensions() int {
	return s.dimensions
}

// ModelName returns the configured embedding model.
func (s *EmbeddingService) ModelName() string {
	return s.model
}

// Ping checks that the daemon is reachable without running inference.
func (s *EmbeddingService) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		s.baseURL+"/api/tags", http.NoBody)
	if err != nil {
		return fmt.Errorf("building ping request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("ollama unreachable at %s: %w", s.baseURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return readError(resp)
	}
	return nil
}

// Close releases resources. The shared HTTP client has none.
func (s *EmbeddingService) Close() error {
	return nil
}

// readError turns a non-200 response into an error carrying the body,
// which is where Ollama reports missing models.
func readError(resp *http.Response) error {
	body, err := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if err != nil || len(body) == 0 {
		return fmt.Errorf("ollama returned status %d", resp.StatusCode)
	}
	return fmt.Errorf("ollama returned status %d: %s", resp.StatusCode, string(body))
}
