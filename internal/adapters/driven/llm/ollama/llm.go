// Package ollama generates answers through a local Ollama daemon.
package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/SamiaIslam22/ucsb-rag-chatbot/internal/core/ports/driven"
)

var _ driven.LLMService = (*LLMService)(nil)

// Default configuration values.
const (
	DefaultBaseURL    = "http://localhost:11434"
	DefaultLLMModel   = "llama3.2"
	DefaultLLMTimeout = 120 * time.Second
)

// LLMConfig holds connection settings for the Ollama daemon. Zero
// fields fall back to the defaults above.
type LLMConfig struct {
	BaseURL string
	Model   string
	Timeout time.Duration
}

// LLMService drives Ollama's /api/chat endpoint. A plain completion is
// sent as a single-turn chat.
type LLMService struct {
	client  *http.Client
	baseURL string
	model   string
}

// chatRequest is the /api/chat payload. Streaming is always disabled;
// the answer pipeline wants whole responses.
type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
	Stream   bool          `json:"stream"`
	Options  *modelOptions `json:"options,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// modelOptions carries sampling parameters in Ollama's naming.
type modelOptions struct {
	NumPredict  int      `json:"num_predict,omitempty"`
	Temperature float64  `json:"temperature,omitempty"`
	Stop        []string `json:"stop,omitempty"`
}

type chatResponse struct {
	Message chatMessage `json:"message"`
}

// NewLLMService creates an Ollama-backed LLM service.
func NewLLMService(cfg LLMConfig) *LLMService {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultLLMModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultLLMTimeout
	}

	return &LLMService{
		client:  &http.Client{Timeout: cfg.Timeout},
		baseURL: cfg.BaseURL,
		model:   cfg.Model,
	}
}

// Generate produces a completion by running the prompt as a one-turn
// chat.
func (s *LLMService) Generate(ctx context.Context, prompt string, opts driven.GenerateOptions) (string, error) {
	return s.chat(ctx,
		[]chatMessage{{Role: "user", Content: prompt}},
		&modelOptions{
			NumPredict:  opts.MaxTokens,
			Temperature: opts.Temperature,
			Stop:        opts.StopWords,
		})
}

// Chat runs a multi-turn conversation and returns the reply text.
func (s *LLMService) Chat(ctx context.Context, messages []driven.ChatMessage, opts driven.ChatOptions) (string, error) {
	turns := make([]chatMessage, len(messages))
	for i, m := range messages {
		turns[i] = chatMessage{Role: m.Role, Content: m.Content}
	}
	return s.chat(ctx, turns, &modelOptions{
		NumPredict:  opts.MaxTokens,
		Temperature: opts.Temperature,
	})
}

func (s *LLMService) chat(ctx context.Context, messages []chatMessage, opts *modelOptions) (string, error) {
	if opts != nil && opts.NumPredict == 0 && opts.Temperature == 0 && len(opts.Stop) == 0 {
		opts = nil
	}

	payload, err := json.Marshal(chatRequest{
		Model:    s.model,
		Messages: messages,
		Options:  opts,
	})
	if err != nil {
		return "", fmt.Errorf("encoding chat request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		s.baseURL+"/api/chat", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("building chat request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("calling ollama at %s: %w", s.baseURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", readError(resp)
	}

	var decoded chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", fmt.Errorf("decoding chat response: %w", err)
	}
	return decoded.Message.Content, nil
}

// ModelName returns the configured model.
func (s *LLMService) ModelName() string {
	return s.model
}

// Ping checks that the daemon is reachable without running inference.
func (s *LLMService) Ping(ctx context.Context) error {
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
func (s *LLMService) Close() error {
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
