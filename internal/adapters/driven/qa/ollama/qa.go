// Package ollama provides a text QA adapter using a local Ollama server.
package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/custodia-labs/askdoc/internal/core/domain"
	"github.com/custodia-labs/askdoc/internal/core/ports/driven"
)

// Ensure TextQA implements the interfaces.
var (
	_ driven.TextQA           = (*TextQA)(nil)
	_ driven.PromptStoreAware = (*TextQA)(nil)
)

// Default configuration values.
const (
	DefaultBaseURL = "http://localhost:11434"
	DefaultModel   = "llama3.2"
	DefaultTimeout = 120 * time.Second

	maxAnswerTokens = 128
)

// Config holds configuration for the Ollama text QA adapter.
type Config struct {
	// BaseURL is the Ollama API base URL (default: http://localhost:11434).
	BaseURL string

	// Model is the model to use (default: llama3.2).
	Model string

	// Timeout is the request timeout (default: 120s).
	Timeout time.Duration
}

// TextQA answers questions with a locally served model.
type TextQA struct {
	client      *http.Client
	baseURL     string
	model       string
	promptStore driven.PromptStore
}

// options holds generation parameters.
type options struct {
	NumPredict  int     `json:"num_predict,omitempty"`
	Temperature float64 `json:"temperature"`
}

// chatRequest is the Ollama /api/chat request format.
type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
	Stream   bool          `json:"stream"`
	Options  *options      `json:"options,omitempty"`
}

// chatMessage is the Ollama chat message format.
type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// chatResponse is the Ollama /api/chat response format.
type chatResponse struct {
	Message chatMessage `json:"message"`
	Done    bool        `json:"done"`
}

// NewTextQA creates a new Ollama text QA adapter.
func NewTextQA(cfg Config) *TextQA {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	return &TextQA{
		client:  &http.Client{Timeout: cfg.Timeout},
		baseURL: cfg.BaseURL,
		model:   cfg.Model,
	}
}

const defaultSystemPrompt = `You are an extractive question answering system.
Answer the question using a short span copied verbatim from the context.
If the context does not contain the answer, reply with an empty line.`

const defaultUserPrompt = `Context:
%s

Question: %s
Answer:`

// Answer asks the model for a span and locates it in the context.
func (q *TextQA) Answer(ctx context.Context, question, content string) (domain.Candidate, error) {
	system := q.loadPrompt(driven.PromptExtractiveSystem, defaultSystemPrompt)
	user := fmt.Sprintf(q.loadPrompt(driven.PromptExtractiveUser, defaultUserPrompt), content, question)

	reply, err := q.chat(ctx, []chatMessage{
		{Role: "system", Content: system},
		{Role: "user", Content: user},
	})
	if err != nil {
		return domain.Candidate{}, fmt.Errorf("text qa: %w", err)
	}

	c := domain.SpanCandidate(content, reply)
	if c.Answer == "" {
		return domain.Candidate{}, domain.ErrNoAnswer
	}
	return c, nil
}

func (q *TextQA) chat(ctx context.Context, messages []chatMessage) (string, error) {
	jsonBody, err := json.Marshal(chatRequest{
		Model:    q.model,
		Messages: messages,
		Stream:   false,
		Options:  &options{NumPredict: maxAnswerTokens},
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		q.baseURL+"/api/chat",
		bytes.NewReader(jsonBody),
	)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := q.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return "", fmt.Errorf("ollama error (status %d): failed to read response", resp.StatusCode)
		}
		return "", fmt.Errorf("ollama error (status %d): %s", resp.StatusCode, string(body))
	}

	var chatResp chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}

	return chatResp.Message.Content, nil
}

func (q *TextQA) loadPrompt(name, fallback string) string {
	if q.promptStore == nil {
		return fallback
	}
	prompt, err := q.promptStore.Load(name)
	if err != nil {
		return fallback
	}
	return prompt
}

// ModelName returns the name of the model being used.
func (q *TextQA) ModelName() string {
	return q.model
}

// SetPromptStore sets the prompt store for loading customisable prompts.
func (q *TextQA) SetPromptStore(store driven.PromptStore) {
	q.promptStore = store
}

// Ping validates the server is reachable by checking the /api/tags endpoint.
func (q *TextQA) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, q.baseURL+"/api/tags", http.NoBody)
	if err != nil {
		return fmt.Errorf("ollama: failed to create ping request: %w", err)
	}

	resp, err := q.client.Do(req)
	if err != nil {
		return fmt.Errorf("ollama: ping failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("ollama: API returned status %d (failed to read body: %w)", resp.StatusCode, err)
		}
		return fmt.Errorf("ollama: API returned status %d: %s", resp.StatusCode, string(body))
	}
	return nil
}

// Close releases resources.
func (q *TextQA) Close() error {
	return nil
}
