// Package ollama provides a chat model backed by Ollama's /api/chat endpoint.
package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"docqa/internal/domain"
)

var _ domain.ChatModel = (*ChatModel)(nil)

// Default configuration values.
const (
	DefaultBaseURL     = "http://localhost:11434"
	DefaultModel       = "granite3.3:2b"
	DefaultTemperature = 0.1
)

// Config configures the Ollama chat model.
type Config struct {
	// BaseURL is the Ollama API base URL (default: http://localhost:11434).
	BaseURL string

	// Model is the chat model (default: granite3.3:2b).
	Model string

	// Temperature controls sampling randomness.
	Temperature float64

	// Token is sent as a bearer token when set.
	Token string

	// Timeout bounds each request. Zero means no timeout.
	Timeout time.Duration
}

// ChatModel answers chat prompts using Ollama.
type ChatModel struct {
	client      *http.Client
	baseURL     string
	model       string
	temperature float64
	token       string
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type options struct {
	Temperature float64 `json:"temperature"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
	Stream   bool          `json:"stream"`
	Options  options       `json:"options"`
}

type chatResponse struct {
	Message chatMessage `json:"message"`
	Done    bool        `json:"done"`
}

// NewChatModel creates an Ollama chat model.
func NewChatModel(cfg Config) *ChatModel {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	return &ChatModel{
		client:      &http.Client{Timeout: cfg.Timeout},
		baseURL:     cfg.BaseURL,
		model:       cfg.Model,
		temperature: cfg.Temperature,
		token:       cfg.Token,
	}
}

// Name returns the model identifier.
func (m *ChatModel) Name() string { return m.model }

// Complete sends messages in one non-streaming request and returns the reply.
func (m *ChatModel) Complete(ctx context.Context, messages []domain.Message) (string, error) {
	reqBody := chatRequest{
		Model:    m.model,
		Messages: make([]chatMessage, len(messages)),
		Stream:   false,
		Options:  options{Temperature: m.temperature},
	}
	for i, msg := range messages {
		reqBody.Messages[i] = chatMessage{Role: msg.Role, Content: msg.Content}
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.baseURL+"/api/chat", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if m.token != "" {
		req.Header.Set("Authorization", "Bearer "+m.token)
	}

	resp, err := m.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("ollama error (status %d): %s", resp.StatusCode, string(msg))
	}

	var out chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	return out.Message.Content, nil
}
