// Package ai calls an OpenAI-compatible chat-completion endpoint. The client
// is an explicit value constructed once at startup and injected where needed;
// there is no package-level singleton, so tests can point it at a local
// httptest server.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Prompt strategy names accepted by Chat.
const (
	StrategyChat    = "chat"
	StrategySummary = "summary"
)

// systemPrompts maps a strategy name to the system prompt sent ahead of the
// user message.
var systemPrompts = map[string]string{
	StrategyChat:    "You are a helpful research assistant. Answer concisely and cite facts from the conversation only.",
	StrategySummary: "Summarize the provided text in a short paragraph, preserving key findings and numbers.",
}

// ChatClient holds everything needed to talk to the completion API.
type ChatClient struct {
	APIKey  string
	BaseURL string // e.g. "https://api.deepseek.com/v1"
	Model   string
	HTTP    *http.Client
}

// NewChatClient builds a client with a bounded default timeout.
func NewChatClient(apiKey, baseURL, model string) *ChatClient {
	return &ChatClient{
		APIKey:  apiKey,
		BaseURL: baseURL,
		Model:   model,
		HTTP:    &http.Client{Timeout: 60 * time.Second},
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// Chat sends the user prompt under the given strategy and returns the
// assistant reply. Unknown strategies fall back to the chat strategy.
func (c *ChatClient) Chat(ctx context.Context, strategy, userPrompt string) (string, error) {
	system, ok := systemPrompts[strategy]
	if !ok {
		system = systemPrompts[StrategyChat]
	}

	body, err := json.Marshal(chatRequest{
		Model: c.Model,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: userPrompt},
		},
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.APIKey)

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return "", fmt.Errorf("ai: completion request failed: %s: %s", resp.Status, b)
	}

	var out chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", err
	}
	if len(out.Choices) == 0 {
		return "", fmt.Errorf("ai: completion response had no choices")
	}
	return out.Choices[0].Message.Content, nil
}
