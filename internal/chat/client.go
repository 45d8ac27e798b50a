package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	// DefaultEndpoint is an OpenAI-compatible completion API base URL.
	DefaultEndpoint = "https://router.huggingface.co/v1"

	defaultMaxTokens = 1024
	defaultTimeout   = 60 * time.Second
)

// Config holds chat client settings.
type Config struct {
	Endpoint  string
	Model     string
	Token     string
	MaxTokens int
	Timeout   time.Duration
}

// Client calls a chat completion endpoint with assembled prompts.
type Client struct {
	conf Config
	http *http.Client
}

// NewClient creates a chat client. Model must be set; the other fields
// fall back to defaults.
func NewClient(conf Config) (*Client, error) {
	if conf.Model == "" {
		return nil, fmt.Errorf("chat: model is not configured")
	}
	if conf.Endpoint == "" {
		conf.Endpoint = DefaultEndpoint
	}
	if conf.MaxTokens <= 0 {
		conf.MaxTokens = defaultMaxTokens
	}
	if conf.Timeout <= 0 {
		conf.Timeout = defaultTimeout
	}
	return &Client{
		conf: conf,
		http: &http.Client{Timeout: conf.Timeout},
	}, nil
}

type completionRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	MaxTokens   int       `json:"max_tokens"`
	Temperature float64   `json:"temperature"`
	TopP        float64   `json:"top_p"`
}

type completionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Respond builds the prompt from contextBlock and messages and returns
// the model's answer.
func (c *Client) Respond(ctx context.Context, contextBlock string, messages []Message) (string, error) {
	prompt, err := BuildPrompt(contextBlock, messages)
	if err != nil {
		return "", err
	}

	payload, err := json.Marshal(completionRequest{
		Model:       c.conf.Model,
		Messages:    []Message{{Role: "user", Content: prompt}},
		MaxTokens:   c.conf.MaxTokens,
		Temperature: 0.3,
		TopP:        0.9,
	})
	if err != nil {
		return "", fmt.Errorf("chat: marshal request: %w", err)
	}

	url := strings.TrimRight(c.conf.Endpoint, "/") + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("chat: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.conf.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.conf.Token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("chat: completion request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("chat: read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("chat: completion status %d: %.200s", resp.StatusCode, string(body))
	}

	var parsed completionResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("chat: decode response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("chat: response has no choices")
	}
	return parsed.Choices[0].Message.Content, nil
}
