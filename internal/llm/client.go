package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/tidwall/gjson"
)

// Request is one chat completion call.
type Request struct {
	Model       string
	Temperature float64
	System      string
	User        string
}

// Completer returns the model's text for a request.
type Completer interface {
	Complete(ctx context.Context, req Request) (string, error)
}

// Client calls an OpenAI-compatible /chat/completions endpoint.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

// NewClient creates a client from cfg. A nil httpClient gets one with
// cfg.Timeout.
func NewClient(cfg Config, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	return &Client{httpClient: httpClient, baseURL: cfg.BaseURL(), apiKey: cfg.APIKey()}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Temperature float64       `json:"temperature"`
	Messages    []chatMessage `json:"messages"`
}

func (c *Client) Complete(ctx context.Context, r Request) (string, error) {
	if strings.TrimSpace(r.Model) == "" {
		return "", fmt.Errorf("model is required")
	}
	if c.apiKey == "" {
		return "", fmt.Errorf("api key is required")
	}

	body, err := json.Marshal(chatRequest{
		Model:       r.Model,
		Temperature: r.Temperature,
		Messages: []chatMessage{
			{Role: "system", Content: r.System},
			{Role: "user", Content: r.User},
		},
	})
	if err != nil {
		return "", fmt.Errorf("marshal chat request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build chat request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	// The key only ever travels in this header; errors never include it.
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	res, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("chat request failed: %w", err)
	}
	defer res.Body.Close()

	data, err := io.ReadAll(io.LimitReader(res.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("read chat response: %w", err)
	}
	if res.StatusCode < 200 || res.StatusCode >= 300 {
		msg := gjson.GetBytes(data, "error.message").String()
		if msg == "" {
			msg = strings.TrimSpace(string(data))
			if len(msg) > 512 {
				msg = msg[:512]
			}
		}
		return "", fmt.Errorf("chat request status %d: %s", res.StatusCode, msg)
	}

	content := strings.TrimSpace(gjson.GetBytes(data, "choices.0.message.content").String())
	if content == "" {
		return "", fmt.Errorf("chat response missing message content")
	}
	return content, nil
}
