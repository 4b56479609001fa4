package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// OpenAIBaseURL is the API root used when no base URL is set.
const OpenAIBaseURL = "https://api.openai.com/v1"

const chatCompletionsPath = "/chat/completions"

// OpenAI implements Client using the OpenAI Chat Completions API or any
// server speaking the same protocol.
type OpenAI struct {
	apiKey  string
	baseURL string
	client  *http.Client
	logger  *slog.Logger
}

// Option configures an OpenAI client.
type Option func(*OpenAI)

// WithBaseURL points the client at an OpenAI-compatible API root such as
// http://localhost:8080/v1. Requests go to <base>/chat/completions.
func WithBaseURL(url string) Option {
	return func(c *OpenAI) {
		if u := strings.TrimSuffix(url, "/"); u != "" {
			c.baseURL = u
		}
	}
}

// WithHTTPClient replaces http.DefaultClient.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *OpenAI) {
		if hc != nil {
			c.client = hc
		}
	}
}

// WithLogger sets the logger used for request tracing.
func WithLogger(l *slog.Logger) Option {
	return func(c *OpenAI) {
		if l != nil {
			c.logger = l
		}
	}
}

// NewOpenAI returns a Client that uses the OpenAI API with the given API key.
func NewOpenAI(apiKey string, opts ...Option) *OpenAI {
	c := &OpenAI{
		apiKey:  apiKey,
		baseURL: OpenAIBaseURL,
		client:  http.DefaultClient,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type openAIRequest struct {
	Model    string    `json:"model"`
	Messages []message `json:"messages"`
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openAIResponse struct {
	Choices []struct {
		Message message `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// Complete sends system and user messages to the API and returns the assistant reply.
func (c *OpenAI) Complete(ctx context.Context, model, systemPrompt, userMessage string) (string, error) {
	if c.apiKey == "" {
		return "", fmt.Errorf("openai: API key not set")
	}
	if model == "" {
		model = DefaultModel
	}
	reqBody := openAIRequest{
		Model: model,
		Messages: []message{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userMessage},
		},
	}
	body, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}
	url := c.baseURL + chatCompletionsPath
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	start := time.Now()
	c.logger.Debug("openai request", "model", model, "url", url, "bytes", len(body))
	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("openai: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		var out openAIResponse
		if json.Unmarshal(detail, &out) == nil && out.Error != nil && out.Error.Message != "" {
			return "", fmt.Errorf("openai: %s: %s", resp.Status, out.Error.Message)
		}
		return "", fmt.Errorf("openai: %s", resp.Status)
	}
	var out openAIResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("openai: decode response: %w", err)
	}
	if len(out.Choices) == 0 {
		return "", fmt.Errorf("openai: no choices in response")
	}
	reply := out.Choices[0].Message.Content
	c.logger.Debug("openai response", "model", model, "bytes", len(reply), "took", time.Since(start).Round(time.Millisecond))
	return reply, nil
}
