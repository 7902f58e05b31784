package service

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
	chatCompletionsEndpoint = "/chat/completions"
	textGenTemperature      = 0.7
	textGenTimeout          = 120 * time.Second
)

// TextGenerator produces text from a single-turn prompt.
type TextGenerator interface {
	// Generate sends one user message and returns the model's reply, capped at
	// maxTokens.
	Generate(ctx context.Context, prompt string, maxTokens int) (string, error)
}

type textGenClient struct {
	client  *http.Client
	baseURL string
	apiKey  string
	model   string
}

// NewTextGenClient creates a client for an OpenAI-compatible chat completions
// endpoint.
func NewTextGenClient(baseURL, apiKey, model string) TextGenerator {
	return &textGenClient{
		client:  &http.Client{Timeout: textGenTimeout},
		baseURL: strings.TrimSuffix(baseURL, "/"),
		apiKey:  apiKey,
		model:   model,
	}
}

type chatCompletionRequest struct {
	Model       string                  `json:"model"`
	Messages    []chatCompletionMessage `json:"messages"`
	Temperature float64                 `json:"temperature"`
	MaxTokens   int                     `json:"max_tokens"`
}

type chatCompletionMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message chatCompletionMessage `json:"message"`
	} `json:"choices"`
}

func (c *textGenClient) Generate(ctx context.Context, prompt string, maxTokens int) (string, error) {
	payload := chatCompletionRequest{
		Model:       c.model,
		Messages:    []chatCompletionMessage{{Role: "user", Content: prompt}},
		Temperature: textGenTemperature,
		MaxTokens:   maxTokens,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshaling completion request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+chatCompletionsEndpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("creating completion request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("calling completion endpoint: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading completion response: %w", err)
	}

	if resp.StatusCode == http.StatusTooManyRequests {
		return "", ErrProviderQuota
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("completion failed: %s", providerErrorMessage(respBody, resp.StatusCode))
	}

	var completion chatCompletionResponse
	if err := json.Unmarshal(respBody, &completion); err != nil {
		return "", fmt.Errorf("decoding completion response: %w", err)
	}
	if len(completion.Choices) == 0 || completion.Choices[0].Message.Content == "" {
		return "", ErrContentBlocked
	}
	return completion.Choices[0].Message.Content, nil
}

// providerErrorMessage pulls the provider's own message out of an error body,
// never exposing anything beyond it.
func providerErrorMessage(body []byte, statusCode int) string {
	var errResp struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &errResp); err == nil {
		if errResp.Error.Message != "" {
			return errResp.Error.Message
		}
		if errResp.Message != "" {
			return errResp.Message
		}
	}
	return fmt.Sprintf("HTTP %d", statusCode)
}
