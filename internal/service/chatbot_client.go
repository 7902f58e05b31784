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
	chatEndpoint       = "/v1/chat"
	chatBotTemperature = 0.5
	chatBotTimeout     = 60 * time.Second
)

// ChatBot answers a single message through a chat-completion provider. No
// history is threaded.
type ChatBot interface {
	Reply(ctx context.Context, message string) (string, error)
}

type chatBotClient struct {
	client  *http.Client
	baseURL string
	apiKey  string
	model   string
}

func NewChatBotClient(baseURL, apiKey, model string) ChatBot {
	return &chatBotClient{
		client:  &http.Client{Timeout: chatBotTimeout},
		baseURL: strings.TrimSuffix(baseURL, "/"),
		apiKey:  apiKey,
		model:   model,
	}
}

type chatRequest struct {
	Message     string   `json:"message"`
	ChatHistory []string `json:"chat_history"`
	Model       string   `json:"model"`
	Temperature float64  `json:"temperature"`
	Stream      bool     `json:"stream"`
}

// chatResponse is an explicit union: the provider has answered with either
// field across versions, both optional.
type chatResponse struct {
	Text  string `json:"text"`
	Reply string `json:"reply"`
}

func (c *chatBotClient) Reply(ctx context.Context, message string) (string, error) {
	payload := chatRequest{
		Message:     message,
		ChatHistory: []string{},
		Model:       c.model,
		Temperature: chatBotTemperature,
		Stream:      false,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshaling chat request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+chatEndpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("creating chat request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("calling chat endpoint: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading chat response: %w", err)
	}
	if resp.StatusCode == http.StatusTooManyRequests {
		return "", ErrProviderQuota
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("chat completion failed: %s", providerErrorMessage(respBody, resp.StatusCode))
	}

	var reply chatResponse
	if err := json.Unmarshal(respBody, &reply); err != nil {
		return "", fmt.Errorf("decoding chat response: %w", err)
	}
	switch {
	case reply.Text != "":
		return reply.Text, nil
	case reply.Reply != "":
		return reply.Reply, nil
	default:
		return "", ErrContentBlocked
	}
}
