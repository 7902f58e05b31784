package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"
)

const (
	textToImageEndpoint = "/text-to-image/v1"
	imageGenTimeout     = 120 * time.Second
)

// ImageGenerator synthesizes an image from a text prompt and returns the raw
// image bytes.
type ImageGenerator interface {
	Generate(ctx context.Context, prompt string) ([]byte, error)
}

type imageGenClient struct {
	client  *http.Client
	baseURL string
	apiKey  string
}

func NewImageGenClient(baseURL, apiKey string) ImageGenerator {
	return &imageGenClient{
		client:  &http.Client{Timeout: imageGenTimeout},
		baseURL: strings.TrimSuffix(baseURL, "/"),
		apiKey:  apiKey,
	}
}

func (c *imageGenClient) Generate(ctx context.Context, prompt string) ([]byte, error) {
	var form bytes.Buffer
	writer := multipart.NewWriter(&form)
	if err := writer.WriteField("prompt", prompt); err != nil {
		return nil, fmt.Errorf("writing prompt field: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("closing form writer: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+textToImageEndpoint, &form)
	if err != nil {
		return nil, fmt.Errorf("creating image request: %w", err)
	}
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling image endpoint: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading image response: %w", err)
	}

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, ErrProviderQuota
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("image synthesis failed: %s", providerErrorMessage(body, resp.StatusCode))
	}
	if len(body) == 0 {
		return nil, ErrContentBlocked
	}
	return body, nil
}
