package service

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestTextGenGenerate(t *testing.T) {
	var gotAuth string
	var gotReq chatCompletionRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Errorf("decoding request: %v", err)
		}
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"role": "assistant", "content": "generated text"}},
			},
		})
	}))
	defer srv.Close()

	client := NewTextGenClient(srv.URL, "test-key", "test-model")
	content, err := client.Generate(context.Background(), "write something", 500)
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	if content != "generated text" {
		t.Fatalf("expected 'generated text', got %q", content)
	}
	if gotAuth != "Bearer test-key" {
		t.Fatalf("expected bearer auth header, got %q", gotAuth)
	}
	if gotReq.Model != "test-model" || gotReq.MaxTokens != 500 {
		t.Fatalf("unexpected request: %+v", gotReq)
	}
	if len(gotReq.Messages) != 1 || gotReq.Messages[0].Role != "user" || gotReq.Messages[0].Content != "write something" {
		t.Fatalf("unexpected messages: %+v", gotReq.Messages)
	}
}

func TestTextGenGenerateQuotaExceeded(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	client := NewTextGenClient(srv.URL, "test-key", "test-model")
	if _, err := client.Generate(context.Background(), "p", 100); !errors.Is(err, ErrProviderQuota) {
		t.Fatalf("expected ErrProviderQuota, got %v", err)
	}
}

func TestTextGenGenerateBlockedContent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"choices": []interface{}{}})
	}))
	defer srv.Close()

	client := NewTextGenClient(srv.URL, "test-key", "test-model")
	if _, err := client.Generate(context.Background(), "p", 100); !errors.Is(err, ErrContentBlocked) {
		t.Fatalf("expected ErrContentBlocked, got %v", err)
	}
}

func TestTextGenGenerateProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"message":"prompt was rejected"}}`))
	}))
	defer srv.Close()

	client := NewTextGenClient(srv.URL, "test-key", "test-model")
	_, err := client.Generate(context.Background(), "p", 100)
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "prompt was rejected") {
		t.Fatalf("expected provider message in error, got %v", err)
	}
}
