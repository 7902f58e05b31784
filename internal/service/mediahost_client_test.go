package service

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestMediaHostUploadFile(t *testing.T) {
	fixed := time.Unix(1700000000, 0)
	var gotForm map[string]string
	var gotFile string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/demo/image/upload" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parsing form: %v", err)
		}
		gotForm = map[string]string{}
		for key := range r.MultipartForm.Value {
			gotForm[key] = r.FormValue(key)
		}
		file, _, err := r.FormFile("file")
		if err != nil {
			t.Errorf("reading file part: %v", err)
		} else {
			contents, _ := io.ReadAll(file)
			gotFile = string(contents)
		}
		_, _ = w.Write([]byte(`{"public_id":"abc123","secure_url":"https://cdn.example/abc123.png"}`))
	}))
	defer srv.Close()

	client := NewMediaHostClient(srv.URL, "https://res.example", "demo", "key123", "secret456").(*mediaHostClient)
	client.now = func() time.Time { return fixed }

	upload, err := client.UploadFile(context.Background(), strings.NewReader("image-bytes"), "photo.png", TransformationBackgroundRemoval)
	if err != nil {
		t.Fatalf("UploadFile returned error: %v", err)
	}
	if upload.PublicID != "abc123" || upload.SecureURL != "https://cdn.example/abc123.png" {
		t.Fatalf("unexpected upload: %+v", upload)
	}
	if gotFile != "image-bytes" {
		t.Fatalf("unexpected file contents %q", gotFile)
	}
	if gotForm["api_key"] != "key123" {
		t.Fatalf("expected api_key field, got %q", gotForm["api_key"])
	}
	if gotForm["timestamp"] != "1700000000" {
		t.Fatalf("expected timestamp field, got %q", gotForm["timestamp"])
	}
	if gotForm["transformation"] != TransformationBackgroundRemoval {
		t.Fatalf("expected transformation field, got %q", gotForm["transformation"])
	}

	digest := sha1.Sum([]byte("timestamp=1700000000&transformation=" + TransformationBackgroundRemoval + "secret456"))
	if gotForm["signature"] != hex.EncodeToString(digest[:]) {
		t.Fatalf("unexpected signature %q", gotForm["signature"])
	}
}

func TestMediaHostUploadDataURI(t *testing.T) {
	fixed := time.Unix(1700000000, 0)
	var gotForm map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parsing form: %v", err)
		}
		gotForm = map[string]string{}
		for key := range r.MultipartForm.Value {
			gotForm[key] = r.FormValue(key)
		}
		_, _ = w.Write([]byte(`{"public_id":"gen1","secure_url":"https://cdn.example/gen1.png"}`))
	}))
	defer srv.Close()

	client := NewMediaHostClient(srv.URL, "https://res.example", "demo", "key123", "secret456").(*mediaHostClient)
	client.now = func() time.Time { return fixed }

	upload, err := client.UploadDataURI(context.Background(), "data:image/png;base64,aGVsbG8=")
	if err != nil {
		t.Fatalf("UploadDataURI returned error: %v", err)
	}
	if upload.SecureURL != "https://cdn.example/gen1.png" {
		t.Fatalf("unexpected upload: %+v", upload)
	}
	if gotForm["file"] != "data:image/png;base64,aGVsbG8=" {
		t.Fatalf("expected data URI in file field, got %q", gotForm["file"])
	}

	digest := sha1.Sum([]byte("timestamp=1700000000" + "secret456"))
	if gotForm["signature"] != hex.EncodeToString(digest[:]) {
		t.Fatalf("unexpected signature %q", gotForm["signature"])
	}
}

func TestMediaHostDeliveryURL(t *testing.T) {
	client := NewMediaHostClient("https://api.example", "https://res.example", "demo", "key", "secret")

	got := client.DeliveryURL("abc123", "e_gen_remove:watch")
	want := "https://res.example/demo/image/upload/e_gen_remove:watch/abc123"
	if got != want {
		t.Fatalf("DeliveryURL = %q, want %q", got, want)
	}
}
