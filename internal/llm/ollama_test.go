package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestGenerate_SendsNonStreamedRequest(t *testing.T) {
	var got generateRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/generate" {
			t.Fatalf("unexpected path %q", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		_ = json.NewEncoder(w).Encode(generateResponse{Response: "  hi there  "})
	}))
	defer srv.Close()

	c := NewOllamaClient(srv.URL, "llama3.1")
	out, err := c.Generate(context.Background(), "hello")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if out != "hi there" {
		t.Fatalf("expected trimmed reply, got %q", out)
	}
	if got.Model != "llama3.1" || got.Prompt != "hello" || got.Stream {
		t.Fatalf("unexpected request %+v", got)
	}
}

func TestGenerate_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "overloaded", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := NewOllamaClient(srv.URL, "")
	if _, err := c.Generate(context.Background(), "hello"); err == nil {
		t.Fatalf("expected error on 503")
	}
}
