package mail

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestQuery_SendsTokenAndCategory(t *testing.T) {
	var got queryRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/google/gmail" {
			t.Fatalf("unexpected path %q", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Fatalf("decode: %v", err)
		}
		_ = json.NewEncoder(w).Encode(queryResponse{Message: `Found these: [{"subject":"a","from":"b","snippet":"c"}]`})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "tok-123")
	msg, err := c.Query(context.Background(), "unread")
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if got.AccessToken != "tok-123" || got.Query != "unread" {
		t.Fatalf("unexpected request %+v", got)
	}
	if msg == "" {
		t.Fatalf("expected reply text")
	}
}

func TestQuery_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "tok")
	if _, err := c.Query(context.Background(), "recent"); err == nil {
		t.Fatalf("expected error on 502")
	}
}
