package httputils

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestDoJSONDecodesReply(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer tok" {
			t.Errorf("missing auth header, got %q", got)
		}
		var body map[string]string
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if body["q"] != "hello" {
			t.Errorf("unexpected body: %v", body)
		}
		json.NewEncoder(w).Encode(map[string]string{"answer": "world"})
	}))
	defer srv.Close()

	var resp struct {
		Answer string `json:"answer"`
	}
	err := DoJSON(context.Background(), srv.Client(), http.MethodPost, srv.URL,
		map[string]string{"Authorization": "Bearer tok"},
		map[string]string{"q": "hello"}, &resp)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Answer != "world" {
		t.Errorf("got %q, want %q", resp.Answer, "world")
	}
}

func TestDoJSONStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"error": "Invalid credentials"})
	}))
	defer srv.Close()

	err := DoJSON(context.Background(), srv.Client(), http.MethodPost, srv.URL, nil, nil, nil)
	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("expected *StatusError, got %v", err)
	}
	if statusErr.Status != http.StatusUnauthorized {
		t.Errorf("got status %d, want 401", statusErr.Status)
	}
	if statusErr.Message != "Invalid credentials" {
		t.Errorf("got message %q", statusErr.Message)
	}
}

func TestDoJSONStatusErrorWithoutEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	err := DoJSON(context.Background(), srv.Client(), http.MethodGet, srv.URL, nil, nil, nil)
	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("expected *StatusError, got %v", err)
	}
	if statusErr.Message != "" {
		t.Errorf("expected empty message for non-json body, got %q", statusErr.Message)
	}
}

func TestDoJSONTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	err := DoJSON(context.Background(), nil, http.MethodGet, srv.URL, nil, nil, nil)
	if err == nil {
		t.Fatal("expected transport error")
	}
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		t.Errorf("transport failure must not be a StatusError: %v", err)
	}
}
