package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestGeminiClient_Generate(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/models/test-model:generateContent" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("key"); got != "test-key" {
			t.Errorf("unexpected key param: %s", got)
		}

		var req geminiRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if len(req.Contents) != 1 || len(req.Contents[0].Parts) != 1 {
			t.Errorf("unexpected contents: %+v", req.Contents)
		}

		_, _ = w.Write([]byte(`{
			"candidates": [
				{"content": {"parts": [{"text": "## CORE_MISSION\n"}, {"text": "A todo app."}]}}
			]
		}`))
	}))
	defer srv.Close()

	client := NewGeminiClient("test-key", srv.URL, "test-model")

	got, err := client.Generate(context.Background(), "Build a todo app")
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if got != "## CORE_MISSION\nA todo app." {
		t.Errorf("unexpected output: %q", got)
	}
}

func TestGeminiClient_Generate_UpstreamStatus(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"message":"internal"}}`, http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewGeminiClient("test-key", srv.URL, "test-model")

	_, err := client.Generate(context.Background(), "prompt")
	if !errors.Is(err, ErrUpstream) {
		t.Errorf("expected ErrUpstream, got %v", err)
	}
}

func TestGeminiClient_Generate_NoCandidates(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"candidates":[]}`))
	}))
	defer srv.Close()

	client := NewGeminiClient("test-key", srv.URL, "test-model")

	_, err := client.Generate(context.Background(), "prompt")
	if !errors.Is(err, ErrUpstream) {
		t.Errorf("expected ErrUpstream, got %v", err)
	}
}
