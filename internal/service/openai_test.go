package service

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/roohic/supervisorbot/internal/domain"
)

func TestChatCompleteParsesTextAndUsage(t *testing.T) {
	var gotPath string
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")

		var req map[string]any
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if req["model"] != "gpt-4o-mini" {
			t.Errorf("model = %v", req["model"])
		}

		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"content": "corrected text"}},
			},
			"usage": map[string]any{
				"prompt_tokens":     42,
				"completion_tokens": 17,
			},
		})
	}))
	defer srv.Close()

	s := NewOpenAIService("test-key").WithBaseURL(srv.URL)
	completion, err := s.ChatComplete(context.Background(), "system prompt", "user text", "gpt-4o-mini", 150, 0.3)
	if err != nil {
		t.Fatalf("chat complete: %v", err)
	}

	if gotPath != "/chat/completions" {
		t.Errorf("path = %q", gotPath)
	}
	if gotAuth != "Bearer test-key" {
		t.Errorf("auth header = %q", gotAuth)
	}
	if completion.Text != "corrected text" {
		t.Errorf("text = %q", completion.Text)
	}
	if completion.Usage == nil {
		t.Fatal("usage = nil, want counts")
	}
	if completion.Usage.InputTokens != 42 || completion.Usage.OutputTokens != 17 {
		t.Errorf("usage = %+v", completion.Usage)
	}
}

func TestCompleteLegacyEndpoint(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/completions" {
			t.Errorf("path = %q, want /completions", r.URL.Path)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"text": "corrected text"},
			},
		})
	}))
	defer srv.Close()

	s := NewOpenAIService("test-key").WithBaseURL(srv.URL)
	completion, err := s.Complete(context.Background(), "prompt 'text'", "gpt-3.5-turbo-instruct", 150, 0.3)
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if completion.Text != "corrected text" {
		t.Errorf("text = %q", completion.Text)
	}
	if completion.Usage != nil {
		t.Errorf("usage = %+v, want nil when the provider reports none", completion.Usage)
	}
}

func TestChatCompleteErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"message":"rate limited"}}`, http.StatusTooManyRequests)
	}))
	defer srv.Close()

	s := NewOpenAIService("test-key").WithBaseURL(srv.URL)
	_, err := s.ChatComplete(context.Background(), "system", "user", "gpt-4o-mini", 150, 0.3)
	if !errors.Is(err, domain.ErrProvider) {
		t.Fatalf("err = %v, want ErrProvider", err)
	}
}

func TestChatCompleteEmptyChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"choices": []any{}})
	}))
	defer srv.Close()

	s := NewOpenAIService("test-key").WithBaseURL(srv.URL)
	_, err := s.ChatComplete(context.Background(), "system", "user", "gpt-4o-mini", 150, 0.3)
	if !errors.Is(err, domain.ErrProvider) {
		t.Fatalf("err = %v, want ErrProvider", err)
	}
}

func TestChatCompleteTimeout(t *testing.T) {
	block := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-block
	}))
	defer srv.Close()
	defer close(block)

	s := NewOpenAIService("test-key").WithBaseURL(srv.URL)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := s.ChatComplete(ctx, "system", "user", "gpt-4o-mini", 150, 0.3)
	if !errors.Is(err, domain.ErrProvider) {
		t.Fatalf("err = %v, want ErrProvider on timeout", err)
	}
}
