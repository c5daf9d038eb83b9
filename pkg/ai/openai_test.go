package ai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/johnquangdev/meeting-ai/pkg/config"
)

func TestOpenAIGenerate_Success(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Fatalf("expected POST got %s", r.Method)
		}
		if r.URL.Path != "/v1/chat/completions" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer test-key" {
			t.Fatalf("unexpected auth header %q", r.Header.Get("Authorization"))
		}
		var payload ChatRequest
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Fatalf("invalid payload: %v", err)
		}
		if payload.Model != "gpt-4o-mini" {
			t.Fatalf("unexpected model %q", payload.Model)
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"content": "{\"ok\":true}"}},
			},
		})
	}))
	defer ts.Close()

	client := NewOpenAIClient(&config.OpenAIConfig{APIKey: "test-key", BaseURL: ts.URL, Model: "gpt-4o-mini"})
	out, err := client.Generate(context.Background(), "gpt-4o-mini", "prompt", 256)
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	if out != "{\"ok\":true}" {
		t.Fatalf("unexpected content %q", out)
	}
}

func TestOpenAIGenerate_ClassifiesStatus(t *testing.T) {
	cases := []struct {
		status int
		kind   FailureKind
	}{
		{401, FailureAuth},
		{429, FailureQuota},
		{404, FailureNotFound},
		{503, FailureTransient},
		{400, FailureUnknown},
	}
	for _, tc := range cases {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tc.status)
		}))
		client := NewOpenAIClient(&config.OpenAIConfig{APIKey: "k", BaseURL: ts.URL, Model: "m"})
		_, err := client.Generate(context.Background(), "m", "prompt", 16)
		ts.Close()

		var pe *ProviderError
		if !errors.As(err, &pe) {
			t.Fatalf("status %d: expected ProviderError, got %v", tc.status, err)
		}
		if pe.Kind != tc.kind {
			t.Fatalf("status %d: expected kind %s, got %s", tc.status, tc.kind, pe.Kind)
		}
	}
}

func TestOpenAIGenerate_EmptyCompletionIsError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{"choices": []interface{}{}})
	}))
	defer ts.Close()

	client := NewOpenAIClient(&config.OpenAIConfig{APIKey: "k", BaseURL: ts.URL, Model: "m"})
	if _, err := client.Generate(context.Background(), "m", "prompt", 16); err == nil {
		t.Fatal("expected error for empty completion")
	}
}
