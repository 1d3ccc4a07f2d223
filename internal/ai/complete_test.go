package ai

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestCompleteNoKeys(t *testing.T) {
	if _, err := Complete(context.Background(), APIKeys{}, "prompt"); err == nil {
		t.Fatal("expected error with no keys configured")
	}
}

func TestCompleteFallsThroughFailedProvider(t *testing.T) {
	failing := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "overloaded", http.StatusServiceUnavailable)
	}))
	defer failing.Close()
	working := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"content":[{"type":"text","text":"synthwave 80s music video"}]}`))
	}))
	defer working.Close()

	oldOpenAI, oldAnthropic := openAIBaseURL, anthropicBaseURL
	openAIBaseURL = failing.URL
	anthropicBaseURL = working.URL
	defer func() {
		openAIBaseURL = oldOpenAI
		anthropicBaseURL = oldAnthropic
	}()

	text, err := Complete(context.Background(), APIKeys{OpenAI: "k1", Anthropic: "k2"}, "prompt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != "synthwave 80s music video" {
		t.Fatalf("unexpected text: %q", text)
	}
}

func TestCompleteAllProvidersFail(t *testing.T) {
	failing := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	}))
	defer failing.Close()

	old := geminiBaseURL
	geminiBaseURL = failing.URL
	defer func() { geminiBaseURL = old }()

	if _, err := Complete(context.Background(), APIKeys{Google: "k"}, "prompt"); err == nil {
		t.Fatal("expected error when every provider fails")
	}
}
