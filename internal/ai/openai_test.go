package ai

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestGenerateSongsDirect(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/responses" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("unexpected auth header: %q", got)
		}
		w.Write([]byte(`{"output":[{"type":"web_search_call"},{"type":"message","content":[{"type":"output_text","text":"` +
			`Here you go: {\"songs\":[{\"title\":\"Take On Me\",\"artist\":\"a-ha\",\"url\":\"https://www.youtube.com/watch?v=djV11Xbc914\"}]}"}]}]}`))
	}))
	defer srv.Close()

	old := openAIBaseURL
	openAIBaseURL = srv.URL
	defer func() { openAIBaseURL = old }()

	songs, err := GenerateSongsDirect(context.Background(), "test-key", "high vibrations 80s music", 12)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(songs) != 1 {
		t.Fatalf("expected 1 song, got %d", len(songs))
	}
	if songs[0].Title != "Take On Me" || songs[0].Artist != "a-ha" {
		t.Fatalf("unexpected song: %+v", songs[0])
	}
}

func TestGenerateSongsDirectUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
	}))
	defer srv.Close()

	old := openAIBaseURL
	openAIBaseURL = srv.URL
	defer func() { openAIBaseURL = old }()

	if _, err := GenerateSongsDirect(context.Background(), "bad-key", "theme", 12); err == nil {
		t.Fatal("expected error for non-2xx response")
	}
}

func TestGenerateSongsDirectGarbledOutput(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"output":[{"type":"message","content":[{"type":"output_text","text":"no songs here, sorry"}]}]}`))
	}))
	defer srv.Close()

	old := openAIBaseURL
	openAIBaseURL = srv.URL
	defer func() { openAIBaseURL = old }()

	_, err := GenerateSongsDirect(context.Background(), "test-key", "theme", 12)
	if err == nil {
		t.Fatal("expected parse error for non-JSON model output")
	}
}
