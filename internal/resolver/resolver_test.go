package resolver

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"vibe-dj/internal/ai"
	"vibe-dj/internal/youtube"
)

func TestDirectResolveSongs(t *testing.T) {
	d := Direct{
		Keys: ai.APIKeys{OpenAI: "key"},
		generate: func(ctx context.Context, apiKey, theme string, count int) ([]ai.Song, error) {
			if apiKey != "key" {
				t.Errorf("unexpected key: %q", apiKey)
			}
			if count != 12 {
				t.Errorf("expected 12 songs requested, got %d", count)
			}
			return []ai.Song{{Title: "Africa", Artist: "Toto", URL: "https://www.youtube.com/watch?v=FTQbiNvZqaY"}}, nil
		},
	}
	songs, err := d.ResolveSongs(context.Background(), "high vibrations 80s music")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(songs) != 1 || songs[0].Title != "Africa" {
		t.Fatalf("unexpected songs: %+v", songs)
	}
}

func TestDirectRequiresOpenAIKey(t *testing.T) {
	d := Direct{Keys: ai.APIKeys{Anthropic: "other"}}
	if _, err := d.ResolveSongs(context.Background(), "theme"); err == nil {
		t.Fatal("expected error without an OpenAI key")
	}
}

func searchServer(t *testing.T, body string, status int) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if status != http.StatusOK {
			http.Error(w, "error", status)
			return
		}
		w.Write([]byte(body))
	}))
}

const stagedSearchFixture = `{"items":[
  {"id":{"videoId":"vid1"},"snippet":{"title":"Toto - Africa (Official)","channelTitle":"TotoVEVO"}},
  {"id":{"videoId":"vid2"},"snippet":{"title":"Take On Me [HD]","channelTitle":"a-ha"}}
]}`

func TestStagedResolveSongs(t *testing.T) {
	srv := searchServer(t, stagedSearchFixture, http.StatusOK)
	defer srv.Close()

	calls := 0
	s := Staged{
		Keys:    ai.APIKeys{Anthropic: "key"},
		YouTube: youtube.NewClient(srv.URL, "yt-key"),
		complete: func(ctx context.Context, keys ai.APIKeys, prompt string) (string, error) {
			calls++
			switch calls {
			case 1:
				return "  80s synth pop official music video  \n", nil
			case 2:
				if !strings.Contains(prompt, "vid1") || !strings.Contains(prompt, "vid2") {
					t.Errorf("extraction prompt missing candidate metadata: %s", prompt)
				}
				return `{"songs":[
  {"title":"Africa","artist":"Toto","url":"https://www.youtube.com/watch?v=vid1"},
  {"title":"Take On Me","artist":"a-ha","url":"https://www.youtube.com/watch?v=vid2"}
]}`, nil
			default:
				return "", fmt.Errorf("unexpected third call")
			}
		},
	}

	songs, err := s.ResolveSongs(context.Background(), "high vibrations 80s music")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(songs) != 2 {
		t.Fatalf("expected 2 songs, got %d", len(songs))
	}
	if songs[0].URL != "https://www.youtube.com/watch?v=vid1" {
		t.Fatalf("candidate url not preserved: %q", songs[0].URL)
	}
	if calls != 2 {
		t.Fatalf("expected exactly 2 generation calls, got %d", calls)
	}
}

func TestStagedEmptyQueryIsHardFailure(t *testing.T) {
	s := Staged{
		Keys: ai.APIKeys{Anthropic: "key"},
		complete: func(ctx context.Context, keys ai.APIKeys, prompt string) (string, error) {
			return "   \n", nil
		},
	}
	if _, err := s.ResolveSongs(context.Background(), "theme"); err == nil {
		t.Fatal("expected error for empty synthesized query")
	}
}

func TestStagedZeroCandidatesIsHardFailure(t *testing.T) {
	srv := searchServer(t, `{"items":[]}`, http.StatusOK)
	defer srv.Close()

	s := Staged{
		Keys:    ai.APIKeys{Anthropic: "key"},
		YouTube: youtube.NewClient(srv.URL, "yt-key"),
		complete: func(ctx context.Context, keys ai.APIKeys, prompt string) (string, error) {
			return "some query", nil
		},
	}
	if _, err := s.ResolveSongs(context.Background(), "theme"); err == nil {
		t.Fatal("expected error when search returns zero candidates")
	}
}

func TestStagedSearchErrorBecomesZeroCandidates(t *testing.T) {
	srv := searchServer(t, "", http.StatusForbidden)
	defer srv.Close()

	s := Staged{
		Keys:    ai.APIKeys{Anthropic: "key"},
		YouTube: youtube.NewClient(srv.URL, "yt-key"),
		complete: func(ctx context.Context, keys ai.APIKeys, prompt string) (string, error) {
			return "some query", nil
		},
	}
	// The transport error must not propagate as-is; it degrades to the same
	// zero-candidate failure.
	if _, err := s.ResolveSongs(context.Background(), "theme"); err == nil {
		t.Fatal("expected error when search fails")
	}
}

func TestStagedExtractionParseErrorIsHardFailure(t *testing.T) {
	srv := searchServer(t, stagedSearchFixture, http.StatusOK)
	defer srv.Close()

	calls := 0
	s := Staged{
		Keys:    ai.APIKeys{Anthropic: "key"},
		YouTube: youtube.NewClient(srv.URL, "yt-key"),
		complete: func(ctx context.Context, keys ai.APIKeys, prompt string) (string, error) {
			calls++
			if calls == 1 {
				return "query", nil
			}
			return "I could not extract anything useful.", nil
		},
	}
	if _, err := s.ResolveSongs(context.Background(), "theme"); err == nil {
		t.Fatal("expected parse error to fail the resolution")
	}
}
