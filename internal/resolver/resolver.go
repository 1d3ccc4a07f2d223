package resolver

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"vibe-dj/internal/ai"
	"vibe-dj/internal/youtube"
)

const (
	// Songs requested per direct generation call.
	directSongCount = 12
	// Videos requested from the search stage of the staged strategy.
	stagedVideoCount = 16
)

// SongResolver turns a theme into a song list. The two strategies are
// interchangeable at this boundary: same input, same output, same error
// surface.
type SongResolver interface {
	ResolveSongs(ctx context.Context, theme string) ([]ai.Song, error)
}

// Direct resolves a theme with a single generation call: the model proposes
// the songs and locates real watch URLs through its search tool.
type Direct struct {
	Keys ai.APIKeys

	generate func(ctx context.Context, apiKey, theme string, count int) ([]ai.Song, error)
}

func (d Direct) ResolveSongs(ctx context.Context, theme string) ([]ai.Song, error) {
	if d.Keys.OpenAI == "" {
		return nil, fmt.Errorf("direct strategy requires an OpenAI key")
	}
	generate := d.generate
	if generate == nil {
		generate = ai.GenerateSongsDirect
	}
	return generate(ctx, d.Keys.OpenAI, theme, directSongCount)
}

// Staged resolves a theme in three dependent steps: synthesize one search
// query, search for candidate videos, then extract clean title/artist pairs
// aligned to the candidates' URLs.
type Staged struct {
	Keys    ai.APIKeys
	YouTube *youtube.Client
	Log     *slog.Logger

	complete func(ctx context.Context, keys ai.APIKeys, prompt string) (string, error)
}

func (s Staged) ResolveSongs(ctx context.Context, theme string) ([]ai.Song, error) {
	query, err := s.synthesizeQuery(ctx, theme)
	if err != nil {
		return nil, err
	}

	candidates, err := s.YouTube.Search(ctx, query)
	if err != nil {
		// Search failures degrade to zero candidates; the empty result is
		// what fails the request, so one error path covers both.
		s.logger().Debug("youtube search failed", "error", err)
		candidates = nil
	}
	if len(candidates) == 0 {
		return nil, fmt.Errorf("no videos found for query %q", query)
	}

	return s.extractSongs(ctx, candidates)
}

func (s Staged) synthesizeQuery(ctx context.Context, theme string) (string, error) {
	prompt := fmt.Sprintf(`You are a helpful assistant that generates a single optimized YouTube search query for music videos based on a theme. Output only the query string, nothing else.

Generate a YouTube search query to find %d relevant music videos for the theme: "%s". Make it specific.`, stagedVideoCount, theme)

	text, err := s.completeFn()(ctx, s.Keys, prompt)
	if err != nil {
		return "", err
	}
	query := strings.TrimSpace(text)
	if query == "" {
		return "", fmt.Errorf("could not synthesize a search query")
	}
	return query, nil
}

func (s Staged) extractSongs(ctx context.Context, candidates []youtube.Candidate) ([]ai.Song, error) {
	metadata, err := json.Marshal(candidates)
	if err != nil {
		return nil, err
	}
	prompt := fmt.Sprintf(`You are a helpful assistant that extracts clean song title and artist from YouTube video metadata. Output ONLY valid JSON: { "songs": [{ "title": "Song Title", "artist": "Artist Name", "url": "https://..." }] }. Preserve the url of each input item exactly.

Extract title and artist for each of these music videos: %s`, metadata)

	text, err := s.completeFn()(ctx, s.Keys, prompt)
	if err != nil {
		return nil, err
	}
	return ai.ExtractSongs(text)
}

func (s Staged) completeFn() func(context.Context, ai.APIKeys, string) (string, error) {
	if s.complete != nil {
		return s.complete
	}
	return ai.Complete
}

func (s Staged) logger() *slog.Logger {
	if s.Log != nil {
		return s.Log
	}
	return slog.Default()
}
