package ai

import (
	"encoding/json"
	"strings"
)

// ParseError means no JSON object could be recovered from a model response.
// Callers treat it as a whole-request failure; there is no partial recovery
// of individual songs from a corrupt document.
type ParseError struct {
	Reason string
}

func (e *ParseError) Error() string {
	return "parse model response: " + e.Reason
}

type songsDocument struct {
	Songs []Song `json:"songs"`
}

// ExtractSongs recovers the songs document from raw model output. Models wrap
// JSON in code fences and prose, so the text is trimmed to the span between
// the first "{" and the last "}" before decoding. A document without a
// "songs" field is a legitimate zero-match result, not an error.
func ExtractSongs(text string) ([]Song, error) {
	cleaned := stripFences(text)
	start := strings.Index(cleaned, "{")
	end := strings.LastIndex(cleaned, "}")
	if start < 0 || end <= start {
		return nil, &ParseError{Reason: "no JSON object in response"}
	}
	var doc songsDocument
	if err := json.Unmarshal([]byte(cleaned[start:end+1]), &doc); err != nil {
		return nil, &ParseError{Reason: err.Error()}
	}
	if doc.Songs == nil {
		return []Song{}, nil
	}
	return doc.Songs, nil
}

func stripFences(text string) string {
	cleaned := strings.ReplaceAll(text, "```json", "")
	cleaned = strings.ReplaceAll(cleaned, "```", "")
	return strings.TrimSpace(cleaned)
}
