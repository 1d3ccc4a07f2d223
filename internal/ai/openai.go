package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

var openAIBaseURL = "https://api.openai.com"

func CompleteOpenAI(ctx context.Context, apiKey, prompt string) (string, error) {
	payload := map[string]any{
		"model": "gpt-4o",
		"messages": []map[string]string{
			{"role": "user", "content": prompt},
		},
		"max_tokens": 2048,
	}
	buf, _ := json.Marshal(payload)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, openAIBaseURL+"/v1/chat/completions", bytes.NewReader(buf))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+apiKey)

	resp, err := apiHTTPClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("openai api error: %d - %s", resp.StatusCode, string(body))
	}

	var data struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(body, &data); err != nil {
		return "", err
	}
	if len(data.Choices) == 0 {
		return "", nil
	}
	return data.Choices[0].Message.Content, nil
}

// GenerateSongsDirect asks for the whole song list in one shot: the model
// picks the songs and uses its web search tool to find a real watch URL for
// each. Only OpenAI exposes the search tool, so this call is not routed
// through the provider fallback.
func GenerateSongsDirect(ctx context.Context, apiKey, theme string, count int) ([]Song, error) {
	prompt := fmt.Sprintf(`Output ONLY valid JSON, no other text or explanations. Suggest EXACTLY %d songs (title and artist) that match the theme perfectly. For each song, use the web search tool to find the official YouTube music video URL (search query: "official music video [title] by [artist] site:youtube.com"). Use REAL URLs from results, no placeholders. JSON format: { "songs": [{ "title": "Song Title", "artist": "Artist Name", "url": "https://www.youtube.com/watch?v=VIDEO_ID" }] }

Theme: %s`, count, theme)

	payload := map[string]any{
		"model": "gpt-4o",
		"input": prompt,
		"tools": []map[string]string{{"type": "web_search_preview"}},
	}
	buf, _ := json.Marshal(payload)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, openAIBaseURL+"/v1/responses", bytes.NewReader(buf))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+apiKey)

	resp, err := apiHTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("openai api error: %d - %s", resp.StatusCode, string(body))
	}

	text, err := responsesOutputText(body)
	if err != nil {
		return nil, err
	}
	return ExtractSongs(text)
}

func responsesOutputText(body []byte) (string, error) {
	var data struct {
		Output []struct {
			Type    string `json:"type"`
			Content []struct {
				Type string `json:"type"`
				Text string `json:"text"`
			} `json:"content"`
		} `json:"output"`
	}
	if err := json.Unmarshal(body, &data); err != nil {
		return "", err
	}
	var parts []string
	for _, item := range data.Output {
		if item.Type != "message" {
			continue
		}
		for _, c := range item.Content {
			if c.Type == "output_text" {
				parts = append(parts, c.Text)
			}
		}
	}
	return strings.Join(parts, ""), nil
}
