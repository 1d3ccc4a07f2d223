package ai

import "net/http"

// Song is one resolved queue entry. URL points at a watch page; the video
// identifier is extracted from it downstream and may turn out empty, in which
// case the song is kept but cannot be played.
type Song struct {
	Title  string `json:"title"`
	Artist string `json:"artist"`
	URL    string `json:"url"`
}

type APIKeys struct {
	OpenAI    string
	Anthropic string
	Google    string
}

func (k APIKeys) Empty() bool {
	return k.OpenAI == "" && k.Anthropic == "" && k.Google == ""
}

var apiHTTPClient = &http.Client{}
