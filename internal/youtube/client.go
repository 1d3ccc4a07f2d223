package youtube

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/buger/jsonparser"
)

const (
	searchMaxResults    = 16
	musicCategoryID     = "10"
	mediumDurationParam = "medium"
)

// Candidate is one search hit before title/artist extraction: the raw upload
// title, the channel name, and the derived watch URL.
type Candidate struct {
	RawTitle string `json:"rawTitle"`
	Channel  string `json:"channel"`
	URL      string `json:"url"`
}

type Client struct {
	BaseURL string
	APIKey  string
	http    *http.Client
}

func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		APIKey:  apiKey,
		http: &http.Client{
			Timeout: 20 * time.Second,
		},
	}
}

// Search runs a Data API video search restricted to the music category and
// medium durations. Transport failures and non-2xx answers come back as an
// error; the caller decides whether zero candidates is fatal.
func (c *Client) Search(ctx context.Context, query string) ([]Candidate, error) {
	params := url.Values{}
	params.Set("part", "snippet")
	params.Set("maxResults", fmt.Sprintf("%d", searchMaxResults))
	params.Set("q", query)
	params.Set("type", "video")
	params.Set("videoCategoryId", musicCategoryID)
	params.Set("videoDuration", mediumDurationParam)
	params.Set("key", c.APIKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/youtube/v3/search?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("youtube api error: %d", resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	return parseSearchItems(body)
}

func parseSearchItems(body []byte) ([]Candidate, error) {
	items, _, _, err := jsonparser.Get(body, "items")
	if err != nil {
		// A response without items is a legitimate zero-match result.
		return []Candidate{}, nil
	}

	var candidates []Candidate
	_, err = jsonparser.ArrayEach(items, func(value []byte, dataType jsonparser.ValueType, offset int, itemErr error) {
		videoID, err := jsonparser.GetString(value, "id", "videoId")
		if err != nil || videoID == "" {
			return
		}
		title, _ := jsonparser.GetString(value, "snippet", "title")
		channel, _ := jsonparser.GetString(value, "snippet", "channelTitle")
		candidates = append(candidates, Candidate{
			RawTitle: title,
			Channel:  channel,
			URL:      WatchURL(videoID),
		})
	})
	if err != nil {
		return nil, fmt.Errorf("parse youtube search response: %w", err)
	}
	if candidates == nil {
		candidates = []Candidate{}
	}
	return candidates, nil
}
