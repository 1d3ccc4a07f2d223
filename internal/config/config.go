package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

type Strategy string

const (
	StrategyDirect Strategy = "direct"
	StrategyStaged Strategy = "staged"
)

type Config struct {
	OpenAIAPIKey    string
	AnthropicAPIKey string
	GoogleAPIKey    string
	YouTubeAPIKey   string
	YouTubeAPIURL   string
	DefaultStrategy Strategy
	DefaultColumns  int
	QueueFloor      int
}

type fileConfig struct {
	YouTubeAPIURL   string   `json:"youtubeApiUrl"`
	DefaultStrategy Strategy `json:"defaultStrategy"`
	DefaultColumns  int      `json:"defaultColumns"`
	QueueFloor      int      `json:"queueFloor"`
}

func init() {
	_ = godotenv.Load()
}

func Load() Config {
	fc := loadFileConfig()

	youtubeURL := firstNonEmpty(os.Getenv("YOUTUBE_API_URL"), fc.YouTubeAPIURL, "https://www.googleapis.com")

	strategy := fc.DefaultStrategy
	if strategy == "" {
		strategy = StrategyDirect
	}

	columns := fc.DefaultColumns
	if columns == 0 {
		columns = 4
	}

	floor := fc.QueueFloor
	if floor == 0 {
		floor = 12
	}

	return Config{
		OpenAIAPIKey:    os.Getenv("OPENAI_API_KEY"),
		AnthropicAPIKey: os.Getenv("ANTHROPIC_API_KEY"),
		GoogleAPIKey:    os.Getenv("GOOGLE_API_KEY"),
		YouTubeAPIKey:   os.Getenv("YOUTUBE_API_KEY"),
		YouTubeAPIURL:   youtubeURL,
		DefaultStrategy: strategy,
		DefaultColumns:  columns,
		QueueFloor:      floor,
	}
}

// Dir is where vibe-dj keeps its file config and history database.
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".vibe-dj"
	}
	return filepath.Join(home, ".vibe-dj")
}

func loadFileConfig() fileConfig {
	b, err := os.ReadFile(filepath.Join(Dir(), "config.json"))
	if err != nil {
		return fileConfig{}
	}
	var fc fileConfig
	if err := json.Unmarshal(b, &fc); err != nil {
		return fileConfig{}
	}
	return fc
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
