package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("YOUTUBE_API_URL", "")
	t.Setenv("OPENAI_API_KEY", "")

	cfg := Load()
	if cfg.YouTubeAPIURL != "https://www.googleapis.com" {
		t.Fatalf("unexpected youtube url: %q", cfg.YouTubeAPIURL)
	}
	if cfg.DefaultStrategy != StrategyDirect {
		t.Fatalf("unexpected default strategy: %q", cfg.DefaultStrategy)
	}
	if cfg.DefaultColumns != 4 || cfg.QueueFloor != 12 {
		t.Fatalf("unexpected grid defaults: columns=%d floor=%d", cfg.DefaultColumns, cfg.QueueFloor)
	}
}

func TestLoadFileConfigAndEnvPrecedence(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	dir := filepath.Join(home, ".vibe-dj")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	file := `{"youtubeApiUrl":"https://file.example.com","defaultStrategy":"staged","defaultColumns":6,"queueFloor":20}`
	if err := os.WriteFile(filepath.Join(dir, "config.json"), []byte(file), 0o600); err != nil {
		t.Fatal(err)
	}

	t.Setenv("YOUTUBE_API_URL", "")
	cfg := Load()
	if cfg.YouTubeAPIURL != "https://file.example.com" {
		t.Fatalf("expected file value, got %q", cfg.YouTubeAPIURL)
	}
	if cfg.DefaultStrategy != StrategyStaged || cfg.DefaultColumns != 6 || cfg.QueueFloor != 20 {
		t.Fatalf("file config not applied: %+v", cfg)
	}

	t.Setenv("YOUTUBE_API_URL", "https://env.example.com")
	cfg = Load()
	if cfg.YouTubeAPIURL != "https://env.example.com" {
		t.Fatalf("expected env to win over file, got %q", cfg.YouTubeAPIURL)
	}
}
