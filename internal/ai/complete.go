package ai

import (
	"context"
	"fmt"
)

// Complete runs a plain text generation against the first configured provider
// that answers. Providers are tried in a fixed order; a provider error falls
// through to the next one rather than failing the call.
func Complete(ctx context.Context, keys APIKeys, prompt string) (string, error) {
	providers := []struct {
		key string
		fn  func(context.Context, string, string) (string, error)
	}{
		{key: keys.OpenAI, fn: CompleteOpenAI},
		{key: keys.Anthropic, fn: CompleteClaude},
		{key: keys.Google, fn: CompleteGemini},
	}

	var lastErr error
	for _, p := range providers {
		if p.key == "" {
			continue
		}
		text, err := p.fn(ctx, p.key, prompt)
		if err != nil {
			lastErr = err
			continue
		}
		return text, nil
	}
	if lastErr != nil {
		return "", lastErr
	}
	return "", fmt.Errorf("no api keys configured")
}
