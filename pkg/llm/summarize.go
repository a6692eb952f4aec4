package llm

import (
	"context"
	"fmt"
	"strings"
)

const (
	summarizeInputCap    = 4000
	summarizeFallbackCap = 200
)

// Summarize condenses content to at most maxWords words using the provider.
// Oversized input is truncated before prompting. If generation fails the
// content itself is returned, clipped, so callers always get usable text.
func Summarize(ctx context.Context, provider LLMProvider, content string, maxWords int) string {
	if maxWords <= 0 {
		maxWords = 150
	}
	if runes := []rune(content); len(runes) > summarizeInputCap {
		content = string(runes[:summarizeInputCap]) + "..."
	}

	prompt := fmt.Sprintf("Summarize the following text in under %d words:\n\n%s", maxWords, content)
	summary, err := provider.Generate(ctx, prompt)
	if err != nil {
		if runes := []rune(content); len(runes) > summarizeFallbackCap {
			return string(runes[:summarizeFallbackCap]) + "..."
		}
		return content
	}
	return strings.TrimSpace(summary)
}
