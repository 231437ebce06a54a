package ai

import (
	"encoding/json"
	"fmt"
	"strings"
)

// parseAdvice extracts account advice from a provider response. Providers are
// asked for a bare JSON array but frequently wrap it in markdown fences or
// prose, so everything outside the outermost brackets is discarded. Entries
// without an account name are dropped and confidences are clamped to [0, 1].
func parseAdvice(content string) ([]AccountAdvice, error) {
	content = cleanMarkdownWrapper(content)

	start := strings.Index(content, "[")
	end := strings.LastIndex(content, "]")
	if start == -1 || end == -1 || end < start {
		return nil, fmt.Errorf("no JSON array found in response")
	}

	var raw []AccountAdvice
	if err := json.Unmarshal([]byte(content[start:end+1]), &raw); err != nil {
		return nil, fmt.Errorf("failed to parse JSON response: %w", err)
	}

	advice := make([]AccountAdvice, 0, len(raw))
	for _, entry := range raw {
		entry.Account = strings.TrimSpace(entry.Account)
		if entry.Account == "" {
			continue
		}

		if entry.Confidence < 0.0 {
			entry.Confidence = 0.0
		} else if entry.Confidence > 1.0 {
			entry.Confidence = 1.0
		}

		advice = append(advice, entry)
	}

	if len(advice) == 0 {
		return nil, fmt.Errorf("no usable suggestions in response")
	}

	return advice, nil
}

// cleanMarkdownWrapper strips ```json fences some providers insist on.
func cleanMarkdownWrapper(content string) string {
	content = strings.TrimSpace(content)

	if strings.HasPrefix(content, "```") {
		if idx := strings.Index(content, "\n"); idx != -1 {
			content = content[idx+1:]
		}
		content = strings.TrimSuffix(strings.TrimSpace(content), "```")
	}

	return strings.TrimSpace(content)
}
