package tokenizer

import "github.com/inklight-ai/condense/internal/domain"

const charsPerToken = 4

// HeuristicCounter approximates token counts at ~4 characters per token.
// Useful in tests and in environments where the BPE tables are unavailable.
type HeuristicCounter struct{}

// Ensure HeuristicCounter implements domain.TokenCounter.
var _ domain.TokenCounter = (*HeuristicCounter)(nil)

// NewHeuristicCounter creates a new heuristic counter.
func NewHeuristicCounter() *HeuristicCounter {
	return &HeuristicCounter{}
}

// CountTokens returns the estimated token count for text.
func (c *HeuristicCounter) CountTokens(text string) int {
	if text == "" {
		return 0
	}
	return (len(text) + charsPerToken - 1) / charsPerToken
}
