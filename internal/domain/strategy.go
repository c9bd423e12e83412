package domain

import "fmt"

// Strategy identifies a text-reduction algorithm.
type Strategy string

const (
	// StrategyAuto selects a strategy from input size and budget.
	StrategyAuto Strategy = "auto"

	// StrategySmart produces an abstractive summary, via the LLM if needed.
	StrategySmart Strategy = "smart"

	// StrategySections keeps only recognized paper sections.
	StrategySections Strategy = "sections"

	// StrategyChunk splits the text into budget-sized windows.
	StrategyChunk Strategy = "chunk"

	// StrategyTruncate keeps a prefix and suffix of the text.
	StrategyTruncate Strategy = "truncate"

	// StrategyNone is reported when the input already fits the budget.
	StrategyNone Strategy = "none"
)

// Overage multipliers for automatic strategy selection. Inputs up to
// moderateOverage times the budget still carry enough structure for section
// extraction; beyond largeOverage the model call itself becomes too expensive
// and truncation wins.
const (
	moderateOverage = 2
	largeOverage    = 5
)

// ParseStrategy validates a strategy name from external input.
func ParseStrategy(name string) (Strategy, error) {
	switch Strategy(name) {
	case StrategyAuto, StrategySmart, StrategySections, StrategyChunk, StrategyTruncate:
		return Strategy(name), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownStrategy, name)
	}
}

// SelectStrategy maps input size and budget to a concrete strategy.
// Pure function so the heuristic stays independently testable.
func SelectStrategy(inputTokens, maxTokens int) Strategy {
	switch {
	case inputTokens <= maxTokens:
		return StrategyNone
	case inputTokens <= moderateOverage*maxTokens:
		return StrategySections
	case inputTokens <= largeOverage*maxTokens:
		return StrategySmart
	default:
		return StrategyTruncate
	}
}
