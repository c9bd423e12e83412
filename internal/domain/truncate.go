package domain

import "strings"

const (
	// TruncationMarker separates the kept prefix and suffix.
	TruncationMarker = "\n\n[... content truncated ...]\n\n"

	headShare = 0.7 // Share of the kept characters taken from the beginning
	tailShare = 0.3 // Share of the kept characters taken from the end

	truncateShrink   = 0.85 // Ratio decay when a candidate still exceeds the budget
	truncateAttempts = 8
)

// TruncateToBudget reduces text so its token count does not exceed maxTokens,
// keeping the beginning and end of the document. Text already within budget is
// returned unchanged, which makes the operation idempotent.
func TruncateToBudget(counter TokenCounter, text string, maxTokens int) string {
	current := counter.CountTokens(text)
	if current <= maxTokens {
		return text
	}

	runes := []rune(text)
	ratio := float64(maxTokens) / float64(current)

	for attempt := 0; attempt < truncateAttempts; attempt++ {
		head := int(float64(len(runes)) * ratio * headShare)
		tail := int(float64(len(runes)) * ratio * tailShare)

		if head+tail >= len(runes) || head == 0 {
			break
		}

		candidate := string(runes[:head]) + TruncationMarker + string(runes[len(runes)-tail:])
		if counter.CountTokens(candidate) <= maxTokens {
			return candidate
		}

		ratio *= truncateShrink
	}

	// Tiny budgets cannot fit the marker; fall back to a plain prefix.
	return prefixToBudget(counter, runes, maxTokens)
}

// prefixToBudget finds the longest rune prefix whose token count fits the
// budget via binary search over the prefix length.
func prefixToBudget(counter TokenCounter, runes []rune, maxTokens int) string {
	lo, hi := 0, len(runes)
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if counter.CountTokens(string(runes[:mid])) <= maxTokens {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	return strings.TrimSpace(string(runes[:lo]))
}
