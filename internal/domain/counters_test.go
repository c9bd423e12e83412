package domain_test

import "strings"

// wordCounter counts whitespace-separated words as tokens, which keeps
// strategy arithmetic easy to verify by hand.
type wordCounter struct{}

func (wordCounter) CountTokens(text string) int {
	return len(strings.Fields(text))
}

// runeCounter counts one token per rune, useful where tests need exact
// control over budgets.
type runeCounter struct{}

func (runeCounter) CountTokens(text string) int {
	return len([]rune(text))
}
