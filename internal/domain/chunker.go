package domain

import "strings"

// chunkSeparators are tried in order when a piece of text exceeds the budget,
// from the coarsest boundary (paragraph) to the finest (word).
//
//nolint:gochecknoglobals // Static split order
var chunkSeparators = []string{"\n\n", "\n", ".", "!", "?", ";", " "}

// Chunker splits text into sequential non-overlapping windows whose token
// counts fit a budget. Separators are preserved on the preceding piece, so
// concatenating the chunks reproduces the input exactly.
type Chunker struct {
	counter   TokenCounter
	maxTokens int
}

// NewChunker creates a chunker for the given budget.
func NewChunker(counter TokenCounter, maxTokens int) *Chunker {
	return &Chunker{
		counter:   counter,
		maxTokens: maxTokens,
	}
}

// Split returns the chunks for text. Every chunk's token count is at most the
// budget; the only exception would be a single rune the tokenizer counts
// higher, which no practical encoding does.
func (c *Chunker) Split(text string) []string {
	if text == "" {
		return nil
	}

	units := c.breakUp(text, 0)
	return c.merge(units)
}

// breakUp recursively splits text at the separator hierarchy until every
// piece fits the budget. sepIdx indexes into chunkSeparators.
func (c *Chunker) breakUp(text string, sepIdx int) []string {
	if c.counter.CountTokens(text) <= c.maxTokens {
		return []string{text}
	}

	if sepIdx >= len(chunkSeparators) {
		return c.breakRunes(text)
	}

	parts := strings.SplitAfter(text, chunkSeparators[sepIdx])
	if len(parts) == 1 {
		// Separator absent, try the next finer one.
		return c.breakUp(text, sepIdx+1)
	}

	units := make([]string, 0, len(parts))
	for _, part := range parts {
		if part == "" {
			continue
		}
		if c.counter.CountTokens(part) <= c.maxTokens {
			units = append(units, part)
			continue
		}
		units = append(units, c.breakUp(part, sepIdx+1)...)
	}

	return units
}

// breakRunes is the last resort for a separator-free run that still exceeds
// the budget: cut the longest fitting rune prefix repeatedly.
func (c *Chunker) breakRunes(text string) []string {
	runes := []rune(text)
	var units []string

	for len(runes) > 0 {
		lo, hi := 1, len(runes)
		for lo < hi {
			mid := (lo + hi + 1) / 2
			if c.counter.CountTokens(string(runes[:mid])) <= c.maxTokens {
				lo = mid
			} else {
				hi = mid - 1
			}
		}
		units = append(units, string(runes[:lo]))
		runes = runes[lo:]
	}

	return units
}

// merge greedily packs adjacent units into chunks while the combined token
// count stays within the budget.
func (c *Chunker) merge(units []string) []string {
	var chunks []string
	var buf strings.Builder

	for _, unit := range units {
		if buf.Len() > 0 && c.counter.CountTokens(buf.String()+unit) > c.maxTokens {
			chunks = append(chunks, buf.String())
			buf.Reset()
		}
		buf.WriteString(unit)
	}

	if buf.Len() > 0 {
		chunks = append(chunks, buf.String())
	}

	return chunks
}
