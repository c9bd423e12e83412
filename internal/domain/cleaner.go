package domain

import (
	"regexp"
	"strings"
)

const (
	headerFooterMaxLen  = 100 // Lines longer than this are never headers/footers
	headerFooterKeep    = 3   // Occurrences of a repeated line to keep
	referencesMaxShare  = 0.2 // References section share of text that triggers truncation
	referencesKeepChars = 1000
)

//nolint:gochecknoglobals // Compiled once, read-only
var (
	controlChars   = regexp.MustCompile(`[\x00-\x08\x0b\x0c\x0e-\x1f\x7f]`)
	spacesAndTabs  = regexp.MustCompile(`[ \t]+`)
	leadingSpaces  = regexp.MustCompile(`\n[ \t]+`)
	trailingSpaces = regexp.MustCompile(`[ \t]+\n`)
	manyNewlines   = regexp.MustCompile(`\n{3,}`)

	referencesHeading = regexp.MustCompile(`(?i)\n\s*(REFERENCES?|Bibliography|References and Notes)\s*\n`)
)

// CleanText removes PDF extraction noise: control characters, excess
// whitespace, repeated page headers/footers, and an oversized references
// section. Line structure is preserved so section detection still works.
func CleanText(text string) string {
	text = strings.ReplaceAll(text, "\f", " ")
	text = controlChars.ReplaceAllString(text, "")

	text = spacesAndTabs.ReplaceAllString(text, " ")
	text = leadingSpaces.ReplaceAllString(text, "\n")
	text = trailingSpaces.ReplaceAllString(text, "\n")
	text = manyNewlines.ReplaceAllString(text, "\n\n")

	text = dropRepeatedLines(text)
	text = truncateReferences(text)

	return strings.TrimSpace(text)
}

// dropRepeatedLines suppresses lines repeated consecutively, a heuristic for
// page headers and footers that survive extraction.
func dropRepeatedLines(text string) string {
	lines := strings.Split(text, "\n")
	cleaned := make([]string, 0, len(lines))

	prev := ""
	repetitions := 0

	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == prev && len(line) < headerFooterMaxLen {
			repetitions++
			if repetitions < headerFooterKeep {
				cleaned = append(cleaned, line)
			}
		} else {
			repetitions = 0
			cleaned = append(cleaned, line)
		}
		prev = line
	}

	return strings.Join(cleaned, "\n")
}

// truncateReferences shortens the references section when it dominates the
// text. Bibliographies add little to a summary but can be thousands of tokens.
func truncateReferences(text string) string {
	loc := referencesHeading.FindStringIndex(text)
	if loc == nil {
		return text
	}

	before := text[:loc[0]]
	refs := text[loc[0]:]

	if float64(len(refs)) <= float64(len(text))*referencesMaxShare {
		return text
	}

	runes := []rune(refs)
	keep := referencesKeepChars
	if third := len(runes) / 3; third < keep {
		keep = third
	}

	return before + string(runes[:keep]) + "\n\n[References section truncated for brevity]"
}
