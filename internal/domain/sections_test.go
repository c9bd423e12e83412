package domain_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/inklight-ai/condense/internal/domain"
)

const paperText = `A Study of Things

Abstract
We study things and report what we found.

1. Introduction
Things are interesting and poorly understood.

2. Methods
We measured things with great care.

3. Results
Things turned out to be measurable.

4. Conclusion
Things remain interesting.

References
[1] A. Author. Prior work on things. 2019.
`

func TestExtractSections_RecognizesHeadings(t *testing.T) {
	sections := domain.ExtractSections(paperText)

	require.Contains(t, sections, "abstract")
	require.Contains(t, sections, "introduction")
	require.Contains(t, sections, "methodology")
	require.Contains(t, sections, "results")
	require.Contains(t, sections, "conclusion")

	require.Equal(t, "We study things and report what we found.", sections["abstract"])
	require.Equal(t, "We measured things with great care.", sections["methodology"])
}

func TestExtractSections_ReferencesTerminatePreviousSection(t *testing.T) {
	sections := domain.ExtractSections(paperText)

	require.NotContains(t, sections, "references")
	require.NotContains(t, sections["conclusion"], "Prior work")
}

func TestExtractSections_NoHeadings(t *testing.T) {
	sections := domain.ExtractSections("just a plain paragraph of text without any structure at all")

	require.Empty(t, sections)
}

func TestExtractSections_CompoundHeadings(t *testing.T) {
	text := "Experimental Results\nNumbers went up.\n\nConcluding Remarks\nWe are done.\n"

	sections := domain.ExtractSections(text)

	require.Equal(t, "Numbers went up.", sections["results"])
	require.Equal(t, "We are done.", sections["conclusion"])
}

func TestExtractSections_CapsLongSections(t *testing.T) {
	text := "Abstract\n" + strings.Repeat("words and more words. ", 500) + "\nConclusion\nshort.\n"

	sections := domain.ExtractSections(text)

	require.LessOrEqual(t, len([]rune(sections["abstract"])), 2000)
}

func TestJoinSections_PriorityOrder(t *testing.T) {
	sections := map[string]string{
		"conclusion":   "the end",
		"abstract":     "the start",
		"methodology":  "the middle",
		"unrecognized": "ignored",
	}

	joined := domain.JoinSections(sections)

	abstractIdx := strings.Index(joined, "**Abstract:**")
	methodsIdx := strings.Index(joined, "**Methodology:**")
	conclusionIdx := strings.Index(joined, "**Conclusion:**")

	require.GreaterOrEqual(t, abstractIdx, 0)
	require.Greater(t, methodsIdx, abstractIdx)
	require.Greater(t, conclusionIdx, methodsIdx)
	require.NotContains(t, joined, "ignored")
}

func TestJoinSections_Empty(t *testing.T) {
	require.Empty(t, domain.JoinSections(nil))
	require.Empty(t, domain.JoinSections(map[string]string{}))
}
