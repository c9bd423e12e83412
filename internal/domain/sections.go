package domain

import (
	"regexp"
	"strings"
)

const sectionMaxRunes = 2000 // Per-section cap before budget truncation

// Canonical section names in the order they should appear in extracted output.
//
//nolint:gochecknoglobals // Static priority order
var sectionPriority = []string{
	"abstract",
	"introduction",
	"methodology",
	"results",
	"discussion",
	"conclusion",
}

// sectionAliases maps heading keywords to canonical section names.
//
//nolint:gochecknoglobals // Static lookup table
var sectionAliases = map[string]string{
	"abstract":          "abstract",
	"summary":           "abstract",
	"introduction":      "introduction",
	"intro":             "introduction",
	"background":        "introduction",
	"methodology":       "methodology",
	"methods":           "methodology",
	"method":            "methodology",
	"approach":          "methodology",
	"results":           "results",
	"experiments":       "results",
	"evaluation":        "results",
	"findings":          "results",
	"discussion":        "discussion",
	"analysis":          "discussion",
	"conclusion":        "conclusion",
	"conclusions":       "conclusion",
	"references":        "references",
	"bibliography":      "references",
	"acknowledgments":   "references",
	"related work":      "related_work",
	"literature review": "related_work",
}

// headingLine matches a standalone section heading, optionally numbered
// ("3. Results", "IV Results" is out of scope). Headings are short lines.
//
//nolint:gochecknoglobals // Compiled once, read-only
var headingLine = regexp.MustCompile(`^(?:\d+(?:\.\d+)*\.?\s+)?([A-Za-z][A-Za-z\s&-]{1,50})\s*:?\s*$`)

// ExtractSections pattern-matches paper headings and returns the text of each
// recognized section, keyed by canonical name. Sections are capped at
// sectionMaxRunes so a single runaway match cannot dominate the output.
func ExtractSections(text string) map[string]string {
	lines := strings.Split(text, "\n")

	sections := make(map[string]string)
	current := ""
	var buf strings.Builder

	flush := func() {
		if current == "" {
			return
		}
		body := strings.TrimSpace(buf.String())
		if body == "" {
			return
		}
		// Keep the first match for each section.
		if _, seen := sections[current]; !seen {
			sections[current] = capRunes(body, sectionMaxRunes)
		}
	}

	for _, line := range lines {
		if name, ok := matchHeading(line); ok {
			flush()
			current = name
			buf.Reset()
			continue
		}
		if current != "" {
			buf.WriteString(line)
			buf.WriteString("\n")
		}
	}
	flush()

	// References are detected only to terminate the previous section.
	delete(sections, "references")
	delete(sections, "related_work")

	return sections
}

// JoinSections concatenates extracted sections in priority order with
// markdown-style headers, matching the shape sent to the summarizer.
func JoinSections(sections map[string]string) string {
	parts := make([]string, 0, len(sections))
	for _, name := range sectionPriority {
		body, ok := sections[name]
		if !ok {
			continue
		}
		title := strings.ToUpper(name[:1]) + name[1:]
		parts = append(parts, "**"+title+":**\n"+body)
	}
	return strings.Join(parts, "\n\n")
}

// matchHeading reports whether line is a recognized section heading and
// returns the canonical section name.
func matchHeading(line string) (string, bool) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" || len(trimmed) > 60 {
		return "", false
	}

	m := headingLine.FindStringSubmatch(trimmed)
	if m == nil {
		return "", false
	}

	title := strings.ToLower(strings.TrimSpace(m[1]))
	if name, ok := sectionAliases[title]; ok {
		return name, true
	}

	// Headings like "Experimental Results" or "Concluding Remarks".
	for _, kw := range containedKeywords {
		if strings.Contains(title, kw.keyword) {
			return kw.section, true
		}
	}

	return "", false
}

// containedKeywords is checked in order when a heading is not an exact alias.
//
//nolint:gochecknoglobals // Static lookup table
var containedKeywords = []struct {
	keyword string
	section string
}{
	{"abstract", "abstract"},
	{"introduction", "introduction"},
	{"methodolog", "methodology"},
	{"method", "methodology"},
	{"experiment", "results"},
	{"evaluation", "results"},
	{"results", "results"},
	{"discussion", "discussion"},
	{"conclu", "conclusion"},
	{"reference", "references"},
	{"bibliograph", "references"},
	{"related work", "related_work"},
}

func capRunes(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
