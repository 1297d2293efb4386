// Package content splits free-text chart analysis into a narrative analysis
// block and an actionable insights block. The splitting heuristic must stay
// stable: stored projects carry raw analysis text and rely on this exact
// behavior when re-rendered.
package content

import (
	"regexp"
	"strings"
)

// Blocks holds the two halves of a parsed analysis text.
type Blocks struct {
	// Analysis is the narrative explanation of what the chart shows.
	Analysis string
	// Insights is the actionable recommendations portion. Empty when the
	// source text carries no recognizable recommendation section.
	Insights string
}

// insightStarters is the fixed vocabulary of phrases that mark the beginning
// of a recommendations section in single-paragraph text. The list is tied to
// English-language generator output and is deliberately not extended here.
var insightStarters = []string{
	"To improve",
	"To increase",
	"Focus on",
	"Consider",
	"Implement",
	"Investigate",
	"Analyze the",
	"Target",
	"Address",
	"Recommend",
}

// labelPrefix matches a leading "Analysis:" / "Insights -" style label.
var labelPrefix = regexp.MustCompile(`(?i)^\s*(analysis|insights?)\s*[:\-]\s*`)

// Split divides raw analysis text into analysis and insights blocks.
//
// Resolution order: a double line-break splits paragraphs (first paragraph is
// analysis, the rest are insights); failing that, single line-breaks split the
// same way; failing that, the earliest case-insensitive occurrence of an
// insight-starter phrase divides the text; otherwise everything is analysis.
// Both blocks have any leading label prefix stripped and whitespace trimmed.
func Split(raw string) Blocks {
	text := strings.TrimSpace(raw)
	if text == "" {
		return Blocks{}
	}

	var analysis, insights string
	switch {
	case strings.Contains(text, "\n\n"):
		parts := strings.Split(text, "\n\n")
		analysis = parts[0]
		insights = strings.Join(parts[1:], "\n\n")
	case strings.Contains(text, "\n"):
		parts := strings.Split(text, "\n")
		analysis = parts[0]
		insights = strings.Join(parts[1:], "\n")
	default:
		if idx := firstStarterIndex(text); idx >= 0 {
			analysis = text[:idx]
			insights = text[idx:]
		} else {
			analysis = text
		}
	}

	return Blocks{
		Analysis: StripLabel(analysis),
		Insights: StripLabel(insights),
	}
}

// StripLabel removes a single leading "analysis" / "insight(s)" label
// (followed by ':' or '-') from s and trims surrounding whitespace.
// Stripping an already-stripped string is a no-op.
func StripLabel(s string) string {
	s = strings.TrimSpace(s)
	if loc := labelPrefix.FindStringIndex(s); loc != nil {
		s = strings.TrimSpace(s[loc[1]:])
	}
	return s
}

// firstStarterIndex returns the byte offset of the earliest insight-starter
// phrase in text (case-insensitive), or -1 if none occurs. Matching compares
// windows of the original text so offsets stay valid even when a lowercase
// mapping elsewhere in the string would change byte lengths.
func firstStarterIndex(text string) int {
	for i := range text {
		for _, phrase := range insightStarters {
			if len(text)-i >= len(phrase) && strings.EqualFold(text[i:i+len(phrase)], phrase) {
				return i
			}
		}
	}
	return -1
}
