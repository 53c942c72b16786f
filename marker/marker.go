// Package marker finds ignore annotations in raw source text.
package marker

import "strings"

// Phrase suppresses conversion when found in a comment on the annotated line
// or on the line directly above it. Older "antd-style-px-to-rem ignore"
// annotations contain it and keep working.
const Phrase = "px-to-rem ignore"

// Has reports if text carries the phrase. Matching is case sensitive.
func Has(text string) bool {
	return strings.Contains(text, Phrase)
}

// StandaloneAbove reports if previous line is an annotation on its own, not
// mixed with a declaration.
func StandaloneAbove(prev string) bool {
	trimmed := strings.TrimSpace(prev)
	return Has(trimmed) && !strings.Contains(trimmed, ":")
}

// Lines keeps raw source lines for annotation lookups.
type Lines []string

func Split(src string) Lines {
	return strings.Split(src, "\n")
}

// Suppressed reports if 1-based line or the one above carries the phrase.
func (ls Lines) Suppressed(line int) bool {
	if line >= 1 && line <= len(ls) && Has(ls[line-1]) {
		return true
	}
	if line >= 2 && line-1 <= len(ls) && Has(ls[line-2]) {
		return true
	}
	return false
}
