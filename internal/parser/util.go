package parser

import (
	"regexp"
	"strconv"
	"strings"
)

// parseGroupedInt converts a number string that may carry grouping
// separators ("278,499", "278.499", "278 499") to an int. Returns 0 for
// anything that does not survive separator stripping.
func parseGroupedInt(s string) int {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, ",", "")
	s = strings.ReplaceAll(s, ".", "")
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, " ", "") // non-breaking space
	if s == "" {
		return 0
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}

// parseSignedInt parses an integer with an optional leading sign, including
// the Unicode minus that some PDF extractions produce.
func parseSignedInt(s string) int {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, "−", "-") // minus sign
	s = strings.ReplaceAll(s, "–", "-") // en dash misread as minus
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}

var whitespaceRun = regexp.MustCompile(`\s+`)

// collapseWhitespace folds all line breaks and whitespace runs into single
// spaces. Requalification and flight patterns span the original line layout,
// so every repeating scan runs over collapsed text.
func collapseWhitespace(text string) string {
	return strings.TrimSpace(whitespaceRun.ReplaceAllString(text, " "))
}

// windowBefore returns up to n characters of text preceding offset.
func windowBefore(text string, offset, n int) string {
	start := offset - n
	if start < 0 {
		start = 0
	}
	if offset > len(text) {
		offset = len(text)
	}
	return text[start:offset]
}

// windowAfter returns up to n characters of text following offset.
func windowAfter(text string, offset, n int) string {
	if offset < 0 {
		offset = 0
	}
	if offset > len(text) {
		offset = len(text)
	}
	end := offset + n
	if end > len(text) {
		end = len(text)
	}
	return text[offset:end]
}

// windowAround returns text from offset-back to offset+forward, clamped.
func windowAround(text string, offset, back, forward int) string {
	start := offset - back
	if start < 0 {
		start = 0
	}
	end := offset + forward
	if end > len(text) {
		end = len(text)
	}
	return text[start:end]
}
