package text

import (
	"strings"
)

// CombinedText builds the lowercase text blob used for keyword scoring.
// A missing body is treated as empty; the result never has leading or
// trailing whitespace.
func CombinedText(title, body string) string {
	blob := title
	if b := strings.TrimSpace(body); b != "" {
		blob += " " + b
	}
	return strings.ToLower(strings.TrimSpace(blob))
}

// Excerpt shortens a body for display in reports and comments. It cuts at a
// word boundary when one exists within the limit and appends an ellipsis.
func Excerpt(s string, max int) string {
	s = strings.Join(strings.Fields(s), " ")
	if max <= 0 || len(s) <= max {
		return s
	}

	cut := s[:max]
	if idx := strings.LastIndex(cut, " "); idx > 0 {
		cut = cut[:idx]
	}
	return cut + "…"
}
