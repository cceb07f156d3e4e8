// Package text provides title normalization and text helpers shared by the
// classification and duplicate-detection engine.
package text

import (
	"regexp"
	"strings"
)

var (
	// Conventional-commit style prefixes, optionally with a scope: "feat(api): ".
	commitPrefixRe = regexp.MustCompile(`(?i)^(feat|fix|docs|style|refactor|test|chore)(\([^)]*\))?\s*:\s*`)

	semverRe   = regexp.MustCompile(`\b\d+\.\d+\.\d+\b`)
	isoDateRe  = regexp.MustCompile(`\b\d{4}-\d{2}-\d{2}\b`)
	issueRefRe = regexp.MustCompile(`#\d+`)

	// High-frequency action verbs that carry no signal for title comparison.
	actionVerbRe = regexp.MustCompile(`(?i)\b(implement|add|create|fix|resolve|update)\b`)
)

// Normalize canonicalizes an issue title for comparison. It strips
// conventional-commit prefixes, version numbers, ISO dates, issue references
// and common action verbs, collapses whitespace and lowercases the result.
//
// Normalize is idempotent: Normalize(Normalize(s)) == Normalize(s).
// Empty input yields an empty string.
func Normalize(title string) string {
	// Stripping one layer can expose another ("update docs: guide" loses the
	// verb, which uncovers a "docs:" prefix), so run to a fixpoint. Passes
	// only remove text or lowercase it, so this terminates.
	t := title
	for {
		n := normalizeOnce(t)
		if n == t {
			return n
		}
		t = n
	}
}

func normalizeOnce(title string) string {
	t := commitPrefixRe.ReplaceAllString(title, "")
	t = semverRe.ReplaceAllString(t, "")
	t = isoDateRe.ReplaceAllString(t, "")
	t = issueRefRe.ReplaceAllString(t, "")
	t = actionVerbRe.ReplaceAllString(t, "")

	t = strings.Join(strings.Fields(t), " ")

	return strings.ToLower(strings.TrimSpace(t))
}
