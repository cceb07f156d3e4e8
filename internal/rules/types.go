// Package rules provides the override rules engine that pins issues to a
// category ahead of keyword scoring.
package rules

import "github.com/triagehq/triage-bot/internal/core/config"

// IssueInput represents the issue data used for rule matching.
type IssueInput struct {
	Title  string
	Body   string
	Labels []string
	Author string
}

// MatchResult contains the result of rule matching.
type MatchResult struct {
	Matched  bool
	Rule     *config.CategoryRule
	Category string
	Reason   string
}
