package steps

import (
	"log"
	"strings"

	"github.com/triagehq/triage-bot/internal/core/pipeline"
)

// QualityChecker scores how actionable an issue is from its title, body and
// labels. The score starts at 100 and loses points per finding.
type QualityChecker struct{}

// NewQualityChecker creates a new quality checker step.
func NewQualityChecker(deps *pipeline.Dependencies) *QualityChecker {
	return &QualityChecker{}
}

// Name returns the step name.
func (s *QualityChecker) Name() string {
	return "quality_checker"
}

// Run assesses issue quality.
func (s *QualityChecker) Run(ctx *pipeline.Context) error {
	score := 100
	var findings []string

	title := strings.TrimSpace(ctx.Issue.Title)
	body := strings.TrimSpace(ctx.Issue.Body)

	if title == "" {
		score -= 30
		findings = append(findings, "title is empty")
	} else if len(title) < 10 {
		score -= 15
		findings = append(findings, "title is very short")
	}

	if body == "" {
		score -= 40
		findings = append(findings, "description is missing")
	} else if len(body) < 50 {
		score -= 20
		findings = append(findings, "description is very short")
	}

	if len(ctx.Issue.Labels) == 0 {
		score -= 10
		findings = append(findings, "no labels set")
	}

	// Bug reports without reproduction details are hard to act on.
	if ctx.Result.Type == "bug" && body != "" && !mentionsReproduction(body) {
		score -= 15
		findings = append(findings, "bug report has no reproduction steps")
	}

	if score < 0 {
		score = 0
	}

	ctx.Result.QualityScore = score
	ctx.Result.QualityIssues = findings

	log.Printf("[quality_checker] Issue #%d quality: %d, findings: %v",
		ctx.Issue.Number, score, findings)

	return nil
}

func mentionsReproduction(body string) bool {
	lower := strings.ToLower(body)
	for _, marker := range []string{"steps to reproduce", "reproduce", "reproduction", "expected", "actual"} {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}
