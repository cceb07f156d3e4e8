package steps

import (
	"testing"

	"github.com/triagehq/triage-bot/internal/core/pipeline"
)

func TestQualityChecker(t *testing.T) {
	tests := []struct {
		name        string
		issue       pipeline.Issue
		issueType   string
		wantScore   int
		wantFinding string
	}{
		{
			name: "complete issue",
			issue: pipeline.Issue{
				Title:  "Connection pool exhausted under load",
				Body:   "Steps to reproduce: run the load test at 500 rps and watch the pool metrics drain to zero.",
				Labels: []string{"bug"},
			},
			issueType: "bug",
			wantScore: 100,
		},
		{
			name:        "missing body",
			issue:       pipeline.Issue{Title: "Connection pool exhausted", Labels: []string{"bug"}},
			wantScore:   60,
			wantFinding: "description is missing",
		},
		{
			name:        "short title and body",
			issue:       pipeline.Issue{Title: "Broken", Body: "It fails.", Labels: []string{"bug"}},
			wantFinding: "title is very short",
		},
		{
			name:        "no labels",
			issue:       pipeline.Issue{Title: "Connection pool exhausted", Body: "Pool drains to zero after sustained load; reproduce with the soak test."},
			wantScore:   90,
			wantFinding: "no labels set",
		},
		{
			name: "bug without reproduction steps",
			issue: pipeline.Issue{
				Title:  "Crash on startup sometimes",
				Body:   "The app just dies occasionally, not sure why. Logs attached below for reference.",
				Labels: []string{"bug"},
			},
			issueType:   "bug",
			wantFinding: "bug report has no reproduction steps",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := newTestContext(&tt.issue, nil)
			ctx.Result.Type = tt.issueType

			if err := NewQualityChecker(&pipeline.Dependencies{}).Run(ctx); err != nil {
				t.Fatalf("quality checker failed: %v", err)
			}

			if tt.wantScore != 0 && ctx.Result.QualityScore != tt.wantScore {
				t.Errorf("score = %d, want %d (findings %v)",
					ctx.Result.QualityScore, tt.wantScore, ctx.Result.QualityIssues)
			}
			if tt.wantFinding != "" && !hasFinding(ctx.Result.QualityIssues, tt.wantFinding) {
				t.Errorf("findings = %v, want to include %q", ctx.Result.QualityIssues, tt.wantFinding)
			}
		})
	}
}

func TestQualityCheckerFloorsAtZero(t *testing.T) {
	ctx := newTestContext(&pipeline.Issue{}, nil)
	ctx.Result.Type = "bug"

	if err := NewQualityChecker(&pipeline.Dependencies{}).Run(ctx); err != nil {
		t.Fatalf("quality checker failed: %v", err)
	}
	if ctx.Result.QualityScore < 0 {
		t.Errorf("score = %d, want >= 0", ctx.Result.QualityScore)
	}
}

func hasFinding(findings []string, want string) bool {
	for _, f := range findings {
		if f == want {
			return true
		}
	}
	return false
}
