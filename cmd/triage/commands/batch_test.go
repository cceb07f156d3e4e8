package commands

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/triagehq/triage-bot/internal/core/config"
	"github.com/triagehq/triage-bot/internal/core/pipeline"
)

type testError struct {
	msg string
}

func (e *testError) Error() string {
	return e.msg
}

func writeTempIssues(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "issues.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write temp issues file: %v", err)
	}
	return path
}

func TestLoadIssues(t *testing.T) {
	path := writeTempIssues(t, `[
		{"org": "acme", "repo": "app", "number": 1, "title": "Login fails with SSO"},
		{"org": "acme", "repo": "app", "number": 2, "title": "Add dark mode", "body": "Please", "labels": ["enhancement"]}
	]`)

	issues, err := loadIssues(path)
	if err != nil {
		t.Fatalf("loadIssues failed: %v", err)
	}
	if len(issues) != 2 {
		t.Fatalf("Expected 2 issues, got %d", len(issues))
	}
	if issues[0].Repository() != "acme/app" {
		t.Errorf("Expected repository acme/app, got %s", issues[0].Repository())
	}
	if issues[1].Labels[0] != "enhancement" {
		t.Errorf("Expected label 'enhancement', got %v", issues[1].Labels)
	}
}

func TestLoadIssuesMissingRequiredFields(t *testing.T) {
	path := writeTempIssues(t, `[{"org": "acme", "repo": "app", "title": "no number"}]`)

	_, err := loadIssues(path)
	if err == nil {
		t.Fatal("Expected error for issue missing number, got nil")
	}
	if !strings.Contains(err.Error(), "missing required fields") {
		t.Errorf("Unexpected error message: %v", err)
	}
}

func TestLoadIssuesEmptyFile(t *testing.T) {
	path := writeTempIssues(t, `[]`)

	_, err := loadIssues(path)
	if err == nil {
		t.Fatal("Expected error for empty issue list, got nil")
	}
}

func TestLoadIssuesInvalidJSON(t *testing.T) {
	path := writeTempIssues(t, `not json`)

	_, err := loadIssues(path)
	if err == nil {
		t.Fatal("Expected error for invalid JSON, got nil")
	}
}

func TestLoadIssuesFileNotFound(t *testing.T) {
	_, err := loadIssues(filepath.Join(t.TempDir(), "does-not-exist.json"))
	if err == nil {
		t.Fatal("Expected error for missing file, got nil")
	}
}

func TestApplyConfigOverrides(t *testing.T) {
	origThreshold := batchThreshold
	origMinGroup := batchMinGroup
	defer func() {
		batchThreshold = origThreshold
		batchMinGroup = origMinGroup
	}()

	cfg := &config.Config{}
	cfg.ApplyDefaults()

	batchThreshold = 0.85
	batchMinGroup = 3
	applyConfigOverrides(cfg)

	if cfg.Defaults.SimilarityThreshold != 0.85 {
		t.Errorf("Expected threshold override 0.85, got %f", cfg.Defaults.SimilarityThreshold)
	}
	if cfg.Defaults.MinGroupSize != 3 {
		t.Errorf("Expected min group size override 3, got %d", cfg.Defaults.MinGroupSize)
	}

	batchThreshold = 0
	batchMinGroup = 0
	applyConfigOverrides(cfg)
	if cfg.Defaults.SimilarityThreshold != 0.85 {
		t.Errorf("Zero flag should not clear the threshold, got %f", cfg.Defaults.SimilarityThreshold)
	}
}

func TestClusterBatch(t *testing.T) {
	issues := []pipeline.Issue{
		{Org: "acme", Repo: "app", Number: 1, Title: "Fix: login fails with SSO enabled"},
		{Org: "acme", Repo: "app", Number: 2, Title: "Login fails with SSO enabled"},
		{Org: "acme", Repo: "web", Number: 7, Title: "Login fails with SSO enabled"},
		{Org: "acme", Repo: "app", Number: 3, Title: "Completely unrelated request"},
	}

	groups := clusterBatch(issues, 0.7, 2)
	if len(groups) != 1 {
		t.Fatalf("Expected 1 group, got %d", len(groups))
	}

	g := groups[0]
	if g.Repository != "acme/app" {
		t.Errorf("Expected group in acme/app, got %s", g.Repository)
	}
	if g.Representative != 1 {
		t.Errorf("Expected representative 1, got %d", g.Representative)
	}
	if len(g.Members) != 2 || g.Members[0] != 1 || g.Members[1] != 2 {
		t.Errorf("Unexpected members: %v", g.Members)
	}
}

func TestClusterBatchMinGroupSizeFilter(t *testing.T) {
	issues := []pipeline.Issue{
		{Org: "acme", Repo: "app", Number: 1, Title: "Crash when saving large files"},
		{Org: "acme", Repo: "app", Number: 2, Title: "Crash when saving large files"},
	}

	if groups := clusterBatch(issues, 0.7, 3); len(groups) != 0 {
		t.Errorf("Expected pairs below min group size 3 to be dropped, got %d groups", len(groups))
	}
	if groups := clusterBatch(issues, 0.7, 2); len(groups) != 1 {
		t.Errorf("Expected 1 group at min group size 2, got %d", len(groups))
	}
}

func TestFormatJSON(t *testing.T) {
	results := []BatchResult{
		{
			Index: 0,
			Issue: pipeline.Issue{Org: "acme", Repo: "app", Number: 1, Title: "Login fails"},
			Result: &pipeline.Result{
				IssueNumber: 1,
				Category:    "Backend Services",
				Priority:    "medium",
				Type:        "bug",
			},
		},
		{
			Index: 1,
			Issue: pipeline.Issue{Org: "acme", Repo: "app", Number: 2, Title: "Broken"},
			Error: &testError{msg: "step 'classifier' failed"},
		},
	}

	data, err := formatJSON(results, nil)
	if err != nil {
		t.Fatalf("formatJSON failed: %v", err)
	}

	var output JSONOutput
	if err := json.Unmarshal(data, &output); err != nil {
		t.Fatalf("Output is not valid JSON: %v", err)
	}

	if output.RunID == "" {
		t.Error("Expected a run ID")
	}
	if output.TotalIssues != 2 || output.Successful != 1 || output.Failed != 1 {
		t.Errorf("Unexpected counts: total=%d successful=%d failed=%d",
			output.TotalIssues, output.Successful, output.Failed)
	}
	if output.Results[0].Result.Category != "Backend Services" {
		t.Errorf("Expected category preserved, got %s", output.Results[0].Result.Category)
	}
	if output.Results[1].Error != "step 'classifier' failed" {
		t.Errorf("Expected error string preserved, got %q", output.Results[1].Error)
	}
}

func TestFormatCSV(t *testing.T) {
	issues := []pipeline.Issue{
		{Org: "acme", Repo: "app", Number: 1, Title: "Login fails with SSO", Author: "alice", State: "open"},
		{Org: "acme", Repo: "app", Number: 2, Title: "Login fails with SSO", Author: "bob", State: "open"},
		{Org: "acme", Repo: "app", Number: 3, Title: "Broken input", Author: "carol", State: "open"},
	}
	groups := clusterBatch(issues, 0.7, 2)
	if len(groups) != 1 {
		t.Fatalf("Fixture expected 1 duplicate group, got %d", len(groups))
	}

	results := []BatchResult{
		{
			Index: 0,
			Issue: issues[0],
			Result: &pipeline.Result{
				IssueNumber:     1,
				Category:        "Web & UI",
				Priority:        "medium",
				Type:            "bug",
				QualityScore:    70,
				SuggestedLabels: []string{"bug", "priority:medium"},
			},
		},
		{
			Index:  1,
			Issue:  issues[1],
			Result: &pipeline.Result{IssueNumber: 2, Skipped: true, SkipReason: "issue opened by bot"},
		},
		{
			Index: 2,
			Issue: issues[2],
			Error: &testError{msg: "boom"},
		},
	}

	data, err := formatCSV(results, groups)
	if err != nil {
		t.Fatalf("formatCSV failed: %v", err)
	}

	records, err := csv.NewReader(strings.NewReader(string(data))).ReadAll()
	if err != nil {
		t.Fatalf("Output is not valid CSV: %v", err)
	}
	if len(records) != 4 {
		t.Fatalf("Expected header + 3 rows, got %d records", len(records))
	}

	header := records[0]
	if header[0] != "issue_number" || header[8] != "category" || header[14] != "duplicate_group" {
		t.Errorf("Unexpected header layout: %v", header)
	}

	first := records[1]
	if first[0] != "1" || first[8] != "Web & UI" || first[12] != "70" {
		t.Errorf("Unexpected first row: %v", first)
	}
	if first[13] != "bug;priority:medium" {
		t.Errorf("Expected semicolon-joined labels, got %q", first[13])
	}
	if first[14] != groups[0].ID {
		t.Errorf("Expected duplicate group %s, got %q", groups[0].ID, first[14])
	}

	skipped := records[2]
	if skipped[6] != "true" || skipped[7] != "issue opened by bot" {
		t.Errorf("Unexpected skipped row: %v", skipped)
	}
	if skipped[14] != groups[0].ID {
		t.Errorf("Expected skipped issue to still carry its duplicate group, got %q", skipped[14])
	}

	failed := records[3]
	if failed[15] != "boom" {
		t.Errorf("Expected error in last column, got %q", failed[15])
	}
	if failed[8] != "" {
		t.Errorf("Expected empty category for failed row, got %q", failed[8])
	}
}

func TestFormatCSVEmptyResults(t *testing.T) {
	data, err := formatCSV(nil, nil)
	if err != nil {
		t.Fatalf("formatCSV failed: %v", err)
	}

	records, err := csv.NewReader(strings.NewReader(string(data))).ReadAll()
	if err != nil {
		t.Fatalf("Output is not valid CSV: %v", err)
	}
	if len(records) != 1 {
		t.Errorf("Expected header only, got %d records", len(records))
	}
}

func TestFormatCSVEscapesFields(t *testing.T) {
	results := []BatchResult{
		{
			Index:  0,
			Issue:  pipeline.Issue{Org: "acme", Repo: "app", Number: 1, Title: `Crash, with "quotes"`, Author: "alice", State: "open"},
			Result: &pipeline.Result{IssueNumber: 1, Category: "Testing"},
		},
	}

	data, err := formatCSV(results, nil)
	if err != nil {
		t.Fatalf("formatCSV failed: %v", err)
	}

	records, err := csv.NewReader(strings.NewReader(string(data))).ReadAll()
	if err != nil {
		t.Fatalf("Output is not valid CSV: %v", err)
	}
	if records[1][3] != `Crash, with "quotes"` {
		t.Errorf("Expected title round-tripped through CSV, got %q", records[1][3])
	}
}
