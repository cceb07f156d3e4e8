package inventory

import (
	"reflect"
	"testing"

	"github.com/triagehq/triage-bot/internal/duplicates"
)

func sampleResults() []RepoResult {
	return []RepoResult{
		{
			Repository: "acme/zebra",
			Issues: []IssueRecord{
				{Repository: "acme/zebra", Number: 1, Title: "Fix login crash", Category: "Backend Services", Priority: "medium", Type: "bug"},
			},
		},
		{
			Repository: "acme/app",
			Issues: []IssueRecord{
				{Repository: "acme/app", Number: 10, Title: "Add gRPC health service", Category: "Backend Services", Priority: "medium", Type: "feature"},
				{Repository: "acme/app", Number: 11, Title: "Update README with new examples", Category: "Documentation", Priority: "low", Type: "docs"},
				{Repository: "acme/app", Number: 12, Title: "Add gRPC health service", Category: "Backend Services", Priority: "medium", Type: "feature"},
			},
			Groups: []duplicates.Group{
				{ID: "g1", Repository: "acme/app", Representative: 10, Members: []int{10, 12}, Threshold: 0.7},
			},
		},
	}
}

func TestAggregateSummaryCounts(t *testing.T) {
	inv := Aggregate(sampleResults())

	s := inv.Summary
	if s.TotalIssues != 4 {
		t.Errorf("TotalIssues = %d, want 4", s.TotalIssues)
	}
	if s.TotalRepositories != 2 {
		t.Errorf("TotalRepositories = %d, want 2", s.TotalRepositories)
	}
	if s.ByCategory["Backend Services"] != 3 || s.ByCategory["Documentation"] != 1 {
		t.Errorf("ByCategory = %v", s.ByCategory)
	}
	if s.ByPriority["medium"] != 3 || s.ByPriority["low"] != 1 {
		t.Errorf("ByPriority = %v", s.ByPriority)
	}
	if s.ByType["feature"] != 2 || s.ByType["bug"] != 1 || s.ByType["docs"] != 1 {
		t.Errorf("ByType = %v", s.ByType)
	}
	if s.ByRepository["acme/app"] != 3 || s.ByRepository["acme/zebra"] != 1 {
		t.Errorf("ByRepository = %v", s.ByRepository)
	}
	if s.DuplicateGroups != 1 || s.IssuesInGroups != 2 {
		t.Errorf("groups = %d, issues in groups = %d", s.DuplicateGroups, s.IssuesInGroups)
	}
	if s.GroupSizes[2] != 1 {
		t.Errorf("GroupSizes = %v, want one group of size 2", s.GroupSizes)
	}
}

func TestAggregateOrdersRepositories(t *testing.T) {
	inv := Aggregate(sampleResults())

	if inv.Repositories[0].Repository != "acme/app" || inv.Repositories[1].Repository != "acme/zebra" {
		t.Errorf("repositories not sorted: %s, %s",
			inv.Repositories[0].Repository, inv.Repositories[1].Repository)
	}
}

func TestAggregateDeterministic(t *testing.T) {
	results := sampleResults()
	first := Aggregate(results)
	// Reversed input order must not change the output.
	reversed := []RepoResult{results[1], results[0]}
	second := Aggregate(reversed)

	if !reflect.DeepEqual(first, second) {
		t.Errorf("Aggregate not deterministic:\nfirst  %+v\nsecond %+v", first, second)
	}
}

func TestAggregateEmpty(t *testing.T) {
	inv := Aggregate(nil)
	if inv.Summary.TotalIssues != 0 || inv.Summary.TotalRepositories != 0 {
		t.Errorf("empty aggregate summary = %+v", inv.Summary)
	}
	if len(inv.Repositories) != 0 {
		t.Errorf("expected no repositories, got %d", len(inv.Repositories))
	}
}
