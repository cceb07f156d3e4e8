// Package inventory aggregates per-repository triage results into a
// cross-repository summary.
package inventory

import (
	"sort"

	"github.com/triagehq/triage-bot/internal/duplicates"
)

// IssueRecord is one classified issue in the inventory.
type IssueRecord struct {
	Repository string   `json:"repository"`
	Number     int      `json:"number"`
	Title      string   `json:"title"`
	Category   string   `json:"category"`
	Priority   string   `json:"priority"`
	Type       string   `json:"type"`
	Labels     []string `json:"labels,omitempty"`
}

// RepoResult holds the triage output for a single repository.
type RepoResult struct {
	Repository string             `json:"repository"`
	Issues     []IssueRecord      `json:"issues"`
	Groups     []duplicates.Group `json:"duplicate_groups,omitempty"`
}

// Summary holds the cross-repository counts.
type Summary struct {
	TotalIssues       int            `json:"total_issues"`
	TotalRepositories int            `json:"total_repositories"`
	ByCategory        map[string]int `json:"by_category"`
	ByPriority        map[string]int `json:"by_priority"`
	ByType            map[string]int `json:"by_type"`
	ByRepository      map[string]int `json:"by_repository"`
	DuplicateGroups   int            `json:"duplicate_groups"`
	IssuesInGroups    int            `json:"issues_in_groups"`

	// GroupSizes counts duplicate groups by member count.
	GroupSizes map[int]int `json:"group_sizes"`
}

// Inventory is the aggregated view over all scanned repositories.
type Inventory struct {
	Repositories []RepoResult `json:"repositories"`
	Summary      Summary      `json:"summary"`
}

// Aggregate builds an inventory from per-repository results. Repositories
// are ordered by name so the same input always yields the same inventory.
func Aggregate(results []RepoResult) *Inventory {
	sorted := make([]RepoResult, len(results))
	copy(sorted, results)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Repository < sorted[j].Repository
	})

	summary := Summary{
		TotalRepositories: len(sorted),
		ByCategory:        make(map[string]int),
		ByPriority:        make(map[string]int),
		ByType:            make(map[string]int),
		ByRepository:      make(map[string]int),
		GroupSizes:        make(map[int]int),
	}

	for _, repo := range sorted {
		summary.ByRepository[repo.Repository] = len(repo.Issues)
		summary.TotalIssues += len(repo.Issues)

		for _, issue := range repo.Issues {
			summary.ByCategory[issue.Category]++
			summary.ByPriority[issue.Priority]++
			summary.ByType[issue.Type]++
		}

		summary.DuplicateGroups += len(repo.Groups)
		for _, g := range repo.Groups {
			summary.IssuesInGroups += len(g.Members)
			summary.GroupSizes[len(g.Members)]++
		}
	}

	return &Inventory{
		Repositories: sorted,
		Summary:      summary,
	}
}
