// Package duplicates groups issues whose titles are similar enough to
// represent the same underlying request.
package duplicates

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/triagehq/triage-bot/internal/similarity"
)

// DefaultThreshold is the similarity score at or above which two titles are
// considered duplicates.
const DefaultThreshold = 0.7

// Issue is the minimal view of an issue needed for clustering.
type Issue struct {
	Number int
	Title  string
}

// Group is a cluster of issues judged to be duplicates of one another.
// The representative is the first-seen member and the comparison seed.
type Group struct {
	// ID is derived deterministically from the repository and representative,
	// so re-running the same batch yields the same group IDs.
	ID             string  `json:"id"`
	Repository     string  `json:"repository"`
	Representative int     `json:"representative"`
	Members        []int   `json:"members"`
	Threshold      float64 `json:"threshold"`
}

// Cluster partitions a repository's issue batch into duplicate groups.
//
// Issues are scanned in input order: each not-yet-grouped issue becomes a
// seed, and every later ungrouped issue whose title scores at or above the
// threshold against the seed joins its group. Grouped issues are never
// reconsidered, so every issue lands in at most one group. Groups with a
// single member are not reported.
//
// This is greedy single linkage: members are compared against the seed only,
// never against each other, so two members may sit below the threshold
// pairwise as long as both are close to the seed. Input order determines
// seed selection and therefore cluster membership; callers must supply a
// stable ordering.
//
// A threshold <= 0 selects DefaultThreshold. Empty and single-issue batches
// yield no groups.
func Cluster(repository string, issues []Issue, threshold float64) []Group {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}

	var groups []Group
	grouped := make(map[int]bool, len(issues))

	for i, seed := range issues {
		if grouped[i] {
			continue
		}
		grouped[i] = true

		members := []int{seed.Number}
		for j := i + 1; j < len(issues); j++ {
			if grouped[j] {
				continue
			}
			if similarity.Score(seed.Title, issues[j].Title) >= threshold {
				members = append(members, issues[j].Number)
				grouped[j] = true
			}
		}

		if len(members) < 2 {
			continue
		}

		groups = append(groups, Group{
			ID:             groupID(repository, seed.Number),
			Repository:     repository,
			Representative: seed.Number,
			Members:        members,
			Threshold:      threshold,
		})
	}

	return groups
}

// groupID returns a stable SHA1 UUID keyed on the representative issue.
func groupID(repository string, representative int) string {
	key := fmt.Sprintf("https://github.com/%s/issues/%d", repository, representative)
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(key)).String()
}
