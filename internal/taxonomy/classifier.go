package taxonomy

import (
	"strings"

	"github.com/triagehq/triage-bot/internal/utils/text"
)

// Signal weights are fixed constants of the design, not tunables.
const (
	labelWeight = 3
	titleWeight = 2
	blobWeight  = 1
)

// IssueInput is the issue data used for classification.
type IssueInput struct {
	Title  string
	Body   string
	Labels []string
}

// Classification is the outcome for a single issue. Scores holds the full
// per-category breakdown for explainability; Category is one of the defined
// names or Fallback.
type Classification struct {
	Category string
	Scores   map[string]int
}

// Classifier assigns each issue to exactly one category.
type Classifier struct {
	categories []Category
}

// NewClassifier builds a classifier over an ordered category list. Keywords
// are lowercased once here so Classify can compare directly. An empty list
// is valid: every issue then classifies as Fallback.
func NewClassifier(categories []Category) *Classifier {
	lowered := make([]Category, len(categories))
	for i, cat := range categories {
		lowered[i] = Category{
			Name:          cat.Name,
			Keywords:      lowerAll(cat.Keywords),
			TitleKeywords: lowerAll(cat.TitleKeywords),
		}
	}
	return &Classifier{categories: lowered}
}

// Classify scores the issue against every category and picks the highest.
// Label matches weigh 3, title keyword matches 2, combined title+body
// matches 1. Ties go to the earlier category; an all-zero score yields
// Fallback. Classify is pure and never fails, including on issues with an
// empty title, body and label set.
func (c *Classifier) Classify(issue *IssueInput) Classification {
	title := strings.ToLower(issue.Title)
	blob := text.CombinedText(issue.Title, issue.Body)

	labels := make(map[string]bool, len(issue.Labels))
	for _, l := range issue.Labels {
		labels[strings.ToLower(l)] = true
	}

	scores := make(map[string]int, len(c.categories))
	best := 0
	bestName := Fallback

	for _, cat := range c.categories {
		score := 0
		for _, kw := range cat.Keywords {
			if labels[kw] {
				score += labelWeight
			}
		}
		for _, kw := range cat.TitleKeywords {
			if strings.Contains(title, kw) {
				score += titleWeight
			}
		}
		for _, kw := range cat.Keywords {
			if strings.Contains(blob, kw) {
				score += blobWeight
			}
		}

		scores[cat.Name] = score
		if score > best {
			best = score
			bestName = cat.Name
		}
	}

	return Classification{Category: bestName, Scores: scores}
}

func lowerAll(in []string) []string {
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = strings.ToLower(s)
	}
	return out
}
