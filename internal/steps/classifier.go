package steps

import (
	"log"

	"github.com/triagehq/triage-bot/internal/core/pipeline"
	"github.com/triagehq/triage-bot/internal/rules"
	"github.com/triagehq/triage-bot/internal/taxonomy"
)

// Classifier assigns the issue to a category and derives priority, type and
// suggested labels. Override rules from config are consulted first; keyword
// scoring decides when no rule matches.
type Classifier struct{}

// NewClassifier creates a new classifier step.
func NewClassifier(deps *pipeline.Dependencies) *Classifier {
	return &Classifier{}
}

// Name returns the step name.
func (s *Classifier) Name() string {
	return "classifier"
}

// Run classifies the issue.
func (s *Classifier) Run(ctx *pipeline.Context) error {
	input := &taxonomy.IssueInput{
		Title:  ctx.Issue.Title,
		Body:   ctx.Issue.Body,
		Labels: ctx.Issue.Labels,
	}

	// Keyword scoring always runs so the score breakdown is available even
	// when an override rule decides the category.
	classifier := taxonomy.NewClassifier(ctx.Config.Categories())
	classification := classifier.Classify(input)
	ctx.Result.Category = classification.Category
	ctx.Result.CategoryScores = classification.Scores

	if len(ctx.Config.Rules) > 0 {
		matcher := rules.NewRuleMatcher(ctx.Config.Rules)
		match := matcher.Match(&rules.IssueInput{
			Title:  ctx.Issue.Title,
			Body:   ctx.Issue.Body,
			Labels: ctx.Issue.Labels,
			Author: ctx.Issue.Author,
		})
		if match.Matched {
			log.Printf("[classifier] Issue #%d pinned to %q by rule %q",
				ctx.Issue.Number, match.Category, match.Rule.Name)
			ctx.Result.Category = match.Category
			ctx.Result.RuleApplied = match.Rule.Name
		}
	}

	ctx.Result.Priority = taxonomy.Priority(ctx.Issue.Title)
	ctx.Result.Type = taxonomy.IssueType(ctx.Issue.Title)
	ctx.Result.SuggestedLabels = taxonomy.SuggestLabels(input)

	log.Printf("[classifier] Issue #%d: category=%q priority=%s type=%s",
		ctx.Issue.Number, ctx.Result.Category, ctx.Result.Priority, ctx.Result.Type)

	return nil
}
