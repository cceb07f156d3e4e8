package steps

import (
	"log"

	"github.com/triagehq/triage-bot/internal/core/pipeline"
)

// ActionExecutor executes the decided actions (applying labels, posting comments).
type ActionExecutor struct {
	github pipeline.GitHubClient
	dryRun bool
}

// NewActionExecutor creates a new action executor step.
func NewActionExecutor(deps *pipeline.Dependencies) *ActionExecutor {
	return &ActionExecutor{
		github: deps.GitHub,
		dryRun: deps.DryRun,
	}
}

// Name returns the step name.
func (s *ActionExecutor) Name() string {
	return "action_executor"
}

// Run executes the actions. GitHub failures are recorded on the result but
// do not abort the pipeline.
func (s *ActionExecutor) Run(ctx *pipeline.Context) error {
	comment, hasComment := ctx.Metadata["comment"].(string)

	applyLabels := ctx.Config.Defaults.ApplyLabels && len(ctx.Result.SuggestedLabels) > 0
	postComment := ctx.Config.Defaults.PostComments && hasComment && comment != ""

	if s.dryRun {
		if applyLabels {
			log.Printf("[action_executor] DRY RUN: Would apply labels %v to issue #%d",
				ctx.Result.SuggestedLabels, ctx.Issue.Number)
		}
		if postComment {
			log.Printf("[action_executor] DRY RUN: Would post comment:\n%s", comment)
		}
		return nil
	}

	if s.github == nil {
		if applyLabels || postComment {
			log.Printf("[action_executor] No GitHub client, skipping actions for issue #%d", ctx.Issue.Number)
		}
		return nil
	}

	if applyLabels {
		err := s.github.AddLabels(ctx.Ctx, ctx.Issue.Org, ctx.Issue.Repo, ctx.Issue.Number, ctx.Result.SuggestedLabels)
		if err != nil {
			log.Printf("[action_executor] Failed to apply labels on issue #%d: %v", ctx.Issue.Number, err)
			ctx.Result.Errors = append(ctx.Result.Errors, err)
		} else {
			ctx.Result.LabelsApplied = ctx.Result.SuggestedLabels
			log.Printf("[action_executor] Applied %d labels to issue #%d",
				len(ctx.Result.LabelsApplied), ctx.Issue.Number)
		}
	}

	if postComment {
		err := s.github.CreateComment(ctx.Ctx, ctx.Issue.Org, ctx.Issue.Repo, ctx.Issue.Number, comment)
		if err != nil {
			log.Printf("[action_executor] Failed to post comment on issue #%d: %v", ctx.Issue.Number, err)
			ctx.Result.Errors = append(ctx.Result.Errors, err)
		} else {
			ctx.Result.CommentPosted = true
			log.Printf("[action_executor] Posted comment on issue #%d", ctx.Issue.Number)
		}
	}

	return nil
}
