// Package steps contains the modular "Lego block" pipeline steps.
// Each step implements the pipeline.Step interface.
package steps

import (
	"log"
	"strings"

	"github.com/triagehq/triage-bot/internal/core/config"
	"github.com/triagehq/triage-bot/internal/core/pipeline"
)

// Gatekeeper checks if the issue's repository is enabled and filters bot authors.
type Gatekeeper struct{}

// NewGatekeeper creates a new gatekeeper step.
func NewGatekeeper(deps *pipeline.Dependencies) *Gatekeeper {
	return &Gatekeeper{}
}

// Name returns the step name.
func (s *Gatekeeper) Name() string {
	return "gatekeeper"
}

// Run checks repository configuration and authorship.
func (s *Gatekeeper) Run(ctx *pipeline.Context) error {
	// Early exit: skip issues opened by bot authors to prevent feedback loops.
	if ctx.Issue.Author != "" && isBotAuthor(ctx.Issue.Author, ctx.Config.BotUsers) {
		log.Printf("[gatekeeper] Skipping issue #%d from bot author %q", ctx.Issue.Number, ctx.Issue.Author)
		ctx.Result.Skipped = true
		ctx.Result.SkipReason = "issue opened by bot"
		return pipeline.ErrSkipPipeline
	}

	// If repositories list is empty, allow all (single-repo mode)
	if len(ctx.Config.Repositories) == 0 {
		log.Printf("[gatekeeper] No repositories configured, allowing all (single-repo mode)")
		return nil
	}

	// Check if the repository is configured
	repoConfig := findRepoConfig(ctx)
	if repoConfig == nil {
		ctx.Result.Skipped = true
		ctx.Result.SkipReason = "repository not configured"
		return pipeline.ErrSkipPipeline
	}

	// Check if processing is enabled for this repo
	if !repoConfig.Enabled {
		ctx.Result.Skipped = true
		ctx.Result.SkipReason = "repository processing disabled"
		return pipeline.ErrSkipPipeline
	}

	log.Printf("[gatekeeper] Repository %s/%s is enabled, proceeding", ctx.Issue.Org, ctx.Issue.Repo)
	return nil
}

// isBotAuthor returns true if the given username matches a known bot pattern
// or is in the user-configured bot_users list.
func isBotAuthor(author string, configBotUsers []string) bool {
	// Built-in heuristics
	if strings.HasSuffix(author, "[bot]") ||
		strings.EqualFold(author, "triage-bot") {
		return true
	}
	// User-configured bot users
	for _, u := range configBotUsers {
		if strings.EqualFold(author, u) {
			return true
		}
	}
	return false
}

// findRepoConfig looks up the repository configuration.
func findRepoConfig(ctx *pipeline.Context) *config.RepositoryConfig {
	for i := range ctx.Config.Repositories {
		repo := &ctx.Config.Repositories[i]
		if repo.Org == ctx.Issue.Org && repo.Repo == ctx.Issue.Repo {
			return repo
		}
	}
	return nil
}
