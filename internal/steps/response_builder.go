package steps

import (
	"fmt"
	"log"
	"strings"

	"github.com/triagehq/triage-bot/internal/core/pipeline"
)

// ResponseBuilder constructs the triage comment to post on the issue.
type ResponseBuilder struct{}

// NewResponseBuilder creates a new response builder step.
func NewResponseBuilder() *ResponseBuilder {
	return &ResponseBuilder{}
}

// Name returns the step name.
func (s *ResponseBuilder) Name() string {
	return "response_builder"
}

// Run builds the response comment.
func (s *ResponseBuilder) Run(ctx *pipeline.Context) error {
	if ctx.Result.Category == "" {
		log.Printf("[response_builder] No classification result, skipping comment")
		return nil
	}

	// Build comment
	var parts []string

	parts = append(parts, "## 🏷️ Triage Summary\n")
	parts = append(parts, fmt.Sprintf("**Category:** %s", ctx.Result.Category))
	if ctx.Result.RuleApplied != "" {
		parts = append(parts, fmt.Sprintf("**Rule:** %s", ctx.Result.RuleApplied))
	}
	parts = append(parts, fmt.Sprintf("**Priority:** %s · **Type:** %s", ctx.Result.Priority, ctx.Result.Type))

	if len(ctx.Result.SuggestedLabels) > 0 {
		parts = append(parts, "")
		parts = append(parts, fmt.Sprintf("**Suggested labels:** `%s`",
			strings.Join(ctx.Result.SuggestedLabels, "`, `")))
	}

	// Callers that ran duplicate clustering can pass likely duplicates along.
	if dupes, ok := ctx.Metadata["duplicates"].([]int); ok && len(dupes) > 0 {
		refs := make([]string, len(dupes))
		for i, n := range dupes {
			refs[i] = fmt.Sprintf("#%d", n)
		}
		parts = append(parts, "")
		parts = append(parts, fmt.Sprintf("**Possible duplicates:** %s", strings.Join(refs, ", ")))
	}

	if len(ctx.Result.QualityIssues) > 0 {
		parts = append(parts, "")
		parts = append(parts, "## 📋 Quality Notes\n")
		for _, finding := range ctx.Result.QualityIssues {
			parts = append(parts, fmt.Sprintf("- %s", finding))
		}
	}

	// Store the built comment in metadata for the action executor
	comment := strings.Join(parts, "\n")
	ctx.Metadata["comment"] = comment

	log.Printf("[response_builder] Built comment for issue #%d (category %s)",
		ctx.Issue.Number, ctx.Result.Category)

	return nil
}
