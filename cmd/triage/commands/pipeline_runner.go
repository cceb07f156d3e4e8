package commands

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/triagehq/triage-bot/internal/core/config"
	"github.com/triagehq/triage-bot/internal/core/pipeline"
	"github.com/triagehq/triage-bot/internal/steps"
	"github.com/triagehq/triage-bot/internal/tui"
)

// Wrapper step to send status updates
type statusReportingStep struct {
	inner      pipeline.Step
	statusChan chan<- tui.PipelineStatusMsg
}

func (s *statusReportingStep) Name() string {
	return s.inner.Name()
}

func (s *statusReportingStep) Run(ctx *pipeline.Context) error {
	s.statusChan <- tui.PipelineStatusMsg{Step: s.Name(), Status: "started", Message: "Starting...", Issue: ctx.Issue.Number}
	time.Sleep(100 * time.Millisecond) // Artificial delay for visual effect

	err := s.inner.Run(ctx)

	if err != nil {
		if errors.Is(err, pipeline.ErrSkipPipeline) {
			s.statusChan <- tui.PipelineStatusMsg{Step: s.Name(), Status: "skipped", Message: ctx.Result.SkipReason, Issue: ctx.Issue.Number}
			return err
		}
		s.statusChan <- tui.PipelineStatusMsg{Step: s.Name(), Status: "error", Message: err.Error(), Issue: ctx.Issue.Number}
		return err
	}

	s.statusChan <- tui.PipelineStatusMsg{Step: s.Name(), Status: "success", Message: "Completed", Issue: ctx.Issue.Number}
	return nil
}

// ExecutePipeline builds and runs the named steps for a single issue and
// returns the accumulated result. Used by batch and scan, which have no TUI.
func ExecutePipeline(ctx context.Context, issue *pipeline.Issue, cfg *config.Config, deps *pipeline.Dependencies, stepNames []string) (*pipeline.Result, error) {
	pCtx := pipeline.NewContext(ctx, issue, cfg)

	registry := pipeline.NewRegistry()
	steps.RegisterAll(registry)

	built, err := registry.BuildFromNames(stepNames, deps)
	if err != nil {
		return nil, err
	}

	if err := built.Run(pCtx); err != nil {
		return nil, err
	}
	return pCtx.Result, nil
}

// runPipeline runs the steps with live status reporting. p may be nil when
// running without a TUI (CI mode); sends are skipped in that case.
func runPipeline(p *tea.Program, deps *pipeline.Dependencies, stepNames []string, issue *pipeline.Issue, cfg *config.Config, statusChan chan tui.PipelineStatusMsg) {
	defer close(statusChan)

	send := func(msg tea.Msg) {
		if p != nil {
			p.Send(msg)
		}
	}

	ctx := context.Background()
	pCtx := pipeline.NewContext(ctx, issue, cfg)

	registry := pipeline.NewRegistry()
	steps.RegisterAll(registry)

	// Build the actual steps
	builtSteps, err := registry.BuildFromNames(stepNames, deps)
	if err != nil {
		statusChan <- tui.PipelineStatusMsg{Step: "init", Status: "error", Message: err.Error()}
		send(tui.ResultMsg{Success: false, Output: err.Error()})
		return
	}

	// Wrap steps with status reporting
	var wrappedSteps []pipeline.Step
	for _, step := range builtSteps.Steps() {
		wrappedSteps = append(wrappedSteps, &statusReportingStep{inner: step, statusChan: statusChan})
	}

	finalPipeline := pipeline.New(wrappedSteps...)

	if err := finalPipeline.Run(pCtx); err != nil {
		send(tui.ResultMsg{Success: false, Output: err.Error()})
		return
	}

	// Marshal result to JSON
	resultBytes, _ := json.MarshalIndent(pCtx.Result, "", "  ")
	send(tui.ResultMsg{Success: true, Output: string(resultBytes)})
}
