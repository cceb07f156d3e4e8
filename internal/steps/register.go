package steps

import (
	"github.com/triagehq/triage-bot/internal/core/pipeline"
)

// RegisterAll registers all built-in steps with the registry.
func RegisterAll(r *pipeline.Registry) {
	r.Register("gatekeeper", func(deps *pipeline.Dependencies) (pipeline.Step, error) {
		return NewGatekeeper(deps), nil
	})

	r.Register("classifier", func(deps *pipeline.Dependencies) (pipeline.Step, error) {
		return NewClassifier(deps), nil
	})

	r.Register("quality_checker", func(deps *pipeline.Dependencies) (pipeline.Step, error) {
		return NewQualityChecker(deps), nil
	})

	r.Register("response_builder", func(deps *pipeline.Dependencies) (pipeline.Step, error) {
		return NewResponseBuilder(), nil
	})

	r.Register("action_executor", func(deps *pipeline.Dependencies) (pipeline.Step, error) {
		return NewActionExecutor(deps), nil
	})
}
