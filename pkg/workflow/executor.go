package workflow

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/corvohq/pulse/pkg/models"
	"github.com/corvohq/pulse/pkg/otelhelper"
	"github.com/corvohq/pulse/pkg/registry"
)

// StepExecutor performs exactly one step against a trigger context and
// returns a structured outcome. Every failure mode, including a panicking
// action, is converted into a failed StepResult; nothing escapes to the
// runner.
type StepExecutor struct {
	registry *registry.Registry
	logger   *slog.Logger
}

func NewStepExecutor(reg *registry.Registry, logger *slog.Logger) *StepExecutor {
	return &StepExecutor{
		registry: reg,
		logger:   logger.With("module", "step_executor"),
	}
}

func (e *StepExecutor) ExecuteStep(ctx context.Context, step *models.WorkflowStep, trigger models.TriggerContext) (result models.StepResult) {
	result = models.StepResult{StepID: step.ID, Name: step.Name}

	tracer := otel.Tracer("pulse-executor")

	ctx, span := otelhelper.StartSpan(ctx, tracer, "workflow.step",
		attribute.String(otelhelper.StepIDKey, step.ID),
		attribute.String(otelhelper.StepTypeKey, step.Type),
		attribute.String(otelhelper.TenantIDKey, trigger.TenantID),
	)
	defer span.End()

	logger := e.logger.With(
		"step_id", step.ID,
		"step_type", step.Type,
		"tenant_id", trigger.TenantID,
	)

	defer func() {
		if r := recover(); r != nil {
			result.Success = false
			result.Error = fmt.Sprintf("step panicked: %v", r)
			otelhelper.SetError(span, fmt.Errorf("step panicked: %v", r))
			logger.Error("Step panicked", "panic", r)
		}
	}()

	action, err := e.registry.CreateAction(step.Type, step.Config)
	if err != nil {
		result.Error = err.Error()
		otelhelper.SetError(span, err)
		logger.Warn("Step failed to configure", "error", err)

		return result
	}

	output, err := action.Execute(ctx, trigger, logger)
	if err != nil {
		result.Error = err.Error()
		otelhelper.SetError(span, err)
		logger.Warn("Step failed", "error", err)

		return result
	}

	result.Success = true
	result.Output = output

	return result
}
