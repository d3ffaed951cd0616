package workflow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/corvohq/pulse/pkg/eventbus"
	"github.com/corvohq/pulse/pkg/events"
	"github.com/corvohq/pulse/pkg/models"
	"github.com/corvohq/pulse/pkg/otelhelper"
	"github.com/corvohq/pulse/pkg/persistence"
)

// ErrWorkflowInactive is returned when a run is requested for a workflow
// that exists but is switched off.
var ErrWorkflowInactive = errors.New("workflow is not active")

const defaultStepTimeout = 30 * time.Second

// RunResult is the caller-visible summary of one run.
type RunResult struct {
	ExecutionID string                 `json:"execution_id"`
	Status      models.ExecutionStatus `json:"status"`
	Error       string                 `json:"error,omitempty"`
}

// Runner executes one workflow: it creates the execution audit record, runs
// the steps strictly in order through the step executor, and writes the
// single terminal update. Steps are fail-open: a failing step never stops
// the ones after it.
type Runner struct {
	persistence persistence.Persistence
	executor    *StepExecutor
	publisher   eventbus.EventPublisher
	logger      *slog.Logger
	stepTimeout time.Duration
}

type RunnerOption func(*Runner)

// WithStepTimeout bounds each step attempt. Zero disables the timeout.
func WithStepTimeout(d time.Duration) RunnerOption {
	return func(r *Runner) {
		r.stepTimeout = d
	}
}

// WithPublisher attaches a lifecycle event publisher. Publishing is
// best-effort and never affects run outcome.
func WithPublisher(pub eventbus.EventPublisher) RunnerOption {
	return func(r *Runner) {
		r.publisher = pub
	}
}

func NewRunner(p persistence.Persistence, executor *StepExecutor, logger *slog.Logger, opts ...RunnerOption) *Runner {
	runner := &Runner{
		persistence: p,
		executor:    executor,
		logger:      logger.With("module", "workflow_runner"),
		stepTimeout: defaultStepTimeout,
	}

	for _, opt := range opts {
		opt(runner)
	}

	return runner
}

// Run executes the workflow identified by tenantID/workflowID. The workflow
// must exist, be active and belong to the tenant; otherwise the call fails
// before any execution record is created.
func (r *Runner) Run(ctx context.Context, tenantID, workflowID string, trigger models.TriggerContext) (*RunResult, error) {
	tracer := otel.Tracer("pulse-runner")

	ctx, span := otelhelper.StartSpan(ctx, tracer, "workflow.run",
		attribute.String(otelhelper.TenantIDKey, tenantID),
		attribute.String(otelhelper.WorkflowIDKey, workflowID),
		attribute.String(otelhelper.EventKey, trigger.Event),
	)
	defer span.End()

	logger := r.logger.With(
		"workflow_id", workflowID,
		"tenant_id", tenantID,
		"event", trigger.Event,
	)

	workflow, err := r.persistence.Workflows().ByID(ctx, tenantID, workflowID)
	if err != nil {
		otelhelper.SetError(span, err)
		logger.Error("Failed to fetch workflow", "error", err)

		return nil, fmt.Errorf("failed to fetch workflow %s: %w", workflowID, err)
	}

	if !workflow.IsActive {
		otelhelper.SetError(span, ErrWorkflowInactive)

		return nil, fmt.Errorf("workflow %s: %w", workflowID, ErrWorkflowInactive)
	}

	execution := &models.Execution{
		ID:          uuid.New().String(),
		WorkflowID:  workflowID,
		TenantID:    tenantID,
		Status:      models.ExecutionStatusRunning,
		TriggerData: trigger.Snapshot(),
		CreatedAt:   time.Now().UTC(),
	}

	if err := r.persistence.Executions().Create(ctx, execution); err != nil {
		otelhelper.SetError(span, err)

		return nil, fmt.Errorf("failed to create execution record: %w", err)
	}

	span.SetAttributes(attribute.String(otelhelper.ExecutionIDKey, execution.ID))
	logger = logger.With("execution_id", execution.ID)
	logger.Info("Starting workflow execution")

	r.publish(ctx, execution.ID, events.ExecutionStarted{
		BaseEvent:   r.baseEvent(events.ExecutionStartedEvent, tenantID, workflowID),
		ExecutionID: execution.ID,
		Event:       trigger.Event,
	})

	steps := workflow.SortedSteps()
	results := make([]models.StepResult, 0, len(steps))

	for _, step := range steps {
		results = append(results, r.runStep(ctx, step, trigger))
	}

	execution.Finalize(results, time.Now().UTC())

	if err := r.persistence.Executions().Finish(ctx, execution); err != nil {
		otelhelper.SetError(span, err)
		logger.Error("Failed to finalize execution record", "error", err)

		return nil, fmt.Errorf("failed to finalize execution %s: %w", execution.ID, err)
	}

	duration := execution.CompletedAt.Sub(execution.CreatedAt)

	if execution.Status == models.ExecutionStatusFailed {
		logger.Warn("Workflow execution failed", "error", execution.Error, "duration", duration)
		r.publish(ctx, execution.ID, events.ExecutionFailed{
			BaseEvent:   r.baseEvent(events.ExecutionFailedEvent, tenantID, workflowID),
			ExecutionID: execution.ID,
			Duration:    duration,
			Error:       execution.Error,
		})
	} else {
		logger.Info("Workflow execution completed", "steps", len(results), "duration", duration)
		r.publish(ctx, execution.ID, events.ExecutionCompleted{
			BaseEvent:   r.baseEvent(events.ExecutionCompletedEvent, tenantID, workflowID),
			ExecutionID: execution.ID,
			Duration:    duration,
			StepCount:   len(results),
		})
	}

	return &RunResult{
		ExecutionID: execution.ID,
		Status:      execution.Status,
		Error:       execution.Error,
	}, nil
}

// runStep executes one step, bounded by the per-step timeout. There is no
// concurrency within a run; each step completes before the next starts.
func (r *Runner) runStep(ctx context.Context, step *models.WorkflowStep, trigger models.TriggerContext) models.StepResult {
	stepCtx := ctx

	if r.stepTimeout > 0 {
		var cancel context.CancelFunc
		stepCtx, cancel = context.WithTimeout(ctx, r.stepTimeout)

		defer cancel()
	}

	return r.executor.ExecuteStep(stepCtx, step, trigger)
}

func (r *Runner) baseEvent(eventType events.EventType, tenantID, workflowID string) events.BaseEvent {
	return events.BaseEvent{
		ID:         uuid.New().String(),
		Type:       eventType,
		Timestamp:  time.Now().UTC(),
		TenantID:   tenantID,
		WorkflowID: workflowID,
	}
}

func (r *Runner) publish(ctx context.Context, key string, event eventbus.Event) {
	if r.publisher == nil {
		return
	}

	if err := r.publisher.Publish(ctx, key, event); err != nil {
		r.logger.Warn("Failed to publish lifecycle event", "event_type", event.GetType(), "error", err)
	}
}
