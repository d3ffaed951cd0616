package workflow

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/corvohq/pulse/pkg/eventbus"
	"github.com/corvohq/pulse/pkg/events"
	"github.com/corvohq/pulse/pkg/guard"
	"github.com/corvohq/pulse/pkg/models"
	"github.com/corvohq/pulse/pkg/otelhelper"
	"github.com/corvohq/pulse/pkg/persistence"
	"github.com/corvohq/pulse/pkg/protocol"
)

const (
	defaultWorkers   = 8
	defaultQueueSize = 256
)

// Dispatcher is the engine entry point called after a domain event occurs.
// Dispatch is fire-and-forget: it returns before any workflow runs, and no
// error it encounters ever reaches the caller. Matched workflows run as
// independent units on a bounded worker pool; one workflow's failure cannot
// prevent the others from running.
type Dispatcher struct {
	runner      *Runner
	persistence persistence.Persistence
	notifier    protocol.Notifier
	dedup       guard.Guard
	dedupWindow time.Duration
	publisher   eventbus.EventPublisher
	logger      *slog.Logger

	workers   int
	queueSize int
	jobs      chan runJob
	workerWG  sync.WaitGroup
	pending   sync.WaitGroup
	closeOnce sync.Once
}

type runJob struct {
	ctx        context.Context
	tenantID   string
	workflowID string
	trigger    models.TriggerContext
	done       *sync.WaitGroup
}

type DispatcherOption func(*Dispatcher)

// WithNotifier attaches the webhook-subscription side channel.
func WithNotifier(n protocol.Notifier) DispatcherOption {
	return func(d *Dispatcher) {
		d.notifier = n
	}
}

// WithDedupGuard suppresses identical triggers of the same workflow inside
// the given window. Off by default.
func WithDedupGuard(g guard.Guard, window time.Duration) DispatcherOption {
	return func(d *Dispatcher) {
		d.dedup = g
		d.dedupWindow = window
	}
}

// WithDispatchPublisher attaches a lifecycle event publisher.
func WithDispatchPublisher(pub eventbus.EventPublisher) DispatcherOption {
	return func(d *Dispatcher) {
		d.publisher = pub
	}
}

// WithWorkers sets the size of the run worker pool.
func WithWorkers(n int) DispatcherOption {
	return func(d *Dispatcher) {
		if n > 0 {
			d.workers = n
		}
	}
}

// WithQueueSize sets the capacity of the pending run queue.
func WithQueueSize(n int) DispatcherOption {
	return func(d *Dispatcher) {
		if n > 0 {
			d.queueSize = n
		}
	}
}

func NewDispatcher(runner *Runner, p persistence.Persistence, logger *slog.Logger, opts ...DispatcherOption) *Dispatcher {
	d := &Dispatcher{
		runner:      runner,
		persistence: p,
		logger:      logger.With("module", "trigger_dispatcher"),
		workers:     defaultWorkers,
		queueSize:   defaultQueueSize,
	}

	for _, opt := range opts {
		opt(d)
	}

	d.jobs = make(chan runJob, d.queueSize)
	d.startWorkers()

	return d
}

func (d *Dispatcher) startWorkers() {
	for range d.workers {
		d.workerWG.Add(1)

		go func() {
			defer d.workerWG.Done()

			for job := range d.jobs {
				d.runOne(job)
			}
		}()
	}
}

// Dispatch finds the active event workflows matching (tenantID, event) and
// hands each to the runner pool, then returns without waiting. It is safe to
// call with zero matching workflows, and it never panics or returns an
// error, even when the workflow lookup itself fails.
func (d *Dispatcher) Dispatch(ctx context.Context, tenantID, event, entity, entityID string, data map[string]any) {
	defer func() {
		if r := recover(); r != nil {
			d.logger.Error("Dispatch panicked", "tenant_id", tenantID, "event", event, "panic", r)
		}
	}()

	trigger := models.TriggerContext{
		TenantID: tenantID,
		Event:    event,
		Entity:   entity,
		EntityID: entityID,
		Data:     data,
	}

	// Runs must outlive the request that raised the event.
	detached := context.WithoutCancel(ctx)

	d.pending.Add(2)

	go d.notify(detached, trigger)
	go d.dispatch(detached, trigger)
}

// dispatch runs in its own goroutine: it queries matching workflows,
// enqueues each run, and joins them all-settled so stragglers are logged.
func (d *Dispatcher) dispatch(ctx context.Context, trigger models.TriggerContext) {
	defer d.pending.Done()

	tracer := otel.Tracer("pulse-dispatcher")

	ctx, span := otelhelper.StartSpan(ctx, tracer, "trigger.dispatch",
		attribute.String(otelhelper.TenantIDKey, trigger.TenantID),
		attribute.String(otelhelper.EventKey, trigger.Event),
	)
	defer span.End()

	logger := d.logger.With("tenant_id", trigger.TenantID, "event", trigger.Event)

	defer func() {
		if r := recover(); r != nil {
			logger.Error("Trigger dispatch panicked", "panic", r)
		}
	}()

	workflows, err := d.persistence.Workflows().ByTriggerEvent(ctx, trigger.TenantID, trigger.Event)
	if err != nil {
		otelhelper.SetError(span, err)
		logger.Error("Failed to look up workflows for event", "error", err)

		return
	}

	if len(workflows) == 0 {
		logger.Debug("No workflows match event")
	}

	var done sync.WaitGroup

	enqueued := 0

	for _, workflow := range workflows {
		if !d.acquire(ctx, workflow, trigger, logger) {
			continue
		}

		done.Add(1)
		enqueued++

		d.jobs <- runJob{
			ctx:        ctx,
			tenantID:   trigger.TenantID,
			workflowID: workflow.ID,
			trigger:    trigger,
			done:       &done,
		}
	}

	d.publishDispatched(ctx, trigger, enqueued)

	done.Wait()
	logger.Debug("All triggered workflows settled", "count", enqueued)
}

// runOne executes a single queued workflow run, recovering panics so one
// run can never take down a worker.
func (d *Dispatcher) runOne(job runJob) {
	defer job.done.Done()

	logger := d.logger.With(
		"tenant_id", job.tenantID,
		"workflow_id", job.workflowID,
		"event", job.trigger.Event,
	)

	defer func() {
		if r := recover(); r != nil {
			logger.Error("Workflow run panicked", "panic", r)
		}
	}()

	if _, err := d.runner.Run(job.ctx, job.tenantID, job.workflowID, job.trigger); err != nil {
		logger.Error("Workflow run failed", "error", err)
	}
}

// acquire applies the optional idempotency guard. Guard errors are logged
// and treated as acquired, preserving at-least-once behavior.
func (d *Dispatcher) acquire(ctx context.Context, workflow *models.Workflow, trigger models.TriggerContext, logger *slog.Logger) bool {
	if d.dedup == nil {
		return true
	}

	key := guard.Key(trigger.TenantID, workflow.ID, trigger.Event, trigger.EntityID)

	acquired, err := d.dedup.Acquire(ctx, key, d.dedupWindow)
	if err != nil {
		logger.Warn("Dedup guard failed, running anyway", "error", err)

		return true
	}

	if !acquired {
		logger.Info("Duplicate trigger suppressed", "workflow_id", workflow.ID)
	}

	return acquired
}

// notify invokes the webhook-subscription side channel. Its failures are
// logged only and never affect workflow execution or the caller.
func (d *Dispatcher) notify(ctx context.Context, trigger models.TriggerContext) {
	defer d.pending.Done()

	if d.notifier == nil {
		return
	}

	defer func() {
		if r := recover(); r != nil {
			d.logger.Error("Subscription notify panicked", "panic", r)
		}
	}()

	if err := d.notifier.Notify(ctx, trigger); err != nil {
		d.logger.Warn("Subscription notify failed",
			"tenant_id", trigger.TenantID,
			"event", trigger.Event,
			"error", err,
		)
	}
}

func (d *Dispatcher) publishDispatched(ctx context.Context, trigger models.TriggerContext, matched int) {
	if d.publisher == nil {
		return
	}

	event := events.TriggerDispatched{
		BaseEvent: events.BaseEvent{
			ID:        uuid.New().String(),
			Type:      events.TriggerDispatchedEvent,
			Timestamp: time.Now().UTC(),
			TenantID:  trigger.TenantID,
		},
		Event:    trigger.Event,
		Entity:   trigger.Entity,
		EntityID: trigger.EntityID,
		Matched:  matched,
	}

	if err := d.publisher.Publish(ctx, event.ID, event); err != nil {
		d.logger.Warn("Failed to publish dispatch event", "error", err)
	}
}

// Close drains in-flight dispatches and stops the worker pool. Callers must
// stop dispatching before closing.
func (d *Dispatcher) Close() {
	d.closeOnce.Do(func() {
		d.pending.Wait()
		close(d.jobs)
		d.workerWG.Wait()
	})
}
