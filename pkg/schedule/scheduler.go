// Package schedule runs cron-triggered workflows. The scheduler keeps its
// cron table in sync with the persisted schedule workflows and hands each
// firing to the runner.
package schedule

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/corvohq/pulse/pkg/models"
	"github.com/corvohq/pulse/pkg/persistence"
	"github.com/corvohq/pulse/pkg/workflow"
)

const defaultRefreshInterval = 30 * time.Second

type Scheduler struct {
	persistence persistence.Persistence
	runner      *workflow.Runner
	logger      *slog.Logger
	refresh     time.Duration

	cron *cron.Cron

	mu      sync.Mutex
	entries map[string]scheduledEntry
}

type scheduledEntry struct {
	entryID  cron.EntryID
	schedule string
}

type Option func(*Scheduler)

func WithRefreshInterval(interval time.Duration) Option {
	return func(s *Scheduler) {
		if interval > 0 {
			s.refresh = interval
		}
	}
}

func NewScheduler(p persistence.Persistence, runner *workflow.Runner, logger *slog.Logger, opts ...Option) *Scheduler {
	s := &Scheduler{
		persistence: p,
		runner:      runner,
		logger:      logger.With("module", "scheduler"),
		refresh:     defaultRefreshInterval,
		entries:     make(map[string]scheduledEntry),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start loads the schedule workflows, registers their cron entries, and
// keeps the table in sync until the context is canceled.
func (s *Scheduler) Start(ctx context.Context) error {
	s.cron = cron.New(cron.WithChain(
		cron.SkipIfStillRunning(cron.DefaultLogger),
		cron.Recover(cron.DefaultLogger),
	))

	if err := s.Reload(ctx); err != nil {
		return fmt.Errorf("failed to load scheduled workflows: %w", err)
	}

	s.cron.Start()
	s.logger.Info("Scheduler started", "refresh_interval", s.refresh)

	go s.refreshLoop(ctx)

	return nil
}

func (s *Scheduler) refreshLoop(ctx context.Context) {
	ticker := time.NewTicker(s.refresh)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.Reload(ctx); err != nil {
				s.logger.Error("Failed to refresh scheduled workflows", "error", err)
			}
		}
	}
}

// Reload reconciles the cron table against the persisted schedule
// workflows: new ones are added, deleted or deactivated ones removed, and
// changed expressions re-registered.
func (s *Scheduler) Reload(ctx context.Context) error {
	workflows, err := s.persistence.Workflows().Scheduled(ctx)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	seen := make(map[string]bool, len(workflows))

	for _, wf := range workflows {
		seen[wf.ID] = true

		existing, ok := s.entries[wf.ID]
		if ok && existing.schedule == wf.TriggerSchedule {
			continue
		}

		if ok {
			s.cron.Remove(existing.entryID)
		}

		entryID, err := s.cron.AddFunc(wf.TriggerSchedule, s.fire(wf.TenantID, wf.ID))
		if err != nil {
			s.logger.Error("Failed to register schedule",
				"workflow_id", wf.ID,
				"schedule", wf.TriggerSchedule,
				"error", err,
			)

			delete(s.entries, wf.ID)

			continue
		}

		s.entries[wf.ID] = scheduledEntry{entryID: entryID, schedule: wf.TriggerSchedule}
		s.logger.Info("Schedule registered", "workflow_id", wf.ID, "schedule", wf.TriggerSchedule)
	}

	for id, entry := range s.entries {
		if !seen[id] {
			s.cron.Remove(entry.entryID)
			delete(s.entries, id)
			s.logger.Info("Schedule removed", "workflow_id", id)
		}
	}

	return nil
}

func (s *Scheduler) fire(tenantID, workflowID string) func() {
	return func() {
		trigger := models.TriggerContext{
			TenantID: tenantID,
			Event:    "schedule.tick",
			Data: map[string]any{
				"scheduled_at": time.Now().UTC().Format(time.RFC3339),
			},
		}

		result, err := s.runner.Run(context.Background(), tenantID, workflowID, trigger)
		if err != nil {
			s.logger.Error("Scheduled run failed to start",
				"tenant_id", tenantID,
				"workflow_id", workflowID,
				"error", err,
			)

			return
		}

		s.logger.Info("Scheduled run finished",
			"tenant_id", tenantID,
			"workflow_id", workflowID,
			"execution_id", result.ExecutionID,
			"status", result.Status,
		)
	}
}

// Stop halts the cron table and waits for in-flight firings.
func (s *Scheduler) Stop() {
	if s.cron != nil {
		<-s.cron.Stop().Done()
	}

	s.logger.Info("Scheduler stopped")
}
