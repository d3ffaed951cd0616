// Package task implements the create_task action.
package task

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/corvohq/pulse/pkg/models"
	"github.com/corvohq/pulse/pkg/persistence"
)

const defaultDueInDays = 7

// Action creates a tenant-scoped task, due dueInDays from now, linked to the
// triggering contact when one is present in the context.
type Action struct {
	title     string
	assignTo  string
	dueInDays int
	tasks     persistence.TaskRepository
}

func (a *Action) Execute(ctx context.Context, trigger models.TriggerContext, logger *slog.Logger) (map[string]any, error) {
	if a.title == "" {
		return nil, errors.New("No task title")
	}

	now := time.Now().UTC()

	record := &models.Task{
		ID:         uuid.New().String(),
		TenantID:   trigger.TenantID,
		Title:      a.title,
		AssignedTo: a.assignTo,
		ContactID:  trigger.ContactID(),
		Status:     models.TaskStatusPending,
		DueAt:      now.AddDate(0, 0, a.dueInDays),
		CreatedAt:  now,
	}

	if err := a.tasks.Create(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	logger.Info("Task created", "task_id", record.ID, "due_at", record.DueAt)

	return map[string]any{"task_id": record.ID, "due_at": record.DueAt.Format(time.RFC3339)}, nil
}
