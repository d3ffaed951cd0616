// Package persistence provides the data storage abstraction consumed by the
// workflow engine. All queries are tenant-scoped.
package persistence

import (
	"context"

	"github.com/corvohq/pulse/pkg/models"
)

type Persistence interface {
	Workflows() WorkflowRepository
	Executions() ExecutionRepository
	Tasks() TaskRepository
	Contacts() ContactRepository
	Activities() ActivityRepository

	HealthCheck(ctx context.Context) error
	Close(ctx context.Context) error
}

type WorkflowRepository interface {
	All(ctx context.Context, tenantID string) ([]*models.Workflow, error)
	ByID(ctx context.Context, tenantID, id string) (*models.Workflow, error)

	// ByTriggerEvent returns active event workflows whose trigger_event
	// exactly equals event.
	ByTriggerEvent(ctx context.Context, tenantID, event string) ([]*models.Workflow, error)

	// Scheduled returns active schedule workflows across all tenants, for the
	// cron evaluator.
	Scheduled(ctx context.Context) ([]*models.Workflow, error)

	Save(ctx context.Context, workflow *models.Workflow) error
	Delete(ctx context.Context, tenantID, id string) error
}

type ExecutionRepository interface {
	Create(ctx context.Context, execution *models.Execution) error

	// Finish writes the single terminal update for an execution: status,
	// result list, error and completed_at.
	Finish(ctx context.Context, execution *models.Execution) error

	ByID(ctx context.Context, tenantID, id string) (*models.Execution, error)
	ByWorkflow(ctx context.Context, tenantID, workflowID string) ([]*models.Execution, error)
}

type TaskRepository interface {
	Create(ctx context.Context, task *models.Task) error
	ByTenant(ctx context.Context, tenantID string) ([]*models.Task, error)
}

type ContactRepository interface {
	ByID(ctx context.Context, tenantID, id string) (*models.Contact, error)
	Save(ctx context.Context, contact *models.Contact) error
	UpdateField(ctx context.Context, tenantID, id, field string, value any) error
}

type ActivityRepository interface {
	Create(ctx context.Context, activity *models.Activity) error
	ByContact(ctx context.Context, tenantID, contactID string) ([]*models.Activity, error)
}
