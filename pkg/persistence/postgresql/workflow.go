package postgresql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/corvohq/pulse/pkg/models"
	"github.com/corvohq/pulse/pkg/persistence"
)

const workflowColumns = `
	id
  , tenant_id
  , name
  , description
  , trigger_type
  , trigger_event
  , trigger_schedule
  , is_active
  , steps
  , created_at
  , updated_at
  , deleted_at
`

// WorkflowRepository handles workflow-related database operations.
type WorkflowRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

func (r *WorkflowRepository) All(ctx context.Context, tenantID string) ([]*models.Workflow, error) {
	query := `
		SELECT ` + workflowColumns + `
		FROM workflows
		WHERE tenant_id = $1 AND deleted_at IS NULL
		ORDER BY created_at DESC
	`

	return r.queryWorkflows(ctx, query, tenantID)
}

func (r *WorkflowRepository) ByID(ctx context.Context, tenantID, id string) (*models.Workflow, error) {
	query := `
		SELECT ` + workflowColumns + `
		FROM workflows
		WHERE tenant_id = $1 AND id = $2 AND deleted_at IS NULL
	`

	row := r.db.QueryRowContext(ctx, query, tenantID, id)

	workflow, err := scanWorkflow(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, persistence.ErrWorkflowNotFound
		}

		return nil, fmt.Errorf("failed to scan workflow: %w", err)
	}

	return workflow, nil
}

func (r *WorkflowRepository) ByTriggerEvent(ctx context.Context, tenantID, event string) ([]*models.Workflow, error) {
	query := `
		SELECT ` + workflowColumns + `
		FROM workflows
		WHERE tenant_id = $1
		  AND trigger_type = 'event'
		  AND trigger_event = $2
		  AND is_active
		  AND deleted_at IS NULL
		ORDER BY created_at
	`

	return r.queryWorkflows(ctx, query, tenantID, event)
}

func (r *WorkflowRepository) Scheduled(ctx context.Context) ([]*models.Workflow, error) {
	query := `
		SELECT ` + workflowColumns + `
		FROM workflows
		WHERE trigger_type = 'schedule'
		  AND is_active
		  AND deleted_at IS NULL
		ORDER BY created_at
	`

	return r.queryWorkflows(ctx, query)
}

func (r *WorkflowRepository) Save(ctx context.Context, workflow *models.Workflow) error {
	now := time.Now().UTC()

	if workflow.CreatedAt.IsZero() {
		workflow.CreatedAt = now
	}

	workflow.UpdatedAt = now

	if workflow.ID == "" {
		id, err := uuid.NewV7()
		if err != nil {
			return fmt.Errorf("failed to generate workflow ID: %w", err)
		}

		workflow.ID = id.String()
	}

	stepsJSON, err := json.Marshal(workflow.Steps)
	if err != nil {
		return fmt.Errorf("failed to marshal workflow steps: %w", err)
	}

	query := `
		INSERT INTO workflows (
			id, tenant_id, name, description, trigger_type, trigger_event,
			trigger_schedule, is_active, steps, created_at, updated_at, deleted_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			description = EXCLUDED.description,
			trigger_type = EXCLUDED.trigger_type,
			trigger_event = EXCLUDED.trigger_event,
			trigger_schedule = EXCLUDED.trigger_schedule,
			is_active = EXCLUDED.is_active,
			steps = EXCLUDED.steps,
			updated_at = EXCLUDED.updated_at,
			deleted_at = EXCLUDED.deleted_at
	`

	_, err = r.db.ExecContext(ctx, query,
		workflow.ID, workflow.TenantID, workflow.Name, workflow.Description,
		workflow.TriggerType, nullable(workflow.TriggerEvent), nullable(workflow.TriggerSchedule),
		workflow.IsActive, stepsJSON, workflow.CreatedAt, workflow.UpdatedAt, workflow.DeletedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save workflow: %w", err)
	}

	return nil
}

// Delete soft deletes a workflow by setting deleted_at.
func (r *WorkflowRepository) Delete(ctx context.Context, tenantID, id string) error {
	result, err := r.db.ExecContext(ctx,
		"UPDATE workflows SET deleted_at = NOW() WHERE tenant_id = $1 AND id = $2 AND deleted_at IS NULL",
		tenantID, id,
	)
	if err != nil {
		return fmt.Errorf("failed to delete workflow: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check deleted rows: %w", err)
	}

	if affected == 0 {
		return persistence.ErrWorkflowNotFound
	}

	return nil
}

func (r *WorkflowRepository) queryWorkflows(ctx context.Context, query string, args ...any) ([]*models.Workflow, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query workflows: %w", err)
	}

	defer func() {
		if err := rows.Close(); err != nil {
			r.logger.ErrorContext(ctx, "failed to close rows", "error", err)
		}
	}()

	workflows := make([]*models.Workflow, 0)

	for rows.Next() {
		workflow, err := scanWorkflow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan workflow: %w", err)
		}

		workflows = append(workflows, workflow)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating workflows: %w", err)
	}

	return workflows, nil
}

type scannable interface {
	Scan(dest ...any) error
}

func scanWorkflow(row scannable) (*models.Workflow, error) {
	var (
		workflow        models.Workflow
		description     sql.NullString
		triggerEvent    sql.NullString
		triggerSchedule sql.NullString
		stepsJSON       []byte
	)

	err := row.Scan(
		&workflow.ID, &workflow.TenantID, &workflow.Name, &description,
		&workflow.TriggerType, &triggerEvent, &triggerSchedule, &workflow.IsActive,
		&stepsJSON, &workflow.CreatedAt, &workflow.UpdatedAt, &workflow.DeletedAt,
	)
	if err != nil {
		return nil, err
	}

	workflow.Description = description.String
	workflow.TriggerEvent = triggerEvent.String
	workflow.TriggerSchedule = triggerSchedule.String

	if len(stepsJSON) > 0 {
		if err := json.Unmarshal(stepsJSON, &workflow.Steps); err != nil {
			return nil, fmt.Errorf("failed to unmarshal workflow steps: %w", err)
		}
	}

	return &workflow, nil
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
