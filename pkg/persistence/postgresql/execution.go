package postgresql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/corvohq/pulse/pkg/models"
	"github.com/corvohq/pulse/pkg/persistence"
)

const executionColumns = `
	id
  , workflow_id
  , tenant_id
  , status
  , trigger_data
  , result
  , error
  , created_at
  , completed_at
`

// ExecutionRepository handles execution audit records.
type ExecutionRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

func (r *ExecutionRepository) Create(ctx context.Context, execution *models.Execution) error {
	triggerJSON, err := json.Marshal(execution.TriggerData)
	if err != nil {
		return fmt.Errorf("failed to marshal trigger data: %w", err)
	}

	query := `
		INSERT INTO workflow_executions (
			id, workflow_id, tenant_id, status, trigger_data, created_at
		) VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err = r.db.ExecContext(ctx, query,
		execution.ID, execution.WorkflowID, execution.TenantID,
		execution.Status, triggerJSON, execution.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create execution: %w", err)
	}

	return nil
}

func (r *ExecutionRepository) Finish(ctx context.Context, execution *models.Execution) error {
	resultJSON, err := json.Marshal(execution.Result)
	if err != nil {
		return fmt.Errorf("failed to marshal execution result: %w", err)
	}

	query := `
		UPDATE workflow_executions
		SET status = $1, result = $2, error = $3, completed_at = $4
		WHERE tenant_id = $5 AND id = $6
	`

	_, err = r.db.ExecContext(ctx, query,
		execution.Status, resultJSON, nullable(execution.Error),
		execution.CompletedAt, execution.TenantID, execution.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to finish execution: %w", err)
	}

	return nil
}

func (r *ExecutionRepository) ByID(ctx context.Context, tenantID, id string) (*models.Execution, error) {
	query := `
		SELECT ` + executionColumns + `
		FROM workflow_executions
		WHERE tenant_id = $1 AND id = $2
	`

	execution, err := scanExecution(r.db.QueryRowContext(ctx, query, tenantID, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, persistence.ErrExecutionNotFound
		}

		return nil, fmt.Errorf("failed to scan execution: %w", err)
	}

	return execution, nil
}

func (r *ExecutionRepository) ByWorkflow(ctx context.Context, tenantID, workflowID string) ([]*models.Execution, error) {
	query := `
		SELECT ` + executionColumns + `
		FROM workflow_executions
		WHERE tenant_id = $1 AND workflow_id = $2
		ORDER BY created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, tenantID, workflowID)
	if err != nil {
		return nil, fmt.Errorf("failed to query executions: %w", err)
	}

	defer func() {
		if err := rows.Close(); err != nil {
			r.logger.ErrorContext(ctx, "failed to close rows", "error", err)
		}
	}()

	executions := make([]*models.Execution, 0)

	for rows.Next() {
		execution, err := scanExecution(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan execution: %w", err)
		}

		executions = append(executions, execution)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating executions: %w", err)
	}

	return executions, nil
}

func scanExecution(row scannable) (*models.Execution, error) {
	var (
		execution   models.Execution
		triggerJSON []byte
		resultJSON  []byte
		errMsg      sql.NullString
	)

	err := row.Scan(
		&execution.ID, &execution.WorkflowID, &execution.TenantID, &execution.Status,
		&triggerJSON, &resultJSON, &errMsg, &execution.CreatedAt, &execution.CompletedAt,
	)
	if err != nil {
		return nil, err
	}

	execution.Error = errMsg.String

	if len(triggerJSON) > 0 {
		if err := json.Unmarshal(triggerJSON, &execution.TriggerData); err != nil {
			return nil, fmt.Errorf("failed to unmarshal trigger data: %w", err)
		}
	}

	if len(resultJSON) > 0 {
		if err := json.Unmarshal(resultJSON, &execution.Result); err != nil {
			return nil, fmt.Errorf("failed to unmarshal execution result: %w", err)
		}
	}

	return &execution, nil
}
