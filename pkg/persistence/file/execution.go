package file

import (
	"context"
	"os"
	"sort"

	"github.com/corvohq/pulse/pkg/models"
	"github.com/corvohq/pulse/pkg/persistence"
)

const executionCollection = "executions"

// ExecutionRepository handles execution audit records on the file system.
type ExecutionRepository struct {
	store *Persistence
}

func (p *Persistence) Executions() persistence.ExecutionRepository {
	return p.executionRepo
}

func (r *ExecutionRepository) Create(_ context.Context, execution *models.Execution) error {
	return r.store.write(executionCollection, execution.TenantID, execution.ID, execution)
}

func (r *ExecutionRepository) Finish(_ context.Context, execution *models.Execution) error {
	return r.store.write(executionCollection, execution.TenantID, execution.ID, execution)
}

func (r *ExecutionRepository) ByID(_ context.Context, tenantID, id string) (*models.Execution, error) {
	var execution models.Execution

	err := r.store.read(executionCollection, tenantID, id, &execution)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, persistence.ErrExecutionNotFound
		}

		return nil, err
	}

	return &execution, nil
}

func (r *ExecutionRepository) ByWorkflow(ctx context.Context, tenantID, workflowID string) ([]*models.Execution, error) {
	ids, err := r.store.ids(executionCollection, tenantID)
	if err != nil {
		return nil, err
	}

	executions := make([]*models.Execution, 0)

	for _, id := range ids {
		execution, err := r.ByID(ctx, tenantID, id)
		if err != nil {
			return nil, err
		}

		if execution.WorkflowID == workflowID {
			executions = append(executions, execution)
		}
	}

	sort.Slice(executions, func(i, j int) bool {
		return executions[i].CreatedAt.After(executions[j].CreatedAt)
	})

	return executions, nil
}
