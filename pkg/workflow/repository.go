package workflow

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/corvohq/pulse/pkg/models"
	"github.com/corvohq/pulse/pkg/persistence"
	"github.com/corvohq/pulse/pkg/registry"
)

// Repository manages workflow definitions on top of the persistence layer,
// assigning identifiers and validating definitions before they are saved.
type Repository struct {
	persistence persistence.Persistence
	registry    *registry.Registry
}

func NewRepository(p persistence.Persistence, reg *registry.Registry) *Repository {
	return &Repository{
		persistence: p,
		registry:    reg,
	}
}

func (r *Repository) HealthCheck(ctx context.Context) (string, bool) {
	if r.persistence == nil {
		return "Persistence layer not initialized", false
	}

	if err := r.persistence.HealthCheck(ctx); err != nil {
		return "Persistence layer is unhealthy: " + err.Error(), false
	}

	return "Persistence layer is healthy", true
}

func (r *Repository) FetchAll(ctx context.Context, tenantID string) ([]*models.Workflow, error) {
	workflows, err := r.persistence.Workflows().All(ctx, tenantID)
	if err != nil {
		return make([]*models.Workflow, 0), err
	}

	return workflows, nil
}

func (r *Repository) FetchByID(ctx context.Context, tenantID, id string) (*models.Workflow, error) {
	return r.persistence.Workflows().ByID(ctx, tenantID, id)
}

func (r *Repository) Create(ctx context.Context, workflow *models.Workflow) (*models.Workflow, error) {
	if err := r.validate(workflow); err != nil {
		return nil, err
	}

	if workflow.ID == "" {
		workflow.ID = uuid.New().String()
	}

	for _, step := range workflow.Steps {
		if step.ID == "" {
			step.ID = uuid.New().String()
		}
	}

	now := time.Now().UTC()
	workflow.CreatedAt = now
	workflow.UpdatedAt = now

	if err := r.persistence.Workflows().Save(ctx, workflow); err != nil {
		return nil, fmt.Errorf("failed to save workflow: %w", err)
	}

	return workflow, nil
}

func (r *Repository) Update(ctx context.Context, tenantID, id string, workflow *models.Workflow) (*models.Workflow, error) {
	existing, err := r.persistence.Workflows().ByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	workflow.ID = id
	workflow.TenantID = tenantID

	if err := r.validate(workflow); err != nil {
		return nil, err
	}

	for _, step := range workflow.Steps {
		if step.ID == "" {
			step.ID = uuid.New().String()
		}
	}

	workflow.CreatedAt = existing.CreatedAt
	workflow.UpdatedAt = time.Now().UTC()

	if err := r.persistence.Workflows().Save(ctx, workflow); err != nil {
		return nil, fmt.Errorf("failed to save workflow: %w", err)
	}

	return workflow, nil
}

func (r *Repository) Delete(ctx context.Context, tenantID, id string) error {
	if _, err := r.persistence.Workflows().ByID(ctx, tenantID, id); err != nil {
		return err
	}

	return r.persistence.Workflows().Delete(ctx, tenantID, id)
}

// Execution fetches one audit record by id.
func (r *Repository) Execution(ctx context.Context, tenantID, id string) (*models.Execution, error) {
	return r.persistence.Executions().ByID(ctx, tenantID, id)
}

// Executions fetches the audit trail of one workflow, newest first.
func (r *Repository) Executions(ctx context.Context, tenantID, workflowID string) ([]*models.Execution, error) {
	executions, err := r.persistence.Executions().ByWorkflow(ctx, tenantID, workflowID)
	if err != nil {
		return make([]*models.Execution, 0), err
	}

	return executions, nil
}

func (r *Repository) validate(workflow *models.Workflow) error {
	if err := workflow.Validate(); err != nil {
		return err
	}

	if r.registry != nil {
		if err := r.registry.ValidateSteps(workflow); err != nil {
			return err
		}
	}

	return nil
}
