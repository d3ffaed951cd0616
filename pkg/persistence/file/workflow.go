package file

import (
	"context"
	"fmt"
	"os"

	"github.com/corvohq/pulse/pkg/models"
	"github.com/corvohq/pulse/pkg/persistence"
)

const workflowCollection = "workflows"

// WorkflowRepository handles workflow records on the file system.
type WorkflowRepository struct {
	store *Persistence
}

func (p *Persistence) Workflows() persistence.WorkflowRepository {
	return p.workflowRepo
}

func (r *WorkflowRepository) All(ctx context.Context, tenantID string) ([]*models.Workflow, error) {
	ids, err := r.store.ids(workflowCollection, tenantID)
	if err != nil {
		return nil, err
	}

	workflows := make([]*models.Workflow, 0, len(ids))

	for _, id := range ids {
		workflow, err := r.ByID(ctx, tenantID, id)
		if err != nil {
			return nil, fmt.Errorf("failed to load workflow %s: %w", id, err)
		}

		if workflow.DeletedAt == nil {
			workflows = append(workflows, workflow)
		}
	}

	return workflows, nil
}

func (r *WorkflowRepository) ByID(_ context.Context, tenantID, id string) (*models.Workflow, error) {
	var workflow models.Workflow

	err := r.store.read(workflowCollection, tenantID, id, &workflow)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, persistence.ErrWorkflowNotFound
		}

		return nil, err
	}

	if workflow.DeletedAt != nil {
		return nil, persistence.ErrWorkflowNotFound
	}

	return &workflow, nil
}

func (r *WorkflowRepository) ByTriggerEvent(ctx context.Context, tenantID, event string) ([]*models.Workflow, error) {
	all, err := r.All(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	matched := make([]*models.Workflow, 0)

	for _, workflow := range all {
		if workflow.IsActive &&
			workflow.TriggerType == models.TriggerTypeEvent &&
			workflow.TriggerEvent == event {
			matched = append(matched, workflow)
		}
	}

	return matched, nil
}

func (r *WorkflowRepository) Scheduled(ctx context.Context) ([]*models.Workflow, error) {
	tenants, err := r.store.tenants(workflowCollection)
	if err != nil {
		return nil, err
	}

	scheduled := make([]*models.Workflow, 0)

	for _, tenant := range tenants {
		all, err := r.All(ctx, tenant)
		if err != nil {
			return nil, err
		}

		for _, workflow := range all {
			if workflow.IsActive && workflow.TriggerType == models.TriggerTypeSchedule {
				scheduled = append(scheduled, workflow)
			}
		}
	}

	return scheduled, nil
}

func (r *WorkflowRepository) Save(_ context.Context, workflow *models.Workflow) error {
	return r.store.write(workflowCollection, workflow.TenantID, workflow.ID, workflow)
}

func (r *WorkflowRepository) Delete(_ context.Context, tenantID, id string) error {
	err := r.store.remove(workflowCollection, tenantID, id)
	if os.IsNotExist(err) {
		return persistence.ErrWorkflowNotFound
	}

	return err
}
