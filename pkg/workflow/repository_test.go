package workflow

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corvohq/pulse/pkg/models"
	"github.com/corvohq/pulse/pkg/persistence"
	"github.com/corvohq/pulse/pkg/protocol"
	"github.com/corvohq/pulse/pkg/registry"
)

func repoRegistry() *registry.Registry {
	return testRegistry(testFactory{
		id: "noop",
		create: func(map[string]any) (protocol.Action, error) {
			return testAction{exec: func(context.Context, models.TriggerContext) (map[string]any, error) {
				return nil, nil
			}}, nil
		},
	})
}

func TestRepositoryCreate_AssignsIDsAndTimestamps(t *testing.T) {
	p := newTestPersistence(t)
	repo := NewRepository(p, repoRegistry())

	created, err := repo.Create(context.Background(), &models.Workflow{
		TenantID:     "t1",
		Name:         "Welcome sequence",
		TriggerType:  models.TriggerTypeEvent,
		TriggerEvent: "contact.created",
		Steps: []*models.WorkflowStep{
			{Type: "noop", Name: "greet"},
		},
	})
	require.NoError(t, err)

	assert.NotEmpty(t, created.ID)
	assert.NotEmpty(t, created.Steps[0].ID)
	assert.False(t, created.CreatedAt.IsZero())
	assert.Equal(t, created.CreatedAt, created.UpdatedAt)

	fetched, err := repo.FetchByID(context.Background(), "t1", created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Welcome sequence", fetched.Name)
}

func TestRepositoryCreate_RejectsInvalidDefinition(t *testing.T) {
	p := newTestPersistence(t)
	repo := NewRepository(p, repoRegistry())

	_, err := repo.Create(context.Background(), &models.Workflow{
		TenantID:    "t1",
		Name:        "No trigger event",
		TriggerType: models.TriggerTypeEvent,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "trigger_event is required")
}

func TestRepositoryCreate_RejectsUnknownStepType(t *testing.T) {
	p := newTestPersistence(t)
	repo := NewRepository(p, repoRegistry())

	_, err := repo.Create(context.Background(), &models.Workflow{
		TenantID:     "t1",
		Name:         "Bad step",
		TriggerType:  models.TriggerTypeEvent,
		TriggerEvent: "contact.created",
		Steps: []*models.WorkflowStep{
			{Type: "send_telegram", Name: "nope"},
		},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Unknown action type: send_telegram")
}

func TestRepositoryUpdate_PreservesCreatedAt(t *testing.T) {
	p := newTestPersistence(t)
	repo := NewRepository(p, repoRegistry())
	ctx := context.Background()

	created, err := repo.Create(ctx, &models.Workflow{
		TenantID:     "t1",
		Name:         "Original name",
		TriggerType:  models.TriggerTypeEvent,
		TriggerEvent: "contact.created",
	})
	require.NoError(t, err)

	created.Name = "Renamed workflow"

	updated, err := repo.Update(ctx, "t1", created.ID, created)
	require.NoError(t, err)

	assert.Equal(t, "Renamed workflow", updated.Name)
	assert.Equal(t, created.CreatedAt, updated.CreatedAt)
	assert.False(t, updated.UpdatedAt.Before(updated.CreatedAt))
}

func TestRepositoryUpdate_NotFound(t *testing.T) {
	p := newTestPersistence(t)
	repo := NewRepository(p, repoRegistry())

	_, err := repo.Update(context.Background(), "t1", "ghost", &models.Workflow{
		TenantID:     "t1",
		Name:         "Ghost workflow",
		TriggerType:  models.TriggerTypeEvent,
		TriggerEvent: "contact.created",
	})
	require.Error(t, err)
	assert.True(t, persistence.IsWorkflowNotFound(err))
}

func TestRepositoryDelete(t *testing.T) {
	p := newTestPersistence(t)
	repo := NewRepository(p, repoRegistry())
	ctx := context.Background()

	created, err := repo.Create(ctx, &models.Workflow{
		TenantID:     "t1",
		Name:         "Short lived",
		TriggerType:  models.TriggerTypeManual,
	})
	require.NoError(t, err)

	require.NoError(t, repo.Delete(ctx, "t1", created.ID))

	_, err = repo.FetchByID(ctx, "t1", created.ID)
	assert.True(t, persistence.IsWorkflowNotFound(err))

	assert.True(t, persistence.IsWorkflowNotFound(repo.Delete(ctx, "t1", created.ID)))
}
