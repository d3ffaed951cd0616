package file

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corvohq/pulse/pkg/models"
	"github.com/corvohq/pulse/pkg/persistence"
)

func testStore(t *testing.T) *Persistence {
	t.Helper()

	return NewPersistence(t.TempDir())
}

func testWorkflow(id, tenantID, event string) *models.Workflow {
	return &models.Workflow{
		ID:           id,
		TenantID:     tenantID,
		Name:         "Workflow " + id,
		TriggerType:  models.TriggerTypeEvent,
		TriggerEvent: event,
		IsActive:     true,
		CreatedAt:    time.Now().UTC(),
		UpdatedAt:    time.Now().UTC(),
	}
}

func TestWorkflowSaveAndByID(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	require.NoError(t, store.Workflows().Save(ctx, testWorkflow("wf-1", "t1", "deal.won")))

	workflow, err := store.Workflows().ByID(ctx, "t1", "wf-1")
	require.NoError(t, err)
	assert.Equal(t, "Workflow wf-1", workflow.Name)
	assert.Equal(t, "deal.won", workflow.TriggerEvent)
}

func TestWorkflowByID_NotFound(t *testing.T) {
	store := testStore(t)

	_, err := store.Workflows().ByID(context.Background(), "t1", "ghost")
	assert.True(t, persistence.IsWorkflowNotFound(err))
}

func TestWorkflowByID_TenantScoped(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	require.NoError(t, store.Workflows().Save(ctx, testWorkflow("wf-1", "t1", "deal.won")))

	_, err := store.Workflows().ByID(ctx, "t2", "wf-1")
	assert.True(t, persistence.IsWorkflowNotFound(err))
}

func TestWorkflowByID_SoftDeletedIsHidden(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	workflow := testWorkflow("wf-1", "t1", "deal.won")
	deletedAt := time.Now().UTC()
	workflow.DeletedAt = &deletedAt
	require.NoError(t, store.Workflows().Save(ctx, workflow))

	_, err := store.Workflows().ByID(ctx, "t1", "wf-1")
	assert.True(t, persistence.IsWorkflowNotFound(err))
}

func TestWorkflowByTriggerEvent(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	require.NoError(t, store.Workflows().Save(ctx, testWorkflow("wf-1", "t1", "deal.won")))
	require.NoError(t, store.Workflows().Save(ctx, testWorkflow("wf-2", "t1", "deal.lost")))

	inactive := testWorkflow("wf-3", "t1", "deal.won")
	inactive.IsActive = false
	require.NoError(t, store.Workflows().Save(ctx, inactive))

	manual := testWorkflow("wf-4", "t1", "deal.won")
	manual.TriggerType = models.TriggerTypeManual
	require.NoError(t, store.Workflows().Save(ctx, manual))

	matched, err := store.Workflows().ByTriggerEvent(ctx, "t1", "deal.won")
	require.NoError(t, err)
	require.Len(t, matched, 1)
	assert.Equal(t, "wf-1", matched[0].ID)
}

func TestWorkflowScheduled_AcrossTenants(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	scheduled1 := testWorkflow("wf-1", "t1", "")
	scheduled1.TriggerType = models.TriggerTypeSchedule
	scheduled1.TriggerSchedule = "0 9 * * *"
	require.NoError(t, store.Workflows().Save(ctx, scheduled1))

	scheduled2 := testWorkflow("wf-2", "t2", "")
	scheduled2.TriggerType = models.TriggerTypeSchedule
	scheduled2.TriggerSchedule = "*/10 * * * *"
	require.NoError(t, store.Workflows().Save(ctx, scheduled2))

	require.NoError(t, store.Workflows().Save(ctx, testWorkflow("wf-3", "t1", "deal.won")))

	scheduled, err := store.Workflows().Scheduled(ctx)
	require.NoError(t, err)
	assert.Len(t, scheduled, 2)
}

func TestWorkflowDelete(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	require.NoError(t, store.Workflows().Save(ctx, testWorkflow("wf-1", "t1", "deal.won")))
	require.NoError(t, store.Workflows().Delete(ctx, "t1", "wf-1"))

	_, err := store.Workflows().ByID(ctx, "t1", "wf-1")
	assert.True(t, persistence.IsWorkflowNotFound(err))

	err = store.Workflows().Delete(ctx, "t1", "wf-1")
	assert.True(t, persistence.IsWorkflowNotFound(err))
}

func TestExecutionLifecycle(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	execution := &models.Execution{
		ID:         "ex-1",
		WorkflowID: "wf-1",
		TenantID:   "t1",
		Status:     models.ExecutionStatusRunning,
		CreatedAt:  time.Now().UTC(),
	}
	require.NoError(t, store.Executions().Create(ctx, execution))

	completedAt := time.Now().UTC()
	execution.Finalize([]models.StepResult{{StepID: "s1", Success: true}}, completedAt)
	require.NoError(t, store.Executions().Finish(ctx, execution))

	fetched, err := store.Executions().ByID(ctx, "t1", "ex-1")
	require.NoError(t, err)
	assert.Equal(t, models.ExecutionStatusCompleted, fetched.Status)
	require.Len(t, fetched.Result, 1)
	assert.True(t, fetched.Result[0].Success)
}

func TestExecutionByID_NotFound(t *testing.T) {
	store := testStore(t)

	_, err := store.Executions().ByID(context.Background(), "t1", "ghost")
	assert.True(t, persistence.IsExecutionNotFound(err))
}

func TestExecutionsByWorkflow_NewestFirst(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	older := &models.Execution{
		ID: "ex-1", WorkflowID: "wf-1", TenantID: "t1",
		Status: models.ExecutionStatusCompleted, CreatedAt: time.Now().UTC().Add(-time.Hour),
	}
	newer := &models.Execution{
		ID: "ex-2", WorkflowID: "wf-1", TenantID: "t1",
		Status: models.ExecutionStatusFailed, CreatedAt: time.Now().UTC(),
	}
	other := &models.Execution{
		ID: "ex-3", WorkflowID: "wf-2", TenantID: "t1",
		Status: models.ExecutionStatusCompleted, CreatedAt: time.Now().UTC(),
	}

	require.NoError(t, store.Executions().Create(ctx, older))
	require.NoError(t, store.Executions().Create(ctx, newer))
	require.NoError(t, store.Executions().Create(ctx, other))

	executions, err := store.Executions().ByWorkflow(ctx, "t1", "wf-1")
	require.NoError(t, err)
	require.Len(t, executions, 2)
	assert.Equal(t, "ex-2", executions[0].ID)
	assert.Equal(t, "ex-1", executions[1].ID)
}

func TestTaskRepository(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	task := &models.Task{
		ID:       "task-1",
		TenantID: "t1",
		Title:    "Call back",
		Status:   models.TaskStatusPending,
		DueAt:    time.Now().UTC().AddDate(0, 0, 7),
	}
	require.NoError(t, store.Tasks().Create(ctx, task))

	tasks, err := store.Tasks().ByTenant(ctx, "t1")
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "Call back", tasks[0].Title)

	tasks, err = store.Tasks().ByTenant(ctx, "t2")
	require.NoError(t, err)
	assert.Empty(t, tasks)
}

func TestContactUpdateField(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	contact := &models.Contact{ID: "c-1", TenantID: "t1", Name: "Ada"}
	require.NoError(t, store.Contacts().Save(ctx, contact))

	require.NoError(t, store.Contacts().UpdateField(ctx, "t1", "c-1", "email", "ada@example.com"))
	require.NoError(t, store.Contacts().UpdateField(ctx, "t1", "c-1", "plan", "pro"))

	updated, err := store.Contacts().ByID(ctx, "t1", "c-1")
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", updated.Email)
	assert.Equal(t, "pro", updated.Fields["plan"])
}

func TestContactUpdateField_NotFound(t *testing.T) {
	store := testStore(t)

	err := store.Contacts().UpdateField(context.Background(), "t1", "ghost", "email", "x@example.com")
	assert.True(t, persistence.IsContactNotFound(err))
}

func TestActivityRepository(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	activity := &models.Activity{
		ID:        "a-1",
		TenantID:  "t1",
		Kind:      models.ActivityKindNote,
		Body:      "Spoke on the phone",
		ContactID: "c-1",
		UserID:    "u-1",
		CreatedAt: time.Now().UTC(),
	}
	require.NoError(t, store.Activities().Create(ctx, activity))

	activities, err := store.Activities().ByContact(ctx, "t1", "c-1")
	require.NoError(t, err)
	require.Len(t, activities, 1)
	assert.Equal(t, "Spoke on the phone", activities[0].Body)
}
