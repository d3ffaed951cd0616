package postgresql_test

import (
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corvohq/pulse/pkg/models"
	"github.com/corvohq/pulse/pkg/persistence"
	"github.com/corvohq/pulse/pkg/persistence/postgresql"
)

// Integration tests run only when PULSE_TEST_DATABASE_URL points at a
// disposable PostgreSQL database.
func setupPostgres(t *testing.T) *postgresql.Persistence {
	t.Helper()

	databaseURL := os.Getenv("PULSE_TEST_DATABASE_URL")
	if databaseURL == "" {
		t.Skip("PULSE_TEST_DATABASE_URL not set")
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

	p, err := postgresql.NewPersistence(context.Background(), logger, databaseURL)
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = p.Close(context.Background())
	})

	return p
}

func newTenant() string {
	return "tenant-" + uuid.New().String()
}

func TestPostgresWorkflowLifecycle(t *testing.T) {
	p := setupPostgres(t)
	ctx := context.Background()
	tenantID := newTenant()

	workflow := &models.Workflow{
		ID:           uuid.New().String(),
		TenantID:     tenantID,
		Name:         "Deal won follow-up",
		TriggerType:  models.TriggerTypeEvent,
		TriggerEvent: "deal.won",
		IsActive:     true,
		Steps: []*models.WorkflowStep{
			{ID: uuid.New().String(), Type: "send_email", Name: "Thank you", Config: map[string]any{"subject": "Thanks"}, Order: 1},
		},
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}
	require.NoError(t, p.Workflows().Save(ctx, workflow))

	found, err := p.Workflows().ByID(ctx, tenantID, workflow.ID)
	require.NoError(t, err)
	assert.Equal(t, "Deal won follow-up", found.Name)
	require.Len(t, found.Steps, 1)
	assert.Equal(t, "send_email", found.Steps[0].Type)
	assert.Equal(t, map[string]any{"subject": "Thanks"}, found.Steps[0].Config)

	matched, err := p.Workflows().ByTriggerEvent(ctx, tenantID, "deal.won")
	require.NoError(t, err)
	require.Len(t, matched, 1)
	assert.Equal(t, workflow.ID, matched[0].ID)

	_, err = p.Workflows().ByID(ctx, newTenant(), workflow.ID)
	assert.True(t, persistence.IsWorkflowNotFound(err))

	workflow.Name = "Deal won follow-up v2"
	require.NoError(t, p.Workflows().Save(ctx, workflow))

	found, err = p.Workflows().ByID(ctx, tenantID, workflow.ID)
	require.NoError(t, err)
	assert.Equal(t, "Deal won follow-up v2", found.Name)

	require.NoError(t, p.Workflows().Delete(ctx, tenantID, workflow.ID))

	_, err = p.Workflows().ByID(ctx, tenantID, workflow.ID)
	assert.True(t, persistence.IsWorkflowNotFound(err))
}

func TestPostgresScheduledWorkflows(t *testing.T) {
	p := setupPostgres(t)
	ctx := context.Background()
	tenantID := newTenant()

	scheduled := &models.Workflow{
		ID:              uuid.New().String(),
		TenantID:        tenantID,
		Name:            "Weekly digest",
		TriggerType:     models.TriggerTypeSchedule,
		TriggerSchedule: "0 9 * * 1",
		IsActive:        true,
		CreatedAt:       time.Now().UTC(),
		UpdatedAt:       time.Now().UTC(),
	}
	require.NoError(t, p.Workflows().Save(ctx, scheduled))

	inactive := &models.Workflow{
		ID:              uuid.New().String(),
		TenantID:        tenantID,
		Name:            "Paused digest",
		TriggerType:     models.TriggerTypeSchedule,
		TriggerSchedule: "0 9 * * 2",
		CreatedAt:       time.Now().UTC(),
		UpdatedAt:       time.Now().UTC(),
	}
	require.NoError(t, p.Workflows().Save(ctx, inactive))

	all, err := p.Workflows().Scheduled(ctx)
	require.NoError(t, err)

	ids := make([]string, 0, len(all))
	for _, w := range all {
		ids = append(ids, w.ID)
	}

	assert.Contains(t, ids, scheduled.ID)
	assert.NotContains(t, ids, inactive.ID)
}

func TestPostgresExecutionLifecycle(t *testing.T) {
	p := setupPostgres(t)
	ctx := context.Background()
	tenantID := newTenant()
	workflowID := uuid.New().String()

	execution := &models.Execution{
		ID:          uuid.New().String(),
		WorkflowID:  workflowID,
		TenantID:    tenantID,
		Status:      models.ExecutionStatusRunning,
		TriggerData: map[string]any{"event": "deal.won"},
		CreatedAt:   time.Now().UTC(),
	}
	require.NoError(t, p.Executions().Create(ctx, execution))

	running, err := p.Executions().ByID(ctx, tenantID, execution.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ExecutionStatusRunning, running.Status)
	assert.Nil(t, running.CompletedAt)

	execution.Finalize([]models.StepResult{
		{StepID: "s1", Success: true},
		{StepID: "s2", Success: false, Error: "No webhook URL"},
	}, time.Now().UTC())
	require.NoError(t, p.Executions().Finish(ctx, execution))

	finished, err := p.Executions().ByID(ctx, tenantID, execution.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ExecutionStatusFailed, finished.Status)
	assert.Equal(t, "No webhook URL", finished.Error)
	require.Len(t, finished.Result, 2)
	assert.NotNil(t, finished.CompletedAt)

	byWorkflow, err := p.Executions().ByWorkflow(ctx, tenantID, workflowID)
	require.NoError(t, err)
	require.Len(t, byWorkflow, 1)
	assert.Equal(t, execution.ID, byWorkflow[0].ID)
}

func TestPostgresContactFieldUpdate(t *testing.T) {
	p := setupPostgres(t)
	ctx := context.Background()
	tenantID := newTenant()

	contact := &models.Contact{
		ID:        uuid.New().String(),
		TenantID:  tenantID,
		Name:      "Ada",
		Email:     "ada@example.com",
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}
	require.NoError(t, p.Contacts().Save(ctx, contact))

	require.NoError(t, p.Contacts().UpdateField(ctx, tenantID, contact.ID, "phone", "+15550001111"))
	require.NoError(t, p.Contacts().UpdateField(ctx, tenantID, contact.ID, "lifecycle_stage", "customer"))

	found, err := p.Contacts().ByID(ctx, tenantID, contact.ID)
	require.NoError(t, err)
	assert.Equal(t, "+15550001111", found.Phone)
	assert.Equal(t, "customer", found.Fields["lifecycle_stage"])

	err = p.Contacts().UpdateField(ctx, tenantID, uuid.New().String(), "phone", "+15550002222")
	assert.True(t, persistence.IsContactNotFound(err))
}

func TestPostgresTasksAndActivities(t *testing.T) {
	p := setupPostgres(t)
	ctx := context.Background()
	tenantID := newTenant()
	contactID := uuid.New().String()

	task := &models.Task{
		ID:        uuid.New().String(),
		TenantID:  tenantID,
		Title:     "Call Ada",
		ContactID: contactID,
		Status:    models.TaskStatusPending,
		DueAt:     time.Now().UTC().AddDate(0, 0, 7),
		CreatedAt: time.Now().UTC(),
	}
	require.NoError(t, p.Tasks().Create(ctx, task))

	tasks, err := p.Tasks().ByTenant(ctx, tenantID)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "Call Ada", tasks[0].Title)

	activity := &models.Activity{
		ID:        uuid.New().String(),
		TenantID:  tenantID,
		Kind:      models.ActivityKindNote,
		Body:      "Left a voicemail",
		ContactID: contactID,
		UserID:    "user-1",
		CreatedAt: time.Now().UTC(),
	}
	require.NoError(t, p.Activities().Create(ctx, activity))

	notes, err := p.Activities().ByContact(ctx, tenantID, contactID)
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Equal(t, "Left a voicemail", notes[0].Body)
	assert.Equal(t, "user-1", notes[0].UserID)
}
