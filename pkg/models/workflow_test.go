package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validWorkflow() *Workflow {
	return &Workflow{
		ID:           "wf-1",
		TenantID:     "tenant-1",
		Name:         "Welcome sequence",
		TriggerType:  TriggerTypeEvent,
		TriggerEvent: "contact.created",
		IsActive:     true,
	}
}

func TestWorkflowValidate(t *testing.T) {
	require.NoError(t, validWorkflow().Validate())
}

func TestWorkflowValidate_MissingName(t *testing.T) {
	workflow := validWorkflow()
	workflow.Name = ""

	assert.Error(t, workflow.Validate())
}

func TestWorkflowValidate_EventRequiresTriggerEvent(t *testing.T) {
	workflow := validWorkflow()
	workflow.TriggerEvent = ""

	err := workflow.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "trigger_event is required")
}

func TestWorkflowValidate_ScheduleRequiresCron(t *testing.T) {
	workflow := validWorkflow()
	workflow.TriggerType = TriggerTypeSchedule
	workflow.TriggerEvent = ""

	err := workflow.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "trigger_schedule is required")

	workflow.TriggerSchedule = "not a cron"
	err = workflow.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid cron expression")

	workflow.TriggerSchedule = "*/5 * * * *"
	assert.NoError(t, workflow.Validate())
}

func TestWorkflowValidate_ManualNeedsNoTriggerFields(t *testing.T) {
	workflow := validWorkflow()
	workflow.TriggerType = TriggerTypeManual
	workflow.TriggerEvent = ""

	assert.NoError(t, workflow.Validate())
}

func TestWorkflowValidate_UnknownTriggerType(t *testing.T) {
	workflow := validWorkflow()
	workflow.TriggerType = "webhook"

	assert.Error(t, workflow.Validate())
}

func TestSortedSteps_OrdersByOrder(t *testing.T) {
	workflow := validWorkflow()
	workflow.Steps = []*WorkflowStep{
		{ID: "c", Order: 2},
		{ID: "a", Order: 0},
		{ID: "b", Order: 1},
	}

	steps := workflow.SortedSteps()

	require.Len(t, steps, 3)
	assert.Equal(t, "a", steps[0].ID)
	assert.Equal(t, "b", steps[1].ID)
	assert.Equal(t, "c", steps[2].ID)
}

func TestSortedSteps_TiesKeepStoredSequence(t *testing.T) {
	workflow := validWorkflow()
	workflow.Steps = []*WorkflowStep{
		{ID: "first", Order: 1},
		{ID: "second", Order: 1},
		{ID: "third", Order: 1},
	}

	steps := workflow.SortedSteps()

	require.Len(t, steps, 3)
	assert.Equal(t, "first", steps[0].ID)
	assert.Equal(t, "second", steps[1].ID)
	assert.Equal(t, "third", steps[2].ID)
}

func TestSortedSteps_DoesNotMutateWorkflow(t *testing.T) {
	workflow := validWorkflow()
	workflow.Steps = []*WorkflowStep{
		{ID: "b", Order: 1},
		{ID: "a", Order: 0},
	}

	_ = workflow.SortedSteps()

	assert.Equal(t, "b", workflow.Steps[0].ID)
}
