package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFinalize_AllStepsSucceeded(t *testing.T) {
	execution := &Execution{Status: ExecutionStatusRunning}
	now := time.Now().UTC()

	execution.Finalize([]StepResult{
		{StepID: "s1", Success: true},
		{StepID: "s2", Success: true},
	}, now)

	assert.Equal(t, ExecutionStatusCompleted, execution.Status)
	assert.Empty(t, execution.Error)
	require.NotNil(t, execution.CompletedAt)
	assert.Equal(t, now, *execution.CompletedAt)
}

func TestFinalize_AnyFailureFailsTheRun(t *testing.T) {
	execution := &Execution{Status: ExecutionStatusRunning}

	execution.Finalize([]StepResult{
		{StepID: "s1", Success: true},
		{StepID: "s2", Success: false, Error: "No webhook URL"},
		{StepID: "s3", Success: true},
	}, time.Now().UTC())

	assert.Equal(t, ExecutionStatusFailed, execution.Status)
	assert.Equal(t, "No webhook URL", execution.Error)
}

func TestFinalize_ErrorIsFirstFailure(t *testing.T) {
	execution := &Execution{}

	execution.Finalize([]StepResult{
		{StepID: "s1", Success: false, Error: "first"},
		{StepID: "s2", Success: false, Error: "second"},
	}, time.Now().UTC())

	assert.Equal(t, "first", execution.Error)
}

func TestFinalize_NoSteps(t *testing.T) {
	execution := &Execution{}

	execution.Finalize(nil, time.Now().UTC())

	assert.Equal(t, ExecutionStatusCompleted, execution.Status)
	assert.Empty(t, execution.Error)
}
