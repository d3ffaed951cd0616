package models

import "time"

// ExecutionStatus is the lifecycle state of one workflow run.
// Transitions: running -> completed | failed. Both end states are terminal.
type ExecutionStatus string

const (
	ExecutionStatusRunning   ExecutionStatus = "running"
	ExecutionStatusCompleted ExecutionStatus = "completed"
	ExecutionStatusFailed    ExecutionStatus = "failed"
)

// StepResult is the recorded outcome of one step attempt.
type StepResult struct {
	StepID  string         `json:"step_id"`
	Name    string         `json:"name,omitempty"`
	Success bool           `json:"success"`
	Output  map[string]any `json:"output,omitempty"`
	Error   string         `json:"error,omitempty"`
}

// Execution is the audit record of one run of one workflow. Exactly one row
// is created per run and exactly one terminal update is made; the engine
// never deletes executions.
type Execution struct {
	ID          string          `json:"id"`
	WorkflowID  string          `json:"workflow_id"`
	TenantID    string          `json:"tenant_id"`
	Status      ExecutionStatus `json:"status"`
	TriggerData map[string]any  `json:"trigger_data,omitempty"`
	Result      []StepResult    `json:"result,omitempty"`
	Error       string          `json:"error,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	CompletedAt *time.Time      `json:"completed_at,omitempty"`
}

// Finalize moves the execution to its terminal state: failed if any step
// outcome failed, completed otherwise. Error carries the first failing
// step's message.
func (e *Execution) Finalize(results []StepResult, completedAt time.Time) {
	e.Result = results
	e.Status = ExecutionStatusCompleted
	e.CompletedAt = &completedAt

	for _, r := range results {
		if !r.Success {
			e.Status = ExecutionStatusFailed
			e.Error = r.Error

			break
		}
	}
}
