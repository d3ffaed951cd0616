// Package persistence provides standardized error types for persistence operations.
package persistence

import "errors"

// Standard persistence error types that all implementations should use.
var (
	// ErrWorkflowNotFound indicates a workflow was not found for the given tenant and id.
	ErrWorkflowNotFound = errors.New("workflow not found")

	// ErrExecutionNotFound indicates an execution was not found for the given tenant and id.
	ErrExecutionNotFound = errors.New("execution not found")

	// ErrContactNotFound indicates a contact was not found for the given tenant and id.
	ErrContactNotFound = errors.New("contact not found")
)

// IsWorkflowNotFound checks if an error indicates a workflow was not found.
func IsWorkflowNotFound(err error) bool {
	return errors.Is(err, ErrWorkflowNotFound)
}

// IsExecutionNotFound checks if an error indicates an execution was not found.
func IsExecutionNotFound(err error) bool {
	return errors.Is(err, ErrExecutionNotFound)
}

// IsContactNotFound checks if an error indicates a contact was not found.
func IsContactNotFound(err error) bool {
	return errors.Is(err, ErrContactNotFound)
}
