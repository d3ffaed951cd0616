// Package models defines the core domain models for the workflow automation engine.
package models

import (
	"fmt"
	"sort"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/robfig/cron/v3"
)

// TriggerType identifies what starts a workflow.
type TriggerType string

const (
	TriggerTypeEvent    TriggerType = "event"    // Fired by a domain event (contact.created, ...)
	TriggerTypeSchedule TriggerType = "schedule" // Fired by the cron scheduler
	TriggerTypeManual   TriggerType = "manual"   // Fired explicitly through the API/CLI
)

// Workflow is a stored automation definition: a trigger plus an ordered list
// of steps. Workflows are authored by the builder UI and are read-only to the
// engine; execution never mutates them.
type Workflow struct {
	ID              string          `json:"id"`
	TenantID        string          `json:"tenant_id"        validate:"required"`
	Name            string          `json:"name"             validate:"required,min=3"`
	Description     string          `json:"description,omitempty"`
	TriggerType     TriggerType     `json:"trigger_type"     validate:"required,oneof=event schedule manual"`
	TriggerEvent    string          `json:"trigger_event,omitempty"`
	TriggerSchedule string          `json:"trigger_schedule,omitempty"`
	IsActive        bool            `json:"is_active"`
	Steps           []*WorkflowStep `json:"steps"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
	DeletedAt       *time.Time      `json:"deleted_at,omitempty"`
}

// WorkflowStep is one action within a workflow. Config is the action-specific
// key/value document produced by the builder; each action factory decodes it
// into its own typed configuration.
type WorkflowStep struct {
	ID     string         `json:"id"`
	Type   string         `json:"type" validate:"required"`
	Name   string         `json:"name"`
	Config map[string]any `json:"config"`
	Order  int            `json:"order"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks the definition-time invariants of a workflow. Step configs
// are validated separately against their action schemas by the registry.
func (w *Workflow) Validate() error {
	if err := validate.Struct(w); err != nil {
		return fmt.Errorf("invalid workflow: %w", err)
	}

	switch w.TriggerType {
	case TriggerTypeEvent:
		if w.TriggerEvent == "" {
			return fmt.Errorf("workflow %q: trigger_event is required for event workflows", w.Name)
		}
	case TriggerTypeSchedule:
		if w.TriggerSchedule == "" {
			return fmt.Errorf("workflow %q: trigger_schedule is required for schedule workflows", w.Name)
		}

		if _, err := cron.ParseStandard(w.TriggerSchedule); err != nil {
			return fmt.Errorf("workflow %q: invalid cron expression: %w", w.Name, err)
		}
	case TriggerTypeManual:
	}

	return nil
}

// SortedSteps returns the steps in execution order, ascending by Order. The
// sort is stable, so steps sharing an Order value keep their stored sequence.
// Duplicate Order values are not rejected.
func (w *Workflow) SortedSteps() []*WorkflowStep {
	steps := make([]*WorkflowStep, len(w.Steps))
	copy(steps, w.Steps)

	sort.SliceStable(steps, func(i, j int) bool {
		return steps[i].Order < steps[j].Order
	})

	return steps
}
