// Package web provides HTTP request and response types for the engine API.
package web

import "github.com/corvohq/pulse/pkg/models"

// IngestEventRequest represents one domain event posted by an upstream
// product module.
type IngestEventRequest struct {
	Event    string         `json:"event"     validate:"required"`
	Entity   string         `json:"entity"`
	EntityID string         `json:"entity_id"`
	Data     map[string]any `json:"data"`
}

// CreateWorkflowRequest represents the request body for creating a workflow.
type CreateWorkflowRequest struct {
	Name            string               `json:"name"             validate:"required,min=3"`
	Description     string               `json:"description"`
	TriggerType     models.TriggerType   `json:"trigger_type"     validate:"required,oneof=event schedule manual"`
	TriggerEvent    string               `json:"trigger_event"`
	TriggerSchedule string               `json:"trigger_schedule"`
	IsActive        bool                 `json:"is_active"`
	Steps           []*CreateStepRequest `json:"steps"`
}

// CreateStepRequest represents one step inside a workflow definition.
type CreateStepRequest struct {
	Type   string         `json:"type"   validate:"required"`
	Name   string         `json:"name"   validate:"required,min=1"`
	Config map[string]any `json:"config"`
	Order  int            `json:"order"`
}

// UpdateWorkflowRequest supports partial updates. Nil fields are left
// unchanged.
type UpdateWorkflowRequest struct {
	Name            *string              `json:"name,omitempty"             validate:"omitempty,min=3"`
	Description     *string              `json:"description,omitempty"`
	TriggerType     *models.TriggerType  `json:"trigger_type,omitempty"     validate:"omitempty,oneof=event schedule manual"`
	TriggerEvent    *string              `json:"trigger_event,omitempty"`
	TriggerSchedule *string              `json:"trigger_schedule,omitempty"`
	IsActive        *bool                `json:"is_active,omitempty"`
	Steps           []*CreateStepRequest `json:"steps,omitempty"`
}

// RunWorkflowRequest represents a manual run request.
type RunWorkflowRequest struct {
	Data   map[string]any `json:"data"`
	UserID string         `json:"user_id"`
}

func (r *CreateWorkflowRequest) toModel(tenantID string) *models.Workflow {
	workflow := &models.Workflow{
		TenantID:        tenantID,
		Name:            r.Name,
		Description:     r.Description,
		TriggerType:     r.TriggerType,
		TriggerEvent:    r.TriggerEvent,
		TriggerSchedule: r.TriggerSchedule,
		IsActive:        r.IsActive,
		Steps:           make([]*models.WorkflowStep, 0, len(r.Steps)),
	}

	for _, step := range r.Steps {
		workflow.Steps = append(workflow.Steps, &models.WorkflowStep{
			Type:   step.Type,
			Name:   step.Name,
			Config: step.Config,
			Order:  step.Order,
		})
	}

	return workflow
}
