// Package web provides the HTTP handlers of the engine API.
package web

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"

	"github.com/corvohq/pulse/pkg/models"
	"github.com/corvohq/pulse/pkg/workflow"
)

// TenantHeader carries the tenant identity resolved by the upstream
// gateway. Requests without it are rejected.
const TenantHeader = "X-Tenant-ID"

type APIHandlers struct {
	repository *workflow.Repository
	runner     *workflow.Runner
	dispatcher *workflow.Dispatcher
	validator  *validator.Validate
}

func NewAPIHandlers(
	repository *workflow.Repository,
	runner *workflow.Runner,
	dispatcher *workflow.Dispatcher,
	validator *validator.Validate,
) *APIHandlers {
	return &APIHandlers{
		repository: repository,
		runner:     runner,
		dispatcher: dispatcher,
		validator:  validator,
	}
}

func tenantID(c fiber.Ctx) string {
	return c.Get(TenantHeader)
}

// IngestEvent accepts one domain event and dispatches it. The response is
// 202 regardless of how many workflows match; runs happen after the
// response is sent.
func (h *APIHandlers) IngestEvent(c fiber.Ctx) error {
	tenant := tenantID(c)
	if tenant == "" {
		return badRequest(c, "Tenant header is required")
	}

	var req IngestEventRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	h.dispatcher.Dispatch(c.Context(), tenant, req.Event, req.Entity, req.EntityID, req.Data)

	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
		"status": "accepted",
		"event":  req.Event,
	})
}

func (h *APIHandlers) GetWorkflows(c fiber.Ctx) error {
	tenant := tenantID(c)
	if tenant == "" {
		return badRequest(c, "Tenant header is required")
	}

	workflows, err := h.repository.FetchAll(c.Context(), tenant)
	if err != nil {
		return internalError(c, err)
	}

	return c.JSON(fiber.Map{"workflows": workflows})
}

func (h *APIHandlers) GetWorkflow(c fiber.Ctx) error {
	tenant := tenantID(c)
	if tenant == "" {
		return badRequest(c, "Tenant header is required")
	}

	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Workflow ID is required")
	}

	wf, err := h.repository.FetchByID(c.Context(), tenant, id)
	if err != nil {
		return handleRepositoryError(c, err)
	}

	return c.JSON(wf)
}

func (h *APIHandlers) CreateWorkflow(c fiber.Ctx) error {
	tenant := tenantID(c)
	if tenant == "" {
		return badRequest(c, "Tenant header is required")
	}

	var req CreateWorkflowRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	created, err := h.repository.Create(c.Context(), req.toModel(tenant))
	if err != nil {
		return badRequest(c, err.Error())
	}

	return c.Status(fiber.StatusCreated).JSON(created)
}

func (h *APIHandlers) UpdateWorkflow(c fiber.Ctx) error {
	tenant := tenantID(c)
	if tenant == "" {
		return badRequest(c, "Tenant header is required")
	}

	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Workflow ID is required")
	}

	var req UpdateWorkflowRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	existing, err := h.repository.FetchByID(c.Context(), tenant, id)
	if err != nil {
		return handleRepositoryError(c, err)
	}

	applyWorkflowUpdate(existing, &req)

	updated, err := h.repository.Update(c.Context(), tenant, id, existing)
	if err != nil {
		return badRequest(c, err.Error())
	}

	return c.JSON(updated)
}

func applyWorkflowUpdate(wf *models.Workflow, req *UpdateWorkflowRequest) {
	if req.Name != nil {
		wf.Name = *req.Name
	}

	if req.Description != nil {
		wf.Description = *req.Description
	}

	if req.TriggerType != nil {
		wf.TriggerType = *req.TriggerType
	}

	if req.TriggerEvent != nil {
		wf.TriggerEvent = *req.TriggerEvent
	}

	if req.TriggerSchedule != nil {
		wf.TriggerSchedule = *req.TriggerSchedule
	}

	if req.IsActive != nil {
		wf.IsActive = *req.IsActive
	}

	if req.Steps != nil {
		steps := make([]*models.WorkflowStep, 0, len(req.Steps))
		for _, step := range req.Steps {
			steps = append(steps, &models.WorkflowStep{
				Type:   step.Type,
				Name:   step.Name,
				Config: step.Config,
				Order:  step.Order,
			})
		}

		wf.Steps = steps
	}
}

func (h *APIHandlers) DeleteWorkflow(c fiber.Ctx) error {
	tenant := tenantID(c)
	if tenant == "" {
		return badRequest(c, "Tenant header is required")
	}

	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Workflow ID is required")
	}

	if err := h.repository.Delete(c.Context(), tenant, id); err != nil {
		return handleRepositoryError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// RunWorkflow starts a manual run and waits for it to finish. Manual runs
// skip trigger matching but the workflow must exist, belong to the tenant,
// and be active.
func (h *APIHandlers) RunWorkflow(c fiber.Ctx) error {
	tenant := tenantID(c)
	if tenant == "" {
		return badRequest(c, "Tenant header is required")
	}

	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Workflow ID is required")
	}

	var req RunWorkflowRequest
	if len(c.Body()) > 0 {
		if err := c.Bind().JSON(&req); err != nil {
			return badRequest(c, "Invalid JSON format")
		}
	}

	data := req.Data
	if req.UserID != "" {
		if data == nil {
			data = map[string]any{}
		}

		data["userId"] = req.UserID
	}

	trigger := models.TriggerContext{
		TenantID: tenant,
		Event:    "manual.run",
		Data:     data,
	}

	result, err := h.runner.Run(c.Context(), tenant, id, trigger)
	if err != nil {
		if errors.Is(err, workflow.ErrWorkflowInactive) {
			return badRequest(c, "Workflow is not active")
		}

		return handleRepositoryError(c, err)
	}

	return c.JSON(result)
}

func (h *APIHandlers) GetWorkflowExecutions(c fiber.Ctx) error {
	tenant := tenantID(c)
	if tenant == "" {
		return badRequest(c, "Tenant header is required")
	}

	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Workflow ID is required")
	}

	if _, err := h.repository.FetchByID(c.Context(), tenant, id); err != nil {
		return handleRepositoryError(c, err)
	}

	executions, err := h.repository.Executions(c.Context(), tenant, id)
	if err != nil {
		return internalError(c, err)
	}

	return c.JSON(fiber.Map{"executions": executions})
}

func (h *APIHandlers) GetExecution(c fiber.Ctx) error {
	tenant := tenantID(c)
	if tenant == "" {
		return badRequest(c, "Tenant header is required")
	}

	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Execution ID is required")
	}

	execution, err := h.repository.Execution(c.Context(), tenant, id)
	if err != nil {
		return handleRepositoryError(c, err)
	}

	return c.JSON(execution)
}

func (h *APIHandlers) HealthCheck(c fiber.Ctx) error {
	repositoryCheck, repOk := h.repository.HealthCheck(c.Context())

	status := "unhealthy"
	httpStatus := http.StatusInternalServerError

	if repOk {
		status = "healthy"
		httpStatus = http.StatusOK
	}

	return c.Status(httpStatus).JSON(fiber.Map{
		"status": status,
		"checkers": fiber.Map{
			"repository": repositoryCheck,
		},
		"timestamp": time.Now().UTC(),
	})
}
