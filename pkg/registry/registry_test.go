package registry

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corvohq/pulse/pkg/models"
	"github.com/corvohq/pulse/pkg/protocol"
)

type stubAction struct{}

func (stubAction) Execute(_ context.Context, _ models.TriggerContext, _ *slog.Logger) (map[string]any, error) {
	return map[string]any{"ok": true}, nil
}

type stubFactory struct {
	id     string
	schema map[string]any
}

func (f stubFactory) ID() string { return f.id }

func (f stubFactory) Create(_ map[string]any) (protocol.Action, error) {
	return stubAction{}, nil
}

func (f stubFactory) Schema() map[string]any { return f.schema }

func testRegistry() *Registry {
	return NewRegistry(slog.New(slog.NewTextHandler(os.Stdout, nil)))
}

func TestCreateAction_Registered(t *testing.T) {
	reg := testRegistry()
	reg.RegisterAction(stubFactory{id: "noop"})

	action, err := reg.CreateAction("noop", nil)
	require.NoError(t, err)
	assert.NotNil(t, action)
}

func TestCreateAction_UnknownType(t *testing.T) {
	reg := testRegistry()

	_, err := reg.CreateAction("send_telegram", nil)
	require.Error(t, err)
	assert.Equal(t, "Unknown action type: send_telegram", err.Error())
	assert.True(t, errors.Is(err, ErrUnknownAction))
}

func TestActionTypes(t *testing.T) {
	reg := testRegistry()
	reg.RegisterAction(stubFactory{id: "a"})
	reg.RegisterAction(stubFactory{id: "b"})

	assert.ElementsMatch(t, []string{"a", "b"}, reg.ActionTypes())
}

func TestValidateConfig_AgainstSchema(t *testing.T) {
	reg := testRegistry()
	reg.RegisterAction(stubFactory{
		id: "needy",
		schema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"url": map[string]any{"type": "string"},
			},
			"required": []string{"url"},
		},
	})

	assert.NoError(t, reg.ValidateConfig("needy", map[string]any{"url": "https://example.com"}))

	err := reg.ValidateConfig("needy", map[string]any{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid needy config")
}

func TestValidateConfig_NoSchemaAcceptsAnything(t *testing.T) {
	reg := testRegistry()
	reg.RegisterAction(stubFactory{id: "loose"})

	assert.NoError(t, reg.ValidateConfig("loose", map[string]any{"anything": 1}))
	assert.NoError(t, reg.ValidateConfig("loose", nil))
}

func TestValidateConfig_UnknownType(t *testing.T) {
	reg := testRegistry()

	err := reg.ValidateConfig("ghost", nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownAction))
}

func TestValidateSteps(t *testing.T) {
	reg := testRegistry()
	reg.RegisterAction(stubFactory{
		id: "needy",
		schema: map[string]any{
			"type":       "object",
			"properties": map[string]any{"url": map[string]any{"type": "string"}},
			"required":   []string{"url"},
		},
	})

	workflow := &models.Workflow{
		Steps: []*models.WorkflowStep{
			{Name: "hook", Type: "needy", Config: map[string]any{"url": "https://example.com"}},
		},
	}
	assert.NoError(t, reg.ValidateSteps(workflow))

	workflow.Steps = append(workflow.Steps, &models.WorkflowStep{Name: "bad hook", Type: "needy"})
	err := reg.ValidateSteps(workflow)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `step "bad hook"`)
}
