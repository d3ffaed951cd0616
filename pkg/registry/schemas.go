package registry

import (
	"fmt"

	"github.com/xeipuuv/gojsonschema"

	"github.com/corvohq/pulse/pkg/models"
)

// ValidateConfig checks a step config document against the JSON schema
// published by the action's factory. Used at definition time so builder
// mistakes fail before any run.
func (r *Registry) ValidateConfig(actionType string, config map[string]any) error {
	factory, ok := r.actionFactories[actionType]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownAction, actionType)
	}

	schema := factory.Schema()
	if schema == nil {
		return nil
	}

	if config == nil {
		config = map[string]any{}
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewGoLoader(schema),
		gojsonschema.NewGoLoader(config),
	)
	if err != nil {
		return fmt.Errorf("failed to validate %s config: %w", actionType, err)
	}

	if !result.Valid() {
		first := result.Errors()[0]

		return fmt.Errorf("invalid %s config: %s", actionType, first.String())
	}

	return nil
}

// ValidateSteps validates every step of a workflow definition: recognized
// type and schema-conformant config.
func (r *Registry) ValidateSteps(workflow *models.Workflow) error {
	for _, step := range workflow.Steps {
		if err := r.ValidateConfig(step.Type, step.Config); err != nil {
			return fmt.Errorf("step %q: %w", step.Name, err)
		}
	}

	return nil
}
