// Package registry maps action type names to their factories.
package registry

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/corvohq/pulse/pkg/protocol"
)

// ErrUnknownAction is wrapped into the per-step error for unrecognized types.
// The message is part of the execution audit contract.
var ErrUnknownAction = errors.New("Unknown action type")

type Registry struct {
	logger          *slog.Logger
	actionFactories map[string]protocol.ActionFactory
}

func NewRegistry(logger *slog.Logger) *Registry {
	return &Registry{
		logger:          logger,
		actionFactories: make(map[string]protocol.ActionFactory),
	}
}

func (r *Registry) RegisterAction(factory protocol.ActionFactory) {
	r.actionFactories[factory.ID()] = factory
	r.logger.Debug("Registered action type", "action_type", factory.ID())
}

// CreateAction builds a typed action for the given step type and config.
func (r *Registry) CreateAction(actionType string, config map[string]any) (protocol.Action, error) {
	factory, ok := r.actionFactories[actionType]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownAction, actionType)
	}

	return factory.Create(config)
}

// ActionTypes returns the registered action type names.
func (r *Registry) ActionTypes() []string {
	types := make([]string, 0, len(r.actionFactories))
	for actionType := range r.actionFactories {
		types = append(types, actionType)
	}

	return types
}
