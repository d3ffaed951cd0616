// Package protocol defines the interfaces and contracts between the engine
// and its pluggable actions and external collaborators.
package protocol

import (
	"context"
	"log/slog"

	"github.com/corvohq/pulse/pkg/models"
)

// Action executes one configured step against a trigger context. An error
// return marks the step failed; the step executor converts it into a
// structured outcome and never lets it escape the run.
type Action interface {
	Execute(ctx context.Context, trigger models.TriggerContext, logger *slog.Logger) (map[string]any, error)
}

// ActionFactory builds typed actions from the generic step config document.
// Create fails when required configuration is missing; the failure is
// reported as that step's outcome.
type ActionFactory interface {
	Create(config map[string]any) (Action, error)
	ID() string
	Schema() map[string]any
}
