package protocol

import (
	"context"

	"github.com/corvohq/pulse/pkg/models"
)

// Notifier is the webhook-subscription side channel, dispatched alongside
// workflow execution for every domain event. Its failures are logged by the
// dispatcher and never affect workflow runs or the caller.
type Notifier interface {
	Notify(ctx context.Context, trigger models.TriggerContext) error
}
