// Package subscriptions delivers domain events to tenant webhook
// subscriptions, independently of workflow execution.
package subscriptions

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/corvohq/pulse/pkg/eventbus"
	"github.com/corvohq/pulse/pkg/events"
	"github.com/corvohq/pulse/pkg/models"
)

// BusNotifier publishes one delivery event per trigger onto the
// subscription topic, where delivery workers pick it up.
type BusNotifier struct {
	bus    eventbus.EventBus
	logger *slog.Logger
}

func NewBusNotifier(bus eventbus.EventBus, logger *slog.Logger) *BusNotifier {
	return &BusNotifier{
		bus:    bus,
		logger: logger.With("module", "subscriptions"),
	}
}

func (n *BusNotifier) Notify(ctx context.Context, trigger models.TriggerContext) error {
	delivery := events.NewSubscriptionDelivery(n.bus.GenerateID(), trigger)

	if err := n.bus.Publish(ctx, delivery.ID, delivery); err != nil {
		return fmt.Errorf("failed to publish subscription delivery: %w", err)
	}

	n.logger.Debug("Subscription delivery published",
		"tenant_id", trigger.TenantID,
		"event", trigger.Event,
	)

	return nil
}
