package subscriptions

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corvohq/pulse/pkg/eventbus"
	"github.com/corvohq/pulse/pkg/events"
	"github.com/corvohq/pulse/pkg/models"
)

type captureBus struct {
	published []eventbus.Event
	err       error
}

func (b *captureBus) Publish(_ context.Context, _ string, event eventbus.Event) error {
	if b.err != nil {
		return b.err
	}

	b.published = append(b.published, event)

	return nil
}

func (b *captureBus) Handle(events.EventType, eventbus.EventHandler) {}

func (b *captureBus) Subscribe(context.Context) error { return nil }

func (b *captureBus) Close() error { return nil }

func (b *captureBus) GenerateID() string { return "generated-id" }

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, nil))
}

func TestNotify_PublishesDelivery(t *testing.T) {
	bus := &captureBus{}
	notifier := NewBusNotifier(bus, testLogger())

	trigger := models.TriggerContext{
		TenantID: "t1",
		Event:    "deal.won",
		Entity:   "deal",
		EntityID: "d-1",
		Data:     map[string]any{"amount": 100.0},
	}

	require.NoError(t, notifier.Notify(context.Background(), trigger))

	require.Len(t, bus.published, 1)

	delivery, ok := bus.published[0].(events.SubscriptionDelivery)
	require.True(t, ok)
	assert.Equal(t, "generated-id", delivery.ID)
	assert.Equal(t, events.SubscriptionDeliveryEvent, delivery.GetType())
	assert.Equal(t, "t1", delivery.TenantID)
	assert.Equal(t, "deal.won", delivery.Event)
	assert.Equal(t, "d-1", delivery.EntityID)
	assert.Equal(t, map[string]any{"amount": 100.0}, delivery.Data)
}

func TestNotify_PublishFailure(t *testing.T) {
	bus := &captureBus{err: errors.New("bus down")}
	notifier := NewBusNotifier(bus, testLogger())

	err := notifier.Notify(context.Background(), models.TriggerContext{TenantID: "t1", Event: "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to publish subscription delivery")
}
