// Package events defines event types for engine lifecycle notifications.
package events

import (
	"time"

	"github.com/corvohq/pulse/pkg/models"
)

type EventType string

// Bus topics.
const Topic = "pulse.engine"                     // Engine lifecycle events
const SubscriptionTopic = "pulse.subscriptions"  // Webhook-subscription deliveries

const EventMetadataKey = "key"
const EventTypeMetadataKey = "event_type"

const (
	TriggerDispatchedEvent  EventType = "trigger.dispatched"
	ExecutionStartedEvent   EventType = "execution.started"
	ExecutionCompletedEvent EventType = "execution.completed"
	ExecutionFailedEvent    EventType = "execution.failed"

	SubscriptionDeliveryEvent EventType = "subscription.delivery"
)

type BaseEvent struct {
	ID         string         `json:"id"`
	Type       EventType      `json:"type"`
	Timestamp  time.Time      `json:"timestamp"`
	TenantID   string         `json:"tenant_id"`
	WorkflowID string         `json:"workflow_id,omitempty"`
	Metadata   map[string]any `json:"metadata,omitempty"`
}

// TriggerDispatched is published once per dispatched domain event, after
// matching workflows were handed to the runner pool.
type TriggerDispatched struct {
	BaseEvent

	Event    string `json:"event"`
	Entity   string `json:"entity,omitempty"`
	EntityID string `json:"entity_id,omitempty"`
	Matched  int    `json:"matched"`
}

func (e TriggerDispatched) GetType() EventType {
	return TriggerDispatchedEvent
}

type ExecutionStarted struct {
	BaseEvent

	ExecutionID string `json:"execution_id"`
	Event       string `json:"event,omitempty"`
}

func (e ExecutionStarted) GetType() EventType {
	return ExecutionStartedEvent
}

type ExecutionCompleted struct {
	BaseEvent

	ExecutionID string        `json:"execution_id"`
	Duration    time.Duration `json:"duration"`
	StepCount   int           `json:"step_count"`
}

func (e ExecutionCompleted) GetType() EventType {
	return ExecutionCompletedEvent
}

type ExecutionFailed struct {
	BaseEvent

	ExecutionID string        `json:"execution_id"`
	Duration    time.Duration `json:"duration"`
	Error       string        `json:"error"`
}

func (e ExecutionFailed) GetType() EventType {
	return ExecutionFailedEvent
}

// SubscriptionDelivery carries one domain event to the webhook-subscription
// delivery workers. It is the co-dispatched side channel, independent of
// workflow execution.
type SubscriptionDelivery struct {
	BaseEvent

	Event    string         `json:"event"`
	Entity   string         `json:"entity,omitempty"`
	EntityID string         `json:"entity_id,omitempty"`
	Data     map[string]any `json:"data,omitempty"`
}

func (e SubscriptionDelivery) GetType() EventType {
	return SubscriptionDeliveryEvent
}

// NewSubscriptionDelivery builds the delivery payload for one trigger context.
func NewSubscriptionDelivery(id string, trigger models.TriggerContext) SubscriptionDelivery {
	return SubscriptionDelivery{
		BaseEvent: BaseEvent{
			ID:        id,
			Type:      SubscriptionDeliveryEvent,
			Timestamp: time.Now().UTC(),
			TenantID:  trigger.TenantID,
		},
		Event:    trigger.Event,
		Entity:   trigger.Entity,
		EntityID: trigger.EntityID,
		Data:     trigger.Data,
	}
}
