// Package note implements the add_note action.
package note

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/corvohq/pulse/pkg/models"
	"github.com/corvohq/pulse/pkg/persistence"
)

// Action creates an activity-feed note against the contact or deal from the
// trigger context, attributed to the acting user (data.userId, falling back
// to config.userId).
type Action struct {
	body       string
	userID     string
	activities persistence.ActivityRepository
}

func (a *Action) Execute(ctx context.Context, trigger models.TriggerContext, logger *slog.Logger) (map[string]any, error) {
	contactID := trigger.ContactID()
	dealID := ""

	if contactID == "" {
		dealID = trigger.DealID()
		if dealID == "" {
			return nil, errors.New("No contact or deal to attach note to")
		}
	}

	userID := trigger.UserID()
	if userID == "" {
		userID = a.userID
	}

	if userID == "" {
		return nil, errors.New("Add note requires user context (userId)")
	}

	activity := &models.Activity{
		ID:        uuid.New().String(),
		TenantID:  trigger.TenantID,
		Kind:      models.ActivityKindNote,
		Body:      a.body,
		ContactID: contactID,
		DealID:    dealID,
		UserID:    userID,
		CreatedAt: time.Now().UTC(),
	}

	if err := a.activities.Create(ctx, activity); err != nil {
		return nil, fmt.Errorf("failed to create note: %w", err)
	}

	logger.Info("Note added", "activity_id", activity.ID, "contact_id", contactID, "deal_id", dealID)

	return map[string]any{"activity_id": activity.ID}, nil
}
