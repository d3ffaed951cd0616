// Package contactfield implements the update_contact action.
package contactfield

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/corvohq/pulse/pkg/models"
	"github.com/corvohq/pulse/pkg/persistence"
)

// Action updates one field on the contact resolved from the trigger context
// (data.contact.id, then data.contactId).
type Action struct {
	field    string
	value    any
	contacts persistence.ContactRepository
}

func (a *Action) Execute(ctx context.Context, trigger models.TriggerContext, logger *slog.Logger) (map[string]any, error) {
	if a.field == "" {
		return nil, errors.New("No contact field to update")
	}

	contactID := trigger.ContactID()
	if contactID == "" {
		return nil, errors.New("No contact ID in trigger context")
	}

	if err := a.contacts.UpdateField(ctx, trigger.TenantID, contactID, a.field, a.value); err != nil {
		return nil, fmt.Errorf("failed to update contact %s: %w", contactID, err)
	}

	logger.Info("Contact field updated", "contact_id", contactID, "field", a.field)

	return map[string]any{"contact_id": contactID, "field": a.field}, nil
}
