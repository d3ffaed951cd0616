package models

import "strconv"

// TriggerContext carries the runtime parameters of one triggering occurrence.
// It is built by the caller at dispatch time, never persisted directly, and
// snapshotted onto the execution record.
type TriggerContext struct {
	TenantID string         `json:"tenant_id"`
	Event    string         `json:"event"`
	Entity   string         `json:"entity,omitempty"`
	EntityID string         `json:"entity_id,omitempty"`
	Data     map[string]any `json:"data,omitempty"`
}

// Snapshot returns the persistable form of the context stored on executions.
func (c TriggerContext) Snapshot() map[string]any {
	return map[string]any{
		"event":     c.Event,
		"entity":    c.Entity,
		"entity_id": c.EntityID,
		"data":      c.Data,
	}
}

// RecipientEmail resolves a recipient address from the context data:
// data.contact.email first, then data.customer.email.
func (c TriggerContext) RecipientEmail() string {
	if v := c.sectionField("contact", "email"); v != "" {
		return v
	}

	return c.sectionField("customer", "email")
}

// RecipientPhone resolves a recipient phone number from the context data:
// data.contact.phone first, then data.customer.phone.
func (c TriggerContext) RecipientPhone() string {
	if v := c.sectionField("contact", "phone"); v != "" {
		return v
	}

	return c.sectionField("customer", "phone")
}

// ContactID resolves the related contact: data.contact.id, then data.contactId.
func (c TriggerContext) ContactID() string {
	if v := c.sectionField("contact", "id"); v != "" {
		return v
	}

	return stringify(c.Data["contactId"])
}

// DealID resolves the related deal from data.deal.id.
func (c TriggerContext) DealID() string {
	return c.sectionField("deal", "id")
}

// UserID resolves the acting user from data.userId.
func (c TriggerContext) UserID() string {
	return stringify(c.Data["userId"])
}

func (c TriggerContext) sectionField(section, key string) string {
	raw, ok := c.Data[section]
	if !ok {
		return ""
	}

	m, ok := raw.(map[string]any)
	if !ok {
		return ""
	}

	return stringify(m[key])
}

// stringify normalizes context values that may arrive as strings or JSON
// numbers (float64 after unmarshalling).
func stringify(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case float64:
		if val == float64(int64(val)) {
			return strconv.FormatInt(int64(val), 10)
		}

		return strconv.FormatFloat(val, 'f', -1, 64)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	default:
		return ""
	}
}
