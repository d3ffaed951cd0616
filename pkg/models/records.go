package models

import (
	"fmt"
	"time"
)

// Task is a to-do row created by the create_task action.
type Task struct {
	ID         string    `json:"id"`
	TenantID   string    `json:"tenant_id"`
	Title      string    `json:"title"`
	AssignedTo string    `json:"assigned_to,omitempty"`
	ContactID  string    `json:"contact_id,omitempty"`
	Status     string    `json:"status"`
	DueAt      time.Time `json:"due_at"`
	CreatedAt  time.Time `json:"created_at"`
}

const TaskStatusPending = "pending"

// Contact is the slice of the CRM contact record the engine touches. Known
// columns are typed; everything else lives in Fields.
type Contact struct {
	ID        string         `json:"id"`
	TenantID  string         `json:"tenant_id"`
	Name      string         `json:"name,omitempty"`
	Email     string         `json:"email,omitempty"`
	Phone     string         `json:"phone,omitempty"`
	Fields    map[string]any `json:"fields,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// SetField updates a single named field, mapping known columns and storing
// anything else as a custom field.
func (c *Contact) SetField(field string, value any) error {
	switch field {
	case "name":
		c.Name = fmt.Sprintf("%v", value)
	case "email":
		c.Email = fmt.Sprintf("%v", value)
	case "phone":
		c.Phone = fmt.Sprintf("%v", value)
	case "":
		return fmt.Errorf("contact field name is empty")
	default:
		if c.Fields == nil {
			c.Fields = make(map[string]any)
		}

		c.Fields[field] = value
	}

	return nil
}

// Activity is an activity-feed entry, attributed to a user and attached to a
// contact or a deal.
type Activity struct {
	ID        string    `json:"id"`
	TenantID  string    `json:"tenant_id"`
	Kind      string    `json:"kind"`
	Body      string    `json:"body"`
	ContactID string    `json:"contact_id,omitempty"`
	DealID    string    `json:"deal_id,omitempty"`
	UserID    string    `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

const ActivityKindNote = "note"
