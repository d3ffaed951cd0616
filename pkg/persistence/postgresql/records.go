package postgresql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/corvohq/pulse/pkg/models"
	"github.com/corvohq/pulse/pkg/persistence"
)

// TaskRepository persists tasks created by workflow steps.
type TaskRepository struct {
	db *sql.DB
}

func (r *TaskRepository) Create(ctx context.Context, task *models.Task) error {
	query := `
		INSERT INTO tasks (id, tenant_id, title, assigned_to, contact_id, status, due_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.ExecContext(ctx, query,
		task.ID, task.TenantID, task.Title, nullable(task.AssignedTo),
		nullable(task.ContactID), task.Status, task.DueAt, task.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create task: %w", err)
	}

	return nil
}

func (r *TaskRepository) ByTenant(ctx context.Context, tenantID string) ([]*models.Task, error) {
	query := `
		SELECT id, tenant_id, title, assigned_to, contact_id, status, due_at, created_at
		FROM tasks
		WHERE tenant_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to query tasks: %w", err)
	}
	defer rows.Close()

	tasks := make([]*models.Task, 0)

	for rows.Next() {
		var (
			task       models.Task
			assignedTo sql.NullString
			contactID  sql.NullString
		)

		err := rows.Scan(&task.ID, &task.TenantID, &task.Title, &assignedTo,
			&contactID, &task.Status, &task.DueAt, &task.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}

		task.AssignedTo = assignedTo.String
		task.ContactID = contactID.String
		tasks = append(tasks, &task)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tasks: %w", err)
	}

	return tasks, nil
}

// ContactRepository persists the contact fields the engine reads and updates.
type ContactRepository struct {
	db *sql.DB
}

func (r *ContactRepository) ByID(ctx context.Context, tenantID, id string) (*models.Contact, error) {
	query := `
		SELECT id, tenant_id, name, email, phone, fields, created_at, updated_at
		FROM contacts
		WHERE tenant_id = $1 AND id = $2
	`

	var (
		contact    models.Contact
		name       sql.NullString
		email      sql.NullString
		phone      sql.NullString
		fieldsJSON []byte
	)

	err := r.db.QueryRowContext(ctx, query, tenantID, id).Scan(
		&contact.ID, &contact.TenantID, &name, &email, &phone,
		&fieldsJSON, &contact.CreatedAt, &contact.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, persistence.ErrContactNotFound
		}

		return nil, fmt.Errorf("failed to scan contact: %w", err)
	}

	contact.Name = name.String
	contact.Email = email.String
	contact.Phone = phone.String

	if len(fieldsJSON) > 0 {
		if err := json.Unmarshal(fieldsJSON, &contact.Fields); err != nil {
			return nil, fmt.Errorf("failed to unmarshal contact fields: %w", err)
		}
	}

	return &contact, nil
}

func (r *ContactRepository) Save(ctx context.Context, contact *models.Contact) error {
	now := time.Now().UTC()

	if contact.CreatedAt.IsZero() {
		contact.CreatedAt = now
	}

	contact.UpdatedAt = now

	fieldsJSON, err := json.Marshal(contact.Fields)
	if err != nil {
		return fmt.Errorf("failed to marshal contact fields: %w", err)
	}

	query := `
		INSERT INTO contacts (id, tenant_id, name, email, phone, fields, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (tenant_id, id) DO UPDATE SET
			name = EXCLUDED.name,
			email = EXCLUDED.email,
			phone = EXCLUDED.phone,
			fields = EXCLUDED.fields,
			updated_at = EXCLUDED.updated_at
	`

	_, err = r.db.ExecContext(ctx, query,
		contact.ID, contact.TenantID, nullable(contact.Name), nullable(contact.Email),
		nullable(contact.Phone), fieldsJSON, contact.CreatedAt, contact.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save contact: %w", err)
	}

	return nil
}

func (r *ContactRepository) UpdateField(ctx context.Context, tenantID, id, field string, value any) error {
	contact, err := r.ByID(ctx, tenantID, id)
	if err != nil {
		return err
	}

	if err := contact.SetField(field, value); err != nil {
		return err
	}

	return r.Save(ctx, contact)
}

// ActivityRepository persists activity-feed entries.
type ActivityRepository struct {
	db *sql.DB
}

func (r *ActivityRepository) Create(ctx context.Context, activity *models.Activity) error {
	query := `
		INSERT INTO activities (id, tenant_id, kind, body, contact_id, deal_id, user_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.ExecContext(ctx, query,
		activity.ID, activity.TenantID, activity.Kind, activity.Body,
		nullable(activity.ContactID), nullable(activity.DealID),
		activity.UserID, activity.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create activity: %w", err)
	}

	return nil
}

func (r *ActivityRepository) ByContact(ctx context.Context, tenantID, contactID string) ([]*models.Activity, error) {
	query := `
		SELECT id, tenant_id, kind, body, contact_id, deal_id, user_id, created_at
		FROM activities
		WHERE tenant_id = $1 AND contact_id = $2
		ORDER BY created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, tenantID, contactID)
	if err != nil {
		return nil, fmt.Errorf("failed to query activities: %w", err)
	}
	defer rows.Close()

	activities := make([]*models.Activity, 0)

	for rows.Next() {
		var (
			activity  models.Activity
			contactID sql.NullString
			dealID    sql.NullString
		)

		err := rows.Scan(&activity.ID, &activity.TenantID, &activity.Kind, &activity.Body,
			&contactID, &dealID, &activity.UserID, &activity.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan activity: %w", err)
		}

		activity.ContactID = contactID.String
		activity.DealID = dealID.String
		activities = append(activities, &activity)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating activities: %w", err)
	}

	return activities, nil
}
