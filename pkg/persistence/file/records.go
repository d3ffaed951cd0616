package file

import (
	"context"
	"os"
	"time"

	"github.com/corvohq/pulse/pkg/models"
	"github.com/corvohq/pulse/pkg/persistence"
)

const (
	taskCollection     = "tasks"
	contactCollection  = "contacts"
	activityCollection = "activities"
)

// TaskRepository handles task records on the file system.
type TaskRepository struct {
	store *Persistence
}

func (p *Persistence) Tasks() persistence.TaskRepository {
	return p.taskRepo
}

func (r *TaskRepository) Create(_ context.Context, task *models.Task) error {
	return r.store.write(taskCollection, task.TenantID, task.ID, task)
}

func (r *TaskRepository) ByTenant(_ context.Context, tenantID string) ([]*models.Task, error) {
	ids, err := r.store.ids(taskCollection, tenantID)
	if err != nil {
		return nil, err
	}

	tasks := make([]*models.Task, 0, len(ids))

	for _, id := range ids {
		var task models.Task
		if err := r.store.read(taskCollection, tenantID, id, &task); err != nil {
			return nil, err
		}

		tasks = append(tasks, &task)
	}

	return tasks, nil
}

// ContactRepository handles contact records on the file system.
type ContactRepository struct {
	store *Persistence
}

func (p *Persistence) Contacts() persistence.ContactRepository {
	return p.contactRepo
}

func (r *ContactRepository) ByID(_ context.Context, tenantID, id string) (*models.Contact, error) {
	var contact models.Contact

	err := r.store.read(contactCollection, tenantID, id, &contact)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, persistence.ErrContactNotFound
		}

		return nil, err
	}

	return &contact, nil
}

func (r *ContactRepository) Save(_ context.Context, contact *models.Contact) error {
	return r.store.write(contactCollection, contact.TenantID, contact.ID, contact)
}

func (r *ContactRepository) UpdateField(ctx context.Context, tenantID, id, field string, value any) error {
	contact, err := r.ByID(ctx, tenantID, id)
	if err != nil {
		return err
	}

	if err := contact.SetField(field, value); err != nil {
		return err
	}

	contact.UpdatedAt = time.Now().UTC()

	return r.Save(ctx, contact)
}

// ActivityRepository handles activity-feed records on the file system.
type ActivityRepository struct {
	store *Persistence
}

func (p *Persistence) Activities() persistence.ActivityRepository {
	return p.activityRepo
}

func (r *ActivityRepository) Create(_ context.Context, activity *models.Activity) error {
	return r.store.write(activityCollection, activity.TenantID, activity.ID, activity)
}

func (r *ActivityRepository) ByContact(_ context.Context, tenantID, contactID string) ([]*models.Activity, error) {
	ids, err := r.store.ids(activityCollection, tenantID)
	if err != nil {
		return nil, err
	}

	activities := make([]*models.Activity, 0)

	for _, id := range ids {
		var activity models.Activity
		if err := r.store.read(activityCollection, tenantID, id, &activity); err != nil {
			return nil, err
		}

		if activity.ContactID == contactID {
			activities = append(activities, &activity)
		}
	}

	return activities, nil
}
