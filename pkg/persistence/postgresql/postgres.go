// Package postgresql provides PostgreSQL persistence for the workflow engine.
package postgresql

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	_ "github.com/lib/pq" // postgres driver

	"github.com/corvohq/pulse/pkg/persistence"
	"github.com/corvohq/pulse/pkg/persistence/sqlbase"
)

// Persistence implements the persistence layer for PostgreSQL.
type Persistence struct {
	db     *sql.DB
	logger *slog.Logger

	workflowRepo  *WorkflowRepository
	executionRepo *ExecutionRepository
	taskRepo      *TaskRepository
	contactRepo   *ContactRepository
	activityRepo  *ActivityRepository
}

// NewPersistence connects to PostgreSQL and runs pending migrations.
func NewPersistence(ctx context.Context, logger *slog.Logger, databaseURL string) (*Persistence, error) {
	database, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to PostgreSQL database: %w", err)
	}

	if err := database.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	postgres := &Persistence{
		db:            database,
		logger:        logger,
		workflowRepo:  &WorkflowRepository{db: database, logger: logger},
		executionRepo: &ExecutionRepository{db: database, logger: logger},
		taskRepo:      &TaskRepository{db: database},
		contactRepo:   &ContactRepository{db: database},
		activityRepo:  &ActivityRepository{db: database},
	}

	migrationManager := sqlbase.NewMigrationManager(logger, database, migrations())
	if err := migrationManager.RunMigrations(ctx); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return postgres, nil
}

func (p *Persistence) Workflows() persistence.WorkflowRepository {
	return p.workflowRepo
}

func (p *Persistence) Executions() persistence.ExecutionRepository {
	return p.executionRepo
}

func (p *Persistence) Tasks() persistence.TaskRepository {
	return p.taskRepo
}

func (p *Persistence) Contacts() persistence.ContactRepository {
	return p.contactRepo
}

func (p *Persistence) Activities() persistence.ActivityRepository {
	return p.activityRepo
}

// Close closes the database connection.
func (p *Persistence) Close(_ context.Context) error {
	if p.db != nil {
		if err := p.db.Close(); err != nil {
			return fmt.Errorf("failed to close database connection: %w", err)
		}
	}

	return nil
}

// HealthCheck verifies the database connection is healthy.
func (p *Persistence) HealthCheck(ctx context.Context) error {
	if err := p.db.PingContext(ctx); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	return nil
}
