package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/corvohq/pulse/pkg/persistence"
	"github.com/corvohq/pulse/pkg/persistence/file"
	"github.com/corvohq/pulse/pkg/persistence/postgresql"
)

// NewPersistence picks the store from the database URL scheme:
// postgres:// for PostgreSQL, anything else is treated as a file root.
func NewPersistence(ctx context.Context, logger *slog.Logger, databaseURL string) (persistence.Persistence, error) {
	switch {
	case strings.HasPrefix(databaseURL, "postgres://"),
		strings.HasPrefix(databaseURL, "postgresql://"):
		p, err := postgresql.NewPersistence(ctx, logger, databaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize postgresql persistence: %w", err)
		}

		return p, nil
	default:
		return file.NewPersistence(databaseURL), nil
	}
}
