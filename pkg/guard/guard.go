// Package guard provides best-effort trigger deduplication. Acquiring a key
// succeeds at most once per window, so a replayed domain event does not run
// the same workflow twice in quick succession.
package guard

import (
	"context"
	"strings"
	"time"
)

// Guard is a time-windowed one-shot lock. Acquire returns true when the key
// was free and is now held for the window.
type Guard interface {
	Acquire(ctx context.Context, key string, window time.Duration) (bool, error)
}

// Key builds the dedup key for one workflow trigger.
func Key(tenantID, workflowID, event, entityID string) string {
	return strings.Join([]string{"pulse", "dedup", tenantID, workflowID, event, entityID}, ":")
}
