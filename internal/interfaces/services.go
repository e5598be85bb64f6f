// Package interfaces defines service contracts for folioscope
package interfaces

import (
	"context"
	"time"

	"github.com/folioscope/folioscope/internal/models"
)

// AggregatorService combines the versioned endpoints of one portfolio
// into a snapshot and resolves display values out of it.
type AggregatorService interface {
	// RunPollCycle executes one fetch/merge/derive pass. On error the
	// caller keeps its previously held snapshot.
	RunPollCycle(ctx context.Context, now time.Time) (models.Snapshot, error)

	// ResolveValue extracts the scalar addressed by key. ok=false means
	// the value is unavailable, a normal outcome rather than an error.
	ResolveValue(snapshot models.Snapshot, key models.ValueKey) (any, bool)

	// ListGroupKeys enumerates the positional market or cash-account
	// groups present in the snapshot, in list order.
	ListGroupKeys(snapshot models.Snapshot, kind models.GroupKind) []models.GroupEntry
}
