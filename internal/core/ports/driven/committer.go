package driven

import (
	"context"

	"github.com/meridian-labs/topiclens/internal/core/domain"
)

// RunCommitter applies a retrain's full state change atomically.
//
// This is the Persisting boundary: either every embedding, assignment,
// topic and series in the commit lands, or none of them do and the
// pre-retrain state remains authoritative. Concurrent readers observe the
// old state until the commit completes.
type RunCommitter interface {
	// CommitRun applies the commit set in a single transaction.
	CommitRun(ctx context.Context, commit *domain.RunCommit) error
}
