package driven

import (
	"context"

	"github.com/meridian-labs/topiclens/internal/core/domain"
)

// TemporalStore persists per-topic time series.
type TemporalStore interface {
	// ReplaceSeries replaces a topic's entire series, consistent with the
	// recompute-from-scratch aggregation policy.
	ReplaceSeries(ctx context.Context, topicID string, points []domain.TemporalPoint) error

	// Series returns a topic's points ordered by bucket.
	Series(ctx context.Context, topicID string) ([]domain.TemporalPoint, error)
}
