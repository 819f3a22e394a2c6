package memory

import (
	"context"
	"sync"

	"github.com/meridian-labs/topiclens/internal/core/domain"
	"github.com/meridian-labs/topiclens/internal/core/ports/driven"
)

// Ensure TemporalStore implements the interface.
var _ driven.TemporalStore = (*TemporalStore)(nil)

// TemporalStore is an in-memory implementation of driven.TemporalStore.
type TemporalStore struct {
	mu     sync.RWMutex
	series map[string][]domain.TemporalPoint
}

// NewTemporalStore creates a new in-memory temporal store.
func NewTemporalStore() *TemporalStore {
	return &TemporalStore{
		series: make(map[string][]domain.TemporalPoint),
	}
}

// ReplaceSeries replaces a topic's entire series.
func (s *TemporalStore) ReplaceSeries(_ context.Context, topicID string, points []domain.TemporalPoint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.series[topicID] = append([]domain.TemporalPoint(nil), points...)
	return nil
}

// Series returns a topic's points ordered by bucket.
func (s *TemporalStore) Series(_ context.Context, topicID string) ([]domain.TemporalPoint, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.TemporalPoint(nil), s.series[topicID]...), nil
}
