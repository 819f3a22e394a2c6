package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/meridian-labs/topiclens/internal/core/domain"
	"github.com/meridian-labs/topiclens/internal/core/ports/driven"
)

// Ensure TopicStore implements the interface.
var _ driven.TopicStore = (*TopicStore)(nil)

// TopicStore is an in-memory implementation of driven.TopicStore.
type TopicStore struct {
	mu     sync.RWMutex
	topics map[string]domain.Topic
}

// NewTopicStore creates a new in-memory topic store.
func NewTopicStore() *TopicStore {
	return &TopicStore{
		topics: make(map[string]domain.Topic),
	}
}

// ListTopics returns all topics, dormant included, ordered by ID.
func (s *TopicStore) ListTopics(_ context.Context) ([]domain.Topic, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]domain.Topic, 0, len(s.topics))
	for id := range s.topics {
		result = append(result, s.topics[id])
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

// GetTopic retrieves a topic by ID.
func (s *TopicStore) GetTopic(_ context.Context, id string) (*domain.Topic, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	topic, ok := s.topics[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &topic, nil
}

// UpsertTopic creates or refreshes a topic.
func (s *TopicStore) UpsertTopic(_ context.Context, topic *domain.Topic) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := *topic
	stored.Keywords = append([]string(nil), topic.Keywords...)
	stored.Signature = append([]string(nil), topic.Signature...)
	s.topics[topic.ID] = stored
	return nil
}

// MarkDormant flags a topic as dormant with zero members.
func (s *TopicStore) MarkDormant(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	topic, ok := s.topics[id]
	if !ok {
		return domain.ErrNotFound
	}
	topic.Dormant = true
	topic.DocumentCount = 0
	topic.Signature = nil
	s.topics[id] = topic
	return nil
}
