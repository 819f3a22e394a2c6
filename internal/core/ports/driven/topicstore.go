package driven

import (
	"context"

	"github.com/meridian-labs/topiclens/internal/core/domain"
)

// TopicStore persists durable topics.
//
// Topics are never hard-deleted: a topic with no current members is marked
// dormant so historical temporal data referencing it stays valid.
type TopicStore interface {
	// ListTopics returns all topics, dormant included, ordered by ID.
	ListTopics(ctx context.Context) ([]domain.Topic, error)

	// GetTopic retrieves a topic by ID.
	GetTopic(ctx context.Context, id string) (*domain.Topic, error)

	// UpsertTopic creates or refreshes a topic.
	UpsertTopic(ctx context.Context, topic *domain.Topic) error

	// MarkDormant flags a topic as dormant with zero members.
	MarkDormant(ctx context.Context, id string) error
}
