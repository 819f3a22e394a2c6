package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/meridian-labs/topiclens/internal/core/domain"
	"github.com/meridian-labs/topiclens/internal/core/ports/driven"
)

// topicStore implements driven.TopicStore.
type topicStore struct {
	store *Store
}

var _ driven.TopicStore = (*topicStore)(nil)

// ListTopics returns all topics, dormant included, ordered by ID.
func (s *topicStore) ListTopics(ctx context.Context) ([]domain.Topic, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, name, keywords, created_at, document_count, signature, low_confidence, dormant
		FROM topics ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("listing topics: %w", err)
	}
	defer rows.Close()

	var topics []domain.Topic
	for rows.Next() {
		topic, err := scanTopicFrom(rows)
		if err != nil {
			return nil, err
		}
		topics = append(topics, *topic)
	}
	return topics, rows.Err()
}

// GetTopic retrieves a topic by ID.
func (s *topicStore) GetTopic(ctx context.Context, id string) (*domain.Topic, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT id, name, keywords, created_at, document_count, signature, low_confidence, dormant
		FROM topics WHERE id = ?
	`, id)
	topic, err := scanTopicFrom(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	return topic, err
}

// UpsertTopic creates or refreshes a topic.
func (s *topicStore) UpsertTopic(ctx context.Context, topic *domain.Topic) error {
	return upsertTopic(ctx, s.store.db, topic)
}

// MarkDormant flags a topic as dormant with zero members.
func (s *topicStore) MarkDormant(ctx context.Context, id string) error {
	return markDormant(ctx, s.store.db, id)
}

func upsertTopic(ctx context.Context, ex execer, topic *domain.Topic) error {
	keywords, err := marshalStrings(topic.Keywords)
	if err != nil {
		return err
	}
	signature, err := marshalStrings(topic.Signature)
	if err != nil {
		return err
	}

	_, err = ex.ExecContext(ctx, `
		INSERT INTO topics (id, name, keywords, created_at, document_count, signature, low_confidence, dormant)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			keywords = excluded.keywords,
			document_count = excluded.document_count,
			signature = excluded.signature,
			low_confidence = excluded.low_confidence,
			dormant = excluded.dormant
	`, topic.ID, topic.Name, keywords, topic.CreatedAt.UTC(), topic.DocumentCount,
		signature, topic.LowConfidence, topic.Dormant)
	if err != nil {
		return fmt.Errorf("upserting topic: %w", err)
	}
	return nil
}

func markDormant(ctx context.Context, ex execer, id string) error {
	result, err := ex.ExecContext(ctx, `
		UPDATE topics SET dormant = 1, document_count = 0, signature = '[]'
		WHERE id = ?
	`, id)
	if err != nil {
		return fmt.Errorf("marking topic dormant: %w", err)
	}
	return requireRow(result)
}

func scanTopicFrom(src scannable) (*domain.Topic, error) {
	var (
		topic     domain.Topic
		keywords  string
		signature string
	)
	if err := src.Scan(&topic.ID, &topic.Name, &keywords, &topic.CreatedAt,
		&topic.DocumentCount, &signature, &topic.LowConfidence, &topic.Dormant); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning topic: %w", err)
	}
	topic.CreatedAt = topic.CreatedAt.UTC()

	var err error
	if topic.Keywords, err = unmarshalStrings(keywords); err != nil {
		return nil, err
	}
	if topic.Signature, err = unmarshalStrings(signature); err != nil {
		return nil, err
	}
	return &topic, nil
}
