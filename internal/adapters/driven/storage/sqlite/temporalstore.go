package sqlite

import (
	"context"
	"fmt"

	"github.com/meridian-labs/topiclens/internal/core/domain"
	"github.com/meridian-labs/topiclens/internal/core/ports/driven"
)

// temporalStore implements driven.TemporalStore.
type temporalStore struct {
	store *Store
}

var _ driven.TemporalStore = (*temporalStore)(nil)

// ReplaceSeries replaces a topic's entire series.
func (s *temporalStore) ReplaceSeries(ctx context.Context, topicID string, points []domain.TemporalPoint) error {
	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if err := replaceSeries(ctx, tx, topicID, points); err != nil {
		return err
	}
	return tx.Commit()
}

// Series returns a topic's points ordered by bucket.
func (s *temporalStore) Series(ctx context.Context, topicID string) ([]domain.TemporalPoint, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT topic_id, bucket, count FROM temporal_data
		WHERE topic_id = ? ORDER BY bucket
	`, topicID)
	if err != nil {
		return nil, fmt.Errorf("querying series: %w", err)
	}
	defer rows.Close()

	var points []domain.TemporalPoint
	for rows.Next() {
		var p domain.TemporalPoint
		if err := rows.Scan(&p.TopicID, &p.Bucket, &p.Count); err != nil {
			return nil, fmt.Errorf("scanning temporal point: %w", err)
		}
		p.Bucket = p.Bucket.UTC()
		points = append(points, p)
	}
	return points, rows.Err()
}

func replaceSeries(ctx context.Context, ex execer, topicID string, points []domain.TemporalPoint) error {
	if _, err := ex.ExecContext(ctx,
		"DELETE FROM temporal_data WHERE topic_id = ?", topicID); err != nil {
		return fmt.Errorf("clearing series: %w", err)
	}
	for _, p := range points {
		if _, err := ex.ExecContext(ctx, `
			INSERT INTO temporal_data (topic_id, bucket, count) VALUES (?, ?, ?)
		`, topicID, p.Bucket.UTC(), p.Count); err != nil {
			return fmt.Errorf("inserting temporal point: %w", err)
		}
	}
	return nil
}
