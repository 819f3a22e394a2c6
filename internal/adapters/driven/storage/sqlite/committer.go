package sqlite

import (
	"context"
	"fmt"
	"sort"

	"github.com/meridian-labs/topiclens/internal/core/domain"
	"github.com/meridian-labs/topiclens/internal/core/ports/driven"
)

// runCommitter implements driven.RunCommitter.
//
// The whole retrain lands in one transaction: topics first so assignment
// and series foreign keys resolve, then embeddings, assignments, dormancy
// flags and series. Any failure rolls the database back to the
// pre-retrain state.
type runCommitter struct {
	store *Store
}

var _ driven.RunCommitter = (*runCommitter)(nil)

// CommitRun applies the commit set in a single transaction.
func (c *runCommitter) CommitRun(ctx context.Context, commit *domain.RunCommit) error {
	tx, err := c.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	for i := range commit.Topics {
		if err := upsertTopic(ctx, tx, &commit.Topics[i]); err != nil {
			return err
		}
	}

	for _, id := range sortedKeys(commit.Embeddings) {
		if err := updateEmbedding(ctx, tx, id, commit.Embeddings[id], commit.EmbeddingModel); err != nil {
			return err
		}
	}

	assignIDs := make([]string, 0, len(commit.Assignments))
	for id := range commit.Assignments {
		assignIDs = append(assignIDs, id)
	}
	sort.Strings(assignIDs)
	for _, id := range assignIDs {
		if err := updateTopicAssignment(ctx, tx, id, commit.Assignments[id]); err != nil {
			return err
		}
	}

	for _, id := range commit.DormantTopicIDs {
		if err := markDormant(ctx, tx, id); err != nil {
			return err
		}
	}

	for _, topicID := range sortedKeys(commit.Series) {
		if err := replaceSeries(ctx, tx, topicID, commit.Series[topicID]); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing run: %w", err)
	}
	return nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
