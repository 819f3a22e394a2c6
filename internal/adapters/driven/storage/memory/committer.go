package memory

import (
	"context"
	"sort"

	"github.com/meridian-labs/topiclens/internal/core/domain"
	"github.com/meridian-labs/topiclens/internal/core/ports/driven"
)

// Ensure RunCommitter implements the interface.
var _ driven.RunCommitter = (*RunCommitter)(nil)

// RunCommitter applies a retrain commit to the in-memory stores.
//
// The memory stores are not transactional; the committer applies writes in
// a fixed order, which is enough for single-process tests. FailWith makes
// the next commit fail before writing anything, for exercising abort paths.
type RunCommitter struct {
	docs     *DocumentStore
	topics   *TopicStore
	temporal *TemporalStore

	// FailWith, when non-nil, is returned by the next CommitRun without
	// applying any writes.
	FailWith error
}

// NewRunCommitter creates a committer over the given in-memory stores.
func NewRunCommitter(docs *DocumentStore, topics *TopicStore, temporal *TemporalStore) *RunCommitter {
	return &RunCommitter{docs: docs, topics: topics, temporal: temporal}
}

// CommitRun applies the commit set.
func (c *RunCommitter) CommitRun(ctx context.Context, commit *domain.RunCommit) error {
	if c.FailWith != nil {
		return c.FailWith
	}

	ids := make([]string, 0, len(commit.Embeddings))
	for id := range commit.Embeddings {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		if err := c.docs.UpdateEmbedding(ctx, id, commit.Embeddings[id], commit.EmbeddingModel); err != nil {
			return err
		}
	}

	ids = ids[:0]
	for id := range commit.Assignments {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		if err := c.docs.UpdateTopicAssignment(ctx, id, commit.Assignments[id]); err != nil {
			return err
		}
	}

	for i := range commit.Topics {
		if err := c.topics.UpsertTopic(ctx, &commit.Topics[i]); err != nil {
			return err
		}
	}
	for _, id := range commit.DormantTopicIDs {
		if err := c.topics.MarkDormant(ctx, id); err != nil {
			return err
		}
	}
	for topicID, points := range commit.Series {
		if err := c.temporal.ReplaceSeries(ctx, topicID, points); err != nil {
			return err
		}
	}
	return nil
}
