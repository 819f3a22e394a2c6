package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meridian-labs/topiclens/internal/core/domain"
)

func TestRunCommitter_AppliesAllWrites(t *testing.T) {
	docs := NewDocumentStore()
	topics := NewTopicStore()
	temporal := NewTemporalStore()
	ctx := context.Background()

	require.NoError(t, docs.SaveDocument(ctx, testDocument("d1")))
	require.NoError(t, docs.SaveDocument(ctx, testDocument("d2")))

	topicID := "T1"
	bucket := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	commit := &domain.RunCommit{
		Embeddings: map[string][]float32{
			"d1": {0.1, 0.2},
			"d2": {0.3, 0.4},
		},
		Assignments: map[string]*string{
			"d1": &topicID,
			"d2": nil,
		},
		Topics: []domain.Topic{{ID: "T1", Name: "Topic One", Signature: []string{"d1"}}},
		Series: map[string][]domain.TemporalPoint{
			"T1": {{TopicID: "T1", Bucket: bucket, Count: 1}},
		},
	}

	require.NoError(t, NewRunCommitter(docs, topics, temporal).CommitRun(ctx, commit))

	d1, err := docs.GetDocument(ctx, "d1")
	require.NoError(t, err)
	assert.Equal(t, []float32{0.1, 0.2}, d1.Embedding)
	require.NotNil(t, d1.TopicID)
	assert.Equal(t, "T1", *d1.TopicID)

	d2, err := docs.GetDocument(ctx, "d2")
	require.NoError(t, err)
	assert.Nil(t, d2.TopicID)

	topic, err := topics.GetTopic(ctx, "T1")
	require.NoError(t, err)
	assert.Equal(t, "Topic One", topic.Name)

	points, err := temporal.Series(ctx, "T1")
	require.NoError(t, err)
	require.Len(t, points, 1)
	assert.Equal(t, 1, points[0].Count)
}

func TestRunCommitter_MarksDormant(t *testing.T) {
	docs := NewDocumentStore()
	topics := NewTopicStore()
	temporal := NewTemporalStore()
	ctx := context.Background()

	require.NoError(t, topics.UpsertTopic(ctx, &domain.Topic{ID: "T1", DocumentCount: 3}))

	commit := &domain.RunCommit{DormantTopicIDs: []string{"T1"}}
	require.NoError(t, NewRunCommitter(docs, topics, temporal).CommitRun(ctx, commit))

	topic, err := topics.GetTopic(ctx, "T1")
	require.NoError(t, err)
	assert.True(t, topic.Dormant)
}

func TestRunCommitter_FailWith(t *testing.T) {
	docs := NewDocumentStore()
	ctx := context.Background()
	require.NoError(t, docs.SaveDocument(ctx, testDocument("d1")))

	committer := NewRunCommitter(docs, NewTopicStore(), NewTemporalStore())
	committer.FailWith = errors.New("disk full")

	err := committer.CommitRun(ctx, &domain.RunCommit{
		Embeddings: map[string][]float32{"d1": {1}},
	})
	require.EqualError(t, err, "disk full")

	d1, err := docs.GetDocument(ctx, "d1")
	require.NoError(t, err)
	assert.Empty(t, d1.Embedding, "failed commit must not write")
}
