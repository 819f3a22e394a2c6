package cli

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meridian-labs/topiclens/internal/adapters/driven/storage/memory"
	"github.com/meridian-labs/topiclens/internal/core/domain"
)

func setupTopicsTest(t *testing.T) (*memory.TopicStore, *memory.TemporalStore, func()) {
	t.Helper()
	topics := memory.NewTopicStore()
	temporal := memory.NewTemporalStore()
	oldTopics, oldTemporal := topicStore, temporalStore
	topicStore, temporalStore = topics, temporal
	return topics, temporal, func() {
		topicStore, temporalStore = oldTopics, oldTemporal
		topicsAll = false
	}
}

func TestTopicsCmd_ListsActiveOnly(t *testing.T) {
	topics, _, cleanup := setupTopicsTest(t)
	defer cleanup()
	ctx := context.Background()

	require.NoError(t, topics.UpsertTopic(ctx, &domain.Topic{
		ID:            "T1",
		Name:          "Iphone, Launch, Apple",
		Keywords:      []string{"iphone", "launch"},
		DocumentCount: 3,
	}))
	require.NoError(t, topics.UpsertTopic(ctx, &domain.Topic{
		ID:      "T2",
		Name:    "Old News",
		Dormant: true,
	}))

	out, err := execute("topics")

	assert.NoError(t, err)
	assert.Contains(t, out, "Iphone, Launch, Apple")
	assert.Contains(t, out, "iphone, launch")
	assert.NotContains(t, out, "Old News")
}

func TestTopicsCmd_AllIncludesDormant(t *testing.T) {
	topics, _, cleanup := setupTopicsTest(t)
	defer cleanup()

	require.NoError(t, topics.UpsertTopic(context.Background(), &domain.Topic{
		ID:      "T2",
		Name:    "Old News",
		Dormant: true,
	}))

	out, err := execute("topics", "--all")

	assert.NoError(t, err)
	assert.Contains(t, out, "Old News")
	assert.Contains(t, out, "[dormant]")
}

func TestTopicsCmd_Empty(t *testing.T) {
	_, _, cleanup := setupTopicsTest(t)
	defer cleanup()

	out, err := execute("topics")

	assert.NoError(t, err)
	assert.Contains(t, out, "No topics yet")
}

func TestTimelineCmd_PrintsSeries(t *testing.T) {
	topics, temporal, cleanup := setupTopicsTest(t)
	defer cleanup()
	ctx := context.Background()

	require.NoError(t, topics.UpsertTopic(ctx, &domain.Topic{
		ID:   "T1",
		Name: "Iphone, Launch, Apple",
	}))
	require.NoError(t, temporal.ReplaceSeries(ctx, "T1", []domain.TemporalPoint{
		{TopicID: "T1", Bucket: time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC), Count: 3},
		{TopicID: "T1", Bucket: time.Date(2025, 7, 2, 0, 0, 0, 0, time.UTC), Count: 1},
	}))

	out, err := execute("timeline", "T1")

	assert.NoError(t, err)
	assert.Contains(t, out, "2025-07-01  3")
	assert.Contains(t, out, "2025-07-02  1")
}

func TestTimelineCmd_UnknownTopic(t *testing.T) {
	_, _, cleanup := setupTopicsTest(t)
	defer cleanup()

	_, err := execute("timeline", "nope")

	assert.ErrorContains(t, err, "not found")
}
