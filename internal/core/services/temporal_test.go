package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meridian-labs/topiclens/internal/core/domain"
)

func publishedDoc(id string, published time.Time) domain.Document {
	return domain.Document{
		ID:          id,
		SourceType:  domain.SourceArticle,
		Title:       "title " + id,
		Content:     "content " + id,
		PublishedAt: published,
	}
}

func TestAggregateBucketsByDay(t *testing.T) {
	day1 := time.Date(2025, 7, 1, 9, 30, 0, 0, time.UTC)
	day2 := time.Date(2025, 7, 2, 23, 59, 0, 0, time.UTC)
	docs := []domain.Document{
		publishedDoc("d1", day1),
		publishedDoc("d2", day1.Add(4*time.Hour)),
		publishedDoc("d3", day2),
	}
	assignments := map[string]string{"d1": "T1", "d2": "T1", "d3": "T1"}

	series := NewAggregator(domain.BucketDay).Aggregate(docs, assignments, []string{"T1"})

	require.Len(t, series["T1"], 2)
	assert.Equal(t, domain.TemporalPoint{
		TopicID: "T1",
		Bucket:  time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC),
		Count:   2,
	}, series["T1"][0])
	assert.Equal(t, domain.TemporalPoint{
		TopicID: "T1",
		Bucket:  time.Date(2025, 7, 2, 0, 0, 0, 0, time.UTC),
		Count:   1,
	}, series["T1"][1])
}

func TestAggregateWeekGranularity(t *testing.T) {
	// Wednesday and the following Sunday land in the same Monday bucket.
	wed := time.Date(2025, 7, 2, 12, 0, 0, 0, time.UTC)
	sun := time.Date(2025, 7, 6, 8, 0, 0, 0, time.UTC)
	docs := []domain.Document{publishedDoc("d1", wed), publishedDoc("d2", sun)}
	assignments := map[string]string{"d1": "T1", "d2": "T1"}

	series := NewAggregator(domain.BucketWeek).Aggregate(docs, assignments, []string{"T1"})

	require.Len(t, series["T1"], 1)
	assert.Equal(t, time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC), series["T1"][0].Bucket)
	assert.Equal(t, 2, series["T1"][0].Count)
}

func TestAggregateSkipsUntimestampedAndNoise(t *testing.T) {
	docs := []domain.Document{
		publishedDoc("d1", time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)),
		publishedDoc("d2", time.Time{}), // assigned but no timestamp
		publishedDoc("d3", time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)), // noise
	}
	assignments := map[string]string{"d1": "T1", "d2": "T1"}

	series := NewAggregator(domain.BucketDay).Aggregate(docs, assignments, []string{"T1"})

	total := 0
	for _, p := range series["T1"] {
		total += p.Count
	}
	assert.Equal(t, 1, total, "only assigned, timestamped documents count")
}

func TestAggregateEmitsEmptySeriesForEveryTopic(t *testing.T) {
	docs := []domain.Document{publishedDoc("d1", time.Time{})}
	assignments := map[string]string{"d1": "T1"}

	series := NewAggregator(domain.BucketDay).Aggregate(docs, assignments, []string{"T1", "T2"})

	// A topic whose members all lack timestamps still gets an entry so
	// stale rows are replaced on commit.
	require.Contains(t, series, "T1")
	require.Contains(t, series, "T2")
	assert.Empty(t, series["T1"])
	assert.Empty(t, series["T2"])
}

func TestAggregateSumNeverExceedsMembership(t *testing.T) {
	base := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	var docs []domain.Document
	assignments := make(map[string]string)
	for i, id := range []string{"d1", "d2", "d3", "d4", "d5"} {
		docs = append(docs, publishedDoc(id, base.AddDate(0, 0, i%3)))
		assignments[id] = "T1"
	}

	series := NewAggregator(domain.BucketDay).Aggregate(docs, assignments, []string{"T1"})

	total := 0
	for _, p := range series["T1"] {
		total += p.Count
	}
	assert.Equal(t, 5, total)
}
