package services

import (
	"sort"
	"time"

	"github.com/meridian-labs/topiclens/internal/core/domain"
)

// Aggregator buckets topic membership over publish time.
//
// Counts are recomputed from scratch on every run rather than applied as
// deltas, so a previous partial failure can never leave drift behind.
// Documents without a usable publish timestamp keep their topic membership
// but never appear in a series: a time series must not contain synthetic
// dates.
type Aggregator struct {
	granularity domain.BucketGranularity
}

// NewAggregator creates an aggregator with the given bucket granularity.
func NewAggregator(granularity domain.BucketGranularity) *Aggregator {
	if !granularity.Valid() {
		granularity = domain.DefaultBucketGranularity
	}
	return &Aggregator{granularity: granularity}
}

// Aggregate recomputes per-topic series from the authoritative
// document-to-topic assignment. Every topic in topicIDs receives an entry,
// empty when none of its members carry timestamps, so stale series are
// replaced even when they shrink to nothing.
func (a *Aggregator) Aggregate(
	docs []domain.Document,
	assignments map[string]string,
	topicIDs []string,
) map[string][]domain.TemporalPoint {
	counts := make(map[string]map[time.Time]int)
	for _, doc := range docs {
		topicID, ok := assignments[doc.ID]
		if !ok {
			continue // noise or excluded
		}
		if !doc.HasTimestamp() {
			continue
		}
		bucket := a.granularity.Truncate(doc.PublishedAt)
		if counts[topicID] == nil {
			counts[topicID] = make(map[time.Time]int)
		}
		counts[topicID][bucket]++
	}

	series := make(map[string][]domain.TemporalPoint, len(topicIDs))
	for _, topicID := range topicIDs {
		buckets := counts[topicID]
		points := make([]domain.TemporalPoint, 0, len(buckets))
		for bucket, count := range buckets {
			points = append(points, domain.TemporalPoint{
				TopicID: topicID,
				Bucket:  bucket,
				Count:   count,
			})
		}
		sort.Slice(points, func(i, j int) bool {
			return points[i].Bucket.Before(points[j].Bucket)
		})
		series[topicID] = points
	}
	return series
}
