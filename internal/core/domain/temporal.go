package domain

import "time"

// BucketGranularity is the time-bucket size for temporal aggregation.
type BucketGranularity string

// Supported bucket granularities.
const (
	BucketDay   BucketGranularity = "day"
	BucketWeek  BucketGranularity = "week"
	BucketMonth BucketGranularity = "month"
)

// Valid reports whether the granularity is recognised.
func (g BucketGranularity) Valid() bool {
	return g == BucketDay || g == BucketWeek || g == BucketMonth
}

// Truncate maps a timestamp to the start of its bucket in UTC.
func (g BucketGranularity) Truncate(t time.Time) time.Time {
	t = t.UTC()
	switch g {
	case BucketWeek:
		// ISO-style week starting Monday.
		day := t.Truncate(24 * time.Hour)
		weekday := int(day.Weekday())
		if weekday == 0 {
			weekday = 7
		}
		return day.AddDate(0, 0, -(weekday - 1))
	case BucketMonth:
		return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	default:
		return t.Truncate(24 * time.Hour)
	}
}

// TemporalPoint is the document count for one topic in one time bucket.
// Counts are recomputed from document state on every retrain, never
// incremented, so a partial failure can never introduce drift.
type TemporalPoint struct {
	// TopicID references the durable topic.
	TopicID string

	// Bucket is the start of the time bucket in UTC.
	Bucket time.Time

	// Count is the number of topic members published in this bucket.
	Count int
}
