package services

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meridian-labs/topiclens/internal/core/domain"
)

// newTestRegistry returns a registry with a fixed clock and sequential
// topic IDs so outcomes are exactly reproducible in assertions.
func newTestRegistry(threshold float64) *Registry {
	r := NewRegistry(threshold)
	r.now = func() time.Time {
		return time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	}
	seq := 0
	r.newID = func(time.Time) string {
		seq++
		return fmt.Sprintf("NEW%03d", seq)
	}
	return r
}

func TestReconcileMatchRefreshesTopic(t *testing.T) {
	existing := []domain.Topic{{
		ID:            "T-AAA",
		Name:          "Iphone, Launch, Apple",
		Keywords:      []string{"iphone", "launch", "apple"},
		DocumentCount: 3,
		Signature:     []string{"d1", "d2", "d3"},
	}}
	clusters := []ClusterInput{{
		Label:     0,
		Name:      "Iphone, Apple, Camera",
		Keywords:  []string{"iphone", "apple", "camera"},
		MemberIDs: []string{"d1", "d2", "d3", "d4"},
	}}

	result := newTestRegistry(0.15).Reconcile(existing, clusters)

	require.Len(t, result.Topics, 1)
	topic := result.Topics[0]
	assert.Equal(t, "T-AAA", topic.ID, "identity must survive the retrain")
	assert.Equal(t, "Iphone, Apple, Camera", topic.Name)
	assert.Equal(t, 4, topic.DocumentCount)
	assert.ElementsMatch(t, []string{"d1", "d2", "d3", "d4"}, topic.Signature)
	assert.False(t, topic.Dormant)

	assert.Equal(t, 1, result.Updated)
	assert.Zero(t, result.Created)
	for _, d := range []string{"d1", "d2", "d3", "d4"} {
		assert.Equal(t, "T-AAA", result.Assignments[d])
	}
}

func TestReconcileNoMatchCreatesTopic(t *testing.T) {
	existing := []domain.Topic{{
		ID:        "T-AAA",
		Keywords:  []string{"iphone", "launch"},
		Signature: []string{"d1", "d2"},
	}}
	clusters := []ClusterInput{{
		Label:     0,
		Name:      "Upi, Regulations, Rbi",
		Keywords:  []string{"upi", "regulations", "rbi"},
		MemberIDs: []string{"d5", "d6"},
	}}

	result := newTestRegistry(0.15).Reconcile(existing, clusters)

	require.Len(t, result.Topics, 1)
	assert.Equal(t, "NEW001", result.Topics[0].ID)
	assert.Equal(t, 1, result.Created)
	assert.Zero(t, result.Ambiguous, "no candidate above threshold is not ambiguity")

	// The unmatched existing topic goes dormant.
	assert.Equal(t, []string{"T-AAA"}, result.DormantTopicIDs)
	assert.Equal(t, 1, result.Dormant)
}

func TestReconcileSplitKeepsIdentityOnBestScorer(t *testing.T) {
	existing := []domain.Topic{{
		ID:        "T-AAA",
		Keywords:  []string{"iphone", "apple"},
		Signature: []string{"d1", "d2", "d3", "d4", "d5"},
	}}
	// The historical topic split: one cluster keeps most members, the
	// other only one.
	clusters := []ClusterInput{
		{
			Label:     0,
			Keywords:  []string{"iphone", "apple"},
			MemberIDs: []string{"d5"},
		},
		{
			Label:     1,
			Keywords:  []string{"iphone", "apple"},
			MemberIDs: []string{"d1", "d2", "d3", "d4"},
		},
	}

	result := newTestRegistry(0.15).Reconcile(existing, clusters)

	require.Len(t, result.Topics, 2)
	byID := make(map[string]domain.Topic)
	for _, topic := range result.Topics {
		byID[topic.ID] = topic
	}

	inherited, ok := byID["T-AAA"]
	require.True(t, ok, "larger fragment inherits the identity")
	assert.ElementsMatch(t, []string{"d1", "d2", "d3", "d4"}, inherited.Signature)

	assert.Contains(t, byID, "NEW001")
	assert.Equal(t, 1, result.Created)
	assert.Equal(t, 1, result.Updated)
	assert.Equal(t, 1, result.Ambiguous)
	assert.Zero(t, result.Dormant)
}

func TestReconcileTieBreaksOnEarlierTopic(t *testing.T) {
	// Both topics score identically against the cluster; the earlier
	// (lower) ID wins.
	existing := []domain.Topic{
		{ID: "T-BBB", Keywords: []string{"go", "rust"}, Signature: []string{"d1", "d2"}},
		{ID: "T-AAA", Keywords: []string{"go", "rust"}, Signature: []string{"d1", "d2"}},
	}
	clusters := []ClusterInput{{
		Label:     0,
		Keywords:  []string{"go", "rust"},
		MemberIDs: []string{"d1", "d2"},
	}}

	result := newTestRegistry(0.15).Reconcile(existing, clusters)

	require.Len(t, result.Topics, 1)
	assert.Equal(t, "T-AAA", result.Topics[0].ID)
	assert.Equal(t, []string{"T-BBB"}, result.DormantTopicIDs)
}

func TestReconcileDormantTopicNotMatched(t *testing.T) {
	existing := []domain.Topic{{
		ID:        "T-AAA",
		Dormant:   true,
		Keywords:  []string{"iphone"},
		Signature: []string{"d1", "d2"},
	}}
	clusters := []ClusterInput{{
		Label:     0,
		Keywords:  []string{"iphone"},
		MemberIDs: []string{"d1", "d2"},
	}}

	result := newTestRegistry(0.15).Reconcile(existing, clusters)

	require.Len(t, result.Topics, 1)
	assert.Equal(t, "NEW001", result.Topics[0].ID)
	// Already-dormant topics are not re-marked.
	assert.Empty(t, result.DormantTopicIDs)
}

func TestReconcileEmptyRun(t *testing.T) {
	existing := []domain.Topic{{ID: "T-AAA", Signature: []string{"d1"}}}

	result := newTestRegistry(0.15).Reconcile(existing, nil)

	assert.Empty(t, result.Topics)
	assert.Equal(t, []string{"T-AAA"}, result.DormantTopicIDs)
	assert.Empty(t, result.Assignments)
}

func TestReconcileDeterministic(t *testing.T) {
	existing := []domain.Topic{
		{ID: "T-AAA", Keywords: []string{"a", "b"}, Signature: []string{"d1", "d2", "d3"}},
		{ID: "T-BBB", Keywords: []string{"c", "d"}, Signature: []string{"d4", "d5", "d6"}},
	}
	clusters := []ClusterInput{
		{Label: 0, Keywords: []string{"c", "d"}, MemberIDs: []string{"d4", "d5", "d6"}},
		{Label: 1, Keywords: []string{"a", "b"}, MemberIDs: []string{"d1", "d2", "d3"}},
	}

	first := newTestRegistry(0.15).Reconcile(existing, clusters)
	second := newTestRegistry(0.15).Reconcile(existing, clusters)
	assert.Equal(t, first.Assignments, second.Assignments)
	assert.Equal(t, first.DormantTopicIDs, second.DormantTopicIDs)
}
