package services

import (
	"sort"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/meridian-labs/topiclens/internal/core/domain"
	"github.com/meridian-labs/topiclens/internal/logger"
)

// Relative weights of member overlap and keyword overlap in the
// reconciliation score. Member overlap dominates: documents moving
// together is stronger evidence of identity than shared vocabulary.
const (
	memberWeight  = 0.7
	keywordWeight = 0.3
)

// ClusterInput is one freshly discovered cluster entering reconciliation.
type ClusterInput struct {
	// Label is the run-local cluster label. Meaningless across runs.
	Label int

	// Name and Keywords come from the labeler.
	Name     string
	Keywords []string

	// LowConfidence is carried through from the labeler.
	LowConfidence bool

	// MemberIDs are the documents in this cluster.
	MemberIDs []string
}

// ReconcileResult is the registry's mapping of a run's clusters onto the
// durable topic set.
type ReconcileResult struct {
	// Assignments maps every clustered document to its resolved topic.
	Assignments map[string]string

	// Topics holds created and refreshed topics, ready to upsert.
	Topics []domain.Topic

	// DormantTopicIDs lists previously active topics left unclaimed.
	DormantTopicIDs []string

	// Created, Updated and Dormant count topic outcomes.
	Created int
	Updated int
	Dormant int

	// Ambiguous counts clusters whose best match was claimed by a
	// higher-scoring cluster. Log-worthy, never fatal.
	Ambiguous int
}

// Registry maps transient cluster labels onto durable topic identities.
//
// Matching is greedy highest-score-first over all (cluster, topic) pairs
// above the similarity threshold, so each topic is claimed by at most one
// cluster and vice versa. When a historical topic splits, only the
// highest-scoring cluster inherits its identity and the rest become new
// topics: a deliberate trade of semantic continuity for identity
// stability. Reconciliation never fails; every unmatched cluster safely
// resolves to "create new".
type Registry struct {
	threshold float64
	now       func() time.Time
	newID     func(time.Time) string
}

// NewRegistry creates a registry with the given similarity threshold.
func NewRegistry(threshold float64) *Registry {
	return &Registry{
		threshold: threshold,
		now:       time.Now,
		newID: func(t time.Time) string {
			return ulid.MustNew(ulid.Timestamp(t), ulid.DefaultEntropy()).String()
		},
	}
}

// candidate is one scored (cluster, topic) pairing.
type candidate struct {
	clusterIdx int
	topicIdx   int
	score      float64
	overlap    int
}

// Reconcile maps this run's clusters onto the existing topic set.
// Existing dormant topics are not match candidates; a dormant topic never
// silently absorbs a new cluster.
func (r *Registry) Reconcile(existing []domain.Topic, clusters []ClusterInput) ReconcileResult {
	result := ReconcileResult{Assignments: make(map[string]string)}

	// Stable cluster order keeps tie-breaks reproducible.
	ordered := make([]ClusterInput, len(clusters))
	copy(ordered, clusters)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].Label < ordered[j].Label })

	candidates := r.scorePairs(existing, ordered)

	sort.Slice(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.score != b.score {
			return a.score > b.score
		}
		if a.overlap != b.overlap {
			return a.overlap > b.overlap
		}
		// Lower topic ID means created earlier: ULIDs sort by time.
		if existing[a.topicIdx].ID != existing[b.topicIdx].ID {
			return existing[a.topicIdx].ID < existing[b.topicIdx].ID
		}
		return ordered[a.clusterIdx].Label < ordered[b.clusterIdx].Label
	})

	matchedCluster := make(map[int]int, len(ordered)) // cluster idx -> topic idx
	claimedTopic := make(map[int]bool, len(existing))
	hadCandidate := make(map[int]bool, len(ordered))
	for _, c := range candidates {
		hadCandidate[c.clusterIdx] = true
		if _, done := matchedCluster[c.clusterIdx]; done {
			continue
		}
		if claimedTopic[c.topicIdx] {
			continue
		}
		matchedCluster[c.clusterIdx] = c.topicIdx
		claimedTopic[c.topicIdx] = true
	}

	now := r.now().UTC()
	for i, cluster := range ordered {
		topicIdx, matched := matchedCluster[i]
		if matched {
			topic := existing[topicIdx]
			topic.Name = cluster.Name
			topic.Keywords = cluster.Keywords
			topic.LowConfidence = cluster.LowConfidence
			topic.DocumentCount = len(cluster.MemberIDs)
			topic.Signature = append([]string(nil), cluster.MemberIDs...)
			topic.Dormant = false
			result.Topics = append(result.Topics, topic)
			result.Updated++
			r.assign(&result, cluster, topic.ID)
			continue
		}

		if hadCandidate[i] {
			// Best match above threshold was taken by a stronger cluster.
			result.Ambiguous++
		}

		topic := domain.Topic{
			ID:            r.newID(now),
			Name:          cluster.Name,
			Keywords:      cluster.Keywords,
			CreatedAt:     now,
			DocumentCount: len(cluster.MemberIDs),
			Signature:     append([]string(nil), cluster.MemberIDs...),
			LowConfidence: cluster.LowConfidence,
		}
		result.Topics = append(result.Topics, topic)
		result.Created++
		r.assign(&result, cluster, topic.ID)
	}

	for i := range existing {
		if existing[i].Dormant || claimedTopic[i] {
			continue
		}
		result.DormantTopicIDs = append(result.DormantTopicIDs, existing[i].ID)
		result.Dormant++
	}

	if result.Ambiguous > 0 {
		logger.Warn("reconciliation: %d ambiguous cluster matches resolved to new topics", result.Ambiguous)
	}
	return result
}

// scorePairs computes similarity for every (cluster, active topic) pair
// at or above the threshold.
func (r *Registry) scorePairs(existing []domain.Topic, clusters []ClusterInput) []candidate {
	var candidates []candidate
	for ci, cluster := range clusters {
		memberSet := make(map[string]struct{}, len(cluster.MemberIDs))
		for _, id := range cluster.MemberIDs {
			memberSet[id] = struct{}{}
		}
		for ti := range existing {
			topic := &existing[ti]
			if topic.Dormant {
				continue
			}
			overlap := intersectionSize(memberSet, topic.SignatureSet())
			score := memberWeight*jaccard(overlap, len(memberSet), len(topic.Signature)) +
				keywordWeight*keywordJaccard(cluster.Keywords, topic.Keywords)
			if score >= r.threshold {
				candidates = append(candidates, candidate{
					clusterIdx: ci,
					topicIdx:   ti,
					score:      score,
					overlap:    overlap,
				})
			}
		}
	}
	return candidates
}

func (r *Registry) assign(result *ReconcileResult, cluster ClusterInput, topicID string) {
	for _, docID := range cluster.MemberIDs {
		result.Assignments[docID] = topicID
	}
}

func intersectionSize(a, b map[string]struct{}) int {
	if len(b) < len(a) {
		a, b = b, a
	}
	n := 0
	for k := range a {
		if _, ok := b[k]; ok {
			n++
		}
	}
	return n
}

// jaccard computes |A∩B| / |A∪B| from the intersection and set sizes.
func jaccard(intersection, sizeA, sizeB int) float64 {
	union := sizeA + sizeB - intersection
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}

func keywordJaccard(a, b []string) float64 {
	setA := make(map[string]struct{}, len(a))
	for _, k := range a {
		setA[k] = struct{}{}
	}
	setB := make(map[string]struct{}, len(b))
	for _, k := range b {
		setB[k] = struct{}{}
	}
	return jaccard(intersectionSize(setA, setB), len(setA), len(setB))
}
