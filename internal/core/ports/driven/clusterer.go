package driven

// Noise is the cluster label for documents in low-density regions.
// Noise is a first-class outcome, not an error: such documents simply have
// no topic this run.
const Noise = -1

// Clusterer partitions reduced vectors into transient clusters.
//
// Cluster labels are arbitrary non-negative integers with no meaning
// outside one run; durable identity is the registry's job. The number of
// clusters is discovered from density, never specified up front.
type Clusterer interface {
	// Cluster returns one label per input vector, Noise for outliers.
	// Returns domain.ErrDegenerateInput on numerical degeneracy such as
	// zero spread; the caller treats the whole batch as noise in that case.
	Cluster(vectors [][]float32) ([]int, error)
}
