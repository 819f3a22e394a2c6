// Package dbscan provides density-based clustering over reduced vectors.
//
// The number of clusters is discovered from density rather than specified,
// so emerging and dying topics surface naturally as the corpus shifts.
// Points in low-density regions are labelled noise, never forced into the
// nearest cluster.
package dbscan

import (
	"fmt"
	"sort"

	"github.com/viant/vec/search"

	"github.com/meridian-labs/topiclens/internal/core/domain"
	"github.com/meridian-labs/topiclens/internal/core/ports/driven"
)

// Ensure Clusterer implements the interface.
var _ driven.Clusterer = (*Clusterer)(nil)

// Internal label for points not yet visited.
const unvisited = -2

// Clusterer runs DBSCAN with Euclidean distance.
type Clusterer struct {
	minPts int
	eps    float64
}

// New creates a clusterer. minClusterSize is the minimum neighbourhood
// population for a core point. eps is the neighbourhood radius; zero
// selects the k-distance heuristic per batch.
func New(minClusterSize int, eps float64) *Clusterer {
	if minClusterSize < 2 {
		minClusterSize = 2
	}
	return &Clusterer{minPts: minClusterSize, eps: eps}
}

// Cluster returns one label per vector, driven.Noise for outliers.
// Labels are run-local: the same corpus may receive different label
// numbers on different runs, and only membership is meaningful.
func (c *Clusterer) Cluster(vectors [][]float32) ([]int, error) {
	n := len(vectors)
	if n == 0 {
		return nil, nil
	}

	dist := pairwiseDistances(vectors)

	// All-identical input leaves the distance metric undefined for
	// density purposes.
	if maxDistance(dist) == 0 {
		return nil, fmt.Errorf("dbscan: zero spread across %d vectors: %w",
			n, domain.ErrDegenerateInput)
	}

	eps := c.eps
	if eps <= 0 {
		eps = estimateEps(dist, c.minPts)
	}

	labels := make([]int, n)
	for i := range labels {
		labels[i] = unvisited
	}

	next := 0
	for i := 0; i < n; i++ {
		if labels[i] != unvisited {
			continue
		}
		neighbours := regionQuery(dist, i, eps)
		if len(neighbours) < c.minPts {
			labels[i] = driven.Noise
			continue
		}

		labels[i] = next
		expand(dist, labels, neighbours, next, eps, c.minPts)
		next++
	}

	return labels, nil
}

// expand grows a cluster from a core point's neighbourhood.
func expand(dist [][]float64, labels []int, seeds []int, cluster int, eps float64, minPts int) {
	for idx := 0; idx < len(seeds); idx++ {
		p := seeds[idx]
		if labels[p] == driven.Noise {
			// Border point previously dismissed as noise.
			labels[p] = cluster
			continue
		}
		if labels[p] != unvisited {
			continue
		}
		labels[p] = cluster

		neighbours := regionQuery(dist, p, eps)
		if len(neighbours) >= minPts {
			seeds = append(seeds, neighbours...)
		}
	}
}

// regionQuery returns indices within eps of point i, i included.
func regionQuery(dist [][]float64, i int, eps float64) []int {
	var neighbours []int
	for j := range dist[i] {
		if dist[i][j] <= eps {
			neighbours = append(neighbours, j)
		}
	}
	return neighbours
}

// pairwiseDistances computes the symmetric Euclidean distance matrix.
func pairwiseDistances(vectors [][]float32) [][]float64 {
	n := len(vectors)
	dist := make([][]float64, n)
	for i := range dist {
		dist[i] = make([]float64, n)
	}
	for i := 0; i < n; i++ {
		vi := search.Float32s(vectors[i])
		for j := i + 1; j < n; j++ {
			d := float64(vi.EuclideanDistance(vectors[j]))
			dist[i][j] = d
			dist[j][i] = d
		}
	}
	return dist
}

func maxDistance(dist [][]float64) float64 {
	var max float64
	for i := range dist {
		for _, d := range dist[i] {
			if d > max {
				max = d
			}
		}
	}
	return max
}

// estimateEps picks a neighbourhood radius from the data: the median of
// each point's k-th nearest-neighbour distance, k = minPts-1 since the
// neighbourhood includes the point itself. Median rather than mean so
// isolated outliers do not inflate the radius, which would fold them into
// clusters instead of leaving them as noise.
func estimateEps(dist [][]float64, minPts int) float64 {
	n := len(dist)
	k := minPts - 1
	if k < 1 {
		k = 1
	}
	if k >= n {
		k = n - 1
	}

	kth := make([]float64, 0, n)
	row := make([]float64, n)
	for i := 0; i < n; i++ {
		copy(row, dist[i])
		sort.Float64s(row)
		// row[0] is the self-distance.
		kth = append(kth, row[k])
	}
	sort.Float64s(kth)

	eps := kth[len(kth)/2]
	if eps == 0 {
		// Over half the corpus sits on duplicate points; fall back to the
		// smallest non-zero spacing.
		for _, d := range kth {
			if d > 0 {
				return d
			}
		}
	}
	return eps
}
