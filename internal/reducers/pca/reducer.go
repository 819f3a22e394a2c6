// Package pca provides a principal component analysis dimensionality
// reducer. It is fit on the full batch every retrain and keeps no state
// between runs.
package pca

import (
	"fmt"
	"math"

	"github.com/meridian-labs/topiclens/internal/core/domain"
	"github.com/meridian-labs/topiclens/internal/core/ports/driven"
)

// Ensure Reducer implements the interface.
var _ driven.DimensionReducer = (*Reducer)(nil)

// Iteration limits for power iteration.
const (
	maxIterations  = 200
	convergenceEps = 1e-9
)

// Reducer projects embeddings onto their top principal components.
//
// Components are extracted by power iteration with deflation, which costs
// O(iterations * n * d) per component and never materialises the d x d
// covariance matrix. Sign is fixed so the largest-magnitude loading is
// positive, making the projection deterministic for a given batch.
type Reducer struct{}

// New creates a PCA reducer.
func New() *Reducer {
	return &Reducer{}
}

// FitTransform centres the batch, extracts up to targetDims principal
// components and returns the projected vectors, order-preserving.
//
// The effective output dimensionality is clamped to
// min(targetDims, featureDims, n-1); an early corpus of three documents
// reduces to at most two dimensions rather than failing. Fewer than two
// vectors is unreducible and returns domain.ErrInsufficientData.
func (r *Reducer) FitTransform(vectors [][]float32, targetDims int) ([][]float32, error) {
	n := len(vectors)
	if n < 2 {
		return nil, fmt.Errorf("pca: %d vectors: %w", n, domain.ErrInsufficientData)
	}
	if targetDims < 1 {
		return nil, fmt.Errorf("pca: target dims %d: %w", targetDims, domain.ErrInvalidInput)
	}
	d := len(vectors[0])
	for i, v := range vectors {
		if len(v) != d {
			return nil, fmt.Errorf("pca: vector %d has %d dims, want %d: %w",
				i, len(v), d, domain.ErrInvalidInput)
		}
	}

	k := targetDims
	if d < k {
		k = d
	}
	if n-1 < k {
		k = n - 1
	}

	// Centre the batch in float64.
	centred := centre(vectors)

	components := make([][]float64, 0, k)
	for c := 0; c < k; c++ {
		comp, ok := r.extractComponent(centred, components, d)
		if !ok {
			// Remaining variance is numerically zero; stop extracting.
			break
		}
		components = append(components, comp)
	}
	if len(components) == 0 {
		// Zero-spread batch. Project everything to the origin in one
		// dimension; the clusterer reports the degeneracy.
		out := make([][]float32, n)
		for i := range out {
			out[i] = make([]float32, 1)
		}
		return out, nil
	}

	out := make([][]float32, n)
	for i, row := range centred {
		projected := make([]float32, len(components))
		for j, comp := range components {
			projected[j] = float32(dot(row, comp))
		}
		out[i] = projected
	}
	return out, nil
}

// extractComponent runs power iteration against the centred data,
// deflating previously found components. Returns false when no remaining
// direction carries variance.
func (r *Reducer) extractComponent(centred [][]float64, prior [][]float64, d int) ([]float64, bool) {
	// Deterministic start candidates: a uniform direction first, then the
	// canonical basis vectors. A candidate that lands in the null space of
	// the deflated covariance yields a zero multiply and is skipped.
	for attempt := 0; attempt <= d; attempt++ {
		v := startVector(d, attempt)
		orthogonalise(v, prior)
		if normalise(v) == 0 {
			continue
		}

		converged := false
		var prevEigen float64
		for iter := 0; iter < maxIterations; iter++ {
			// w = Cov * v computed as X^T (X v) without forming Cov.
			w := make([]float64, d)
			for _, row := range centred {
				p := dot(row, v)
				for j, x := range row {
					w[j] += p * x
				}
			}
			orthogonalise(w, prior)

			eigen := normalise(w)
			if eigen == 0 {
				break
			}
			v = w
			converged = true
			if math.Abs(eigen-prevEigen) < convergenceEps*math.Max(1, eigen) {
				break
			}
			prevEigen = eigen
		}
		if !converged {
			continue
		}

		fixSign(v)
		return v, true
	}
	return nil, false
}

// startVector returns the attempt-th deterministic start direction.
func startVector(d, attempt int) []float64 {
	v := make([]float64, d)
	if attempt == 0 {
		for i := range v {
			v[i] = 1.0 / math.Sqrt(float64(d))
		}
		return v
	}
	v[attempt-1] = 1
	return v
}

// centre subtracts the per-feature mean, promoting to float64.
func centre(vectors [][]float32) [][]float64 {
	n := len(vectors)
	d := len(vectors[0])
	mean := make([]float64, d)
	for _, v := range vectors {
		for j, x := range v {
			mean[j] += float64(x)
		}
	}
	for j := range mean {
		mean[j] /= float64(n)
	}

	centred := make([][]float64, n)
	for i, v := range vectors {
		row := make([]float64, d)
		for j, x := range v {
			row[j] = float64(x) - mean[j]
		}
		centred[i] = row
	}
	return centred
}

// orthogonalise removes the projections of v onto each prior component.
func orthogonalise(v []float64, prior [][]float64) {
	for _, p := range prior {
		proj := dot(v, p)
		for j := range v {
			v[j] -= proj * p[j]
		}
	}
}

// normalise scales v to unit length and returns the original norm.
func normalise(v []float64) float64 {
	norm := math.Sqrt(dot(v, v))
	if norm < 1e-12 {
		return 0
	}
	for j := range v {
		v[j] /= norm
	}
	return norm
}

// fixSign makes the largest-magnitude loading positive so eigenvector
// orientation does not flip between runs.
func fixSign(v []float64) {
	maxIdx := 0
	for j := range v {
		if math.Abs(v[j]) > math.Abs(v[maxIdx]) {
			maxIdx = j
		}
	}
	if v[maxIdx] < 0 {
		for j := range v {
			v[j] = -v[j]
		}
	}
}

func dot(a, b []float64) float64 {
	var sum float64
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}
