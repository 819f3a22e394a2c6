package driven

// DimensionReducer projects embeddings into a lower-dimensional space
// suited to density-based clustering.
//
// The reducer is fit on the full batch every retrain; it carries no state
// between runs, because the embedding distribution drifts as the corpus
// grows. Batches smaller than the target dimensionality degrade gracefully
// by clamping the effective output dimensionality.
type DimensionReducer interface {
	// FitTransform fits on the batch and returns reduced vectors,
	// order-preserving. Returns domain.ErrInsufficientData for batches
	// below the absolute minimum (fewer than 2 vectors).
	FitTransform(vectors [][]float32, targetDims int) ([][]float32, error)
}
