package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrEmptyText indicates a document has no embeddable text after
	// normalisation. The document is skipped, never the whole batch.
	ErrEmptyText = errors.New("empty text")

	// ErrInsufficientData indicates the corpus is too small to reduce or
	// cluster meaningfully. The retrain run aborts and prior state stands.
	ErrInsufficientData = errors.New("insufficient data")

	// ErrDegenerateInput indicates numerical degeneracy in clustering,
	// such as all-identical vectors. The batch is treated as all-noise
	// rather than aborting the run.
	ErrDegenerateInput = errors.New("degenerate input")

	// ErrRetrainInProgress indicates a retrain run is already executing.
	// Concurrent triggers are rejected, not queued; the caller retries later.
	ErrRetrainInProgress = errors.New("retrain in progress")

	// ErrEmbeddingUnavailable indicates the embedding service is not
	// configured or not reachable. No retrain can run without embeddings.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")
)
