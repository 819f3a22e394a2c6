package domain

import "time"

// RetrainMode selects how much of the corpus is re-embedded.
type RetrainMode string

// Retrain modes.
const (
	// ModeIncremental embeds only documents without an embedding.
	// Clustering and reconciliation still run over the full corpus,
	// since topic boundaries can shift even without new text.
	ModeIncremental RetrainMode = "incremental"

	// ModeFull re-embeds every document, for model-version upgrades.
	ModeFull RetrainMode = "full"
)

// Valid reports whether the mode is recognised.
func (m RetrainMode) Valid() bool {
	return m == ModeIncremental || m == ModeFull
}

// Stage identifies where in the retrain pipeline a run currently is.
type Stage string

// Pipeline stages in execution order, plus the failure terminal.
const (
	StageIdle        Stage = "idle"
	StageEmbedding   Stage = "embedding"
	StageReducing    Stage = "reducing"
	StageClustering  Stage = "clustering"
	StageLabeling    Stage = "labeling"
	StageReconciling Stage = "reconciling"
	StageAggregating Stage = "aggregating"
	StagePersisting  Stage = "persisting"
	StageFailed      Stage = "failed"
)

// RunStatus is the terminal outcome of a retrain run.
type RunStatus string

// Run outcomes.
const (
	RunSucceeded RunStatus = "succeeded"
	RunFailed    RunStatus = "failed"
)

// RunResult summarises one retrain run for the caller.
type RunResult struct {
	// RunID uniquely identifies the run.
	RunID string

	// Mode is the trigger mode that was requested.
	Mode RetrainMode

	// Status is the terminal outcome.
	Status RunStatus

	// Error holds the failure message when Status is RunFailed.
	Error string

	// TopicsCreated counts clusters that matched no existing topic.
	TopicsCreated int

	// TopicsUpdated counts existing topics refreshed by a matching cluster.
	TopicsUpdated int

	// TopicsDormant counts topics with no matching cluster this run.
	TopicsDormant int

	// DocumentsProcessed is the number of documents in the run corpus.
	DocumentsProcessed int

	// DocumentsSkipped counts documents excluded for empty text.
	DocumentsSkipped int

	// NoiseCount is the number of documents left outside any cluster.
	NoiseCount int

	// AmbiguousMatches counts reconciliation contests where more than one
	// cluster best-matched the same topic. Log-worthy, never fatal.
	AmbiguousMatches int

	// StartedAt and EndedAt bound the run.
	StartedAt time.Time
	EndedAt   time.Time
}

// RunCommit is the full set of state changes produced by one retrain run.
// It is applied atomically at the Persisting stage: either every change
// lands or none of them do, so external readers never observe a partial
// topic set.
type RunCommit struct {
	// Embeddings maps document ID to a newly computed vector.
	Embeddings map[string][]float32

	// EmbeddingModel names the model that produced every vector in
	// Embeddings. A run uses exactly one embedder.
	EmbeddingModel string

	// Assignments maps document ID to its resolved topic ID, nil for
	// noise. Every document in the run corpus has an entry.
	Assignments map[string]*string

	// Topics are created or refreshed topics to upsert.
	Topics []Topic

	// DormantTopicIDs are topics to mark dormant this run.
	DormantTopicIDs []string

	// Series maps topic ID to its recomputed temporal series. The series
	// for each listed topic is replaced wholesale.
	Series map[string][]TemporalPoint
}
