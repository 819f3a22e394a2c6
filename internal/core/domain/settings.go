package domain

// Default configuration values.
const (
	DefaultEmbeddingProvider   = "ollama"
	DefaultEmbeddingModel      = "nomic-embed-text"
	DefaultReducedDims         = 5
	DefaultMinClusterSize      = 3
	DefaultKeywordsPerTopic    = 10
	DefaultSimilarityThreshold = 0.15
	DefaultBucketGranularity   = BucketDay
	DefaultRetrainSchedule     = "@every 1h"
	DefaultEmbedWorkers        = 4
	DefaultEmbedRatePerSecond  = 8.0
)

// Settings is the recognised configuration surface for the pipeline.
type Settings struct {
	// EmbeddingProvider selects the embedding backend: "ollama" or "openai".
	EmbeddingProvider string `toml:"embedding_provider"`

	// EmbeddingModel identifies the embedding model. Changing it forces
	// the next incremental run to behave like a full run, since stored
	// vectors from another model are not comparable.
	EmbeddingModel string `toml:"embedding_model"`

	// EmbeddingBaseURL overrides the provider's default endpoint.
	EmbeddingBaseURL string `toml:"embedding_base_url"`

	// ReducedDims is the target dimensionality for reduction.
	ReducedDims int `toml:"reduced_dims"`

	// MinClusterSize is the minimum number of mutually dense documents
	// required to form a cluster.
	MinClusterSize int `toml:"min_cluster_size"`

	// Epsilon is the density neighbourhood radius. Zero selects the
	// k-distance heuristic per run.
	Epsilon float64 `toml:"epsilon"`

	// KeywordsPerTopic is how many ranked keywords each topic retains.
	KeywordsPerTopic int `toml:"keywords_per_topic"`

	// SimilarityThreshold is the minimum reconciliation score for a new
	// cluster to inherit an existing topic's identity.
	SimilarityThreshold float64 `toml:"similarity_threshold"`

	// BucketGranularity sizes temporal buckets: day, week or month.
	BucketGranularity BucketGranularity `toml:"bucket_granularity"`

	// RetrainSchedule is a cron expression for watch mode.
	RetrainSchedule string `toml:"retrain_schedule"`

	// EmbedWorkers bounds the embedding worker pool.
	EmbedWorkers int `toml:"embed_workers"`

	// EmbedRatePerSecond throttles calls to the embedding API.
	EmbedRatePerSecond float64 `toml:"embed_rate_per_second"`
}

// DefaultSettings returns a Settings populated with defaults.
func DefaultSettings() Settings {
	return Settings{
		EmbeddingProvider:   DefaultEmbeddingProvider,
		EmbeddingModel:      DefaultEmbeddingModel,
		ReducedDims:         DefaultReducedDims,
		MinClusterSize:      DefaultMinClusterSize,
		KeywordsPerTopic:    DefaultKeywordsPerTopic,
		SimilarityThreshold: DefaultSimilarityThreshold,
		BucketGranularity:   DefaultBucketGranularity,
		RetrainSchedule:     DefaultRetrainSchedule,
		EmbedWorkers:        DefaultEmbedWorkers,
		EmbedRatePerSecond:  DefaultEmbedRatePerSecond,
	}
}

// ApplyDefaults fills zero-valued fields with defaults. Loading a partial
// config file therefore never produces an unusable pipeline.
func (s *Settings) ApplyDefaults() {
	if s.EmbeddingProvider == "" {
		s.EmbeddingProvider = DefaultEmbeddingProvider
	}
	if s.EmbeddingModel == "" {
		s.EmbeddingModel = DefaultEmbeddingModel
	}
	if s.ReducedDims <= 0 {
		s.ReducedDims = DefaultReducedDims
	}
	if s.MinClusterSize <= 0 {
		s.MinClusterSize = DefaultMinClusterSize
	}
	if s.KeywordsPerTopic <= 0 {
		s.KeywordsPerTopic = DefaultKeywordsPerTopic
	}
	if s.SimilarityThreshold <= 0 {
		s.SimilarityThreshold = DefaultSimilarityThreshold
	}
	if !s.BucketGranularity.Valid() {
		s.BucketGranularity = DefaultBucketGranularity
	}
	if s.RetrainSchedule == "" {
		s.RetrainSchedule = DefaultRetrainSchedule
	}
	if s.EmbedWorkers <= 0 {
		s.EmbedWorkers = DefaultEmbedWorkers
	}
	if s.EmbedRatePerSecond <= 0 {
		s.EmbedRatePerSecond = DefaultEmbedRatePerSecond
	}
}

// Validate checks the settings are internally consistent.
func (s *Settings) Validate() error {
	if s.ReducedDims < 1 {
		return ErrInvalidInput
	}
	if s.MinClusterSize < 2 {
		return ErrInvalidInput
	}
	if s.SimilarityThreshold <= 0 || s.SimilarityThreshold >= 1 {
		return ErrInvalidInput
	}
	if !s.BucketGranularity.Valid() {
		return ErrInvalidInput
	}
	return nil
}
