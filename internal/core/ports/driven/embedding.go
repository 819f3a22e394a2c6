package driven

import "context"

// EmbeddingService generates vector embeddings from text.
//
// The service is a pure function of text content within one model version:
// the same text always maps to the same vector. Model weights may be loaded
// lazily by the backing adapter; that initialisation must be idempotent and
// safe for concurrent callers.
//
// Implementations may include:
//   - Ollama (nomic-embed-text, all-minilm)
//   - OpenAI-compatible APIs (text-embedding-3-small)
type EmbeddingService interface {
	// Embed generates a vector embedding for the given text.
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch generates embeddings for multiple texts, order-preserving.
	// This is more efficient than calling Embed in a loop for large batches.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	// Dimensions returns the embedding vector size (e.g., 384, 768, 1536).
	Dimensions() int

	// ModelName returns the name of the embedding model being used.
	ModelName() string

	// Ping validates the service is reachable with a lightweight request.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}
