package driven

import (
	"context"

	"github.com/meridian-labs/topiclens/internal/core/domain"
)

// DocumentFilter narrows a document listing.
type DocumentFilter struct {
	// Embedded filters on embedding presence when non-nil.
	Embedded *bool
}

// DocumentStore persists the document corpus.
//
// Documents are created by ingestion and never deleted by the pipeline.
// Embedding and topic assignment writes normally travel through
// RunCommitter so a retrain commits atomically; the granular update
// methods exist for the ingestion boundary and for repair tooling.
type DocumentStore interface {
	// SaveDocument stores or updates a document.
	SaveDocument(ctx context.Context, doc *domain.Document) error

	// GetDocument retrieves a document by ID.
	GetDocument(ctx context.Context, id string) (*domain.Document, error)

	// GetDocumentByURL retrieves a document by its source URL.
	// Used by ingestion to de-duplicate.
	GetDocumentByURL(ctx context.Context, url string) (*domain.Document, error)

	// ListDocuments returns documents matching the filter, ordered by ID.
	ListDocuments(ctx context.Context, filter DocumentFilter) ([]domain.Document, error)

	// UpdateEmbedding sets a document's embedding vector and records the
	// model that produced it.
	UpdateEmbedding(ctx context.Context, id string, vector []float32, model string) error

	// UpdateTopicAssignment sets or clears a document's topic reference.
	UpdateTopicAssignment(ctx context.Context, id string, topicID *string) error
}
