package domain

import (
	"strings"
	"time"
)

// SourceType identifies where a document came from.
type SourceType string

// Recognised source types.
const (
	SourceArticle SourceType = "article"
	SourceVideo   SourceType = "video"
)

// Valid reports whether the source type is recognised.
func (t SourceType) Valid() bool {
	return t == SourceArticle || t == SourceVideo
}

// Document represents a raw corpus unit: a news article or a video
// transcript. Documents are created by ingestion and never deleted by the
// pipeline; only Embedding and TopicID are mutated across retrains.
type Document struct {
	// ID is the unique identifier for the document.
	ID string

	// SourceType is "article" or "video".
	SourceType SourceType

	// Title is the human-readable title.
	Title string

	// Content is the full text. For videos this is the transcript.
	Content string

	// URL is the original location of the content.
	URL string

	// PublishedAt is the publish timestamp. A zero value means the
	// timestamp was missing or unparseable at ingestion; such documents
	// keep their topic membership but are excluded from temporal series.
	PublishedAt time.Time

	// Embedding is the dense vector for Content. Nil until the first
	// embedding pass. Recomputed only when Content changes or on a
	// full retrain.
	Embedding []float32

	// EmbeddingModel names the model that produced Embedding. A vector
	// from a different model than the configured one is not comparable
	// and is recomputed as if missing.
	EmbeddingModel string

	// TopicID references the durable topic this document belongs to.
	// Nil for unclustered documents and for noise.
	TopicID *string
}

// EmbeddableText returns the text the embedder should see: title and
// content joined, whitespace-normalised. An empty result means the
// document cannot be embedded.
func (d *Document) EmbeddableText() string {
	text := strings.TrimSpace(d.Title + "\n" + d.Content)
	return strings.TrimSpace(text)
}

// HasTimestamp reports whether the document carries a usable publish time.
func (d *Document) HasTimestamp() bool {
	return !d.PublishedAt.IsZero()
}

// Validate checks the document is well-formed enough to enter the corpus.
// Ingestion rejects malformed records at this boundary so the pipeline
// never sees them.
func (d *Document) Validate() error {
	if d.ID == "" {
		return ErrInvalidInput
	}
	if !d.SourceType.Valid() {
		return ErrInvalidInput
	}
	if d.EmbeddableText() == "" {
		return ErrEmptyText
	}
	return nil
}
