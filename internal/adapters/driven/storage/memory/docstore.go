package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/meridian-labs/topiclens/internal/core/domain"
	"github.com/meridian-labs/topiclens/internal/core/ports/driven"
)

// Ensure DocumentStore implements the interface.
var _ driven.DocumentStore = (*DocumentStore)(nil)

// DocumentStore is an in-memory implementation of driven.DocumentStore.
type DocumentStore struct {
	mu        sync.RWMutex
	documents map[string]domain.Document
}

// NewDocumentStore creates a new in-memory document store.
func NewDocumentStore() *DocumentStore {
	return &DocumentStore{
		documents: make(map[string]domain.Document),
	}
}

// SaveDocument stores or updates a document.
func (s *DocumentStore) SaveDocument(_ context.Context, doc *domain.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := *doc
	stored.Embedding = append([]float32(nil), doc.Embedding...)
	s.documents[doc.ID] = stored
	return nil
}

// GetDocument retrieves a document by ID.
func (s *DocumentStore) GetDocument(_ context.Context, id string) (*domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.documents[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &doc, nil
}

// GetDocumentByURL retrieves a document by its source URL.
func (s *DocumentStore) GetDocumentByURL(_ context.Context, url string) (*domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for id := range s.documents {
		doc := s.documents[id]
		if doc.URL == url && url != "" {
			return &doc, nil
		}
	}
	return nil, domain.ErrNotFound
}

// ListDocuments returns documents matching the filter, ordered by ID.
func (s *DocumentStore) ListDocuments(_ context.Context, filter driven.DocumentFilter) ([]domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]domain.Document, 0, len(s.documents))
	for id := range s.documents {
		doc := s.documents[id]
		if filter.Embedded != nil && *filter.Embedded != (len(doc.Embedding) > 0) {
			continue
		}
		result = append(result, doc)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

// UpdateEmbedding sets a document's embedding vector and producing model.
func (s *DocumentStore) UpdateEmbedding(_ context.Context, id string, vector []float32, model string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, ok := s.documents[id]
	if !ok {
		return domain.ErrNotFound
	}
	doc.Embedding = append([]float32(nil), vector...)
	doc.EmbeddingModel = model
	s.documents[id] = doc
	return nil
}

// UpdateTopicAssignment sets or clears a document's topic reference.
func (s *DocumentStore) UpdateTopicAssignment(_ context.Context, id string, topicID *string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, ok := s.documents[id]
	if !ok {
		return domain.ErrNotFound
	}
	if topicID == nil {
		doc.TopicID = nil
	} else {
		v := *topicID
		doc.TopicID = &v
	}
	s.documents[id] = doc
	return nil
}
