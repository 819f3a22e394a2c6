package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/meridian-labs/topiclens/internal/core/domain"
	"github.com/meridian-labs/topiclens/internal/core/ports/driven"
)

// documentStore implements driven.DocumentStore.
type documentStore struct {
	store *Store
}

var _ driven.DocumentStore = (*documentStore)(nil)

// SaveDocument stores or updates a document.
func (s *documentStore) SaveDocument(ctx context.Context, doc *domain.Document) error {
	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO documents (id, source_type, title, content, url, published_at, embedding, embedding_model, topic_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			source_type = excluded.source_type,
			title = excluded.title,
			content = excluded.content,
			url = excluded.url,
			published_at = excluded.published_at,
			embedding = excluded.embedding,
			embedding_model = excluded.embedding_model,
			topic_id = excluded.topic_id
	`, doc.ID, string(doc.SourceType), doc.Title, doc.Content, doc.URL,
		nullTime(doc.PublishedAt), float32SliceToBytes(doc.Embedding), doc.EmbeddingModel, doc.TopicID)
	if err != nil {
		return fmt.Errorf("saving document: %w", err)
	}
	return nil
}

// GetDocument retrieves a document by ID.
func (s *documentStore) GetDocument(ctx context.Context, id string) (*domain.Document, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT id, source_type, title, content, url, published_at, embedding, embedding_model, topic_id
		FROM documents WHERE id = ?
	`, id)
	return scanDocument(row)
}

// GetDocumentByURL retrieves a document by its source URL.
func (s *documentStore) GetDocumentByURL(ctx context.Context, url string) (*domain.Document, error) {
	if url == "" {
		return nil, domain.ErrNotFound
	}
	row := s.store.db.QueryRowContext(ctx, `
		SELECT id, source_type, title, content, url, published_at, embedding, embedding_model, topic_id
		FROM documents WHERE url = ?
	`, url)
	return scanDocument(row)
}

// ListDocuments returns documents matching the filter, ordered by ID.
func (s *documentStore) ListDocuments(ctx context.Context, filter driven.DocumentFilter) ([]domain.Document, error) {
	query := `
		SELECT id, source_type, title, content, url, published_at, embedding, embedding_model, topic_id
		FROM documents
	`
	if filter.Embedded != nil {
		if *filter.Embedded {
			query += " WHERE embedding IS NOT NULL"
		} else {
			query += " WHERE embedding IS NULL"
		}
	}
	query += " ORDER BY id"

	rows, err := s.store.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing documents: %w", err)
	}
	defer rows.Close()

	var docs []domain.Document
	for rows.Next() {
		doc, err := scanDocumentRows(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, *doc)
	}
	return docs, rows.Err()
}

// UpdateEmbedding sets a document's embedding vector and producing model.
func (s *documentStore) UpdateEmbedding(ctx context.Context, id string, vector []float32, model string) error {
	return updateEmbedding(ctx, s.store.db, id, vector, model)
}

// UpdateTopicAssignment sets or clears a document's topic reference.
func (s *documentStore) UpdateTopicAssignment(ctx context.Context, id string, topicID *string) error {
	return updateTopicAssignment(ctx, s.store.db, id, topicID)
}

func updateEmbedding(ctx context.Context, ex execer, id string, vector []float32, model string) error {
	result, err := ex.ExecContext(ctx,
		"UPDATE documents SET embedding = ?, embedding_model = ? WHERE id = ?",
		float32SliceToBytes(vector), model, id)
	if err != nil {
		return fmt.Errorf("updating embedding: %w", err)
	}
	return requireRow(result)
}

func updateTopicAssignment(ctx context.Context, ex execer, id string, topicID *string) error {
	result, err := ex.ExecContext(ctx,
		"UPDATE documents SET topic_id = ? WHERE id = ?", topicID, id)
	if err != nil {
		return fmt.Errorf("updating topic assignment: %w", err)
	}
	return requireRow(result)
}

// requireRow maps a zero-row update to ErrNotFound.
func requireRow(result sql.Result) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// scannable covers *sql.Row and *sql.Rows.
type scannable interface {
	Scan(dest ...any) error
}

func scanDocument(row *sql.Row) (*domain.Document, error) {
	doc, err := scanDocumentFrom(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	return doc, err
}

func scanDocumentRows(rows *sql.Rows) (*domain.Document, error) {
	return scanDocumentFrom(rows)
}

func scanDocumentFrom(src scannable) (*domain.Document, error) {
	var (
		doc           domain.Document
		sourceType    string
		publishedAt   sql.NullTime
		embeddingBlob []byte
		topicID       sql.NullString
	)
	if err := src.Scan(&doc.ID, &sourceType, &doc.Title, &doc.Content, &doc.URL,
		&publishedAt, &embeddingBlob, &doc.EmbeddingModel, &topicID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning document: %w", err)
	}
	doc.SourceType = domain.SourceType(sourceType)
	if publishedAt.Valid {
		doc.PublishedAt = publishedAt.Time.UTC()
	}
	doc.Embedding = bytesToFloat32Slice(embeddingBlob)
	if topicID.Valid {
		id := topicID.String
		doc.TopicID = &id
	}
	return &doc, nil
}

// nullTime maps the zero time to NULL so missing publish timestamps stay
// distinguishable from real ones.
func nullTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t.UTC()
}
