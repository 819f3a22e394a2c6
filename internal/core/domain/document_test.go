package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocumentValidate(t *testing.T) {
	tests := []struct {
		name    string
		doc     Document
		wantErr error
	}{
		{
			name: "valid article",
			doc: Document{
				ID:         "doc-1",
				SourceType: SourceArticle,
				Title:      "iPhone 16 launch",
				Content:    "Apple announced the iPhone 16 today.",
			},
		},
		{
			name: "valid video transcript",
			doc: Document{
				ID:         "doc-2",
				SourceType: SourceVideo,
				Content:    "welcome back to the channel",
			},
		},
		{
			name:    "missing id",
			doc:     Document{SourceType: SourceArticle, Content: "text"},
			wantErr: ErrInvalidInput,
		},
		{
			name:    "unknown source type",
			doc:     Document{ID: "doc-3", SourceType: "podcast", Content: "text"},
			wantErr: ErrInvalidInput,
		},
		{
			name:    "empty text",
			doc:     Document{ID: "doc-4", SourceType: SourceArticle, Content: "   \n\t "},
			wantErr: ErrEmptyText,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.doc.Validate()
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tt.wantErr))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestEmbeddableTextJoinsTitleAndContent(t *testing.T) {
	doc := Document{Title: "UPI regulations", Content: "The RBI issued new rules."}
	assert.Equal(t, "UPI regulations\nThe RBI issued new rules.", doc.EmbeddableText())
}

func TestHasTimestamp(t *testing.T) {
	var doc Document
	assert.False(t, doc.HasTimestamp())

	doc.PublishedAt = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	assert.True(t, doc.HasTimestamp())
}
