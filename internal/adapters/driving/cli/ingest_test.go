package cli

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meridian-labs/topiclens/internal/adapters/driven/storage/memory"
	"github.com/meridian-labs/topiclens/internal/core/ports/driven"
)

func setupIngestTest(t *testing.T) (*memory.DocumentStore, func()) {
	t.Helper()
	docs := memory.NewDocumentStore()
	old := documentStore
	documentStore = docs
	return docs, func() { documentStore = old }
}

func writeIngestFile(t *testing.T, lines string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "docs.ndjson")
	require.NoError(t, os.WriteFile(path, []byte(lines), 0600))
	return path
}

func TestIngestCmd_AddsDocuments(t *testing.T) {
	docs, cleanup := setupIngestTest(t)
	defer cleanup()

	path := writeIngestFile(t, `
{"source_type": "article", "title": "Iphone launch", "content": "Apple keynote", "url": "https://example.com/a", "published_at": "2025-07-01T09:30:00Z"}
{"source_type": "video", "title": "UPI explainer", "content": "transcript text", "url": "https://example.com/b", "published_at": "2025-07-02"}
`)

	out, err := execute("ingest", path)

	assert.NoError(t, err)
	assert.Contains(t, out, "Ingested 2 documents (0 updated, 0 rejected)")

	stored, err := docs.ListDocuments(context.Background(), driven.DocumentFilter{})
	require.NoError(t, err)
	require.Len(t, stored, 2)
	for _, doc := range stored {
		assert.NotEmpty(t, doc.ID)
		assert.True(t, doc.HasTimestamp())
	}
}

func TestIngestCmd_DeduplicatesByURL(t *testing.T) {
	docs, cleanup := setupIngestTest(t)
	defer cleanup()

	path := writeIngestFile(t, `
{"source_type": "article", "title": "v1", "content": "first", "url": "https://example.com/a"}
{"source_type": "article", "title": "v2", "content": "second", "url": "https://example.com/a"}
`)

	out, err := execute("ingest", path)

	assert.NoError(t, err)
	assert.Contains(t, out, "Ingested 1 documents (1 updated, 0 rejected)")

	stored, err := docs.ListDocuments(context.Background(), driven.DocumentFilter{})
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, "v2", stored[0].Title)
}

func TestIngestCmd_RejectsMalformedLines(t *testing.T) {
	docs, cleanup := setupIngestTest(t)
	defer cleanup()

	path := writeIngestFile(t, `
{"source_type": "article", "title": "good", "content": "body", "url": "https://example.com/a"}
not json at all
{"source_type": "carrier-pigeon", "title": "bad type", "content": "body"}
{"source_type": "article", "title": "", "content": ""}
`)

	out, err := execute("ingest", path)

	assert.NoError(t, err, "bad lines are counted, not fatal")
	assert.Contains(t, out, "3 rejected")

	stored, err := docs.ListDocuments(context.Background(), driven.DocumentFilter{})
	require.NoError(t, err)
	require.Len(t, stored, 1)
}

func TestIngestCmd_BadTimestampKeepsDocument(t *testing.T) {
	docs, cleanup := setupIngestTest(t)
	defer cleanup()

	path := writeIngestFile(t, `{"source_type": "article", "title": "t", "content": "c", "url": "https://example.com/a", "published_at": "whenever"}`)

	_, err := execute("ingest", path)
	assert.NoError(t, err)

	stored, err := docs.ListDocuments(context.Background(), driven.DocumentFilter{})
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.False(t, stored[0].HasTimestamp())
}

func TestIngestCmd_MissingFile(t *testing.T) {
	_, cleanup := setupIngestTest(t)
	defer cleanup()

	_, err := execute("ingest", "/nonexistent/docs.ndjson")
	assert.Error(t, err)
}

func TestVersionCmd(t *testing.T) {
	out, err := execute("version")
	assert.NoError(t, err)
	assert.Contains(t, out, "topiclens version")
}
