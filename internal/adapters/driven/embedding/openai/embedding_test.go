package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meridian-labs/topiclens/internal/core/domain"
)

func TestNewEmbeddingService_RequiresAPIKey(t *testing.T) {
	_, err := NewEmbeddingService(Config{})
	assert.Error(t, err)
}

func TestEmbedBatch_OrderedByIndex(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		var req embeddingRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Input, 2)

		// Return data out of order; the adapter must reorder by index.
		resp := map[string]any{
			"data": []map[string]any{
				{"embedding": []float64{2, 2}, "index": 1},
				{"embedding": []float64{1, 1}, "index": 0},
			},
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	svc, err := NewEmbeddingService(Config{
		APIKey:        "test-key",
		BaseURL:       server.URL,
		RatePerSecond: 1000,
	})
	require.NoError(t, err)

	vecs, err := svc.EmbedBatch(context.Background(), []string{"first", "second"})
	require.NoError(t, err)
	require.Len(t, vecs, 2)
	assert.Equal(t, []float32{1, 1}, vecs[0])
	assert.Equal(t, []float32{2, 2}, vecs[1])
}

func TestEmbed_EmptyText(t *testing.T) {
	svc, err := NewEmbeddingService(Config{APIKey: "test-key", RatePerSecond: 1000})
	require.NoError(t, err)

	_, err = svc.Embed(context.Background(), "  ")
	assert.ErrorIs(t, err, domain.ErrEmptyText)
}

func TestEmbed_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{"message": "invalid model", "type": "invalid_request_error"},
		})
	}))
	defer server.Close()

	svc, err := NewEmbeddingService(Config{
		APIKey:        "test-key",
		BaseURL:       server.URL,
		RatePerSecond: 1000,
	})
	require.NoError(t, err)

	_, err = svc.Embed(context.Background(), "hello")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid model")
}

func TestDimensions_KnownModels(t *testing.T) {
	svc, err := NewEmbeddingService(Config{APIKey: "k", Model: "text-embedding-3-large"})
	require.NoError(t, err)
	assert.Equal(t, 3072, svc.Dimensions())

	svc, err = NewEmbeddingService(Config{APIKey: "k", Model: "unknown-model"})
	require.NoError(t, err)
	assert.Equal(t, 1536, svc.Dimensions())

	svc, err = NewEmbeddingService(Config{APIKey: "k", Dimensions: 256})
	require.NoError(t, err)
	assert.Equal(t, 256, svc.Dimensions())
}
