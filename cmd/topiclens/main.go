// Command topiclens discovers topics in a document corpus and tracks
// them over time.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/meridian-labs/topiclens/internal/adapters/driven/config/file"
	"github.com/meridian-labs/topiclens/internal/adapters/driven/embedding/ollama"
	"github.com/meridian-labs/topiclens/internal/adapters/driven/embedding/openai"
	"github.com/meridian-labs/topiclens/internal/adapters/driven/storage/sqlite"
	"github.com/meridian-labs/topiclens/internal/adapters/driving/cli"
	"github.com/meridian-labs/topiclens/internal/clusterers/dbscan"
	"github.com/meridian-labs/topiclens/internal/core/domain"
	"github.com/meridian-labs/topiclens/internal/core/ports/driven"
	"github.com/meridian-labs/topiclens/internal/core/services"
	"github.com/meridian-labs/topiclens/internal/labelers/ctfidf"
	"github.com/meridian-labs/topiclens/internal/logger"
	"github.com/meridian-labs/topiclens/internal/reducers/pca"
)

// version is overridden at build time via -ldflags.
var version = "dev"

func main() {
	// Best effort: a .env file is a convenience, not a requirement.
	_ = godotenv.Load()

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	settingsStore, err := file.NewSettingsStore(os.Getenv("TOPICLENS_CONFIG_DIR"))
	if err != nil {
		return fmt.Errorf("opening config: %w", err)
	}
	settings, err := settingsStore.Load()
	if err != nil {
		return err
	}

	store, err := sqlite.NewStore(os.Getenv("TOPICLENS_DATA_DIR"))
	if err != nil {
		return fmt.Errorf("opening storage: %w", err)
	}
	defer store.Close()

	embedder, err := buildEmbedder(settings)
	if err != nil {
		return err
	}
	if embedder != nil {
		defer embedder.Close()
	}

	pipeline := services.NewPipeline(
		settings,
		embedder,
		pca.New(),
		dbscan.New(settings.MinClusterSize, settings.Epsilon),
		ctfidf.New(settings.KeywordsPerTopic),
		store.DocumentStore(),
		store.TopicStore(),
		store.RunCommitter(),
	)

	cli.Inject(cli.Services{
		Pipeline:  pipeline,
		Documents: store.DocumentStore(),
		Topics:    store.TopicStore(),
		Temporal:  store.TemporalStore(),
		Settings:  settingsStore,
		NewScheduler: func(schedule string) cli.Scheduler {
			return services.NewScheduler(pipeline, schedule)
		},
	})

	return cli.Execute(version)
}

// buildEmbedder constructs the configured embedding backend. A missing
// OpenAI key degrades to a nil embedder so read-only commands keep
// working; training then reports the embedder as unavailable.
func buildEmbedder(settings domain.Settings) (driven.EmbeddingService, error) {
	switch settings.EmbeddingProvider {
	case "ollama":
		return ollama.NewEmbeddingService(ollama.Config{
			BaseURL:       settings.EmbeddingBaseURL,
			Model:         settings.EmbeddingModel,
			RatePerSecond: settings.EmbedRatePerSecond,
		}), nil
	case "openai":
		apiKey := os.Getenv("OPENAI_API_KEY")
		if apiKey == "" {
			logger.Warn("OPENAI_API_KEY not set, embedding disabled")
			return nil, nil
		}
		return openai.NewEmbeddingService(openai.Config{
			APIKey:        apiKey,
			BaseURL:       settings.EmbeddingBaseURL,
			Model:         settings.EmbeddingModel,
			RatePerSecond: settings.EmbedRatePerSecond,
		})
	default:
		return nil, fmt.Errorf("embedding provider %q: %w",
			settings.EmbeddingProvider, domain.ErrInvalidInput)
	}
}
