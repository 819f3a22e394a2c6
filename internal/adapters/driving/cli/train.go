package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/meridian-labs/topiclens/internal/core/domain"
)

var trainFull bool

var trainCmd = &cobra.Command{
	Use:   "train",
	Short: "Run one retrain cycle",
	Long: `Runs one retrain cycle: embeds new documents, rediscovers clusters,
reconciles them with existing topics and rebuilds the temporal series.

By default only documents without an embedding are embedded. Use --full
to re-embed the whole corpus, for example after changing the embedding
model.`,
	RunE: runTrain,
}

func init() {
	trainCmd.Flags().BoolVar(&trainFull, "full", false,
		"re-embed every document before clustering")
	rootCmd.AddCommand(trainCmd)
}

func runTrain(cmd *cobra.Command, _ []string) error {
	if pipelineService == nil {
		return errors.New("pipeline service not configured")
	}

	mode := domain.ModeIncremental
	if trainFull {
		mode = domain.ModeFull
	}

	cmd.Printf("Starting %s retrain...\n", mode)
	result, err := pipelineService.RunRetrain(cmd.Context(), mode)
	switch {
	case errors.Is(err, domain.ErrRetrainInProgress):
		return errors.New("a retrain is already in progress")
	case errors.Is(err, domain.ErrInsufficientData):
		return fmt.Errorf("not enough documents to train: %v", err)
	case err != nil:
		return fmt.Errorf("retrain failed: %w", err)
	}

	cmd.Printf("Retrain %s complete in %s\n",
		result.RunID, result.EndedAt.Sub(result.StartedAt).Round(time.Millisecond))
	cmd.Printf("  Documents: %d processed, %d skipped, %d noise\n",
		result.DocumentsProcessed, result.DocumentsSkipped, result.NoiseCount)
	cmd.Printf("  Topics:    %d created, %d updated, %d dormant\n",
		result.TopicsCreated, result.TopicsUpdated, result.TopicsDormant)
	if result.AmbiguousMatches > 0 {
		cmd.Printf("  Note:      %d ambiguous cluster matches resolved to new topics\n",
			result.AmbiguousMatches)
	}
	return nil
}
