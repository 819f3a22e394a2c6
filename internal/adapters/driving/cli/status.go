package cli

import (
	"errors"
	"time"

	"github.com/spf13/cobra"

	"github.com/meridian-labs/topiclens/internal/core/domain"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show pipeline status and the last run result",
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, _ []string) error {
	if pipelineService == nil {
		return errors.New("pipeline service not configured")
	}

	status := pipelineService.Status()
	if status.Running {
		cmd.Printf("Pipeline: running (%s)\n", status.Stage)
	} else {
		cmd.Println("Pipeline: idle")
	}

	last := status.LastResult
	if last == nil {
		cmd.Println("No retrain has run yet.")
		return nil
	}

	cmd.Printf("Last run: %s (%s)\n", last.RunID, last.Mode)
	cmd.Printf("  Status:    %s\n", last.Status)
	if last.Status == domain.RunFailed && last.Error != "" {
		cmd.Printf("  Error:     %s\n", last.Error)
	}
	cmd.Printf("  Started:   %s\n", last.StartedAt.Format(time.RFC3339))
	cmd.Printf("  Duration:  %s\n", last.EndedAt.Sub(last.StartedAt).Round(time.Millisecond))
	cmd.Printf("  Documents: %d processed, %d skipped, %d noise\n",
		last.DocumentsProcessed, last.DocumentsSkipped, last.NoiseCount)
	cmd.Printf("  Topics:    %d created, %d updated, %d dormant\n",
		last.TopicsCreated, last.TopicsUpdated, last.TopicsDormant)
	return nil
}
