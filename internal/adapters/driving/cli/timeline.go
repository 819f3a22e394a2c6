package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/meridian-labs/topiclens/internal/core/domain"
)

// bucketFormat renders a bucket start. Buckets are day-aligned for every
// granularity, so the date form is always exact.
const bucketFormat = "2006-01-02"

var timelineCmd = &cobra.Command{
	Use:   "timeline <topic-id>",
	Short: "Show a topic's document counts over time",
	Args:  cobra.ExactArgs(1),
	RunE:  runTimeline,
}

func init() {
	rootCmd.AddCommand(timelineCmd)
}

func runTimeline(cmd *cobra.Command, args []string) error {
	if topicStore == nil || temporalStore == nil {
		return errors.New("stores not configured")
	}

	topicID := args[0]
	topic, err := topicStore.GetTopic(cmd.Context(), topicID)
	if errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("topic %s not found", topicID)
	}
	if err != nil {
		return err
	}

	points, err := temporalStore.Series(cmd.Context(), topicID)
	if err != nil {
		return err
	}

	cmd.Printf("%s  %s\n", topic.ID, topic.Name)
	if topic.Dormant {
		cmd.Println("  (dormant: no members after the latest retrain)")
	}
	if len(points) == 0 {
		cmd.Println("  no timestamped documents")
		return nil
	}
	for _, p := range points {
		cmd.Printf("  %s  %d\n", p.Bucket.Format(bucketFormat), p.Count)
	}
	return nil
}
