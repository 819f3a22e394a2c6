package cli

import (
	"errors"
	"strings"

	"github.com/spf13/cobra"
)

var topicsAll bool

var topicsCmd = &cobra.Command{
	Use:   "topics",
	Short: "List discovered topics",
	Long: `Lists active topics with their document counts and keywords.
Dormant topics (no members after the latest retrain) are hidden unless
--all is given.`,
	RunE: runTopics,
}

func init() {
	topicsCmd.Flags().BoolVar(&topicsAll, "all", false,
		"include dormant topics")
	rootCmd.AddCommand(topicsCmd)
}

func runTopics(cmd *cobra.Command, _ []string) error {
	if topicStore == nil {
		return errors.New("topic store not configured")
	}

	topics, err := topicStore.ListTopics(cmd.Context())
	if err != nil {
		return err
	}

	shown := 0
	for _, topic := range topics {
		if topic.Dormant && !topicsAll {
			continue
		}
		shown++

		marker := ""
		if topic.Dormant {
			marker = " [dormant]"
		} else if topic.LowConfidence {
			marker = " [low confidence]"
		}
		cmd.Printf("%s  %s%s\n", topic.ID, topic.Name, marker)
		cmd.Printf("    documents: %d\n", topic.DocumentCount)
		if len(topic.Keywords) > 0 {
			cmd.Printf("    keywords:  %s\n", strings.Join(topic.Keywords, ", "))
		}
	}

	if shown == 0 {
		cmd.Println("No topics yet. Ingest documents and run 'topiclens train'.")
	}
	return nil
}
