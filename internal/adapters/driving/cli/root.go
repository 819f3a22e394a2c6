// Package cli implements the topiclens command-line interface.
package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/meridian-labs/topiclens/internal/core/ports/driven"
	"github.com/meridian-labs/topiclens/internal/core/ports/driving"
	"github.com/meridian-labs/topiclens/internal/logger"
)

// version is set by Execute.
var version = "dev"

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "topiclens",
	Short: "Topic discovery and temporal tracking for text corpora",
	Long: `Topiclens discovers topics in a corpus of articles and video
transcripts and tracks how they evolve over time.

Documents are embedded, clustered and labelled on each retrain; topic
identities are kept stable across retrains so timelines stay meaningful.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"enable verbose output")
}

// Scheduler runs periodic retrains until its context is cancelled.
type Scheduler interface {
	Start(ctx context.Context) error
}

// Injected services. Set by Inject before Execute; commands report a
// configuration error when their service is missing.
var (
	pipelineService driving.Pipeline
	documentStore   driven.DocumentStore
	topicStore      driven.TopicStore
	temporalStore   driven.TemporalStore
	settingsStore   driven.SettingsStore
	newScheduler    func(schedule string) Scheduler
)

// Services holds the wired dependencies the commands use.
type Services struct {
	Pipeline     driving.Pipeline
	Documents    driven.DocumentStore
	Topics       driven.TopicStore
	Temporal     driven.TemporalStore
	Settings     driven.SettingsStore
	NewScheduler func(schedule string) Scheduler
}

// Inject wires the services into the command tree.
func Inject(s Services) {
	pipelineService = s.Pipeline
	documentStore = s.Documents
	topicStore = s.Topics
	temporalStore = s.Temporal
	settingsStore = s.Settings
	newScheduler = s.NewScheduler
}

// Execute runs the root command.
func Execute(v string) error {
	if v != "" {
		version = v
	}
	return rootCmd.Execute()
}
