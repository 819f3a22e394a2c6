package cli

import (
	"context"
	"errors"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/meridian-labs/topiclens/internal/logger"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Run scheduled retrains until interrupted",
	Long: `Starts the retrain scheduler and blocks. Incremental retrains run on
the configured cron schedule; a tick that lands while a retrain is still
in progress is skipped.

The config file is watched: changing retrain_schedule takes effect
without restarting. Other settings changes apply on the next start.`,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, _ []string) error {
	if pipelineService == nil || settingsStore == nil || newScheduler == nil {
		return errors.New("pipeline service not configured")
	}

	settings, err := settingsStore.Load()
	if err != nil {
		return err
	}
	schedule := settings.RetrainSchedule

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()
	// Watch the directory, not the file: editors and atomic writers
	// replace the file, which drops a file-level watch.
	if err := watcher.Add(filepath.Dir(settingsStore.Path())); err != nil {
		return err
	}

	for {
		runCtx, cancel := context.WithCancel(ctx)
		errCh := make(chan error, 1)
		go func() { errCh <- newScheduler(schedule).Start(runCtx) }()
		cmd.Printf("Watching corpus, retrain schedule %q (ctrl-c to stop)\n", schedule)

		restart := false
		for !restart {
			select {
			case <-ctx.Done():
				cancel()
				<-errCh
				cmd.Println("Stopped.")
				return nil

			case err := <-errCh:
				cancel()
				if err != nil {
					return err
				}
				return nil

			case event := <-watcher.Events:
				if filepath.Clean(event.Name) != settingsStore.Path() {
					continue
				}
				if !event.Op.Has(fsnotify.Write) && !event.Op.Has(fsnotify.Create) {
					continue
				}
				reloaded, err := settingsStore.Load()
				if err != nil {
					logger.Warn("Config change ignored: %v", err)
					continue
				}
				if reloaded.RetrainSchedule == schedule {
					logger.Debug("Config reloaded, schedule unchanged")
					continue
				}
				schedule = reloaded.RetrainSchedule
				logger.Info("Retrain schedule changed to %q, restarting scheduler", schedule)
				cancel()
				<-errCh
				restart = true

			case err := <-watcher.Errors:
				logger.Warn("Config watcher error: %v", err)
			}
		}
		cancel()
	}
}
