package driving

import (
	"context"

	"github.com/meridian-labs/topiclens/internal/core/domain"
)

// PipelineStatus reports the orchestrator's current position.
type PipelineStatus struct {
	// Running is true while a retrain is in flight.
	Running bool

	// Stage is the current pipeline stage, StageIdle when not running.
	Stage domain.Stage

	// LastResult is the most recent completed run, nil before any run.
	LastResult *domain.RunResult
}

// Pipeline is the retrain trigger interface consumed by the scheduler and
// the CLI. The core has no timers of its own; callers decide when to run.
type Pipeline interface {
	// RunRetrain executes one full retrain cycle. It returns
	// domain.ErrRetrainInProgress if a run is already in flight; the
	// trigger is rejected, never queued.
	RunRetrain(ctx context.Context, mode domain.RetrainMode) (*domain.RunResult, error)

	// Status returns the current pipeline status.
	Status() PipelineStatus
}
