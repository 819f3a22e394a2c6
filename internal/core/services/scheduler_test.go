package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meridian-labs/topiclens/internal/core/domain"
	"github.com/meridian-labs/topiclens/internal/core/ports/driving"
)

// countingPipeline records retrain triggers.
type countingPipeline struct {
	mu    sync.Mutex
	count int
	err   error
}

var _ driving.Pipeline = (*countingPipeline)(nil)

func (p *countingPipeline) RunRetrain(_ context.Context, mode domain.RetrainMode) (*domain.RunResult, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.count++
	if p.err != nil {
		return nil, p.err
	}
	return &domain.RunResult{RunID: "run", Mode: mode, Status: domain.RunSucceeded}, nil
}

func (p *countingPipeline) Status() driving.PipelineStatus {
	return driving.PipelineStatus{}
}

func (p *countingPipeline) triggers() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.count
}

func TestSchedulerTriggersRetrains(t *testing.T) {
	pipeline := &countingPipeline{}
	scheduler := NewScheduler(pipeline, "@every 10ms")

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- scheduler.Start(ctx) }()

	require.Eventually(t, func() bool {
		return pipeline.triggers() >= 2
	}, 2*time.Second, 5*time.Millisecond)

	cancel()
	require.NoError(t, <-done)
}

func TestSchedulerSkipsWhenRetrainInProgress(t *testing.T) {
	pipeline := &countingPipeline{err: domain.ErrRetrainInProgress}
	scheduler := NewScheduler(pipeline, "@every 10ms")

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- scheduler.Start(ctx) }()

	// The rejected trigger must not crash or wedge the loop.
	require.Eventually(t, func() bool {
		return pipeline.triggers() >= 2
	}, 2*time.Second, 5*time.Millisecond)

	cancel()
	require.NoError(t, <-done)
}

func TestSchedulerRejectsBadSchedule(t *testing.T) {
	scheduler := NewScheduler(&countingPipeline{}, "not a schedule")

	err := scheduler.Start(context.Background())
	assert.Error(t, err)
}

func TestSchedulerDefaultSchedule(t *testing.T) {
	scheduler := NewScheduler(&countingPipeline{}, "")
	assert.Equal(t, domain.DefaultRetrainSchedule, scheduler.schedule)
}
