package cli

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/meridian-labs/topiclens/internal/core/domain"
	"github.com/meridian-labs/topiclens/internal/core/ports/driving"
)

// mockPipeline implements driving.Pipeline for testing.
type mockPipeline struct {
	result *domain.RunResult
	err    error
	status driving.PipelineStatus
	mode   domain.RetrainMode
}

func (m *mockPipeline) RunRetrain(_ context.Context, mode domain.RetrainMode) (*domain.RunResult, error) {
	m.mode = mode
	return m.result, m.err
}

func (m *mockPipeline) Status() driving.PipelineStatus {
	return m.status
}

func successResult() *domain.RunResult {
	started := time.Date(2025, 7, 1, 12, 0, 0, 0, time.UTC)
	return &domain.RunResult{
		RunID:              "run-1",
		Mode:               domain.ModeIncremental,
		Status:             domain.RunSucceeded,
		TopicsCreated:      2,
		TopicsUpdated:      1,
		DocumentsProcessed: 10,
		NoiseCount:         1,
		StartedAt:          started,
		EndedAt:            started.Add(3 * time.Second),
	}
}

func setupTrainTest(p *mockPipeline) func() {
	old := pipelineService
	pipelineService = p
	return func() {
		pipelineService = old
		trainFull = false
	}
}

func execute(args ...string) (string, error) {
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	defer rootCmd.SetArgs(nil)
	err := rootCmd.Execute()
	return buf.String(), err
}

func TestTrainCmd_Use(t *testing.T) {
	assert.Equal(t, "train", trainCmd.Use)
}

func TestTrainCmd_Incremental(t *testing.T) {
	pipeline := &mockPipeline{result: successResult()}
	cleanup := setupTrainTest(pipeline)
	defer cleanup()

	out, err := execute("train")

	assert.NoError(t, err)
	assert.Equal(t, domain.ModeIncremental, pipeline.mode)
	assert.Contains(t, out, "2 created, 1 updated")
}

func TestTrainCmd_FullFlag(t *testing.T) {
	pipeline := &mockPipeline{result: successResult()}
	cleanup := setupTrainTest(pipeline)
	defer cleanup()

	_, err := execute("train", "--full")

	assert.NoError(t, err)
	assert.Equal(t, domain.ModeFull, pipeline.mode)
}

func TestTrainCmd_RetrainInProgress(t *testing.T) {
	pipeline := &mockPipeline{err: domain.ErrRetrainInProgress}
	cleanup := setupTrainTest(pipeline)
	defer cleanup()

	_, err := execute("train")

	assert.ErrorContains(t, err, "already in progress")
}

func TestTrainCmd_NotConfigured(t *testing.T) {
	cleanup := setupTrainTest(nil)
	defer cleanup()
	pipelineService = nil

	_, err := execute("train")

	assert.ErrorContains(t, err, "not configured")
}

func TestStatusCmd_NoRunYet(t *testing.T) {
	pipeline := &mockPipeline{}
	cleanup := setupTrainTest(pipeline)
	defer cleanup()

	out, err := execute("status")

	assert.NoError(t, err)
	assert.Contains(t, out, "Pipeline: idle")
	assert.Contains(t, out, "No retrain has run yet")
}

func TestStatusCmd_LastResult(t *testing.T) {
	pipeline := &mockPipeline{status: driving.PipelineStatus{
		Running:    true,
		Stage:      domain.StageClustering,
		LastResult: successResult(),
	}}
	cleanup := setupTrainTest(pipeline)
	defer cleanup()

	out, err := execute("status")

	assert.NoError(t, err)
	assert.Contains(t, out, "running")
	assert.Contains(t, out, "run-1")
}
