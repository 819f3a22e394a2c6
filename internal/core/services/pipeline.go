package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/meridian-labs/topiclens/internal/core/domain"
	"github.com/meridian-labs/topiclens/internal/core/ports/driven"
	"github.com/meridian-labs/topiclens/internal/core/ports/driving"
	"github.com/meridian-labs/topiclens/internal/logger"
)

// Ensure Pipeline implements the interface.
var _ driving.Pipeline = (*Pipeline)(nil)

// Pipeline orchestrates one retrain cycle end to end:
//
//	Idle -> Embedding -> Reducing -> Clustering -> Labeling ->
//	Reconciling -> Aggregating -> Persisting -> Idle
//
// with Failed as the terminal state of an aborted run. At most one retrain
// is in transit at a time; a concurrent trigger is rejected with
// domain.ErrRetrainInProgress rather than queued. No external state is
// written before the Persisting stage, and the commit there is atomic, so
// an aborted run leaves the previous topic and temporal state untouched.
type Pipeline struct {
	settings   domain.Settings
	embedder   driven.EmbeddingService
	reducer    driven.DimensionReducer
	clusterer  driven.Clusterer
	labeler    driven.TopicLabeler
	docs       driven.DocumentStore
	topics     driven.TopicStore
	committer  driven.RunCommitter
	registry   *Registry
	aggregator *Aggregator

	runMu sync.Mutex // held for the full duration of one retrain

	statusMu   sync.RWMutex
	stage      domain.Stage
	lastResult *domain.RunResult
}

// NewPipeline creates the retrain orchestrator.
func NewPipeline(
	settings domain.Settings,
	embedder driven.EmbeddingService,
	reducer driven.DimensionReducer,
	clusterer driven.Clusterer,
	labeler driven.TopicLabeler,
	docs driven.DocumentStore,
	topics driven.TopicStore,
	committer driven.RunCommitter,
) *Pipeline {
	return &Pipeline{
		settings:   settings,
		embedder:   embedder,
		reducer:    reducer,
		clusterer:  clusterer,
		labeler:    labeler,
		docs:       docs,
		topics:     topics,
		committer:  committer,
		registry:   NewRegistry(settings.SimilarityThreshold),
		aggregator: NewAggregator(settings.BucketGranularity),
		stage:      domain.StageIdle,
	}
}

// Status returns the current pipeline stage and last run result.
func (p *Pipeline) Status() driving.PipelineStatus {
	p.statusMu.RLock()
	defer p.statusMu.RUnlock()

	status := driving.PipelineStatus{
		Running: p.stage != domain.StageIdle && p.stage != domain.StageFailed,
		Stage:   p.stage,
	}
	if p.lastResult != nil {
		copied := *p.lastResult
		status.LastResult = &copied
	}
	return status
}

// RunRetrain executes one full retrain cycle.
func (p *Pipeline) RunRetrain(ctx context.Context, mode domain.RetrainMode) (*domain.RunResult, error) {
	if !mode.Valid() {
		return nil, fmt.Errorf("retrain mode %q: %w", mode, domain.ErrInvalidInput)
	}
	if p.embedder == nil {
		return nil, domain.ErrEmbeddingUnavailable
	}
	if !p.runMu.TryLock() {
		return nil, domain.ErrRetrainInProgress
	}
	defer p.runMu.Unlock()

	result := &domain.RunResult{
		RunID:     uuid.NewString(),
		Mode:      mode,
		StartedAt: time.Now().UTC(),
	}
	logger.Section("Retrain " + result.RunID)
	logger.Info("Starting %s retrain", mode)

	err := p.run(ctx, mode, result)
	result.EndedAt = time.Now().UTC()
	if err != nil {
		result.Status = domain.RunFailed
		result.Error = err.Error()
		p.finish(domain.StageFailed, result)
		logger.Warn("Retrain failed: %v", err)
		return result, err
	}

	result.Status = domain.RunSucceeded
	p.finish(domain.StageIdle, result)
	logger.Info("Retrain complete: %d documents, %d topics created, %d updated, %d dormant, %d noise",
		result.DocumentsProcessed, result.TopicsCreated, result.TopicsUpdated,
		result.TopicsDormant, result.NoiseCount)
	return result, nil
}

// run executes the stages. All state is accumulated in memory and handed
// to the committer in one piece at Persisting.
func (p *Pipeline) run(ctx context.Context, mode domain.RetrainMode, result *domain.RunResult) error {
	p.setStage(domain.StageEmbedding)
	corpus, newEmbeddings, err := p.embedStage(ctx, mode, result)
	if err != nil {
		return err
	}
	result.DocumentsProcessed = len(corpus)
	if len(corpus) < 2 {
		return fmt.Errorf("corpus of %d embeddable documents: %w",
			len(corpus), domain.ErrInsufficientData)
	}

	p.setStage(domain.StageReducing)
	vectors := make([][]float32, len(corpus))
	for i := range corpus {
		vectors[i] = corpus[i].Embedding
	}
	reduced, err := p.reducer.FitTransform(vectors, p.settings.ReducedDims)
	if err != nil {
		return fmt.Errorf("reduce: %w", err)
	}

	p.setStage(domain.StageClustering)
	labels, err := p.clusterer.Cluster(reduced)
	if errors.Is(err, domain.ErrDegenerateInput) {
		// Numerical degeneracy: the whole batch is noise this run.
		logger.Warn("Clustering degenerate, treating batch as noise: %v", err)
		labels = make([]int, len(corpus))
		for i := range labels {
			labels[i] = driven.Noise
		}
	} else if err != nil {
		return fmt.Errorf("cluster: %w", err)
	}

	p.setStage(domain.StageLabeling)
	clusterTexts := make(map[int][]string)
	clusterMembers := make(map[int][]string)
	corpusTexts := make([]string, len(corpus))
	for i := range corpus {
		text := corpus[i].EmbeddableText()
		corpusTexts[i] = text
		if labels[i] == driven.Noise {
			result.NoiseCount++
			continue
		}
		clusterTexts[labels[i]] = append(clusterTexts[labels[i]], text)
		clusterMembers[labels[i]] = append(clusterMembers[labels[i]], corpus[i].ID)
	}
	clusterLabels := p.labeler.Label(clusterTexts, corpusTexts)

	p.setStage(domain.StageReconciling)
	existing, err := p.topics.ListTopics(ctx)
	if err != nil {
		return fmt.Errorf("list topics: %w", err)
	}
	inputs := make([]ClusterInput, 0, len(clusterMembers))
	for label, members := range clusterMembers {
		cl := clusterLabels[label]
		inputs = append(inputs, ClusterInput{
			Label:         label,
			Name:          cl.Name,
			Keywords:      cl.Keywords,
			LowConfidence: cl.LowConfidence,
			MemberIDs:     members,
		})
	}
	reconciled := p.registry.Reconcile(existing, inputs)
	result.TopicsCreated = reconciled.Created
	result.TopicsUpdated = reconciled.Updated
	result.TopicsDormant = reconciled.Dormant
	result.AmbiguousMatches = reconciled.Ambiguous

	p.setStage(domain.StageAggregating)
	activeIDs := make([]string, 0, len(reconciled.Topics))
	for i := range reconciled.Topics {
		activeIDs = append(activeIDs, reconciled.Topics[i].ID)
	}
	series := p.aggregator.Aggregate(corpus, reconciled.Assignments, activeIDs)

	p.setStage(domain.StagePersisting)
	assignments := make(map[string]*string, len(corpus))
	for i := range corpus {
		if topicID, ok := reconciled.Assignments[corpus[i].ID]; ok {
			id := topicID
			assignments[corpus[i].ID] = &id
		} else {
			assignments[corpus[i].ID] = nil // noise
		}
	}
	commit := &domain.RunCommit{
		Embeddings:      newEmbeddings,
		EmbeddingModel:  p.embedder.ModelName(),
		Assignments:     assignments,
		Topics:          reconciled.Topics,
		DormantTopicIDs: reconciled.DormantTopicIDs,
		Series:          series,
	}
	if err := p.committer.CommitRun(ctx, commit); err != nil {
		return fmt.Errorf("persist: %w", err)
	}
	return nil
}

// embedStage loads the corpus and fills in missing embeddings. In
// incremental mode only documents without a usable embedding are embedded;
// full mode re-embeds everything. Documents with empty text are skipped
// and logged, never failing the batch. Embedding work is data-parallel
// across a bounded worker pool; no shared state is mutated until all
// workers have finished.
func (p *Pipeline) embedStage(
	ctx context.Context,
	mode domain.RetrainMode,
	result *domain.RunResult,
) ([]domain.Document, map[string][]float32, error) {
	docs, err := p.docs.ListDocuments(ctx, driven.DocumentFilter{})
	if err != nil {
		return nil, nil, fmt.Errorf("list documents: %w", err)
	}
	sort.Slice(docs, func(i, j int) bool { return docs[i].ID < docs[j].ID })

	dims := p.embedder.Dimensions()
	model := p.embedder.ModelName()
	var pending []int
	for i := range docs {
		if mode == domain.ModeFull ||
			len(docs[i].Embedding) != dims ||
			docs[i].EmbeddingModel != model {
			// A vector of the wrong width or from a different model is
			// not comparable and is recomputed even incrementally.
			pending = append(pending, i)
		}
	}
	logger.Info("Embedding %d of %d documents", len(pending), len(docs))

	newEmbeddings := make(map[string][]float32, len(pending))
	if len(pending) > 0 {
		vectors, skipped, err := p.embedParallel(ctx, docs, pending)
		if err != nil {
			return nil, nil, err
		}
		result.DocumentsSkipped = skipped
		for idx, vec := range vectors {
			docs[idx].Embedding = vec
			docs[idx].EmbeddingModel = model
			newEmbeddings[docs[idx].ID] = vec
		}
	}

	corpus := make([]domain.Document, 0, len(docs))
	for i := range docs {
		if len(docs[i].Embedding) == dims && docs[i].EmbeddingModel == model {
			corpus = append(corpus, docs[i])
		}
	}
	return corpus, newEmbeddings, nil
}

// embedParallel embeds the pending documents with a bounded worker pool.
// Returns vectors keyed by document index and the skip count.
func (p *Pipeline) embedParallel(
	ctx context.Context,
	docs []domain.Document,
	pending []int,
) (map[int][]float32, int, error) {
	workers := p.settings.EmbedWorkers
	if workers < 1 {
		workers = 1
	}
	if workers > len(pending) {
		workers = len(pending)
	}

	type job struct{ idx int }
	type outcome struct {
		idx     int
		vec     []float32
		skipped bool
		err     error
	}

	jobs := make(chan job)
	outcomes := make(chan outcome, len(pending))

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				text := docs[j.idx].EmbeddableText()
				if text == "" {
					logger.Debug("Skipping %s: %v", docs[j.idx].ID, domain.ErrEmptyText)
					outcomes <- outcome{idx: j.idx, skipped: true}
					continue
				}
				vec, err := p.embedder.Embed(ctx, text)
				if errors.Is(err, domain.ErrEmptyText) {
					logger.Debug("Skipping %s: %v", docs[j.idx].ID, err)
					outcomes <- outcome{idx: j.idx, skipped: true}
					continue
				}
				outcomes <- outcome{idx: j.idx, vec: vec, err: err}
			}
		}()
	}

	go func() {
		defer close(jobs)
		for _, idx := range pending {
			select {
			case jobs <- job{idx: idx}:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(outcomes)
	}()

	vectors := make(map[int][]float32, len(pending))
	skipped := 0
	var embedErr error
	for o := range outcomes {
		switch {
		case o.err != nil && embedErr == nil:
			embedErr = fmt.Errorf("embed %s: %w", docs[o.idx].ID, o.err)
		case o.skipped:
			skipped++
		case o.err == nil:
			vectors[o.idx] = o.vec
		}
	}
	if embedErr != nil {
		return nil, 0, embedErr
	}
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}
	return vectors, skipped, nil
}

func (p *Pipeline) setStage(stage domain.Stage) {
	p.statusMu.Lock()
	p.stage = stage
	p.statusMu.Unlock()
	logger.Debug("Stage: %s", stage)
}

func (p *Pipeline) finish(stage domain.Stage, result *domain.RunResult) {
	p.statusMu.Lock()
	p.stage = stage
	p.lastResult = result
	p.statusMu.Unlock()
}
