// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package reembed

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/vibematch/ai"
	"github.com/poiesic/vibematch/core"
	"github.com/poiesic/vibematch/storage"
)

// Config holds configuration for an embedding job.
type Config struct {
	// BatchSize is the number of texts sent in one provider call
	BatchSize int

	// PoolSize is the number of batches in flight at once
	PoolSize int

	// ItemTimeout bounds every provider call
	ItemTimeout time.Duration

	// MaxRetries is the maximum number of attempts per provider call
	MaxRetries int

	// RetryDelay is the base delay for exponential backoff
	RetryDelay time.Duration

	// MaxRetryDelay caps the backoff delay
	MaxRetryDelay time.Duration

	// CheckpointEvery is how many completed items trigger a checkpoint
	CheckpointEvery int

	// ReportInterval is how often to report progress (number of items)
	ReportInterval int
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		BatchSize:       DefaultBatchSize,
		PoolSize:        4,
		ItemTimeout:     30 * time.Second,
		MaxRetries:      3,
		RetryDelay:      1 * time.Second,
		MaxRetryDelay:   30 * time.Second,
		CheckpointEvery: 50,
		ReportInterval:  25,
	}
}

func (c *Config) retryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts:    c.MaxRetries,
		BaseDelay:      c.RetryDelay,
		MaxDelay:       c.MaxRetryDelay,
		AttemptTimeout: c.ItemTimeout,
	}
}

// Failure records an item that could not be embedded.
type Failure struct {
	Key string
	Err error
}

// Summary reports the outcome of one run.
type Summary struct {
	RunID           string
	JobType         string
	Total           int
	Skipped         int // Already completed by an earlier run
	Embedded        int
	Failed          []Failure
	EstimatedTokens int
	Interrupted     bool
	Elapsed         time.Duration
}

// OK reports whether every item is now embedded.
func (s *Summary) OK() bool {
	return len(s.Failed) == 0 && !s.Interrupted
}

// Job embeds keyed texts and stores the vectors under its job type.
type Job struct {
	jobType     string
	embedder    ai.Embedder
	vectors     storage.VectorRepository
	checkpoints storage.CheckpointRepository
	config      *Config
	pool        *ants.Pool
	progress    io.Writer
	counter     TokenCounter
	logger      *slog.Logger
}

// Option configures a Job.
type Option func(*Job) error

// WithConfig replaces the default configuration.
func WithConfig(config *Config) Option {
	return func(j *Job) error {
		if config == nil {
			return errors.New("reembed config cannot be nil")
		}
		if config.MaxRetries <= 0 {
			return ErrInvalidMaxAttempts
		}
		j.config = config
		return nil
	}
}

// WithCheckpoints enables resumable runs.
func WithCheckpoints(repo storage.CheckpointRepository) Option {
	return func(j *Job) error {
		j.checkpoints = repo
		return nil
	}
}

// WithProgress sets where progress is written (typically os.Stderr).
func WithProgress(w io.Writer) Option {
	return func(j *Job) error {
		j.progress = w
		return nil
	}
}

// WithTokenCounter sets the counter used for the token estimate.
// Default is WordCounter.
func WithTokenCounter(counter TokenCounter) Option {
	return func(j *Job) error {
		j.counter = counter
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(j *Job) error {
		if logger == nil {
			logger = slog.Default()
		}
		j.logger = logger
		return nil
	}
}

// NewJob creates a job. jobType namespaces the stored vectors and the
// checkpoint, e.g. "tags" or "venues/ai_desc".
func NewJob(jobType string, embedder ai.Embedder, vectors storage.VectorRepository, opts ...Option) (*Job, error) {
	if strings.TrimSpace(jobType) == "" {
		return nil, errors.New("job type is required")
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}
	if vectors == nil {
		return nil, ErrVectorRepositoryRequired
	}

	j := &Job{
		jobType:  jobType,
		embedder: embedder,
		vectors:  vectors,
		config:   DefaultConfig(),
		counter:  WordCounter{},
		logger:   slog.Default().With("component", "reembed"),
	}
	for _, opt := range opts {
		if err := opt(j); err != nil {
			return nil, err
		}
	}

	pool, err := ants.NewPool(max(j.config.PoolSize, 1))
	if err != nil {
		return nil, err
	}
	j.pool = pool
	return j, nil
}

// Release releases the worker pool. The job should not be used afterwards.
func (j *Job) Release() {
	if j.pool != nil {
		j.pool.Release()
	}
}

// JobType returns the job's namespace.
func (j *Job) JobType() string {
	return j.jobType
}

// VectorKey returns the storage key for an item.
func (j *Job) VectorKey(itemKey string) string {
	return j.jobType + "/" + itemKey
}

// Reset discards the checkpoint and every stored vector of this job.
func (j *Job) Reset(ctx context.Context) error {
	if j.checkpoints != nil {
		if err := j.checkpoints.DeleteCheckpoint(ctx, j.jobType); err != nil {
			return fmt.Errorf("failed to delete checkpoint: %w", err)
		}
	}
	n, err := j.vectors.DeleteVectors(ctx, j.VectorKey(""))
	if err != nil {
		return fmt.Errorf("failed to delete vectors: %w", err)
	}
	j.logger.Info("job reset", "job", j.jobType, "vectors", n)
	return nil
}

// Vectors returns the stored vectors keyed by item key. Vectors produced by
// a different model fail with core.ErrModelMismatch.
func (j *Job) Vectors(ctx context.Context) (map[string][]float32, error) {
	prefix := j.VectorKey("")
	stored, err := j.vectors.ListVectors(ctx, prefix)
	if err != nil {
		return nil, err
	}
	out := make(map[string][]float32, len(stored))
	for _, sv := range stored {
		if sv.Model != j.embedder.Model() {
			return nil, fmt.Errorf("%w: %s was embedded with %q, job uses %q",
				core.ErrModelMismatch, sv.Key, sv.Model, j.embedder.Model())
		}
		out[strings.TrimPrefix(sv.Key, prefix)] = sv.Vector
	}
	return out, nil
}

// Current returns the stored vectors embedded from the current text of
// items, keyed by item key. Items whose text changed since their vector was
// stored, or that were never embedded, are left out. Vectors produced by a
// different model fail with core.ErrModelMismatch.
func (j *Job) Current(ctx context.Context, items []Item) (map[string][]float32, error) {
	prefix := j.VectorKey("")
	stored, err := j.vectors.ListVectors(ctx, prefix)
	if err != nil {
		return nil, err
	}
	byKey := make(map[string]*core.StoredVector, len(stored))
	for _, sv := range stored {
		if sv.Model != j.embedder.Model() {
			return nil, fmt.Errorf("%w: %s was embedded with %q, job uses %q",
				core.ErrModelMismatch, sv.Key, sv.Model, j.embedder.Model())
		}
		byKey[strings.TrimPrefix(sv.Key, prefix)] = sv
	}

	out := make(map[string][]float32, len(items))
	for _, item := range items {
		sv, ok := byKey[item.Key]
		if !ok || sv.TextHash != j.textHash(item.Text) {
			continue
		}
		out[item.Key] = sv.Vector
	}
	return out, nil
}

func (j *Job) textHash(text string) string {
	return core.ContentKey(j.embedder.Model(), j.embedder.Dimensions(), text)
}

// runState is shared by the pool workers of one run.
type runState struct {
	mu        sync.Mutex
	summary   *Summary
	completed map[string]bool
	unsaved   int
}

// Run embeds every item not completed by an earlier run. Items that keep
// failing are reported in the summary and never stop the rest. Cancelling
// ctx stops dispatching new work, saves a checkpoint and returns the
// partial summary together with the context error.
func (j *Job) Run(ctx context.Context, items []Item) (*Summary, error) {
	summary := &Summary{
		RunID:   uuid.NewString(),
		JobType: j.jobType,
		Total:   len(items),
	}
	logger := j.logger.With("job", j.jobType, "run", summary.RunID)

	seen := make(map[string]bool, len(items))
	for _, item := range items {
		if seen[item.Key] {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateItem, item.Key)
		}
		seen[item.Key] = true
	}

	completed, err := j.loadCompleted(ctx, items, logger)
	if err != nil {
		return nil, err
	}

	var pending []Item
	for _, item := range items {
		switch {
		case strings.TrimSpace(item.Text) == "":
			summary.Failed = append(summary.Failed, Failure{
				Key: item.Key,
				Err: fmt.Errorf("%w: item %q", core.ErrEmptyText, item.Key),
			})
		case completed[item.Key]:
			summary.Skipped++
		default:
			pending = append(pending, item)
		}
	}

	texts := make([]string, len(pending))
	for i, item := range pending {
		texts[i] = item.Text
	}
	summary.EstimatedTokens = EstimateTokens(j.counter, texts...)

	logger.Info("starting embedding job",
		"total", len(items),
		"pending", len(pending),
		"skipped", summary.Skipped,
		"estimated_tokens", summary.EstimatedTokens)

	state := &runState{summary: summary, completed: completed}
	tracker := NewProgressTracker(j.progress, "items", len(pending), j.config.ReportInterval)
	tracker.Start()

	processor := NewBatchProcessor(j.embedder, j.config.retryPolicy(), logger)
	var wg sync.WaitGroup
	for batch := range Batches(pending, j.config.BatchSize) {
		if ctx.Err() != nil {
			break
		}
		wg.Add(1)
		err := j.pool.Submit(func() {
			defer wg.Done()
			j.handleBatch(ctx, processor, batch, state, tracker, logger)
		})
		if err != nil {
			wg.Done()
			logger.Error("failed to submit batch", "err", err)
			state.mu.Lock()
			for _, item := range batch {
				summary.Failed = append(summary.Failed, Failure{Key: item.Key, Err: err})
			}
			state.mu.Unlock()
		}
	}
	wg.Wait()

	// Completed work is persisted even when ctx was cancelled.
	persistCtx := context.WithoutCancel(ctx)
	state.mu.Lock()
	checkpointErr := j.saveCheckpoint(persistCtx, state)
	state.mu.Unlock()
	if checkpointErr != nil {
		logger.Error("failed to save final checkpoint", "err", checkpointErr)
	}

	tracker.Finish()
	summary.Elapsed = tracker.Elapsed()
	slices.SortFunc(summary.Failed, func(a, b Failure) int { return strings.Compare(a.Key, b.Key) })

	if err := ctx.Err(); err != nil {
		summary.Interrupted = true
		logger.Warn("embedding job interrupted",
			"embedded", summary.Embedded,
			"failed", len(summary.Failed))
		return summary, err
	}

	logger.Info("embedding job complete",
		"embedded", summary.Embedded,
		"skipped", summary.Skipped,
		"failed", len(summary.Failed),
		"elapsed", summary.Elapsed.Round(time.Millisecond))
	for _, f := range summary.Failed {
		logger.Warn("item failed", "key", f.Key, "err", f.Err)
	}
	return summary, checkpointErr
}

func (j *Job) handleBatch(ctx context.Context, processor *BatchProcessor, batch []Item, state *runState, tracker *ProgressTracker, logger *slog.Logger) {
	outcomes := processor.Process(ctx, batch)
	persistCtx := context.WithoutCancel(ctx)

	var (
		stored   []*core.StoredVector
		failures []Failure
	)
	for _, o := range outcomes {
		if o.Err != nil {
			// Items cut short by cancellation are left for the next run.
			if ctx.Err() != nil && errors.Is(o.Err, ctx.Err()) {
				continue
			}
			failures = append(failures, Failure{Key: o.Item.Key, Err: o.Err})
			continue
		}
		stored = append(stored, &core.StoredVector{
			Key:      j.VectorKey(o.Item.Key),
			Model:    j.embedder.Model(),
			TextHash: j.textHash(o.Item.Text),
			Vector:   o.Vector,
		})
	}

	if len(stored) > 0 {
		if err := j.vectors.PutVectors(persistCtx, stored...); err != nil {
			logger.Error("failed to store vectors", "count", len(stored), "err", err)
			for _, sv := range stored {
				failures = append(failures, Failure{Key: strings.TrimPrefix(sv.Key, j.VectorKey("")), Err: err})
			}
			stored = nil
		}
	}

	state.mu.Lock()
	defer state.mu.Unlock()

	state.summary.Failed = append(state.summary.Failed, failures...)
	for _, sv := range stored {
		state.completed[strings.TrimPrefix(sv.Key, j.VectorKey(""))] = true
	}
	state.summary.Embedded += len(stored)
	state.unsaved += len(stored)

	tracker.Increment(len(stored))
	for range failures {
		tracker.Fail()
	}

	if state.unsaved >= j.config.CheckpointEvery {
		if err := j.saveCheckpoint(persistCtx, state); err != nil {
			logger.Error("failed to save checkpoint", "err", err)
		}
	}
}

// saveCheckpoint must be called with state.mu held.
func (j *Job) saveCheckpoint(ctx context.Context, state *runState) error {
	if j.checkpoints == nil {
		return nil
	}
	keys := make([]string, 0, len(state.completed))
	for k := range state.completed {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	if err := j.checkpoints.SaveCheckpoint(ctx, &core.Checkpoint{JobType: j.jobType, Completed: keys}); err != nil {
		return err
	}
	state.unsaved = 0
	return nil
}

// loadCompleted returns the keys finished by earlier runs whose vectors are
// still stored under the current model. An item in items only counts as
// completed when its stored vector was embedded from the same text.
func (j *Job) loadCompleted(ctx context.Context, items []Item, logger *slog.Logger) (map[string]bool, error) {
	completed := make(map[string]bool)
	if j.checkpoints == nil {
		return completed, nil
	}
	checkpoint, err := j.checkpoints.LoadCheckpoint(ctx, j.jobType)
	if err != nil {
		return nil, fmt.Errorf("failed to load checkpoint: %w", err)
	}
	if checkpoint == nil {
		return completed, nil
	}

	texts := make(map[string]string, len(items))
	for _, item := range items {
		texts[item.Key] = item.Text
	}

	stale, changed := 0, 0
	for _, key := range checkpoint.Completed {
		sv, err := j.vectors.GetVector(ctx, j.VectorKey(key))
		if errors.Is(err, storage.ErrNotFound) {
			stale++
			continue
		}
		if err != nil {
			return nil, err
		}
		if sv.Model != j.embedder.Model() || len(sv.Vector) != j.embedder.Dimensions() {
			stale++
			continue
		}
		if text, ok := texts[key]; ok && sv.TextHash != j.textHash(text) {
			changed++
			continue
		}
		completed[key] = true
	}
	if stale > 0 {
		logger.Warn("ignoring stale checkpoint entries", "count", stale)
	}
	if changed > 0 {
		logger.Info("re-embedding items whose text changed", "count", changed)
	}
	logger.Debug("loaded checkpoint", "completed", len(completed), "updated_at", checkpoint.UpdatedAt)
	return completed, nil
}
