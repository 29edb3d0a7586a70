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

package vibematch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/poiesic/vibematch/ai"
	"github.com/poiesic/vibematch/ai/cache"
	"github.com/poiesic/vibematch/ai/openai"
	"github.com/poiesic/vibematch/config"
	"github.com/poiesic/vibematch/core"
	"github.com/poiesic/vibematch/corpus"
	"github.com/poiesic/vibematch/eval"
	"github.com/poiesic/vibematch/reembed"
	"github.com/poiesic/vibematch/search"
	"github.com/poiesic/vibematch/storage/badger"
	"github.com/poiesic/vibematch/vocab"
)

// Engine wires storage, the AI provider, the embedding jobs and the
// searcher together.
type Engine struct {
	repos       *badger.Repositories
	provider    ai.AIProvider
	embedder    ai.Embedder
	cache       *cache.Embedder
	vocabulary  *vocab.Vocabulary
	searcher    *search.Searcher
	jobConfig   *reembed.Config
	calibration core.Calibration
	progress    io.Writer
	tokens      reembed.TokenCounter
	baseLogger  *slog.Logger
	logger      *slog.Logger
}

// EngineOption configures an Engine.
type EngineOption func(*engineOptions)

type engineOptions struct {
	aiConfig    *ai.Config
	provider    ai.AIProvider
	vocabulary  *vocab.Vocabulary
	jobConfig   *reembed.Config
	calibration core.Calibration
	cacheOff    bool
	cacheFresh  bool
	cacheTTL    time.Duration
	cacheSize   int64
	inMemory    bool
	progress    io.Writer
	tokens      reembed.TokenCounter
	logger      *slog.Logger
}

// WithAIConfig sets the provider configuration used to build the default
// OpenAI-compatible provider.
func WithAIConfig(cfg *ai.Config) EngineOption {
	return func(o *engineOptions) {
		o.aiConfig = cfg
	}
}

// WithProvider supplies a ready provider. The engine takes ownership and
// closes it.
func WithProvider(provider ai.AIProvider) EngineOption {
	return func(o *engineOptions) {
		o.provider = provider
	}
}

// WithVocabulary replaces the built-in tag vocabulary.
func WithVocabulary(v *vocab.Vocabulary) EngineOption {
	return func(o *engineOptions) {
		o.vocabulary = v
	}
}

// WithJobConfig sets the embedding job settings.
func WithJobConfig(cfg *reembed.Config) EngineOption {
	return func(o *engineOptions) {
		o.jobConfig = cfg
	}
}

// WithCalibration sets the calibration recorded in corpora built by the engine.
func WithCalibration(cal core.Calibration) EngineOption {
	return func(o *engineOptions) {
		o.calibration = cal
	}
}

// WithCache tunes the embedding cache.
func WithCache(ttl time.Duration, maxEntries int64) EngineOption {
	return func(o *engineOptions) {
		o.cacheTTL = ttl
		o.cacheSize = maxEntries
	}
}

// WithCacheRefresh re-embeds every text and overwrites the cached entries.
func WithCacheRefresh() EngineOption {
	return func(o *engineOptions) {
		o.cacheFresh = true
	}
}

// WithoutCache sends every text to the provider.
func WithoutCache() EngineOption {
	return func(o *engineOptions) {
		o.cacheOff = true
	}
}

// WithInMemoryStorage keeps job state and cache entries in memory only.
func WithInMemoryStorage() EngineOption {
	return func(o *engineOptions) {
		o.inMemory = true
	}
}

// WithProgress sets where embedding jobs report progress.
func WithProgress(w io.Writer) EngineOption {
	return func(o *engineOptions) {
		o.progress = w
	}
}

// WithTokenCounter sets the counter used for job token estimates.
func WithTokenCounter(counter reembed.TokenCounter) EngineOption {
	return func(o *engineOptions) {
		o.tokens = counter
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) EngineOption {
	return func(o *engineOptions) {
		o.logger = logger
	}
}

// NewEngine opens the state store at dataPath and connects the provider.
func NewEngine(dataPath string, opts ...EngineOption) (*Engine, error) {
	options := &engineOptions{
		aiConfig:    ai.DefaultConfig(),
		jobConfig:   reembed.DefaultConfig(),
		calibration: core.Calibration{MinSim: 0.3, MaxSim: 0.8, DisplayFloor: core.DefaultDisplayFloor, DisplayCeiling: core.DefaultDisplayCeiling},
	}
	for _, opt := range opts {
		opt(options)
	}
	if options.logger == nil {
		options.logger = slog.Default()
	}
	if options.vocabulary == nil {
		options.vocabulary = vocab.Default()
	}
	if err := core.ValidateCalibration(options.calibration); err != nil {
		return nil, err
	}
	logger := options.logger.With("component", "engine")

	backend, err := badger.OpenBackend(dataPath, options.inMemory, badger.WithBackendLogger(options.logger))
	if err != nil {
		return nil, err
	}
	repos := badger.NewRepositories(backend)

	provider := options.provider
	if provider == nil {
		provider, err = openai.NewProvider(options.aiConfig, openai.WithProviderLogger(options.logger))
		if err != nil {
			repos.Close()
			return nil, err
		}
	}

	e := &Engine{
		repos:       repos,
		provider:    provider,
		embedder:    provider.Embedder(),
		vocabulary:  options.vocabulary,
		jobConfig:   options.jobConfig,
		calibration: options.calibration,
		progress:    options.progress,
		tokens:      options.tokens,
		baseLogger:  options.logger,
		logger:      logger,
	}

	if !options.cacheOff {
		cacheOpts := []cache.Option{
			cache.WithPersistentStore(repos.EmbedCache),
			cache.WithLogger(options.logger.With("component", "embed-cache")),
		}
		if options.cacheTTL > 0 {
			cacheOpts = append(cacheOpts, cache.WithTTL(options.cacheTTL))
		}
		if options.cacheSize > 0 {
			cacheOpts = append(cacheOpts, cache.WithMaxEntries(options.cacheSize))
		}
		if options.cacheFresh {
			cacheOpts = append(cacheOpts, cache.WithRefresh())
		}
		e.cache, err = cache.New(provider.Embedder(), cacheOpts...)
		if err != nil {
			e.closeServices()
			return nil, err
		}
		e.embedder = e.cache
	}

	e.searcher, err = search.NewSearcher(search.WithLogger(options.logger.With("component", "searcher")))
	if err != nil {
		e.closeServices()
		return nil, err
	}
	return e, nil
}

// NewEngineFromConfig builds an engine from application configuration.
// Additional options are applied after the configured ones.
func NewEngineFromConfig(cfg *config.AppConfig, opts ...EngineOption) (*Engine, error) {
	aiConfig, err := cfg.ProviderConfig()
	if err != nil {
		return nil, err
	}
	configured := []EngineOption{
		WithAIConfig(aiConfig),
		WithJobConfig(cfg.JobConfig()),
		WithCalibration(cfg.Calibration),
	}
	if cfg.Paths.Vocabulary != "" {
		v, err := vocab.LoadFile(cfg.Paths.Vocabulary)
		if err != nil {
			return nil, err
		}
		configured = append(configured, WithVocabulary(v))
	}
	if cfg.Cache.Enabled {
		configured = append(configured, WithCache(cfg.CacheTTL(), cfg.Cache.MaxEntries))
	} else {
		configured = append(configured, WithoutCache())
	}
	return NewEngine(cfg.Paths.Data, append(configured, opts...)...)
}

func (e *Engine) closeServices() {
	if e.cache != nil {
		e.cache.Close()
	}
	if err := e.provider.Close(); err != nil {
		e.logger.Error("error closing AI provider", "err", err)
	}
	if err := e.repos.Close(); err != nil {
		e.logger.Error("error closing backend storage", "err", err)
	}
}

// Close releases the provider, the cache and the state store.
func (e *Engine) Close() error {
	if e.cache != nil {
		hits, misses := e.cache.Stats()
		e.logger.Debug("embedding cache", "hits", hits, "misses", misses)
		e.cache.Close()
	}
	if err := e.provider.Close(); err != nil {
		e.logger.Error("error closing AI provider", "err", err)
	}
	if err := e.repos.Close(); err != nil {
		e.logger.Error("error closing backend storage", "err", err)
		return err
	}
	return nil
}

// Vocabulary returns the tag vocabulary.
func (e *Engine) Vocabulary() *vocab.Vocabulary {
	return e.vocabulary
}

// Embedder returns the engine's embedder, cached unless disabled.
func (e *Engine) Embedder() ai.Embedder {
	return e.embedder
}

// Searcher returns the query path.
func (e *Engine) Searcher() *search.Searcher {
	return e.searcher
}

// CacheStats reports embedding cache hits and misses.
func (e *Engine) CacheStats() (hits, misses int64) {
	if e.cache == nil {
		return 0, 0
	}
	return e.cache.Stats()
}

// PurgeCache drops every persisted embedding cache entry and reclaims the
// space they used.
func (e *Engine) PurgeCache(ctx context.Context) (int, error) {
	if e.cache != nil {
		e.cache.Clear()
	}
	purged, err := e.repos.EmbedCache.PurgeEmbeddings(ctx)
	if err != nil {
		return 0, err
	}
	if err := e.repos.Backend.RunGC(); err != nil {
		return purged, err
	}
	e.logger.Info("purged embedding cache", "entries", purged)
	return purged, nil
}

func (e *Engine) newJob(jobType string) (*reembed.Job, error) {
	opts := []reembed.Option{
		reembed.WithConfig(e.jobConfig),
		reembed.WithCheckpoints(e.repos.Checkpoints),
		reembed.WithProgress(e.progress),
		reembed.WithLogger(e.baseLogger.With("component", "reembed")),
	}
	if e.tokens != nil {
		opts = append(opts, reembed.WithTokenCounter(e.tokens))
	}
	return reembed.NewJob(jobType, e.embedder, e.repos.Vectors, opts...)
}

func (e *Engine) runJob(ctx context.Context, jobType string, items []reembed.Item) (*reembed.Summary, map[string][]float32, error) {
	job, err := e.newJob(jobType)
	if err != nil {
		return nil, nil, err
	}
	defer job.Release()

	if _, err := job.Vectors(ctx); errors.Is(err, core.ErrModelMismatch) {
		e.logger.Warn("embedding model changed, discarding stored vectors", "job", jobType, "model", e.embedder.Model())
		if err := job.Reset(ctx); err != nil {
			return nil, nil, err
		}
	}

	summary, err := job.Run(ctx, items)
	if err != nil {
		return summary, nil, err
	}
	vectors, err := job.Current(ctx, items)
	if err != nil {
		return summary, nil, err
	}
	return summary, vectors, nil
}

// EmbedTags embeds every vocabulary tag. A tag that fails fails the call:
// a corpus missing part of its vocabulary would reject valid queries.
func (e *Engine) EmbedTags(ctx context.Context) ([]core.Tag, *reembed.Summary, error) {
	summary, vectors, err := e.runJob(ctx, reembed.TagJobType, reembed.TagItems(e.vocabulary))
	if err != nil {
		return nil, summary, err
	}
	if !summary.OK() {
		return nil, summary, fmt.Errorf("failed to embed %d tags: %w", len(summary.Failed), summary.Failed[0].Err)
	}
	return e.vocabulary.Tags(vectors), summary, nil
}

// EmbedVenues embeds every venue's text under strategy. Failed venues are
// reported in the summary and missing from the returned vectors.
func (e *Engine) EmbedVenues(ctx context.Context, venues []*core.Venue, strategy string) (map[string][]float32, *reembed.Summary, error) {
	selector, err := corpus.SelectorByName(strategy, e.vocabulary)
	if err != nil {
		return nil, nil, err
	}
	summary, vectors, err := e.runJob(ctx, reembed.VenueJobType(selector.Name()), reembed.VenueItems(venues, selector))
	if err != nil {
		return nil, summary, err
	}
	return vectors, summary, nil
}

// BuildReport describes one corpus build.
type BuildReport struct {
	Tags       *reembed.Summary
	Venues     *reembed.Summary
	Replaced   []string // Names of venue records superseded by a later record with the same ID
	Exclusions []corpus.Exclusion
}

// BuildCorpus embeds tags and venues, resuming earlier runs, and assembles
// a corpus. Venues that could not be embedded are excluded and reported.
func (e *Engine) BuildCorpus(ctx context.Context, venues []*core.Venue, strategy string) (*corpus.Corpus, *BuildReport, error) {
	selector, err := corpus.SelectorByName(strategy, e.vocabulary)
	if err != nil {
		return nil, nil, err
	}
	report := &BuildReport{}
	venues, report.Replaced = corpus.Collapse(venues)
	for _, name := range report.Replaced {
		e.logger.Warn("duplicate venue, keeping the later record", "venue", name)
	}

	tags, summary, err := e.EmbedTags(ctx)
	report.Tags = summary
	if err != nil {
		return nil, report, err
	}

	vectors, summary, err := e.EmbedVenues(ctx, venues, strategy)
	report.Venues = summary
	if err != nil {
		return nil, report, err
	}

	builder, err := corpus.NewBuilder(
		corpus.WithCalibration(e.calibration),
		corpus.WithBuilderLogger(e.baseLogger.With("component", "corpus-builder")),
	)
	if err != nil {
		return nil, report, err
	}
	if err := builder.SetTags(e.embedder.Model(), tags); err != nil {
		return nil, report, err
	}

	for _, venue := range venues {
		id, err := builder.Upsert(venue)
		if err != nil {
			report.Exclusions = append(report.Exclusions, corpus.Exclusion{ID: venue.ID, Name: venue.Name, Reason: err})
			continue
		}
		if vector, ok := vectors[id]; ok {
			if err := builder.SetVector(id, e.embedder.Model(), selector.Name(), vector); err != nil {
				return nil, report, err
			}
		}
	}

	built, exclusions, err := builder.Build()
	if err != nil {
		return nil, report, err
	}
	report.Exclusions = append(report.Exclusions, exclusions...)
	return built, report, nil
}

// Reset discards stored vectors and checkpoints of the tag job and of the
// venue job for strategy, forcing the next build to embed everything again.
func (e *Engine) Reset(ctx context.Context, strategy string) error {
	selector, err := corpus.SelectorByName(strategy, e.vocabulary)
	if err != nil {
		return err
	}
	for _, jobType := range []string{reembed.TagJobType, reembed.VenueJobType(selector.Name())} {
		job, err := e.newJob(jobType)
		if err != nil {
			return err
		}
		err = job.Reset(ctx)
		job.Release()
		if err != nil {
			return err
		}
	}
	return nil
}

// Use makes c the corpus served by Match.
func (e *Engine) Use(c *corpus.Corpus) error {
	_, err := e.searcher.Swap(c)
	return err
}

// LoadCorpus reads a corpus file and serves it. A corpus embedded with a
// different model than the engine's cannot be queried against new tags and
// is still served, with a warning.
func (e *Engine) LoadCorpus(path string) (*corpus.Corpus, error) {
	c, err := corpus.Load(path)
	if err != nil {
		return nil, err
	}
	if model := c.Meta().ModelID; model != e.embedder.Model() {
		e.logger.Warn("corpus was built with a different model", "corpus", model, "engine", e.embedder.Model())
	}
	if err := e.Use(c); err != nil {
		return nil, err
	}
	return c, nil
}

// Match ranks the served corpus for the given tag labels.
func (e *Engine) Match(ctx context.Context, labels []string, k int) ([]core.ScoredResult, error) {
	return e.searcher.Match(ctx, labels, k)
}

// Evaluate compares every text strategy on the given venues. Venues without
// vibes are left out since the keyword strategy has nothing to embed.
func (e *Engine) Evaluate(ctx context.Context, venues []*core.Venue, cases []core.EvaluationCase, k int) (*eval.Report, error) {
	tags, _, err := e.EmbedTags(ctx)
	if err != nil {
		return nil, err
	}
	tagVectors := make(map[string][]float32, len(tags))
	for _, tag := range tags {
		tagVectors[tag.Label] = tag.Vector
	}

	var usable []*core.Venue
	for _, venue := range venues {
		if len(venue.Vibes) > 0 {
			usable = append(usable, venue)
		}
	}
	if skipped := len(venues) - len(usable); skipped > 0 {
		e.logger.Warn("venues without vibes left out of evaluation", "count", skipped)
	}
	if len(usable) == 0 {
		return nil, errors.New("no venues with vibes to evaluate")
	}

	strategies := make(map[string]map[string][]float32)
	for _, selector := range corpus.AllSelectors(e.vocabulary) {
		vectors, err := eval.StrategyVectors(ctx, usable, selector, e.embedder)
		if err != nil {
			return nil, fmt.Errorf("strategy %s: %w", selector.Name(), err)
		}
		strategies[selector.Name()] = vectors
	}
	return eval.Evaluate(strategies, tagVectors, cases, k)
}

// DescribeSummary reports a Describe run.
type DescribeSummary struct {
	Described int
	Skipped   int
	Failed    []reembed.Failure
}

// DraftVocabulary asks the describer for a fresh description of every tag.
// Tags the describer fails on keep their current description.
func (e *Engine) DraftVocabulary(ctx context.Context) (*vocab.Vocabulary, *DescribeSummary, error) {
	describer := e.provider.Describer()
	summary := &DescribeSummary{}
	entries := e.vocabulary.Entries()
	for i, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, summary, err
		}
		desc, err := describer.DescribeVibe(ctx, entry.Label, entry.Category)
		if err == nil && strings.TrimSpace(desc) == "" {
			err = core.ErrEmptyText
		}
		if err != nil {
			e.logger.Warn("failed to describe tag", "tag", entry.Label, "err", err)
			summary.Failed = append(summary.Failed, reembed.Failure{Key: entry.Label, Err: err})
			continue
		}
		entries[i].Description = desc
		summary.Described++
	}
	drafted, err := vocab.New(entries)
	if err != nil {
		return nil, summary, err
	}
	return drafted, summary, nil
}

// Describe writes a vibe description for every venue that lacks one.
// Venues are updated in place; a failure leaves that venue unchanged.
func (e *Engine) Describe(ctx context.Context, venues []*core.Venue) (*DescribeSummary, error) {
	describer := e.provider.Describer()
	summary := &DescribeSummary{}
	for _, venue := range venues {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		if strings.TrimSpace(venue.VibeDescription) != "" {
			summary.Skipped++
			continue
		}
		desc, err := describer.DescribeVenue(ctx, ai.VenueProfile{
			Name:        venue.Name,
			Category:    venue.Category,
			Description: venue.Description,
			Vibes:       venue.Vibes,
			PriceTier:   venue.PriceTier,
		})
		if err != nil {
			e.logger.Warn("failed to describe venue", "venue", venue.Name, "err", err)
			summary.Failed = append(summary.Failed, reembed.Failure{Key: venue.Name, Err: err})
			continue
		}
		venue.VibeDescription = desc
		summary.Described++
	}
	return summary, nil
}
