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

package search

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/poiesic/vibematch/core"
	"github.com/poiesic/vibematch/corpus"
)

// Searcher ranks venues against a mood tag selection. It holds an immutable
// corpus snapshot that can be replaced atomically while queries run; a query
// always scores against exactly one snapshot.
type Searcher struct {
	snapshot    atomic.Pointer[corpus.Corpus]
	calibration *core.Calibration
	logger      *slog.Logger
}

// Option configures a Searcher.
type Option func(*Searcher) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Searcher) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// WithCalibration overrides the calibration stored in the corpus metadata.
func WithCalibration(cal core.Calibration) Option {
	return func(s *Searcher) error {
		if err := core.ValidateCalibration(cal); err != nil {
			return err
		}
		s.calibration = &cal
		return nil
	}
}

// WithCorpus installs an initial snapshot.
func WithCorpus(c *corpus.Corpus) Option {
	return func(s *Searcher) error {
		if c == nil {
			return ErrNilCorpus
		}
		s.snapshot.Store(c)
		return nil
	}
}

// NewSearcher creates a new searcher. Without WithCorpus every match fails
// with core.ErrCorpusUnavailable until Swap is called.
func NewSearcher(opts ...Option) (*Searcher, error) {
	s := &Searcher{
		logger: slog.Default().With("component", "searcher"),
	}

	// Apply options
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// Swap installs a new snapshot and returns the previous one.
func (s *Searcher) Swap(c *corpus.Corpus) (*corpus.Corpus, error) {
	if c == nil {
		return nil, ErrNilCorpus
	}
	old := s.snapshot.Swap(c)
	meta := c.Meta()
	s.logger.Info("corpus swapped",
		"model", meta.ModelID,
		"dimensions", meta.Dimensions,
		"strategy", meta.TextStrategy,
		"venues", c.Len())
	return old, nil
}

// Corpus returns the current snapshot, or nil if none is installed.
func (s *Searcher) Corpus() *corpus.Corpus {
	return s.snapshot.Load()
}

// Match ranks the corpus against the labels and returns the top k results.
func (s *Searcher) Match(ctx context.Context, labels []string, k int) ([]core.ScoredResult, error) {
	return s.MatchWithMonitor(ctx, labels, k, nil)
}

// MatchWithMonitor is Match with stage callbacks.
// Configuration errors are reported before any scoring work.
func (s *Searcher) MatchWithMonitor(ctx context.Context, labels []string, k int, monitor MatchMonitor) ([]core.ScoredResult, error) {
	// Use noop monitor if none provided
	if monitor == nil {
		monitor = &noopMonitor{}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c := s.snapshot.Load()
	if c == nil {
		return nil, fmt.Errorf("%w: no corpus loaded", core.ErrCorpusUnavailable)
	}
	cal := c.Meta().Calibration
	if s.calibration != nil {
		cal = *s.calibration
	}
	if err := core.ValidateCalibration(cal); err != nil {
		return nil, err
	}

	monitor.Start(labels)

	// 1. Compose
	tags, err := ResolveTags(c, labels)
	if err != nil {
		return nil, err
	}
	query, err := Compose(tags, c.Dimensions())
	if err != nil {
		s.logger.Error("corpus tag vectors are inconsistent", "err", err)
		return nil, fmt.Errorf("%w: %w", core.ErrCorpusUnavailable, err)
	}
	monitor.AfterCompose(tags, query)

	// 2. Score
	results, err := ScoreAll(query, c.Venues())
	if err != nil {
		s.logger.Error("error scoring corpus", "err", err)
		return nil, fmt.Errorf("%w: %w", core.ErrCorpusUnavailable, err)
	}
	monitor.AfterScore(results)

	// 3. Normalize and cut
	if err := Normalize(results, cal); err != nil {
		return nil, err
	}
	results = TopK(results, k)
	monitor.Finish(results)

	s.logger.Debug("match complete", "labels", labels, "results", len(results))
	return results, nil
}
