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

package cache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync/atomic"
	"time"

	"github.com/dgraph-io/ristretto/v2"
	"github.com/poiesic/vibematch/ai"
	"github.com/poiesic/vibematch/core"
	"github.com/poiesic/vibematch/storage"
)

const defaultMaxEntries = 10_000

// Embedder decorates an ai.Embedder with a content-addressed cache.
// Entries are keyed by model, dimension and exact text, so a model change
// never serves stale vectors. The in-memory tier is a ristretto cache; an
// optional persistent tier survives restarts.
type Embedder struct {
	next       ai.Embedder
	l1         *ristretto.Cache[string, []float32]
	l2         storage.EmbeddingCacheRepository
	ttl        time.Duration
	maxEntries int64
	refresh    bool
	logger     *slog.Logger

	hits   atomic.Int64
	misses atomic.Int64
}

var _ ai.Embedder = (*Embedder)(nil)

// Option configures an Embedder.
type Option func(*Embedder) error

// WithPersistentStore adds a persistent second tier.
func WithPersistentStore(repo storage.EmbeddingCacheRepository) Option {
	return func(e *Embedder) error {
		e.l2 = repo
		return nil
	}
}

// WithTTL expires entries after d. Zero keeps entries until evicted.
func WithTTL(d time.Duration) Option {
	return func(e *Embedder) error {
		if d < 0 {
			return errors.New("cache ttl cannot be negative")
		}
		e.ttl = d
		return nil
	}
}

// WithMaxEntries bounds the in-memory tier.
func WithMaxEntries(n int64) Option {
	return func(e *Embedder) error {
		if n <= 0 {
			return errors.New("cache max entries must be positive")
		}
		e.maxEntries = n
		return nil
	}
}

// WithRefresh skips lookups so every text goes to the wrapped embedder.
// Results still overwrite the cached entries.
func WithRefresh() Option {
	return func(e *Embedder) error {
		e.refresh = true
		return nil
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Embedder) error {
		e.logger = logger
		return nil
	}
}

// New wraps next with a cache.
func New(next ai.Embedder, opts ...Option) (*Embedder, error) {
	e := &Embedder{
		next:       next,
		maxEntries: defaultMaxEntries,
		logger:     slog.Default().With("component", "embed-cache"),
	}
	for _, opt := range opts {
		if err := opt(e); err != nil {
			return nil, err
		}
	}

	l1, err := ristretto.NewCache(&ristretto.Config[string, []float32]{
		NumCounters:        e.maxEntries * 10,
		MaxCost:            e.maxEntries,
		BufferItems:        64,
		IgnoreInternalCost: true, // cost is one per entry so MaxCost counts vectors
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create ristretto cache: %w", err)
	}
	e.l1 = l1
	return e, nil
}

// Key derives the content address for text under the wrapped model.
func (e *Embedder) Key(text string) string {
	return core.ContentKey(e.next.Model(), e.next.Dimensions(), text)
}

// EmbedText returns a cached vector or embeds text and caches the result.
func (e *Embedder) EmbedText(ctx context.Context, text string) ([]float32, error) {
	vectors, err := e.EmbedTexts(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

// EmbedTexts serves what it can from cache and sends only the misses to the
// wrapped embedder, in a single batch with duplicates collapsed.
func (e *Embedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	results := make([][]float32, len(texts))
	keys := make([]string, len(texts))
	pending := map[string][]int{}
	var missTexts []string

	for i, text := range texts {
		keys[i] = e.Key(text)
		if vector, ok := e.lookup(ctx, keys[i]); ok {
			e.hits.Add(1)
			results[i] = vector
			continue
		}
		e.misses.Add(1)
		if _, seen := pending[keys[i]]; !seen {
			missTexts = append(missTexts, text)
		}
		pending[keys[i]] = append(pending[keys[i]], i)
	}

	if len(missTexts) == 0 {
		return results, nil
	}

	vectors, err := e.next.EmbedTexts(ctx, missTexts)
	if err != nil {
		return nil, err
	}
	if err := ai.CheckEmbeddings(vectors, len(missTexts), e.next.Dimensions()); err != nil {
		return nil, err
	}

	for j, text := range missTexts {
		key := e.Key(text)
		e.store(ctx, key, vectors[j])
		for _, i := range pending[key] {
			results[i] = slices.Clone(vectors[j])
		}
	}
	e.l1.Wait()
	return results, nil
}

func (e *Embedder) lookup(ctx context.Context, key string) ([]float32, bool) {
	if e.refresh {
		return nil, false
	}
	if vector, ok := e.l1.Get(key); ok {
		return slices.Clone(vector), true
	}
	if e.l2 == nil {
		return nil, false
	}

	vector, err := e.l2.GetEmbedding(ctx, key)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			e.logger.Warn("persistent cache read failed", "key", key, "err", err)
		}
		return nil, false
	}
	if len(vector) != e.next.Dimensions() {
		e.logger.Warn("discarding cached vector with wrong dimension", "key", key, "got", len(vector))
		return nil, false
	}
	e.l1.SetWithTTL(key, vector, 1, e.ttl)
	return slices.Clone(vector), true
}

func (e *Embedder) store(ctx context.Context, key string, vector []float32) {
	e.l1.SetWithTTL(key, slices.Clone(vector), 1, e.ttl)
	if e.l2 == nil {
		return
	}
	if err := e.l2.PutEmbedding(ctx, key, vector, e.ttl); err != nil {
		e.logger.Warn("persistent cache write failed", "key", key, "err", err)
	}
}

// Dimensions returns the wrapped embedder's dimension.
func (e *Embedder) Dimensions() int {
	return e.next.Dimensions()
}

// Model returns the wrapped embedder's model.
func (e *Embedder) Model() string {
	return e.next.Model()
}

// Stats reports cache hits and misses since creation.
func (e *Embedder) Stats() (hits, misses int64) {
	return e.hits.Load(), e.misses.Load()
}

// Clear empties the in-memory tier.
func (e *Embedder) Clear() {
	e.l1.Clear()
}

// Close releases the in-memory tier. The persistent tier is owned by the caller.
func (e *Embedder) Close() {
	e.l1.Close()
}
