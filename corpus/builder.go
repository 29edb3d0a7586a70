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

package corpus

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/poiesic/vibematch/ai"
	"github.com/poiesic/vibematch/core"
	"github.com/poiesic/vibematch/vocab"
)

// ErrNoEmbeddings indicates Build was called before anything was embedded.
var ErrNoEmbeddings = errors.New("corpus builder has no embeddings")

// Exclusion records a venue left out of a built corpus.
type Exclusion struct {
	ID     string
	Name   string
	Reason error
}

// Builder accumulates venues and tag vectors for one corpus build.
// The first embedding fixes the model, dimension and text strategy; any later
// embedding that disagrees is rejected. Builder is safe for concurrent use.
type Builder struct {
	mu          sync.Mutex
	venues      map[string]*core.Venue
	tags        []core.Tag
	model       string
	dimensions  int
	strategy    string
	calibration core.Calibration
	now         func() time.Time
	logger      *slog.Logger
}

// BuilderOption configures a Builder.
type BuilderOption func(*Builder) error

// WithBuilderLogger sets the logger.
func WithBuilderLogger(logger *slog.Logger) BuilderOption {
	return func(b *Builder) error {
		b.logger = logger
		return nil
	}
}

// WithCalibration stores display calibration in the built corpus metadata.
func WithCalibration(c core.Calibration) BuilderOption {
	return func(b *Builder) error {
		if err := core.ValidateCalibration(c); err != nil {
			return err
		}
		b.calibration = c
		return nil
	}
}

// WithClock overrides the generation timestamp source.
func WithClock(now func() time.Time) BuilderOption {
	return func(b *Builder) error {
		b.now = now
		return nil
	}
}

// NewBuilder creates an empty builder.
func NewBuilder(opts ...BuilderOption) (*Builder, error) {
	b := &Builder{
		venues: make(map[string]*core.Venue),
		now:    time.Now,
		logger: slog.Default().With("component", "corpus-builder"),
	}
	for _, opt := range opts {
		if err := opt(b); err != nil {
			return nil, err
		}
	}
	return b, nil
}

// Upsert inserts or replaces a venue by its name-derived ID and returns the ID.
// A replaced venue keeps its vector only if the new record carries none and
// its embeddable text is unchanged.
func (b *Builder) Upsert(venue *core.Venue) (string, error) {
	if err := core.ValidateVenue(venue); err != nil {
		return "", err
	}
	v := *venue
	v.ID = core.VenueID(v.Name)
	v.Vibes = slices.Clone(venue.Vibes)

	b.mu.Lock()
	defer b.mu.Unlock()
	if existing, ok := b.venues[v.ID]; ok && v.Vector == nil {
		if sameEmbeddableText(existing, &v) {
			v.Vector = existing.Vector
		} else if existing.Vector != nil {
			b.logger.Debug("dropping vector of changed venue", "venue", v.Name)
		}
	}
	b.venues[v.ID] = &v
	return v.ID, nil
}

// sameEmbeddableText reports whether every field a TextSelector reads is equal.
func sameEmbeddableText(a, b *core.Venue) bool {
	return a.VibeDescription == b.VibeDescription && slices.Equal(a.Vibes, b.Vibes)
}

// Collapse keeps one record per venue ID. A later record replaces an earlier
// one in its original position. The names of the dropped records are
// returned in input order.
func Collapse(venues []*core.Venue) ([]*core.Venue, []string) {
	index := make(map[string]int, len(venues))
	kept := make([]*core.Venue, 0, len(venues))
	var dropped []string
	for _, venue := range venues {
		id := venue.ID
		if id == "" {
			id = core.VenueID(venue.Name)
		}
		if i, ok := index[id]; ok {
			dropped = append(dropped, kept[i].Name)
			kept[i] = venue
			continue
		}
		index[id] = len(kept)
		kept = append(kept, venue)
	}
	return kept, dropped
}

// Venues returns a copy of the staged venues ordered by ID.
func (b *Builder) Venues() []*core.Venue {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]*core.Venue, 0, len(b.venues))
	for _, v := range b.venues {
		c := *v
		out = append(out, &c)
	}
	slices.SortFunc(out, func(a, b *core.Venue) int { return strings.Compare(a.ID, b.ID) })
	return out
}

// Embed selects text for venue, embeds it and upserts the venue with its vector.
func (b *Builder) Embed(ctx context.Context, venue *core.Venue, embedder ai.Embedder, selector TextSelector) error {
	if err := core.ValidateVenue(venue); err != nil {
		return err
	}
	text := selector.Text(venue)
	if text == "" {
		return fmt.Errorf("%w: venue %q under strategy %s", core.ErrEmptyText, venue.Name, selector.Name())
	}
	if err := b.bind(embedder.Model(), embedder.Dimensions(), selector.Name()); err != nil {
		return err
	}

	vector, err := embedder.EmbedText(ctx, text)
	if err != nil {
		return fmt.Errorf("failed to embed venue %q: %w", venue.Name, err)
	}
	if err := core.ValidateVector(vector, embedder.Dimensions()); err != nil {
		return fmt.Errorf("venue %q: %w", venue.Name, err)
	}

	v := *venue
	v.Vector = vector
	_, err = b.Upsert(&v)
	return err
}

// SetVector attaches a precomputed vector to a staged venue.
func (b *Builder) SetVector(id, model, strategy string, vector []float32) error {
	if err := b.bind(model, len(vector), strategy); err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	venue, ok := b.venues[id]
	if !ok {
		return fmt.Errorf("%w: no staged venue with id %q", core.ErrInvalidVenue, id)
	}
	venue.Vector = slices.Clone(vector)
	return nil
}

// SetTags stores embedded tags produced by model.
func (b *Builder) SetTags(model string, tags []core.Tag) error {
	if len(tags) == 0 {
		return nil
	}
	if err := b.bind(model, len(tags[0].Vector), ""); err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.tags = slices.Clone(tags)
	return nil
}

// EmbedTags embeds every vocabulary description and stores the tags.
func (b *Builder) EmbedTags(ctx context.Context, vocabulary *vocab.Vocabulary, embedder ai.Embedder) error {
	if err := b.bind(embedder.Model(), embedder.Dimensions(), ""); err != nil {
		return err
	}
	vectors, err := vocabulary.EmbedAll(ctx, embedder)
	if err != nil {
		return err
	}
	return b.SetTags(embedder.Model(), vocabulary.Tags(vectors))
}

// bind records model, dimension and strategy on first use and rejects
// mismatches afterwards. An empty strategy only binds model and dimension.
func (b *Builder) bind(model string, dims int, strategy string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.model == "" {
		b.model = model
		b.dimensions = dims
	} else {
		if model != b.model {
			return fmt.Errorf("%w: corpus uses %q, got %q", core.ErrModelMismatch, b.model, model)
		}
		if dims != b.dimensions {
			return fmt.Errorf("%w: corpus uses %d dimensions, got %d", core.ErrDimensionMismatch, b.dimensions, dims)
		}
	}

	if strategy == "" {
		return nil
	}
	if b.strategy == "" {
		b.strategy = strategy
		return nil
	}
	if strategy != b.strategy {
		return fmt.Errorf("%w: corpus uses %s, got %s", core.ErrStrategyMismatch, b.strategy, strategy)
	}
	return nil
}

// Build validates the staged data and returns an immutable corpus. Venues
// without a usable vector are left out and reported. Tags must all be valid;
// a bad tag fails the build.
func (b *Builder) Build() (*Corpus, []Exclusion, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.model == "" || b.dimensions == 0 {
		return nil, nil, ErrNoEmbeddings
	}

	var (
		scorable []*core.Venue
		excluded []Exclusion
	)
	for _, v := range b.venues {
		var reason error
		switch {
		case v.Vector == nil:
			reason = errors.New("not embedded")
		default:
			reason = core.ValidateVector(v.Vector, b.dimensions)
		}
		if reason != nil {
			excluded = append(excluded, Exclusion{ID: v.ID, Name: v.Name, Reason: reason})
			b.logger.Warn("venue excluded from corpus", "venue", v.Name, "reason", reason)
			continue
		}
		scorable = append(scorable, v)
	}
	slices.SortFunc(excluded, func(x, y Exclusion) int { return strings.Compare(x.ID, y.ID) })

	meta := core.CorpusMeta{
		ModelID:      b.model,
		Dimensions:   b.dimensions,
		TextStrategy: b.strategy,
		GeneratedAt:  b.now().UTC(),
		Calibration:  b.calibration,
	}
	c, err := New(meta, b.tags, scorable)
	if err != nil {
		return nil, excluded, err
	}

	b.logger.Info("corpus built",
		"model", meta.ModelID,
		"dimensions", meta.Dimensions,
		"strategy", meta.TextStrategy,
		"venues", c.Len(),
		"tags", len(b.tags),
		"excluded", len(excluded))
	return c, excluded, nil
}
