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
	"fmt"
	"slices"
	"strings"

	"github.com/poiesic/vibematch/core"
)

// Corpus is an immutable snapshot of embedded tags and venues that share one
// model, dimension and text strategy. It is safe for concurrent readers.
// Returned tags and venues must not be modified.
type Corpus struct {
	meta     core.CorpusMeta
	tags     []*core.Tag
	tagIndex map[string]*core.Tag
	venues   []*core.Venue
	byID     map[string]*core.Venue
}

// New validates tags and venues against meta and assembles a corpus.
// Venues are ordered by ID and tags by label.
func New(meta core.CorpusMeta, tags []core.Tag, venues []*core.Venue) (*Corpus, error) {
	if meta.Dimensions <= 0 {
		return nil, fmt.Errorf("%w: dimensions must be positive", core.ErrDimensionMismatch)
	}
	if meta.Calibration != (core.Calibration{}) {
		if err := core.ValidateCalibration(meta.Calibration); err != nil {
			return nil, err
		}
	}
	if len(tags) == 0 {
		return nil, fmt.Errorf("%w: corpus has no tags", core.ErrCorpusUnavailable)
	}

	c := &Corpus{
		meta:     meta,
		tags:     make([]*core.Tag, 0, len(tags)),
		tagIndex: make(map[string]*core.Tag, len(tags)),
		venues:   make([]*core.Venue, 0, len(venues)),
		byID:     make(map[string]*core.Venue, len(venues)),
	}

	for i := range tags {
		tag := tags[i]
		if err := core.ValidateVector(tag.Vector, meta.Dimensions); err != nil {
			return nil, fmt.Errorf("tag %q: %w", tag.Label, err)
		}
		key := strings.ToLower(tag.Label)
		if _, dup := c.tagIndex[key]; dup {
			return nil, fmt.Errorf("duplicate tag %q", tag.Label)
		}
		tag.Vector = slices.Clone(tag.Vector)
		c.tagIndex[key] = &tag
		c.tags = append(c.tags, &tag)
	}

	for _, venue := range venues {
		if err := core.ValidateVenue(venue); err != nil {
			return nil, err
		}
		if err := core.ValidateVector(venue.Vector, meta.Dimensions); err != nil {
			return nil, fmt.Errorf("venue %q: %w", venue.Name, err)
		}
		v := *venue
		v.Vector = slices.Clone(venue.Vector)
		v.Vibes = slices.Clone(venue.Vibes)
		if v.ID == "" {
			v.ID = core.VenueID(v.Name)
		}
		if _, dup := c.byID[v.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate venue id %q", core.ErrInvalidVenue, v.ID)
		}
		c.byID[v.ID] = &v
		c.venues = append(c.venues, &v)
	}

	slices.SortFunc(c.tags, func(a, b *core.Tag) int { return strings.Compare(a.Label, b.Label) })
	slices.SortFunc(c.venues, func(a, b *core.Venue) int { return strings.Compare(a.ID, b.ID) })
	c.meta.TotalVenues = len(c.venues)
	return c, nil
}

// Meta returns the corpus metadata.
func (c *Corpus) Meta() core.CorpusMeta {
	return c.meta
}

// Dimensions returns the shared vector length.
func (c *Corpus) Dimensions() int {
	return c.meta.Dimensions
}

// Tags returns all tags ordered by label.
func (c *Corpus) Tags() []*core.Tag {
	return slices.Clone(c.tags)
}

// Tag looks up a tag by label, ignoring case.
func (c *Corpus) Tag(label string) (*core.Tag, bool) {
	tag, ok := c.tagIndex[strings.ToLower(strings.TrimSpace(label))]
	return tag, ok
}

// Venues returns all venues ordered by ID.
func (c *Corpus) Venues() []*core.Venue {
	return slices.Clone(c.venues)
}

// Venue looks up a venue by ID.
func (c *Corpus) Venue(id string) (*core.Venue, bool) {
	v, ok := c.byID[id]
	return v, ok
}

// Len returns the number of venues.
func (c *Corpus) Len() int {
	return len(c.venues)
}
