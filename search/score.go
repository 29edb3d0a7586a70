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
	"cmp"
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/poiesic/vibematch/core"
)

// TagSource resolves tag labels to embedded tags.
type TagSource interface {
	Tag(label string) (*core.Tag, bool)
	Dimensions() int
}

// ResolveTags looks up every label, collapsing repeats of the same tag.
// Unknown labels fail with core.ErrUnknownTag.
func ResolveTags(source TagSource, labels []string) ([]*core.Tag, error) {
	if len(labels) == 0 {
		return nil, core.ErrEmptyQuery
	}
	tags := make([]*core.Tag, 0, len(labels))
	seen := make(map[string]bool, len(labels))
	for _, label := range labels {
		tag, ok := source.Tag(label)
		if !ok {
			return nil, fmt.Errorf("%w: %q", core.ErrUnknownTag, label)
		}
		if seen[tag.Label] {
			continue
		}
		seen[tag.Label] = true
		tags = append(tags, tag)
	}
	return tags, nil
}

// Compose mean-pools the tag vectors into one query vector. Every tag vector
// must have the source's dimension.
func Compose(tags []*core.Tag, dimensions int) ([]float32, error) {
	if len(tags) == 0 {
		return nil, core.ErrEmptyQuery
	}
	vectors := make([][]float32, len(tags))
	for i, tag := range tags {
		if len(tag.Vector) != dimensions {
			return nil, fmt.Errorf("%w: tag %q has %d dimensions, corpus has %d",
				core.ErrDimensionMismatch, tag.Label, len(tag.Vector), dimensions)
		}
		vectors[i] = tag.Vector
	}
	return core.MeanPool(vectors)
}

// ComposeLabels resolves labels against source and composes the query vector.
func ComposeLabels(source TagSource, labels []string) ([]float32, error) {
	tags, err := ResolveTags(source, labels)
	if err != nil {
		return nil, err
	}
	return Compose(tags, source.Dimensions())
}

// Score returns the cosine similarity between query and the venue's vector.
func Score(query []float32, venue *core.Venue) (float64, error) {
	sim, err := core.Cosine(query, venue.Vector)
	if err != nil {
		return 0, fmt.Errorf("venue %q: %w", venue.Name, err)
	}
	return sim, nil
}

// ScoreAll scores every venue and returns one result per venue ordered by
// descending raw score, ties broken by ascending venue ID. Ranks start at 1.
// Display scores are left at zero; see Normalize.
func ScoreAll(query []float32, venues []*core.Venue) ([]core.ScoredResult, error) {
	results := make([]core.ScoredResult, 0, len(venues))
	for _, v := range venues {
		raw, err := Score(query, v)
		if err != nil {
			return nil, err
		}
		results = append(results, core.ScoredResult{Venue: v, Raw: raw})
	}

	slices.SortFunc(results, func(a, b core.ScoredResult) int {
		if c := cmp.Compare(b.Raw, a.Raw); c != 0 {
			return c
		}
		return strings.Compare(a.Venue.ID, b.Venue.ID)
	})
	for i := range results {
		results[i].Rank = i + 1
	}
	return results, nil
}

// NormalizeScore linearly maps raw from [MinSim, MaxSim] onto
// [DisplayFloor, DisplayCeiling] and clamps to that range.
func NormalizeScore(raw float64, cal core.Calibration) (float64, error) {
	if err := core.ValidateCalibration(cal); err != nil {
		return 0, err
	}
	return rescale(raw, cal), nil
}

func rescale(raw float64, cal core.Calibration) float64 {
	display := cal.DisplayFloor + (raw-cal.MinSim)/(cal.MaxSim-cal.MinSim)*(cal.DisplayCeiling-cal.DisplayFloor)
	return math.Max(cal.DisplayFloor, math.Min(cal.DisplayCeiling, display))
}

// Normalize fills in the display score of every result in place.
func Normalize(results []core.ScoredResult, cal core.Calibration) error {
	if err := core.ValidateCalibration(cal); err != nil {
		return err
	}
	for i := range results {
		results[i].Display = rescale(results[i].Raw, cal)
	}
	return nil
}

// TopK returns the first k results. A k outside (0, len) returns all of them.
func TopK(results []core.ScoredResult, k int) []core.ScoredResult {
	if k <= 0 || k >= len(results) {
		return results
	}
	return results[:k]
}
