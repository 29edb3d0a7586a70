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

package eval

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/poiesic/vibematch/ai"
	"github.com/poiesic/vibematch/core"
	"github.com/poiesic/vibematch/corpus"
	"github.com/poiesic/vibematch/search"
)

// DefaultMargin widens the observed score range when recommending a calibration.
const DefaultMargin = 0.05

const topN = 3

// CaseResult is the outcome of one case under one strategy.
type CaseResult struct {
	Name           string
	Precision      float64
	ReciprocalRank float64
	Spread         float64
	TopScore       float64
	Top            []string // Names of the first three results
}

// StrategyResult aggregates every case for one strategy.
type StrategyResult struct {
	Name      string
	Precision float64 // Mean Precision@K
	MRR       float64
	MinScore  float64 // Lowest raw score seen in any ranking
	MaxScore  float64 // Highest raw score seen in any ranking
	Spread    float64 // Mean per-case spread
	Cases     []CaseResult
}

// Report holds the results of one evaluation, strategies sorted by name.
type Report struct {
	K          int
	Strategies []StrategyResult
}

// tagTable serves tag vectors to the query composer.
type tagTable struct {
	tags       map[string]*core.Tag
	dimensions int
}

func (t *tagTable) Tag(label string) (*core.Tag, bool) {
	tag, ok := t.tags[strings.ToLower(strings.TrimSpace(label))]
	return tag, ok
}

func (t *tagTable) Dimensions() int {
	return t.dimensions
}

func newTagTable(vectors map[string][]float32) (*tagTable, error) {
	if len(vectors) == 0 {
		return nil, errors.New("eval: no tag vectors")
	}
	t := &tagTable{tags: make(map[string]*core.Tag, len(vectors))}
	for _, label := range slices.Sorted(maps.Keys(vectors)) {
		vector := vectors[label]
		if t.dimensions == 0 {
			t.dimensions = len(vector)
		}
		if err := core.ValidateVector(vector, t.dimensions); err != nil {
			return nil, fmt.Errorf("tag %q: %w", label, err)
		}
		t.tags[strings.ToLower(label)] = &core.Tag{Label: label, Vector: vector}
	}
	return t, nil
}

// Evaluate ranks every strategy's venues for every case. strategies maps a
// strategy name to its venue name to vector mapping; tags maps tag labels to
// their shared vectors. A case naming an unknown tag fails the evaluation.
// k below 1 uses DefaultK.
func Evaluate(strategies map[string]map[string][]float32, tags map[string][]float32, cases []core.EvaluationCase, k int) (*Report, error) {
	if len(strategies) == 0 {
		return nil, errors.New("eval: no strategies")
	}
	if len(cases) == 0 {
		return nil, errors.New("eval: no cases")
	}
	if k < 1 {
		k = DefaultK
	}

	table, err := newTagTable(tags)
	if err != nil {
		return nil, err
	}

	queries := make([][]float32, len(cases))
	for i, c := range cases {
		query, err := search.ComposeLabels(table, c.Tags)
		if err != nil {
			return nil, fmt.Errorf("case %q: %w", c.Name, err)
		}
		queries[i] = query
	}

	report := &Report{K: k}
	for _, name := range slices.Sorted(maps.Keys(strategies)) {
		venues, err := strategyVenues(strategies[name], table.dimensions)
		if err != nil {
			return nil, fmt.Errorf("strategy %q: %w", name, err)
		}
		result, err := evaluateStrategy(name, venues, cases, queries, k)
		if err != nil {
			return nil, err
		}
		report.Strategies = append(report.Strategies, *result)
	}
	return report, nil
}

func strategyVenues(vectors map[string][]float32, dimensions int) ([]*core.Venue, error) {
	if len(vectors) == 0 {
		return nil, errors.New("no venue vectors")
	}
	venues := make([]*core.Venue, 0, len(vectors))
	for _, name := range slices.Sorted(maps.Keys(vectors)) {
		if err := core.ValidateVector(vectors[name], dimensions); err != nil {
			return nil, fmt.Errorf("venue %q: %w", name, err)
		}
		venues = append(venues, &core.Venue{ID: core.VenueID(name), Name: name, Vector: vectors[name]})
	}
	return venues, nil
}

func evaluateStrategy(name string, venues []*core.Venue, cases []core.EvaluationCase, queries [][]float32, k int) (*StrategyResult, error) {
	result := &StrategyResult{Name: name}
	for i, c := range cases {
		ranked, err := search.ScoreAll(queries[i], venues)
		if err != nil {
			return nil, fmt.Errorf("strategy %q case %q: %w", name, c.Name, err)
		}

		cr := CaseResult{
			Name:           c.Name,
			Precision:      PrecisionAtK(c, ranked, k),
			ReciprocalRank: MeanReciprocalRank(c, ranked),
			Spread:         ScoreSpread(ranked),
			TopScore:       ranked[0].Raw,
		}
		for _, r := range ranked[:min(topN, len(ranked))] {
			cr.Top = append(cr.Top, r.Venue.Name)
		}

		last := ranked[len(ranked)-1].Raw
		if i == 0 || last < result.MinScore {
			result.MinScore = last
		}
		if i == 0 || cr.TopScore > result.MaxScore {
			result.MaxScore = cr.TopScore
		}

		result.Precision += cr.Precision
		result.MRR += cr.ReciprocalRank
		result.Spread += cr.Spread
		result.Cases = append(result.Cases, cr)
	}

	n := float64(len(cases))
	result.Precision /= n
	result.MRR /= n
	result.Spread /= n
	return result, nil
}

// Best returns the strategy with the highest precision. Ties go to the
// higher MRR, then to the name that sorts first. Nil for an empty report.
func (r *Report) Best() *StrategyResult {
	if len(r.Strategies) == 0 {
		return nil
	}
	best := slices.MinFunc(r.Strategies, func(a, b StrategyResult) int {
		if c := cmp.Compare(b.Precision, a.Precision); c != 0 {
			return c
		}
		if c := cmp.Compare(b.MRR, a.MRR); c != 0 {
			return c
		}
		return strings.Compare(a.Name, b.Name)
	})
	return &best
}

// Recommend derives a calibration from the best strategy's observed score
// range, widened by margin on both sides, using the default display range.
func (r *Report) Recommend(margin float64) (core.Calibration, error) {
	best := r.Best()
	if best == nil {
		return core.Calibration{}, errors.New("eval: empty report")
	}
	cal := core.Calibration{
		MinSim:         best.MinScore - margin,
		MaxSim:         best.MaxScore + margin,
		DisplayFloor:   core.DefaultDisplayFloor,
		DisplayCeiling: core.DefaultDisplayCeiling,
	}
	if err := core.ValidateCalibration(cal); err != nil {
		return core.Calibration{}, err
	}
	return cal, nil
}

// StrategyVectors embeds every venue's text under selector, keyed by venue
// name, in a single provider call.
func StrategyVectors(ctx context.Context, venues []*core.Venue, selector corpus.TextSelector, embedder ai.Embedder) (map[string][]float32, error) {
	names := make([]string, 0, len(venues))
	texts := make([]string, 0, len(venues))
	for _, venue := range venues {
		text := selector.Text(venue)
		if text == "" {
			return nil, fmt.Errorf("%w: venue %q under %s", core.ErrEmptyText, venue.Name, selector.Name())
		}
		names = append(names, venue.Name)
		texts = append(texts, text)
	}
	if len(texts) == 0 {
		return map[string][]float32{}, nil
	}

	vectors, err := embedder.EmbedTexts(ctx, texts)
	if err != nil {
		return nil, err
	}
	if err := ai.CheckEmbeddings(vectors, len(texts), embedder.Dimensions()); err != nil {
		return nil, err
	}

	out := make(map[string][]float32, len(vectors))
	for i, name := range names {
		if core.Norm(vectors[i]) == 0 {
			return nil, fmt.Errorf("venue %q: %w", name, core.ErrZeroVector)
		}
		out[name] = vectors[i]
	}
	return out, nil
}
