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
	"regexp"
	"strings"

	"github.com/poiesic/vibematch/core"
	"github.com/xrash/smetrics"
)

// Action is the outcome recorded for a duplicate candidate.
type Action string

const (
	// ActionMerge means two records were folded into one.
	ActionMerge Action = "merge"
	// ActionReview means two records look alike but both were kept.
	ActionReview Action = "review"
)

// Decision is one entry of the deduplication log.
type Decision struct {
	Action     Action
	Kept       string // Name of the surviving (merge) or first (review) record
	Other      string // Name of the merged away (merge) or second (review) record
	Reason     string
	Similarity float64
}

// DedupPolicy sets the fuzzy thresholds. A zero VectorThreshold disables the
// embedding comparison.
type DedupPolicy struct {
	NameThreshold   float64 // Jaro-Winkler similarity of normalized names
	VectorThreshold float64 // Cosine similarity of venue vectors
	MaxLengthDelta  int     // Names whose lengths differ by more are never fuzzy matched
}

// DefaultDedupPolicy returns the thresholds used by the curation tools.
func DefaultDedupPolicy() DedupPolicy {
	return DedupPolicy{
		NameThreshold:   0.92,
		VectorThreshold: 0.92,
		MaxLengthDelta:  10,
	}
}

var (
	possessive  = regexp.MustCompile(`['’]s\b`)
	punctuation = regexp.MustCompile(`[^\p{L}\p{N}\s]`)
	genericWord = regexp.MustCompile(`\b(the|and|restaurant|cafe|bar|hike|trail|drive|nature|reserve|park|garden|gardens|farm|estate|vineyards|winery)\b`)
)

// NormalizeName lowercases a venue name and strips possessives, punctuation
// and repeated whitespace. Two names with the same normal form are the same venue.
func NormalizeName(name string) string {
	s := strings.ToLower(name)
	s = possessive.ReplaceAllString(s, "")
	s = punctuation.ReplaceAllString(s, "")
	return strings.Join(strings.Fields(s), " ")
}

// coreName additionally drops generic place words like "restaurant" or "park".
func coreName(normalized string) string {
	return strings.Join(strings.Fields(genericWord.ReplaceAllString(normalized, "")), " ")
}

// Deduplicate merges venues whose normalized names match exactly, keeping the
// later record and filling its blank fields from the earlier one. Fuzzy
// matches are logged for review and both records are kept. The returned
// venues preserve first-seen order.
func Deduplicate(venues []*core.Venue, policy DedupPolicy) ([]*core.Venue, []Decision) {
	var (
		kept      []*core.Venue
		decisions []Decision
		index     = make(map[string]int)
	)

	for _, v := range venues {
		if v == nil {
			continue
		}
		key := NormalizeName(v.Name)
		if i, ok := index[key]; ok {
			earlier := kept[i]
			kept[i] = mergeVenues(earlier, v)
			decisions = append(decisions, Decision{
				Action:     ActionMerge,
				Kept:       v.Name,
				Other:      earlier.Name,
				Reason:     "exact-name",
				Similarity: 1,
			})
			continue
		}
		index[key] = len(kept)
		kept = append(kept, v)
	}

	for i := 0; i < len(kept); i++ {
		for j := i + 1; j < len(kept); j++ {
			if d, ok := compareVenues(kept[i], kept[j], policy); ok {
				decisions = append(decisions, d)
			}
		}
	}
	return kept, decisions
}

func compareVenues(a, b *core.Venue, policy DedupPolicy) (Decision, bool) {
	review := func(reason string, sim float64) (Decision, bool) {
		return Decision{Action: ActionReview, Kept: a.Name, Other: b.Name, Reason: reason, Similarity: sim}, true
	}

	na, nb := coreName(NormalizeName(a.Name)), coreName(NormalizeName(b.Name))
	if na != "" && nb != "" {
		if na == nb {
			return review("generic-words", 1)
		}
		short, long := na, nb
		if len(short) > len(long) {
			short, long = long, short
		}
		if len(short) >= 4 && strings.Contains(" "+long+" ", " "+short+" ") {
			return review("containment", 1)
		}
		delta := len(na) - len(nb)
		if delta < 0 {
			delta = -delta
		}
		if policy.MaxLengthDelta <= 0 || delta <= policy.MaxLengthDelta {
			if sim := smetrics.JaroWinkler(na, nb, 0.7, 4); sim >= policy.NameThreshold {
				return review("name-similarity", sim)
			}
		}
	}

	if policy.VectorThreshold > 0 && a.Vector != nil && b.Vector != nil {
		if sim, err := core.Cosine(a.Vector, b.Vector); err == nil && sim >= policy.VectorThreshold {
			return review("embedding-similarity", sim)
		}
	}
	return Decision{}, false
}

// mergeVenues returns later with blank fields filled from earlier.
func mergeVenues(earlier, later *core.Venue) *core.Venue {
	m := *later
	m.ID = core.VenueID(m.Name)
	if m.Category == "" {
		m.Category = earlier.Category
	}
	if m.Description == "" {
		m.Description = earlier.Description
	}
	if m.VibeDescription == "" {
		m.VibeDescription = earlier.VibeDescription
	}
	if len(m.Vibes) == 0 {
		m.Vibes = earlier.Vibes
	}
	if m.Rating == nil {
		m.Rating = earlier.Rating
	}
	if m.PriceTier == "" {
		m.PriceTier = earlier.PriceTier
	}
	if m.TouristLevel == 0 {
		m.TouristLevel = earlier.TouristLevel
	}
	if m.Vector == nil {
		m.Vector = earlier.Vector
	}
	return &m
}
