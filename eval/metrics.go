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
	"strings"

	"github.com/poiesic/vibematch/core"
)

// DefaultK is the cut-off used for precision.
const DefaultK = 5

func expectedSet(c core.EvaluationCase) map[string]bool {
	set := make(map[string]bool, len(c.Expected))
	for _, name := range c.Expected {
		set[strings.ToLower(strings.TrimSpace(name))] = true
	}
	return set
}

func resultName(r core.ScoredResult) string {
	return strings.ToLower(strings.TrimSpace(r.Venue.Name))
}

// PrecisionAtK returns hits / min(|expected|, k), where hits counts expected
// venues among the first k results. A case without expectations scores 0.
func PrecisionAtK(c core.EvaluationCase, results []core.ScoredResult, k int) float64 {
	expected := expectedSet(c)
	denom := min(len(expected), k)
	if denom <= 0 {
		return 0
	}
	hits := 0
	for _, r := range results[:min(k, len(results))] {
		if expected[resultName(r)] {
			hits++
		}
	}
	return float64(hits) / float64(denom)
}

// MeanReciprocalRank returns 1/rank of the first expected venue in results,
// or 0 when none appears.
func MeanReciprocalRank(c core.EvaluationCase, results []core.ScoredResult) float64 {
	expected := expectedSet(c)
	for i, r := range results {
		if expected[resultName(r)] {
			return 1 / float64(i+1)
		}
	}
	return 0
}

// ScoreSpread returns the raw score of the first result minus the last.
func ScoreSpread(results []core.ScoredResult) float64 {
	if len(results) == 0 {
		return 0
	}
	return results[0].Raw - results[len(results)-1].Raw
}
