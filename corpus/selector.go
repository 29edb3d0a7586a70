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
	"strings"

	"github.com/poiesic/vibematch/core"
	"github.com/poiesic/vibematch/vocab"
)

// Strategy names recorded in corpus metadata.
const (
	StrategyKeywords      = "keywords"
	StrategyExpanded      = "expanded"
	StrategyAIDescription = "ai_desc"
	StrategyHybrid        = "hybrid"
)

// TextSelector picks the text that gets embedded for a venue. One selector
// is used for a whole corpus and its name is recorded in the metadata.
type TextSelector interface {
	Name() string
	Text(venue *core.Venue) string
}

type selectorFunc struct {
	name string
	fn   func(venue *core.Venue) string
}

func (s selectorFunc) Name() string { return s.name }

func (s selectorFunc) Text(venue *core.Venue) string {
	return strings.TrimSpace(s.fn(venue))
}

// Keywords embeds the raw vibe label string, e.g. "Romantic, Coastal".
func Keywords() TextSelector {
	return selectorFunc{name: StrategyKeywords, fn: func(v *core.Venue) string {
		return v.VibesString()
	}}
}

// Expanded replaces each vibe label with its vocabulary description.
func Expanded(vocabulary *vocab.Vocabulary) TextSelector {
	return selectorFunc{name: StrategyExpanded, fn: func(v *core.Venue) string {
		return vocabulary.Expand(v.VibesString())
	}}
}

// AIDescription prefers the generated vibe description and falls back to
// the raw vibe labels.
func AIDescription() TextSelector {
	return selectorFunc{name: StrategyAIDescription, fn: func(v *core.Venue) string {
		if desc := strings.TrimSpace(v.VibeDescription); desc != "" {
			return desc
		}
		return v.VibesString()
	}}
}

// Hybrid concatenates the vibe labels and the generated description.
func Hybrid() TextSelector {
	return selectorFunc{name: StrategyHybrid, fn: func(v *core.Venue) string {
		vibes := v.VibesString()
		desc := strings.TrimSpace(v.VibeDescription)
		if desc == "" {
			return vibes
		}
		return vibes + ". " + desc
	}}
}

// SelectorByName resolves a strategy name. The vocabulary is only used by
// the expanded strategy and defaults to vocab.Default when nil.
func SelectorByName(name string, vocabulary *vocab.Vocabulary) (TextSelector, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case StrategyKeywords:
		return Keywords(), nil
	case StrategyExpanded:
		if vocabulary == nil {
			vocabulary = vocab.Default()
		}
		return Expanded(vocabulary), nil
	case StrategyAIDescription, "ai_description":
		return AIDescription(), nil
	case StrategyHybrid:
		return Hybrid(), nil
	default:
		return nil, fmt.Errorf("unknown text strategy %q", name)
	}
}

// AllSelectors returns every strategy in evaluation order.
func AllSelectors(vocabulary *vocab.Vocabulary) []TextSelector {
	if vocabulary == nil {
		vocabulary = vocab.Default()
	}
	return []TextSelector{Keywords(), Expanded(vocabulary), AIDescription(), Hybrid()}
}
