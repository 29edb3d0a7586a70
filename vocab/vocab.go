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

package vocab

import (
	"context"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/poiesic/vibematch/ai"
	"github.com/poiesic/vibematch/core"
	"gopkg.in/yaml.v3"
)

// Entry is one curated vibe label.
type Entry struct {
	Label       string `yaml:"label"`
	Category    string `yaml:"category"`
	Description string `yaml:"description"`
}

// Vocabulary is an immutable, ordered set of vibe labels. Lookups are
// case-insensitive but always resolve to the canonical label.
type Vocabulary struct {
	entries []Entry
	index   map[string]int
}

// New builds a vocabulary from entries. Labels must be unique ignoring case
// and every entry needs a description.
func New(entries []Entry) (*Vocabulary, error) {
	v := &Vocabulary{
		entries: make([]Entry, 0, len(entries)),
		index:   make(map[string]int, len(entries)),
	}
	for _, e := range entries {
		e.Label = strings.TrimSpace(e.Label)
		e.Description = strings.TrimSpace(e.Description)
		if e.Label == "" {
			return nil, fmt.Errorf("vocabulary entry %d: label is required", len(v.entries))
		}
		if e.Description == "" {
			return nil, fmt.Errorf("vocabulary entry %q: description is required", e.Label)
		}
		key := strings.ToLower(e.Label)
		if _, dup := v.index[key]; dup {
			return nil, fmt.Errorf("vocabulary entry %q: duplicate label", e.Label)
		}
		v.index[key] = len(v.entries)
		v.entries = append(v.entries, e)
	}
	return v, nil
}

// Default returns the built-in vocabulary.
func Default() *Vocabulary {
	v, err := New(defaultEntries)
	if err != nil {
		panic(err)
	}
	return v
}

// LoadFile reads a YAML list of entries.
func LoadFile(path string) (*Vocabulary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read vocabulary: %w", err)
	}
	var entries []Entry
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to parse vocabulary %s: %w", path, err)
	}
	return New(entries)
}

// SaveFile writes the entries as YAML that LoadFile reads back.
func (v *Vocabulary) SaveFile(path string) error {
	data, err := yaml.Marshal(v.entries)
	if err != nil {
		return fmt.Errorf("failed to encode vocabulary: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write vocabulary: %w", err)
	}
	return nil
}

// Len returns the number of labels.
func (v *Vocabulary) Len() int {
	return len(v.entries)
}

// Canonical resolves label to its canonical spelling.
func (v *Vocabulary) Canonical(label string) (string, bool) {
	i, ok := v.index[strings.ToLower(strings.TrimSpace(label))]
	if !ok {
		return "", false
	}
	return v.entries[i].Label, true
}

// Describe returns the descriptive sentence for label.
func (v *Vocabulary) Describe(label string) (string, error) {
	i, ok := v.index[strings.ToLower(strings.TrimSpace(label))]
	if !ok {
		return "", fmt.Errorf("%w: %q", core.ErrUnknownTag, label)
	}
	return v.entries[i].Description, nil
}

// Labels returns all labels in vocabulary order.
func (v *Vocabulary) Labels() []string {
	labels := make([]string, len(v.entries))
	for i, e := range v.entries {
		labels[i] = e.Label
	}
	return labels
}

// Categories returns the distinct categories in first-seen order.
func (v *Vocabulary) Categories() []string {
	var cats []string
	for _, e := range v.entries {
		if !slices.Contains(cats, e.Category) {
			cats = append(cats, e.Category)
		}
	}
	return cats
}

// Entries returns a copy of the entries.
func (v *Vocabulary) Entries() []Entry {
	return slices.Clone(v.entries)
}

// Tags converts the vocabulary to tags attaching any vectors found in vectors.
func (v *Vocabulary) Tags(vectors map[string][]float32) []core.Tag {
	tags := make([]core.Tag, len(v.entries))
	for i, e := range v.entries {
		tags[i] = core.Tag{
			Label:       e.Label,
			Category:    e.Category,
			Description: e.Description,
			Vector:      vectors[e.Label],
		}
	}
	return tags
}

// EmbedAll embeds every description in one batch and returns label to vector.
// All vectors must match the embedder's dimensions and be non-zero.
func (v *Vocabulary) EmbedAll(ctx context.Context, embedder ai.Embedder) (map[string][]float32, error) {
	texts := make([]string, len(v.entries))
	for i, e := range v.entries {
		texts[i] = e.Description
	}

	vectors, err := embedder.EmbedTexts(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("failed to embed vocabulary: %w", err)
	}
	if len(vectors) != len(texts) {
		return nil, fmt.Errorf("%w: got %d vectors for %d tags", ai.ErrProviderResponse, len(vectors), len(texts))
	}

	dims := embedder.Dimensions()
	out := make(map[string][]float32, len(v.entries))
	for i, e := range v.entries {
		if err := core.ValidateVector(vectors[i], dims); err != nil {
			return nil, fmt.Errorf("tag %q: %w", e.Label, err)
		}
		out[e.Label] = vectors[i]
	}
	return out, nil
}

// Expand turns a comma separated keyword string into descriptive sentences.
// Known labels use their description; anything else gets a generic phrase.
func (v *Vocabulary) Expand(keywords string) string {
	var parts []string
	for _, word := range strings.Split(keywords, ",") {
		word = strings.TrimSpace(word)
		if word == "" {
			continue
		}
		if desc, err := v.Describe(word); err == nil {
			parts = append(parts, desc)
			continue
		}
		parts = append(parts, fmt.Sprintf("A %s atmosphere and experience", strings.ToLower(word)))
	}
	return strings.Join(parts, ". ")
}
