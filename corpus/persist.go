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
	"os"
	"path/filepath"
	"time"

	"github.com/bytedance/sonic"
	"github.com/poiesic/vibematch/core"
)

type corpusFile struct {
	ModelID      string             `json:"model_id"`
	Dimensions   int                `json:"dimensions"`
	TextStrategy string             `json:"text_strategy"`
	Calibration  *core.Calibration  `json:"calibration,omitempty"`
	Tags         map[string]tagFile `json:"tags"`
	Venues       []venueFile        `json:"venues"`
	Metadata     metadataFile       `json:"metadata"`
}

type tagFile struct {
	Category    string    `json:"category,omitempty"`
	Description string    `json:"description"`
	Embedding   []float32 `json:"embedding"`
}

type venueFile struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Category        string    `json:"category"`
	Description     string    `json:"description"`
	VibeDescription string    `json:"vibe_description,omitempty"`
	Vibes           []string  `json:"vibes"`
	Rating          *float64  `json:"rating"`
	PriceTier       string    `json:"price_tier"`
	TouristLevel    int       `json:"tourist_level,omitempty"`
	Embedding       []float32 `json:"embedding"`
}

type metadataFile struct {
	GeneratedAt time.Time `json:"generated_at"`
	TotalVenues int       `json:"total_venues"`
}

// Marshal encodes the corpus in its persisted JSON form.
func (c *Corpus) Marshal() ([]byte, error) {
	f := corpusFile{
		ModelID:      c.meta.ModelID,
		Dimensions:   c.meta.Dimensions,
		TextStrategy: c.meta.TextStrategy,
		Tags:         make(map[string]tagFile, len(c.tags)),
		Venues:       make([]venueFile, 0, len(c.venues)),
		Metadata: metadataFile{
			GeneratedAt: c.meta.GeneratedAt,
			TotalVenues: len(c.venues),
		},
	}
	if c.meta.Calibration != (core.Calibration{}) {
		cal := c.meta.Calibration
		f.Calibration = &cal
	}
	for _, t := range c.tags {
		f.Tags[t.Label] = tagFile{Category: t.Category, Description: t.Description, Embedding: t.Vector}
	}
	for _, v := range c.venues {
		f.Venues = append(f.Venues, venueFile{
			ID:              v.ID,
			Name:            v.Name,
			Category:        v.Category,
			Description:     v.Description,
			VibeDescription: v.VibeDescription,
			Vibes:           v.Vibes,
			Rating:          v.Rating,
			PriceTier:       v.PriceTier,
			TouristLevel:    v.TouristLevel,
			Embedding:       v.Vector,
		})
	}
	return sonic.ConfigStd.MarshalIndent(&f, "", "  ")
}

// Unmarshal decodes and validates a persisted corpus. Any inconsistency is
// reported as core.ErrCorpusUnavailable wrapping the cause.
func Unmarshal(data []byte) (*Corpus, error) {
	var f corpusFile
	if err := sonic.ConfigStd.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("%w: %w", core.ErrCorpusUnavailable, err)
	}

	meta := core.CorpusMeta{
		ModelID:      f.ModelID,
		Dimensions:   f.Dimensions,
		TextStrategy: f.TextStrategy,
		GeneratedAt:  f.Metadata.GeneratedAt,
	}
	if f.Calibration != nil {
		meta.Calibration = *f.Calibration
	}

	tags := make([]core.Tag, 0, len(f.Tags))
	for label, t := range f.Tags {
		tags = append(tags, core.Tag{
			Label:       label,
			Category:    t.Category,
			Description: t.Description,
			Vector:      t.Embedding,
		})
	}

	venues := make([]*core.Venue, 0, len(f.Venues))
	for _, v := range f.Venues {
		venues = append(venues, &core.Venue{
			ID:              v.ID,
			Name:            v.Name,
			Category:        v.Category,
			Description:     v.Description,
			VibeDescription: v.VibeDescription,
			Vibes:           v.Vibes,
			Rating:          v.Rating,
			PriceTier:       v.PriceTier,
			TouristLevel:    v.TouristLevel,
			Vector:          v.Embedding,
		})
	}

	c, err := New(meta, tags, venues)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", core.ErrCorpusUnavailable, err)
	}
	if f.Metadata.TotalVenues != 0 && f.Metadata.TotalVenues != c.Len() {
		return nil, fmt.Errorf("%w: metadata lists %d venues, file has %d",
			core.ErrCorpusUnavailable, f.Metadata.TotalVenues, c.Len())
	}
	return c, nil
}

// Save writes the corpus to path, replacing any existing file atomically.
func Save(c *Corpus, path string) error {
	data, err := c.Marshal()
	if err != nil {
		return fmt.Errorf("failed to encode corpus: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create corpus directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".corpus-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write corpus: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write corpus: %w", err)
	}
	return os.Rename(tmp.Name(), path)
}

// Load reads and validates a corpus file.
func Load(path string) (*Corpus, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", core.ErrCorpusUnavailable, err)
	}
	return Unmarshal(data)
}
