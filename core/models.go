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

package core

import (
	"encoding/hex"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-crypt/x/blake2b"
	"github.com/gosimple/slug"
)

// maxSlugLength bounds the readable part of a venue ID so the hash suffix always fits.
const maxSlugLength = 40

var apostrophes = strings.NewReplacer("'", "", "’", "", "‘", "")

// VenueID derives a stable, filesystem-safe identifier from a venue name.
// The readable slug is followed by a short BLAKE2b suffix of the raw name, so
// identity depends only on the name and never on where the venue appears in a list.
//
//	"Woolley's Tidal Pool" -> "woolleys-tidal-pool-xxxx"
func VenueID(name string) string {
	base := slug.Make(apostrophes.Replace(name))
	if utf8.RuneCountInString(base) > maxSlugLength {
		base = strings.TrimRight(string([]rune(base)[:maxSlugLength]), "-")
	}
	h, _ := blake2b.New(2, nil) // 2 bytes = 4 hex chars
	h.Write([]byte(name))
	suffix := hex.EncodeToString(h.Sum(nil))
	if base == "" {
		return suffix
	}
	return base + "-" + suffix
}

// ContentKey derives the content address of text embedded by model at the
// given dimension. Any change to the text, model or dimension changes the key.
func ContentKey(model string, dimensions int, text string) string {
	h, _ := blake2b.New(32, nil)
	h.Write([]byte(model))
	h.Write([]byte{0})
	h.Write([]byte(strconv.Itoa(dimensions)))
	h.Write([]byte{0})
	h.Write([]byte(text))
	return hex.EncodeToString(h.Sum(nil))
}

// Tag is a selectable mood label with the descriptive sentence that gets embedded for it.
type Tag struct {
	Label       string
	Category    string
	Description string
	Vector      []float32 // Embedding of Description (populated by the embedding job)
}

// Venue is one place-of-interest in the corpus.
type Venue struct {
	ID              string
	Name            string
	Category        string
	Description     string   // Short human description
	VibeDescription string   // AI-generated vibe prose, may be empty
	Vibes           []string // Assigned vibe labels in source order
	Rating          *float64 // nil when unrated
	PriceTier       string
	TouristLevel    int
	Vector          []float32 // Embedding of the corpus' selected text (populated by the embedding job)
}

// VibesString joins the vibe labels the way the curation sheet stores them.
func (v *Venue) VibesString() string {
	return strings.Join(v.Vibes, ", ")
}

// Query is a request-scoped selection of tag labels.
type Query struct {
	Labels []string
}

// ScoredResult is one ranked venue for a query.
type ScoredResult struct {
	Venue   *Venue
	Raw     float64 // Cosine similarity in [-1, 1]
	Display float64 // Calibrated display score in [DisplayFloor, DisplayCeiling]
	Rank    int     // 1-based
}

// EvaluationCase is ground truth for the evaluation harness.
type EvaluationCase struct {
	Name     string   `yaml:"name"`
	Tags     []string `yaml:"tags"`
	Expected []string `yaml:"expected"` // Venue names expected near the top
}

// Calibration maps raw cosine similarity onto the display range.
// MinSim and MaxSim must be measured per embedding strategy; they are not constants.
type Calibration struct {
	MinSim         float64 `json:"min_sim" yaml:"min_sim"`
	MaxSim         float64 `json:"max_sim" yaml:"max_sim"`
	DisplayFloor   float64 `json:"display_floor" yaml:"display_floor"`
	DisplayCeiling float64 `json:"display_ceiling" yaml:"display_ceiling"`
}

// Default display range for calibrated scores.
const (
	DefaultDisplayFloor   = 0.55
	DefaultDisplayCeiling = 0.98
)

// CorpusMeta records how a corpus was produced. Tags and venues built under
// different metadata must never be scored against each other.
type CorpusMeta struct {
	ModelID      string
	Dimensions   int
	TextStrategy string
	GeneratedAt  time.Time
	TotalVenues  int
	Calibration  Calibration
}

// Checkpoint tracks which items of a batch job have completed.
type Checkpoint struct {
	JobType   string
	Completed []string
	UpdatedAt time.Time
}

// StoredVector is an embedding persisted by a batch job before the corpus is assembled.
type StoredVector struct {
	Key       string
	Model     string
	TextHash  string // ContentKey of the text the vector was embedded from
	Vector    []float32
	UpdatedAt time.Time
}
