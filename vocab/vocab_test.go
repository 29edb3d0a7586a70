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
	"os"
	"path/filepath"
	"testing"

	"github.com/poiesic/vibematch/ai/mock"
	"github.com/poiesic/vibematch/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	v := Default()
	assert.Equal(t, 98, v.Len())

	labels := v.Labels()
	assert.Equal(t, "Chill", labels[0])
	assert.Contains(t, labels, "Romantic")
	assert.Contains(t, labels, "Coastal")

	assert.Equal(t, []string{
		"Atmosphere", "Style", "Experience", "Setting", "Social",
		"Food & Drink", "Cultural", "Activity", "Specifics",
	}, v.Categories())
}

func TestDescribe(t *testing.T) {
	v := Default()

	desc, err := v.Describe("Romantic")
	require.NoError(t, err)
	assert.Equal(t, "A romantic, intimate, cozy atmosphere perfect for couples and date nights", desc)

	lower, err := v.Describe("  romantic ")
	require.NoError(t, err)
	assert.Equal(t, desc, lower)

	_, err = v.Describe("Spaceship")
	assert.ErrorIs(t, err, core.ErrUnknownTag)
}

func TestCanonical(t *testing.T) {
	v := Default()

	label, ok := v.Canonical("street-food")
	assert.True(t, ok)
	assert.Equal(t, "Street-food", label)

	_, ok = v.Canonical("nope")
	assert.False(t, ok)
}

func TestNew_Validation(t *testing.T) {
	tests := []struct {
		name    string
		entries []Entry
	}{
		{name: "empty label", entries: []Entry{{Label: " ", Description: "x"}}},
		{name: "empty description", entries: []Entry{{Label: "Calm"}}},
		{name: "duplicate ignoring case", entries: []Entry{
			{Label: "Calm", Description: "a"},
			{Label: "calm", Description: "b"},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.entries)
			assert.Error(t, err)
		})
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vocab.yaml")
	content := `
- label: Calm
  category: Atmosphere
  description: A calm place
- label: Salty
  category: Setting
  description: Sea spray and salt air
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	v, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"Calm", "Salty"}, v.Labels())

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestSaveFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vocab.yaml")
	v, err := New([]Entry{
		{Label: "Calm", Category: "Atmosphere", Description: "A calm place"},
		{Label: "Salty", Category: "Setting", Description: "Sea spray and salt air"},
	})
	require.NoError(t, err)
	require.NoError(t, v.SaveFile(path))

	loaded, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, v.Entries(), loaded.Entries())
}

func TestEmbedAll(t *testing.T) {
	v, err := New([]Entry{
		{Label: "Calm", Category: "Atmosphere", Description: "A calm place"},
		{Label: "Salty", Category: "Setting", Description: "Sea spray and salt air"},
	})
	require.NoError(t, err)

	embedder := mock.NewMockEmbedder().WithDimensions(8)
	vectors, err := v.EmbedAll(t.Context(), embedder)
	require.NoError(t, err)
	require.Len(t, vectors, 2)
	assert.Len(t, vectors["Calm"], 8)

	// Descriptions are embedded, never the bare labels.
	assert.Equal(t, []string{"A calm place", "Sea spray and salt air"}, embedder.EmbeddedTexts())
	assert.Equal(t, 1, embedder.CallCount())

	tags := v.Tags(vectors)
	require.Len(t, tags, 2)
	assert.Equal(t, "Setting", tags[1].Category)
	assert.Equal(t, vectors["Salty"], tags[1].Vector)
}

func TestEmbedAll_BadVectors(t *testing.T) {
	v, err := New([]Entry{{Label: "Calm", Description: "A calm place"}})
	require.NoError(t, err)

	t.Run("wrong length", func(t *testing.T) {
		embedder := mock.NewMockEmbedder().WithDimensions(4).WithVector("A calm place", []float32{1, 0})
		_, err := v.EmbedAll(t.Context(), embedder)
		assert.ErrorIs(t, err, core.ErrDimensionMismatch)
	})

	t.Run("zero vector", func(t *testing.T) {
		embedder := mock.NewMockEmbedder().WithDimensions(2).WithVector("A calm place", []float32{0, 0})
		_, err := v.EmbedAll(t.Context(), embedder)
		assert.ErrorIs(t, err, core.ErrZeroVector)
	})

	t.Run("provider error", func(t *testing.T) {
		embedder := mock.NewMockEmbedder()
		embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
			return nil, context.DeadlineExceeded
		}
		_, err := v.EmbedAll(t.Context(), embedder)
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	})
}

func TestExpand(t *testing.T) {
	v := Default()

	got := v.Expand("Romantic, Gelato ,")
	assert.Equal(t,
		"A romantic, intimate, cozy atmosphere perfect for couples and date nights. A gelato atmosphere and experience",
		got)
	assert.Empty(t, v.Expand(" , "))
}
