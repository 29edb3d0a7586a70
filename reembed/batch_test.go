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

package reembed

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/poiesic/vibematch/ai"
	"github.com/poiesic/vibematch/ai/mock"
	"github.com/poiesic/vibematch/core"
	"github.com/poiesic/vibematch/corpus"
	"github.com/poiesic/vibematch/vocab"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBatches(t *testing.T) {
	items := testItems(5)

	var sizes []int
	for batch := range Batches(items, 2) {
		sizes = append(sizes, len(batch))
	}
	assert.Equal(t, []int{2, 2, 1}, sizes)

	count := 0
	for range Batches(testItems(40), 0) {
		count++
	}
	assert.Equal(t, 3, count, "size 0 uses DefaultBatchSize")

	count = 0
	for range Batches(items, 1) {
		count++
		break
	}
	assert.Equal(t, 1, count)

	for range Batches(nil, 4) {
		t.Fatal("no batches expected for empty input")
	}
}

func TestBatchProcessor_Process(t *testing.T) {
	policy := RetryPolicy{MaxAttempts: 2, BaseDelay: time.Millisecond}
	logger := slog.New(slog.DiscardHandler)

	t.Run("single call", func(t *testing.T) {
		embedder := mock.NewMockEmbedder()
		outcomes := NewBatchProcessor(embedder, policy, logger).Process(t.Context(), testItems(3))

		require.Len(t, outcomes, 3)
		for i, o := range outcomes {
			require.NoError(t, o.Err)
			assert.Equal(t, testItems(3)[i].Key, o.Item.Key)
			assert.Len(t, o.Vector, mock.DefaultDimensions)
		}
		assert.Equal(t, 1, embedder.CallCount())
	})

	t.Run("short response falls back to single items", func(t *testing.T) {
		embedder := mock.NewMockEmbedder()
		embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
			return [][]float32{mock.GenerateDeterministicVector(texts[0], mock.DefaultDimensions)}, nil
		}
		outcomes := NewBatchProcessor(embedder, policy, logger).Process(t.Context(), testItems(3))

		require.Len(t, outcomes, 3)
		for _, o := range outcomes {
			assert.NoError(t, o.Err)
		}
		// One batch call (not retried) plus three single calls
		assert.Equal(t, 4, embedder.CallCount())
	})

	t.Run("zero vector", func(t *testing.T) {
		embedder := mock.NewMockEmbedder().WithDimensions(2).WithVector("blank", []float32{0, 0})
		outcomes := NewBatchProcessor(embedder, policy, logger).Process(t.Context(), []Item{{Key: "k", Text: "blank"}})

		require.Len(t, outcomes, 1)
		assert.ErrorIs(t, outcomes[0].Err, core.ErrZeroVector)
	})

	t.Run("wrong dimensions on single item", func(t *testing.T) {
		embedder := mock.NewMockEmbedder().WithDimensions(3).WithVector("short", []float32{1, 0})
		outcomes := NewBatchProcessor(embedder, policy, logger).Process(t.Context(), []Item{{Key: "k", Text: "short"}})

		require.Len(t, outcomes, 1)
		assert.ErrorIs(t, outcomes[0].Err, ai.ErrProviderResponse)
	})

	t.Run("empty", func(t *testing.T) {
		assert.Nil(t, NewBatchProcessor(mock.NewMockEmbedder(), policy, nil).Process(t.Context(), nil))
	})
}

func TestTokens(t *testing.T) {
	assert.Equal(t, 4, WordCounter{}.CountTokens("quiet rock pools"))
	assert.Equal(t, 0, WordCounter{}.CountTokens("   "))
	assert.Equal(t, 5, EstimateTokens(nil, "a b", "c"))
	assert.InDelta(t, 0.04, EstimateCost(2_000_000, 0.02), 1e-9)
}

func TestItems(t *testing.T) {
	v := vocab.Default()
	tags := TagItems(v)
	require.Len(t, tags, v.Len())
	assert.Equal(t, "Chill", tags[0].Key)
	desc, err := v.Describe("Chill")
	require.NoError(t, err)
	assert.Equal(t, desc, tags[0].Text)

	venues := []*core.Venue{
		{ID: "harbour-house", Name: "Harbour House", Vibes: []string{"Romantic", "Coastal"}},
		{Name: "Kalk Bay Pier", Vibes: []string{"Scenic"}},
	}
	items := VenueItems(venues, corpus.Keywords())
	require.Len(t, items, 2)
	assert.Equal(t, Item{Key: "harbour-house", Text: "Romantic, Coastal"}, items[0])
	assert.Equal(t, core.VenueID("Kalk Bay Pier"), items[1].Key)
	assert.Equal(t, "venues/hybrid", VenueJobType(corpus.StrategyHybrid))

	twice := append(venues, &core.Venue{Name: "Kalk Bay Pier", Vibes: []string{"Lively"}})
	items = VenueItems(twice, corpus.Keywords())
	require.Len(t, items, 2, "venues sharing an id become one item")
	assert.Equal(t, Item{Key: core.VenueID("Kalk Bay Pier"), Text: "Lively"}, items[1])
}
