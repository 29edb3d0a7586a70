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

package mock

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/poiesic/vibematch/ai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateDeterministicVector(t *testing.T) {
	a := GenerateDeterministicVector("romantic", 32)
	b := GenerateDeterministicVector("romantic", 32)
	c := GenerateDeterministicVector("lively", 32)

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Len(t, a, 32)

	var sum float64
	for _, v := range a {
		sum += float64(v) * float64(v)
	}
	assert.InDelta(t, 1.0, sum, 1e-5)
}

func TestMockEmbedder(t *testing.T) {
	ctx := context.Background()
	embedder := NewMockEmbedder().WithDimensions(3).WithModel("m").WithVector("pinned", []float32{1, 0, 0})

	vector, err := embedder.EmbedText(ctx, "pinned")
	require.NoError(t, err)
	assert.Equal(t, []float32{1, 0, 0}, vector)

	vectors, err := embedder.EmbedTexts(ctx, []string{"pinned", "other"})
	require.NoError(t, err)
	require.Len(t, vectors, 2)
	assert.Len(t, vectors[1], 3)

	assert.Equal(t, 2, embedder.CallCount())
	assert.Equal(t, []string{"pinned", "pinned", "other"}, embedder.EmbeddedTexts())
	assert.Equal(t, "m", embedder.Model())
	assert.Equal(t, 3, embedder.Dimensions())

	embedder.Reset()
	assert.Zero(t, embedder.CallCount())
}

func TestMockEmbedder_CustomFunc(t *testing.T) {
	boom := errors.New("boom")
	embedder := NewMockEmbedder().WithEmbedTextFunc(func(ctx context.Context, text string) ([]float32, error) {
		if text == "bad" {
			return nil, boom
		}
		return []float32{1}, nil
	})

	_, err := embedder.EmbedTexts(context.Background(), []string{"ok", "bad"})
	assert.ErrorIs(t, err, boom)
}

func TestMockEmbedder_Concurrent(t *testing.T) {
	embedder := NewMockEmbedder()
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = embedder.EmbedText(context.Background(), "x")
		}()
	}
	wg.Wait()
	assert.Equal(t, 20, embedder.CallCount())
}

func TestMockProvider(t *testing.T) {
	provider := NewMockProvider()
	mp := provider.(*MockProvider)

	desc, err := provider.Describer().DescribeVenue(context.Background(), ai.VenueProfile{Name: "Pier", Vibes: []string{"Views"}})
	require.NoError(t, err)
	assert.Equal(t, "Pier feels views.", desc)
	assert.Equal(t, 1, mp.GetMockDescriber().CallCount())

	require.NoError(t, provider.Close())
	assert.True(t, mp.IsClosed())
}
