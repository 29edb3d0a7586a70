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

package openai

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/poiesic/vibematch/ai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms"
)

// scriptedModel returns canned responses in order.
type scriptedModel struct {
	responses []string
	err       error
	calls     int
}

func (m *scriptedModel) GenerateContent(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	idx := min(m.calls-1, len(m.responses)-1)
	return &llms.ContentResponse{
		Choices: []*llms.ContentChoice{{Content: m.responses[idx]}},
	}, nil
}

func (m *scriptedModel) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	return llms.GenerateFromSinglePrompt(ctx, m, prompt, options...)
}

func fixedClient(dims int) embeddings.EmbedderClientFunc {
	return func(ctx context.Context, texts []string) ([][]float32, error) {
		out := make([][]float32, len(texts))
		for i := range texts {
			out[i] = make([]float32, dims)
			out[i][0] = float32(i + 1)
		}
		return out, nil
	}
}

func TestEmbedder_EmbedTexts(t *testing.T) {
	embedder, err := newEmbedderWithClient(fixedClient(4), "test-model", 4)
	require.NoError(t, err)

	vectors, err := embedder.EmbedTexts(t.Context(), []string{"a", "b", "c"})
	require.NoError(t, err)
	require.Len(t, vectors, 3)
	assert.Equal(t, float32(3), vectors[2][0])

	vector, err := embedder.EmbedText(t.Context(), "single")
	require.NoError(t, err)
	assert.Len(t, vector, 4)

	assert.Equal(t, 4, embedder.Dimensions())
	assert.Equal(t, "test-model", embedder.Model())

	empty, err := embedder.EmbedTexts(t.Context(), nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestEmbedder_WrongDimensions(t *testing.T) {
	embedder, err := newEmbedderWithClient(fixedClient(3), "test-model", 4)
	require.NoError(t, err)

	_, err = embedder.EmbedText(t.Context(), "text")
	assert.ErrorIs(t, err, ai.ErrProviderResponse)
}

func TestEmbedder_ProviderFailure(t *testing.T) {
	failing := embeddings.EmbedderClientFunc(func(ctx context.Context, texts []string) ([][]float32, error) {
		return nil, errors.New("connection refused")
	})
	embedder, err := newEmbedderWithClient(failing, "test-model", 4)
	require.NoError(t, err)

	_, err = embedder.EmbedText(t.Context(), "text")
	assert.ErrorIs(t, err, ai.ErrProvider)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestNewEmbedder_InvalidConfig(t *testing.T) {
	_, err := NewEmbedder(&ai.Config{})
	assert.Error(t, err)
}

func TestDescriber_DescribeVenue(t *testing.T) {
	t.Run("clean json", func(t *testing.T) {
		model := &scriptedModel{responses: []string{`{"description":"Candlelit tables over the water."}`}}
		d := newDescriberWithModel(model)

		desc, err := d.DescribeVenue(t.Context(), ai.VenueProfile{Name: "Harbour House", Vibes: []string{"Romantic"}})
		require.NoError(t, err)
		assert.Equal(t, "Candlelit tables over the water.", desc)
		assert.Equal(t, 1, model.calls)
	})

	t.Run("fenced and missing quote", func(t *testing.T) {
		model := &scriptedModel{responses: []string{"```json\n{description\": \"Salt air and gulls.\",}\n```"}}
		d := newDescriberWithModel(model)

		desc, err := d.DescribeVenue(t.Context(), ai.VenueProfile{Name: "Kalk Bay Pier"})
		require.NoError(t, err)
		assert.Equal(t, "Salt air and gulls.", desc)
	})

	t.Run("retries malformed then succeeds", func(t *testing.T) {
		model := &scriptedModel{responses: []string{"not json", `{"description":"Quiet rock pools."}`}}
		d := newDescriberWithModel(model)

		desc, err := d.DescribeVenue(t.Context(), ai.VenueProfile{Name: "Tidal Pool"})
		require.NoError(t, err)
		assert.Equal(t, "Quiet rock pools.", desc)
		assert.Equal(t, 2, model.calls)
	})

	t.Run("gives up after retries", func(t *testing.T) {
		model := &scriptedModel{responses: []string{"still not json"}}
		d := newDescriberWithModel(model)

		_, err := d.DescribeVenue(t.Context(), ai.VenueProfile{Name: "Nowhere"})
		assert.ErrorIs(t, err, ai.ErrProviderResponse)
		assert.Equal(t, maxParseAttempts, model.calls)
	})

	t.Run("transport error", func(t *testing.T) {
		model := &scriptedModel{err: errors.New("timeout")}
		d := newDescriberWithModel(model)

		_, err := d.DescribeVenue(t.Context(), ai.VenueProfile{Name: "Anywhere"})
		assert.ErrorIs(t, err, ai.ErrProvider)
	})
}

func TestDescriber_DescribeVibe(t *testing.T) {
	model := &scriptedModel{responses: []string{"  Description: \"Warm light,   soft music and a table for two.\"  "}}
	d := newDescriberWithModel(model)

	desc, err := d.DescribeVibe(t.Context(), "Romantic", "Universal")
	require.NoError(t, err)
	assert.Equal(t, "Warm light, soft music and a table for two.", desc)

	model = &scriptedModel{responses: []string{"   "}}
	_, err = newDescriberWithModel(model).DescribeVibe(t.Context(), "Romantic", "Universal")
	assert.ErrorIs(t, err, ai.ErrProviderResponse)
}

func TestRepairJSON(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "valid unchanged", input: `{"description": "a, b"}`, expected: `{"description": "a, b"}`},
		{name: "missing opening quote", input: `{description": "x"}`, expected: `{"description": "x"}`},
		{name: "missing quote after comma", input: `{"a": 1, b": 2}`, expected: `{"a": 1, "b": 2}`},
		{name: "trailing comma object", input: `{"a": 1,}`, expected: `{"a": 1}`},
		{name: "trailing comma array", input: `[1, 2, ]`, expected: `[1, 2 ]`},
		{name: "comma inside string kept", input: `{"a": "x,}"}`, expected: `{"a": "x,}"}`},
		{name: "escaped quote in string", input: `{"a": "say \"hi\", ok"}`, expected: `{"a": "say \"hi\", ok"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, repairJSON(tt.input))
		})
	}
}

func TestCleanDescription(t *testing.T) {
	long := strings.Repeat("Sunlight on the water. ", 40)
	cleaned := cleanDescription(long)
	assert.LessOrEqual(t, len(cleaned), ai.MaxDescriptionLength)
	assert.True(t, strings.HasSuffix(cleaned, "."))
}

func TestBuildVenuePrompt(t *testing.T) {
	prompt := buildVenuePrompt(ai.VenueProfile{
		Name:      "Harbour House",
		Category:  "Restaurant",
		Vibes:     []string{"Romantic", "Views"},
		PriceTier: "$$$",
	})
	assert.Contains(t, prompt, "Name: Harbour House")
	assert.Contains(t, prompt, "Vibes: Romantic, Views")
	assert.NotContains(t, prompt, "About:")
}

func TestNewProvider(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))

	config := ai.NewConfig(ai.WithHost("http://localhost:11434/v1"))
	provider, err := NewProvider(config, WithProviderLogger(logger))
	require.NoError(t, err)

	assert.Equal(t, config.EmbeddingModel, provider.Embedder().Model())
	assert.Equal(t, config.Dimensions, provider.Embedder().Dimensions())
	assert.NotNil(t, provider.Describer())
	assert.Contains(t, logs.String(), "component=openai-provider")
	assert.Contains(t, logs.String(), "provider ready")

	require.NoError(t, provider.Close())
	require.NoError(t, provider.Close())
	assert.Equal(t, 1, strings.Count(logs.String(), "provider closed"))
}

func TestNewProvider_InvalidConfig(t *testing.T) {
	_, err := NewProvider(&ai.Config{})
	assert.Error(t, err)
}
