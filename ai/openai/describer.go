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
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/bytedance/sonic"
	"github.com/poiesic/vibematch/ai"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// maxParseAttempts bounds retries on malformed JSON from the model.
const maxParseAttempts = 3

// Describer implements ai.Describer using OpenAI-compatible chat APIs.
type Describer struct {
	client llms.Model
	logger *slog.Logger
}

var _ ai.Describer = (*Describer)(nil)

// venueDescription is the JSON shape the model is asked to return.
type venueDescription struct {
	Description string `json:"description"`
}

// newDescriber is an internal constructor that returns the concrete type.
// Used by Provider to manage the instance.
func newDescriber(config *ai.Config) (*Describer, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	client, err := openai.New(
		openai.WithBaseURL(config.DescriberHost),
		openai.WithToken(config.Token()),
		openai.WithModel(config.DescriberModel),
		openai.WithHTTPClient(&http.Client{Timeout: config.Timeout}),
	)
	if err != nil {
		return nil, err
	}

	return newDescriberWithModel(client), nil
}

func newDescriberWithModel(client llms.Model) *Describer {
	return &Describer{
		client: client,
		logger: slog.Default().With("component", "openai-describer"),
	}
}

// NewDescriber creates a new describer using the provided configuration.
//
// Returns ai.Describer interface to enforce abstraction.
func NewDescriber(config *ai.Config) (ai.Describer, error) {
	return newDescriber(config)
}

// DescribeVenue asks the model for a JSON-wrapped atmosphere description.
// Malformed JSON is repaired where possible and retried up to three times.
func (d *Describer) DescribeVenue(ctx context.Context, venue ai.VenueProfile) (string, error) {
	content := []llms.MessageContent{
		{
			Role:  llms.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{llms.TextPart(buildVenueSystemPrompt())},
		},
		{
			Role:  llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{llms.TextPart(buildVenuePrompt(venue))},
		},
	}

	var lastErr error
	for attempt := 0; attempt < maxParseAttempts; attempt++ {
		response, err := d.client.GenerateContent(ctx, content, llms.WithTemperature(0.7), llms.WithJSONMode())
		if err != nil {
			d.logger.Error("failed to generate content", "venue", venue.Name, "attempt", attempt+1, "err", err)
			return "", fmt.Errorf("%w: %w", ai.ErrProvider, err)
		}
		if len(response.Choices) < 1 {
			return "", fmt.Errorf("%w: no choices returned", ai.ErrProviderResponse)
		}

		responseText := repairJSON(stripFences(response.Choices[0].Content))

		var result venueDescription
		if err := sonic.UnmarshalString(responseText, &result); err != nil {
			lastErr = err
			d.logger.Warn("error parsing describer response",
				"attempt", attempt+1,
				"response", responseText,
				"err", err)
			continue
		}

		description := cleanDescription(result.Description)
		if description == "" {
			lastErr = errors.New("empty description")
			continue
		}
		d.logger.Debug("described venue", "venue", venue.Name, "length", len(description))
		return description, nil
	}

	d.logger.Error("failed to parse describer response after retries", "venue", venue.Name, "err", lastErr)
	return "", fmt.Errorf("%w: %w", ai.ErrProviderResponse, lastErr)
}

// DescribeVibe asks the model for plain prose describing a vibe label.
func (d *Describer) DescribeVibe(ctx context.Context, vibe, category string) (string, error) {
	content := []llms.MessageContent{
		{
			Role:  llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{llms.TextPart(buildVibePrompt(vibe, category))},
		},
	}

	response, err := d.client.GenerateContent(ctx, content, llms.WithTemperature(0.7))
	if err != nil {
		d.logger.Error("failed to generate content", "vibe", vibe, "err", err)
		return "", fmt.Errorf("%w: %w", ai.ErrProvider, err)
	}
	if len(response.Choices) < 1 {
		return "", fmt.Errorf("%w: no choices returned", ai.ErrProviderResponse)
	}

	description := cleanDescription(response.Choices[0].Content)
	if description == "" {
		return "", fmt.Errorf("%w: empty description for %q", ai.ErrProviderResponse, vibe)
	}
	return description, nil
}
