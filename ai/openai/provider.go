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
	"log/slog"
	"sync"

	"github.com/poiesic/vibematch/ai"
)

// Provider serves the embedder and describer of one OpenAI-compatible
// configuration.
type Provider struct {
	config    *ai.Config
	embedder  *Embedder
	describer *Describer
	logger    *slog.Logger
	closeOnce sync.Once
}

// ProviderOption configures a Provider.
type ProviderOption func(*Provider) error

// WithProviderLogger routes the provider's logging, and that of its
// embedder and describer, through logger.
func WithProviderLogger(logger *slog.Logger) ProviderOption {
	return func(p *Provider) error {
		if logger == nil {
			return nil
		}
		p.logger = logger.With("component", "openai-provider")
		p.embedder.logger = logger.With("component", "openai-embedder")
		p.describer.logger = logger.With("component", "openai-describer")
		return nil
	}
}

// NewProvider validates config and builds both services. It returns the
// ai.AIProvider interface so callers never depend on this package's types.
func NewProvider(config *ai.Config, opts ...ProviderOption) (ai.AIProvider, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	embedder, err := newEmbedder(config)
	if err != nil {
		return nil, err
	}
	describer, err := newDescriber(config)
	if err != nil {
		return nil, err
	}

	p := &Provider{
		config:    config,
		embedder:  embedder,
		describer: describer,
		logger:    slog.Default().With("component", "openai-provider"),
	}
	for _, opt := range opts {
		if err := opt(p); err != nil {
			return nil, err
		}
	}

	p.logger.Debug("provider ready",
		"embedding_host", config.EmbeddingHost,
		"embedding_model", config.EmbeddingModel,
		"dimensions", config.Dimensions,
		"describer_model", config.DescriberModel)
	return p, nil
}

// Embedder returns the text embedding service.
func (p *Provider) Embedder() ai.Embedder {
	return p.embedder
}

// Describer returns the vibe description service.
func (p *Provider) Describer() ai.Describer {
	return p.describer
}

// Close releases the provider. The HTTP clients hold no resources that need
// explicit release, so only the first call logs.
func (p *Provider) Close() error {
	p.closeOnce.Do(func() {
		p.logger.Debug("provider closed", "embedding_model", p.config.EmbeddingModel)
	})
	return nil
}
