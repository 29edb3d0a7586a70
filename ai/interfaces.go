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

package ai

import "context"

// Embedder generates vector embeddings from text.
// Implementations must be thread-safe for concurrent use.
type Embedder interface {
	// EmbedText generates a vector embedding for a single text string.
	// The returned vector has exactly Dimensions() elements.
	EmbedText(ctx context.Context, text string) ([]float32, error)

	// EmbedTexts generates vector embeddings for multiple text strings.
	// The returned slice contains embeddings in the same order as the input texts.
	// Returns an error if any embedding generation fails.
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)

	// Dimensions reports the length of every vector this embedder produces.
	Dimensions() int

	// Model identifies the embedding model. Vectors from different models
	// are not comparable.
	Model() string
}

// Describer writes short evocative vibe prose used as embedding text.
// Implementations must be thread-safe for concurrent use.
type Describer interface {
	// DescribeVenue writes a 2-3 sentence atmosphere description for a venue.
	DescribeVenue(ctx context.Context, venue VenueProfile) (string, error)

	// DescribeVibe writes a 2-3 sentence description of what a vibe label feels like.
	DescribeVibe(ctx context.Context, vibe, category string) (string, error)
}

// AIProvider aggregates AI services for convenient initialization and lifecycle management.
type AIProvider interface {
	// Embedder returns the text embedding service.
	// The returned Embedder is safe for concurrent use.
	Embedder() Embedder

	// Describer returns the vibe description service.
	// The returned Describer is safe for concurrent use.
	Describer() Describer

	// Close releases resources held by the provider and its services.
	// After Close is called, the provider and its services should not be used.
	Close() error
}
