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
	"fmt"
	"log/slog"

	"github.com/poiesic/vibematch/ai"
	"github.com/poiesic/vibematch/core"
)

// Item is one text to embed, identified by a stable key.
type Item struct {
	Key  string
	Text string
}

// Outcome is the result of embedding one item.
type Outcome struct {
	Item   Item
	Vector []float32
	Err    error
}

// BatchProcessor embeds batches of items with retry.
type BatchProcessor struct {
	embedder ai.Embedder
	policy   RetryPolicy
	logger   *slog.Logger
}

// NewBatchProcessor creates a new batch processor.
func NewBatchProcessor(embedder ai.Embedder, policy RetryPolicy, logger *slog.Logger) *BatchProcessor {
	if logger == nil {
		logger = slog.Default()
	}
	return &BatchProcessor{
		embedder: embedder,
		policy:   policy,
		logger:   logger,
	}
}

// Process embeds items in one provider call and returns one outcome per item
// in input order. If the batch call keeps failing, every item is retried on
// its own so a single bad input cannot sink its neighbours.
func (bp *BatchProcessor) Process(ctx context.Context, items []Item) []Outcome {
	if len(items) == 0 {
		return nil
	}

	texts := make([]string, len(items))
	for i, item := range items {
		texts[i] = item.Text
	}

	var vectors [][]float32
	err := RetryWithBackoff(ctx, bp.policy, func(ctx context.Context) error {
		v, err := bp.embedder.EmbedTexts(ctx, texts)
		if err != nil {
			return err
		}
		if err := ai.CheckEmbeddings(v, len(texts), bp.embedder.Dimensions()); err != nil {
			return Permanent(err)
		}
		vectors = v
		return nil
	})

	outcomes := make([]Outcome, len(items))
	if err == nil {
		for i, item := range items {
			outcomes[i] = bp.outcome(item, vectors[i], nil)
		}
		return outcomes
	}

	if ctx.Err() != nil || len(items) == 1 {
		for i, item := range items {
			outcomes[i] = Outcome{Item: item, Err: fmt.Errorf("failed to embed %q: %w", item.Key, err)}
		}
		return outcomes
	}

	bp.logger.Warn("batch embedding failed, retrying items individually", "items", len(items), "err", err)
	for i, item := range items {
		outcomes[i] = bp.processOne(ctx, item)
	}
	return outcomes
}

func (bp *BatchProcessor) processOne(ctx context.Context, item Item) Outcome {
	var vector []float32
	err := RetryWithBackoff(ctx, bp.policy, func(ctx context.Context) error {
		v, err := bp.embedder.EmbedText(ctx, item.Text)
		if err != nil {
			return err
		}
		if len(v) != bp.embedder.Dimensions() {
			return Permanent(fmt.Errorf("%w: got %d dimensions, want %d",
				ai.ErrProviderResponse, len(v), bp.embedder.Dimensions()))
		}
		vector = v
		return nil
	})
	return bp.outcome(item, vector, err)
}

func (bp *BatchProcessor) outcome(item Item, vector []float32, err error) Outcome {
	if err != nil {
		return Outcome{Item: item, Err: fmt.Errorf("failed to embed %q: %w", item.Key, err)}
	}
	if core.Norm(vector) == 0 {
		return Outcome{Item: item, Err: fmt.Errorf("item %q: %w", item.Key, core.ErrZeroVector)}
	}
	return Outcome{Item: item, Vector: vector}
}
