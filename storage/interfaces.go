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

package storage

import (
	"context"
	"time"

	"github.com/poiesic/vibematch/core"
)

// CheckpointRepository persists batch job progress so interrupted jobs can resume.
type CheckpointRepository interface {
	// SaveCheckpoint persists a checkpoint for a job type.
	// Sets UpdatedAt automatically.
	SaveCheckpoint(ctx context.Context, checkpoint *core.Checkpoint) error

	// LoadCheckpoint retrieves the checkpoint for a job type.
	// Returns nil, nil if no checkpoint exists.
	LoadCheckpoint(ctx context.Context, jobType string) (*core.Checkpoint, error)

	// DeleteCheckpoint removes the checkpoint for a job type.
	// Deleting a missing checkpoint is not an error.
	DeleteCheckpoint(ctx context.Context, jobType string) error
}

// VectorRepository stores embeddings produced by batch jobs until a corpus is assembled.
type VectorRepository interface {
	// PutVectors stores or replaces vectors by key.
	// Sets UpdatedAt automatically.
	PutVectors(ctx context.Context, vectors ...*core.StoredVector) error

	// GetVector retrieves a single vector by key.
	// Returns ErrNotFound if the key doesn't exist.
	GetVector(ctx context.Context, key string) (*core.StoredVector, error)

	// ListVectors returns every vector whose key starts with prefix, ordered by key.
	ListVectors(ctx context.Context, prefix string) ([]*core.StoredVector, error)

	// DeleteVectors removes vectors whose key starts with prefix and reports how many were removed.
	DeleteVectors(ctx context.Context, prefix string) (int, error)
}

// EmbeddingCacheRepository is the persistent tier of the content-addressed embedding cache.
type EmbeddingCacheRepository interface {
	// GetEmbedding returns the cached vector for key.
	// Returns ErrNotFound on a miss or an expired entry.
	GetEmbedding(ctx context.Context, key string) ([]float32, error)

	// PutEmbedding stores a vector for key. A zero ttl means the entry never expires.
	PutEmbedding(ctx context.Context, key string, vector []float32, ttl time.Duration) error

	// PurgeEmbeddings drops every cached vector and reports how many were removed.
	PurgeEmbeddings(ctx context.Context) (int, error)
}
