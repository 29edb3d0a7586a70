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

package badger

import (
	"testing"
	"time"

	"github.com/poiesic/vibematch/core"
	"github.com/poiesic/vibematch/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRepositories(t *testing.T) *Repositories {
	t.Helper()
	repos, err := NewMemoryRepositories()
	require.NoError(t, err)
	t.Cleanup(func() { repos.Close() })
	return repos
}

func TestCheckpointRepository(t *testing.T) {
	repos := newTestRepositories(t)
	ctx := t.Context()

	checkpoint, err := repos.Checkpoints.LoadCheckpoint(ctx, "venues")
	require.NoError(t, err)
	assert.Nil(t, checkpoint, "missing checkpoint should be nil, nil")

	saved := &core.Checkpoint{JobType: "venues", Completed: []string{"venue:a", "venue:b"}}
	require.NoError(t, repos.Checkpoints.SaveCheckpoint(ctx, saved))
	assert.False(t, saved.UpdatedAt.IsZero())

	loaded, err := repos.Checkpoints.LoadCheckpoint(ctx, "venues")
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, []string{"venue:a", "venue:b"}, loaded.Completed)

	other, err := repos.Checkpoints.LoadCheckpoint(ctx, "tags")
	require.NoError(t, err)
	assert.Nil(t, other, "checkpoints are scoped by job type")

	require.NoError(t, repos.Checkpoints.DeleteCheckpoint(ctx, "venues"))
	loaded, err = repos.Checkpoints.LoadCheckpoint(ctx, "venues")
	require.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestVectorRepository(t *testing.T) {
	repos := newTestRepositories(t)
	ctx := t.Context()

	err := repos.Vectors.PutVectors(ctx,
		&core.StoredVector{Key: "venue:b", Model: "m", Vector: []float32{0, 1}},
		&core.StoredVector{Key: "venue:a", Model: "m", TextHash: "5e1f", Vector: []float32{1, 0}},
		&core.StoredVector{Key: "tag:romantic", Model: "m", Vector: []float32{0.5, 0.5}},
	)
	require.NoError(t, err)

	t.Run("get", func(t *testing.T) {
		vector, err := repos.Vectors.GetVector(ctx, "venue:a")
		require.NoError(t, err)
		assert.Equal(t, []float32{1, 0}, vector.Vector)
		assert.Equal(t, "m", vector.Model)
		assert.Equal(t, "5e1f", vector.TextHash)
		assert.False(t, vector.UpdatedAt.IsZero())
	})

	t.Run("missing", func(t *testing.T) {
		_, err := repos.Vectors.GetVector(ctx, "venue:zzz")
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})

	t.Run("list by prefix in key order", func(t *testing.T) {
		vectors, err := repos.Vectors.ListVectors(ctx, "venue:")
		require.NoError(t, err)
		require.Len(t, vectors, 2)
		assert.Equal(t, "venue:a", vectors[0].Key)
		assert.Equal(t, "venue:b", vectors[1].Key)
	})

	t.Run("replace", func(t *testing.T) {
		require.NoError(t, repos.Vectors.PutVectors(ctx, &core.StoredVector{Key: "venue:a", Model: "m", Vector: []float32{2, 2}}))
		vector, err := repos.Vectors.GetVector(ctx, "venue:a")
		require.NoError(t, err)
		assert.Equal(t, []float32{2, 2}, vector.Vector)
	})

	t.Run("delete by prefix", func(t *testing.T) {
		deleted, err := repos.Vectors.DeleteVectors(ctx, "venue:")
		require.NoError(t, err)
		assert.Equal(t, 2, deleted)

		vectors, err := repos.Vectors.ListVectors(ctx, "")
		require.NoError(t, err)
		require.Len(t, vectors, 1)
		assert.Equal(t, "tag:romantic", vectors[0].Key)
	})
}

func TestEmbeddingCacheRepository(t *testing.T) {
	repos := newTestRepositories(t)
	ctx := t.Context()

	_, err := repos.EmbedCache.GetEmbedding(ctx, "abc")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	require.NoError(t, repos.EmbedCache.PutEmbedding(ctx, "abc", []float32{0.1, 0.2}, 0))
	require.NoError(t, repos.EmbedCache.PutEmbedding(ctx, "def", []float32{0.3}, time.Hour))

	vector, err := repos.EmbedCache.GetEmbedding(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, []float32{0.1, 0.2}, vector)

	vector, err = repos.EmbedCache.GetEmbedding(ctx, "def")
	require.NoError(t, err)
	assert.Equal(t, []float32{0.3}, vector)

	purged, err := repos.EmbedCache.PurgeEmbeddings(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, purged)

	_, err = repos.EmbedCache.GetEmbedding(ctx, "abc")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestEmbeddingCacheRepository_Expiry(t *testing.T) {
	repos := newTestRepositories(t)
	ctx := t.Context()

	require.NoError(t, repos.EmbedCache.PutEmbedding(ctx, "short", []float32{1}, time.Second))
	require.Eventually(t, func() bool {
		_, err := repos.EmbedCache.GetEmbedding(ctx, "short")
		return err != nil
	}, 5*time.Second, 100*time.Millisecond)
}
