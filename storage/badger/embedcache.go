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
	"context"
	"errors"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/vibematch/storage"
)

// EmbeddingCacheRepository implements storage.EmbeddingCacheRepository for BadgerDB.
// Expiry is delegated to badger's per-entry TTL.
type EmbeddingCacheRepository struct {
	backend *Backend
}

var _ storage.EmbeddingCacheRepository = (*EmbeddingCacheRepository)(nil)

// NewEmbeddingCacheRepository creates a new EmbeddingCacheRepository.
func NewEmbeddingCacheRepository(backend *Backend) *EmbeddingCacheRepository {
	return &EmbeddingCacheRepository{
		backend: backend,
	}
}

// GetEmbedding returns the cached vector for key, or storage.ErrNotFound.
func (r *EmbeddingCacheRepository) GetEmbedding(ctx context.Context, key string) ([]float32, error) {
	var vector []float32
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get(makeEmbedCacheKey(key))
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return storage.ErrNotFound
			}
			return err
		}
		return item.Value(func(val []byte) error {
			var unmarshalErr error
			vector, unmarshalErr = storage.UnmarshalVector(val)
			return unmarshalErr
		})
	}, false)
	if err != nil {
		return nil, err
	}
	return vector, nil
}

// PutEmbedding stores a vector under key. A zero ttl means no expiry.
func (r *EmbeddingCacheRepository) PutEmbedding(ctx context.Context, key string, vector []float32, ttl time.Duration) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		entry := badger.NewEntry(makeEmbedCacheKey(key), storage.MarshalVector(vector))
		if ttl > 0 {
			entry = entry.WithTTL(ttl)
		}
		if err := tx.SetEntry(entry); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// PurgeEmbeddings drops every cached vector.
func (r *EmbeddingCacheRepository) PurgeEmbeddings(ctx context.Context) (int, error) {
	return r.backend.deletePrefix(makeEmbedCacheKey(""))
}
