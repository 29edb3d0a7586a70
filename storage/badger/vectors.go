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
	"github.com/poiesic/vibematch/core"
	"github.com/poiesic/vibematch/storage"
)

// VectorRepository implements storage.VectorRepository for BadgerDB.
type VectorRepository struct {
	backend *Backend
}

var _ storage.VectorRepository = (*VectorRepository)(nil)

// NewVectorRepository creates a new VectorRepository.
func NewVectorRepository(backend *Backend) *VectorRepository {
	return &VectorRepository{
		backend: backend,
	}
}

// PutVectors stores or replaces vectors by key in a single transaction.
func (r *VectorRepository) PutVectors(ctx context.Context, vectors ...*core.StoredVector) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		now := time.Now().UTC()
		for _, vector := range vectors {
			vector.UpdatedAt = now
			if err := tx.Set(makeVectorKey(vector.Key), storage.MarshalStoredVector(vector)); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// GetVector retrieves a single vector by key.
func (r *VectorRepository) GetVector(ctx context.Context, key string) (*core.StoredVector, error) {
	var vector *core.StoredVector
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get(makeVectorKey(key))
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return storage.ErrNotFound
			}
			return err
		}
		return item.Value(func(val []byte) error {
			var unmarshalErr error
			vector, unmarshalErr = storage.UnmarshalStoredVector(val)
			return unmarshalErr
		})
	}, false)
	if err != nil {
		return nil, err
	}
	return vector, nil
}

// ListVectors returns every vector whose key starts with prefix, ordered by key.
func (r *VectorRepository) ListVectors(ctx context.Context, prefix string) ([]*core.StoredVector, error) {
	var vectors []*core.StoredVector
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = makePartialVectorKey(prefix)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			err := iter.Item().Value(func(val []byte) error {
				vector, err := storage.UnmarshalStoredVector(val)
				if err != nil {
					return err
				}
				vectors = append(vectors, vector)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}
	return vectors, nil
}

// DeleteVectors removes vectors whose key starts with prefix.
func (r *VectorRepository) DeleteVectors(ctx context.Context, prefix string) (int, error) {
	return r.backend.deletePrefix(makePartialVectorKey(prefix))
}
