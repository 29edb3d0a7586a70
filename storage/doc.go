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

// Package storage provides the storage abstraction layer for vibematch.
//
// The query path never touches storage: a built corpus is a plain file loaded
// into memory. Storage serves the offline side, where batch embedding jobs need
// somewhere durable to put intermediate vectors, checkpoints, and cached
// provider responses.
//
// # Architecture
//
//   - CheckpointRepository: completed-item sets for resumable jobs
//   - VectorRepository: per-item embeddings keyed by "tag:<label>" or "venue:<id>"
//   - EmbeddingCacheRepository: content-addressed cache entries with optional TTL
//
// Values are encoded with mus-go (see serialization.go).
//
// # Usage
//
//	backend, err := badger.OpenBackend("/path/to/db", false)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer backend.Close()
//
//	checkpoints := badger.NewCheckpointRepository(backend)
//	vectors := badger.NewVectorRepository(backend)
//
// Use in tests with in-memory storage:
//
//	repos, err := badger.NewMemoryRepositories()
package storage
