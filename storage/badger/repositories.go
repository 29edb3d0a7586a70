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

// Repositories groups every repository sharing one backend.
type Repositories struct {
	Backend     *Backend
	Checkpoints *CheckpointRepository
	Vectors     *VectorRepository
	EmbedCache  *EmbeddingCacheRepository
}

// NewRepositories creates all repositories on top of an open backend.
func NewRepositories(backend *Backend) *Repositories {
	return &Repositories{
		Backend:     backend,
		Checkpoints: NewCheckpointRepository(backend),
		Vectors:     NewVectorRepository(backend),
		EmbedCache:  NewEmbeddingCacheRepository(backend),
	}
}

// Close closes the shared backend.
func (r *Repositories) Close() error {
	return r.Backend.Close()
}
