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

import "fmt"

const (
	vectorPrefix     = "vec"
	embedCachePrefix = "emb"
)

// makeVectorKey generates a key for a stored vector.
// Format: vec:<item key>
func makeVectorKey(key string) []byte {
	return []byte(vectorPrefix + ":" + key)
}

// makePartialVectorKey generates a prefix for listing stored vectors.
func makePartialVectorKey(prefix string) []byte {
	return makeVectorKey(prefix)
}

// makeEmbedCacheKey generates a key for a cached embedding.
// Format: emb:<content hash>
func makeEmbedCacheKey(key string) []byte {
	return []byte(embedCachePrefix + ":" + key)
}

// makeCheckpointKey generates a key for job checkpoints.
func makeCheckpointKey(jobType string) []byte {
	return []byte(fmt.Sprintf("%s:chkpt", jobType))
}
