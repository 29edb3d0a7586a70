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

import "iter"

const (
	// DefaultBatchSize is the default number of texts sent in one provider call
	DefaultBatchSize = 16
)

// Batches yields consecutive slices of at most size items.
// A size below 1 uses DefaultBatchSize.
func Batches(items []Item, size int) iter.Seq[[]Item] {
	if size <= 0 {
		size = DefaultBatchSize
	}
	return func(yield func([]Item) bool) {
		for i := 0; i < len(items); i += size {
			end := min(i+size, len(items))
			if !yield(items[i:end]) {
				return
			}
		}
	}
}
