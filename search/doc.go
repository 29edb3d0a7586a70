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

// Package search turns a mood tag selection into a ranked venue list.
//
// Matching runs in four synchronous stages against an in-memory corpus:
//
//  1. Compose: mean-pool the selected tag vectors into one query vector
//  2. Score: cosine similarity against every venue, brute force
//  3. Normalize: map raw similarity onto the calibrated display range
//  4. TopK: cut the ranked list
//
// Corpora hold hundreds to low thousands of venues, so a full scan is cheap
// and no index is kept. An approximate nearest neighbour index only pays off
// well beyond that scale.
//
// A Searcher holds the corpus behind an atomic pointer. Re-embedding builds
// a complete new corpus and installs it with Swap; in-flight matches keep the
// snapshot they started with.
package search
