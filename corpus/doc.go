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

// Package corpus owns the venue records and their embeddings.
//
// A Builder stages venues keyed by their name-derived ID, embeds them with a
// single TextSelector and produces an immutable Corpus. A corpus records the
// model, dimension and text strategy it was built with, and every tag and
// venue vector in it shares that dimension. Corpora are persisted as JSON
// with Save and Load.
//
// The package also carries the source side of a build: LoadCSV reads the
// curation sheet and Deduplicate applies the duplicate policy once, returning
// an explicit decision log.
package corpus
