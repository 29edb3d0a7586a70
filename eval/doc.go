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

// Package eval compares embedding text strategies against ground-truth cases.
//
// Each strategy is a prebuilt venue name to vector mapping. For every case
// the query tags are mean-pooled, all venues are ranked by cosine similarity
// and the ranking is scored with Precision@K and reciprocal rank. The report
// also records the raw score range each strategy produces, which is what the
// display calibration of a corpus should be derived from.
//
// The harness runs offline; nothing here is on the query path.
package eval
