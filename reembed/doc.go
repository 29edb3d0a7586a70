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

// Package reembed runs the offline embedding jobs that feed a corpus build.
//
// A Job embeds a list of keyed texts through a bounded worker pool. Each
// provider call gets its own timeout and is retried with exponential backoff;
// an item that still fails is recorded in the run Summary and the rest of
// the batch carries on. Finished vectors are written to a VectorRepository
// as they complete and the set of finished keys is checkpointed periodically,
// so an interrupted job picks up where it stopped instead of starting over.
package reembed
