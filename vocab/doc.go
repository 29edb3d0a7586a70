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

// Package vocab holds the curated vibe label vocabulary.
//
// Each label maps to a descriptive sentence. The sentence, never the bare
// label, is what gets embedded, so "Romantic" becomes "A romantic, intimate,
// cozy atmosphere perfect for couples and date nights" before it reaches the
// embedding provider.
package vocab
