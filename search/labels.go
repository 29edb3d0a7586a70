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

package search

import "strings"

// Filler words dropped when a mood selection is typed as free text.
var stopWords = map[string]bool{
	"the": true, "a": true, "an": true, "and": true, "or": true, "with": true,
	"for": true, "some": true, "something": true, "somewhere": true, "place": true,
	"vibe": true, "vibes": true, "feel": true, "feeling": true, "i": true,
	"want": true, "like": true, "of": true, "to": true,
}

// ParseLabels splits free text such as "romantic and coastal" or
// "Romantic, Big-views" into candidate tag labels. Punctuation around words is
// trimmed, hyphens inside labels are kept, stop words are dropped and repeats
// are removed ignoring case. Order of first appearance is preserved.
func ParseLabels(text string) []string {
	fields := strings.FieldsFunc(text, func(r rune) bool {
		return r == ',' || r == ';' || r == '+' || r == '|' || r == ' ' || r == '\t' || r == '\n'
	})

	seen := make(map[string]bool, len(fields))
	labels := make([]string, 0, len(fields))
	for _, f := range fields {
		cleaned := strings.Trim(f, ".!?:'\"()[]{}-")
		key := strings.ToLower(cleaned)
		if key == "" || stopWords[key] || seen[key] {
			continue
		}
		seen[key] = true
		labels = append(labels, cleaned)
	}
	return labels
}
