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

package openai

import (
	"strings"

	"github.com/poiesic/vibematch/ai"
)

// scrubString removes punctuation and trims whitespace from a label.
func scrubString(s string) string {
	s = strings.Map(func(r rune) rune {
		if strings.ContainsRune(".,!?;:\"'()[]{}—–", r) {
			return -1
		}
		return r
	}, s)
	return strings.TrimSpace(s)
}

// stripFences removes markdown code fences some models wrap JSON in.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// cleanDescription normalizes model prose: collapses whitespace, drops a leading
// "Description:" label and wrapping quotes, and caps the length at a sentence boundary.
func cleanDescription(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	if i := strings.Index(s, ":"); i >= 0 && strings.EqualFold(strings.TrimSpace(s[:i]), "description") {
		s = strings.TrimSpace(s[i+1:])
	}
	s = strings.Trim(s, "\"“”")
	if len(s) <= ai.MaxDescriptionLength {
		return s
	}
	cut := s[:ai.MaxDescriptionLength]
	if i := strings.LastIndex(cut, ". "); i > 0 {
		return cut[:i+1]
	}
	return strings.TrimSpace(cut)
}

// isLetter returns true if the rune is an ASCII letter.
func isLetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}
