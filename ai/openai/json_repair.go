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

import "strings"

// repairJSON attempts to fix common JSON formatting issues from LLM responses:
// keys missing their opening quote (`{description": ...`) and trailing commas
// before a closing brace or bracket. String contents are never modified.
func repairJSON(s string) string {
	in := []rune(s)
	var out strings.Builder
	out.Grow(len(s) + 8)

	inString := false
	for i := 0; i < len(in); i++ {
		ch := in[i]

		if inString {
			out.WriteRune(ch)
			if ch == '\\' && i+1 < len(in) {
				i++
				out.WriteRune(in[i])
			} else if ch == '"' {
				inString = false
			}
			continue
		}

		switch ch {
		case '"':
			inString = true
			out.WriteRune(ch)
		case ',':
			// Drop the comma if only whitespace separates it from a closer
			j := skipSpace(in, i+1)
			if j < len(in) && (in[j] == '}' || in[j] == ']') {
				continue
			}
			out.WriteRune(ch)
			i = repairKey(in, i+1, &out) - 1
		case '{':
			out.WriteRune(ch)
			i = repairKey(in, i+1, &out) - 1
		default:
			out.WriteRune(ch)
		}
	}
	return out.String()
}

// repairKey copies whitespace starting at pos and, if it finds a bare word
// immediately followed by `":`, writes it with the missing opening quote.
// Returns the index of the next rune to process.
func repairKey(in []rune, pos int, out *strings.Builder) int {
	j := skipSpace(in, pos)
	out.WriteString(string(in[pos:j]))
	if j >= len(in) || !isLetter(in[j]) {
		return j
	}

	end := j
	for end < len(in) && (isLetter(in[end]) || in[end] == '_') {
		end++
	}
	if end+1 < len(in) && in[end] == '"' && in[end+1] == ':' {
		out.WriteRune('"')
		out.WriteString(string(in[j:end]))
		out.WriteRune('"')
		return end + 1
	}
	return j
}

func skipSpace(in []rune, pos int) int {
	for pos < len(in) && (in[pos] == ' ' || in[pos] == '\n' || in[pos] == '\t' || in[pos] == '\r') {
		pos++
	}
	return pos
}
