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

import (
	"math"
	"strings"

	"github.com/pkoukk/tiktoken-go"
)

// TokenCounter counts the tokens a text costs at the embedding provider.
type TokenCounter interface {
	CountTokens(text string) int
}

type tiktokenCounter struct {
	enc *tiktoken.Tiktoken
}

func (c *tiktokenCounter) CountTokens(text string) int {
	return len(c.enc.Encode(text, nil, nil))
}

// NewTokenCounter returns a tiktoken counter for model. Unknown models use
// cl100k_base. The encoding tables are downloaded on first use, so callers
// should fall back to WordCounter when this fails.
func NewTokenCounter(model string) (TokenCounter, error) {
	enc, err := tiktoken.EncodingForModel(model)
	if err != nil {
		enc, err = tiktoken.GetEncoding("cl100k_base")
		if err != nil {
			return nil, err
		}
	}
	return &tiktokenCounter{enc: enc}, nil
}

// WordCounter approximates tokens as 1.3 per whitespace separated word.
type WordCounter struct{}

// CountTokens implements TokenCounter.
func (WordCounter) CountTokens(text string) int {
	return int(math.Ceil(float64(len(strings.Fields(text))) * 1.3))
}

// EstimateTokens sums the token counts of texts.
func EstimateTokens(counter TokenCounter, texts ...string) int {
	if counter == nil {
		counter = WordCounter{}
	}
	total := 0
	for _, t := range texts {
		total += counter.CountTokens(t)
	}
	return total
}

// EstimateCost converts a token count to currency at pricePerMillion.
func EstimateCost(tokens int, pricePerMillion float64) float64 {
	return float64(tokens) / 1_000_000 * pricePerMillion
}
