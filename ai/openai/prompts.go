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
	"fmt"
	"strings"

	"github.com/poiesic/vibematch/ai"
)

const venueResponseSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "properties": {
    "description": {
      "type": "string",
      "minLength": 1
    }
  },
  "required": ["description"],
  "additionalProperties": false
}`

const venueSystemPromptTemplate = `You are a Cape Town travel expert writing atmosphere descriptions for a venue finder.
Given a venue, write a rich 2-3 sentence description of how it FEELS to be there: the mood, the setting,
the crowd, the sounds and light. Use warm, evocative language a traveler would resonate with. Do not list
facts such as prices, opening hours or addresses.

Output ONLY valid JSON which complies with the schema given below. Do not include any preamble, explanation,
greeting, or acknowledgment. Start your response directly with the opening brace { and end with the closing
brace }. Your output must exactly follow this schema:

%s

Example:
Input:
Name: Kalk Bay Harbour
Category: Attraction
Vibes: Local, Views, Seafood

Output:
{"description":"Colourful fishing boats bob against the harbour wall while gulls wheel over the day's catch. Locals haggle over snoek at the quayside and the smell of salt and frying fish drifts past the tidal pools, giving the whole place an unhurried, working-village charm."}`

const vibePromptTemplate = `You are a Cape Town travel expert. Generate a rich 2-3 sentence description for this vibe/mood that a traveler might want from an experience.

Vibe word: "%s"
Category context: %s

The description should:
1. Capture the FEELING and ATMOSPHERE this vibe represents
2. Include related words and concepts that venues with this vibe would have
3. Use warm, evocative language a traveler would resonate with
4. Be specific to Cape Town context where relevant

Write ONLY the description (2-3 sentences). No intro or labels.`

// buildVenueSystemPrompt creates the system prompt with the response schema embedded.
func buildVenueSystemPrompt() string {
	return fmt.Sprintf(venueSystemPromptTemplate, venueResponseSchema)
}

// buildVenuePrompt renders the venue fields the model sees.
func buildVenuePrompt(venue ai.VenueProfile) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Name: %s\n", venue.Name)
	if venue.Category != "" {
		fmt.Fprintf(&b, "Category: %s\n", venue.Category)
	}
	if venue.PriceTier != "" {
		fmt.Fprintf(&b, "Price: %s\n", venue.PriceTier)
	}
	if len(venue.Vibes) > 0 {
		fmt.Fprintf(&b, "Vibes: %s\n", strings.Join(venue.Vibes, ", "))
	}
	if venue.Description != "" {
		fmt.Fprintf(&b, "About: %s\n", venue.Description)
	}
	return b.String()
}

func buildVibePrompt(vibe, category string) string {
	return fmt.Sprintf(vibePromptTemplate, scrubString(vibe), category)
}
