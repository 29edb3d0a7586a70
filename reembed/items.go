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
	"github.com/poiesic/vibematch/core"
	"github.com/poiesic/vibematch/corpus"
	"github.com/poiesic/vibematch/vocab"
)

// TagJobType namespaces tag vectors.
const TagJobType = "tags"

// VenueJobType returns the namespace for venue vectors of one text strategy.
func VenueJobType(strategy string) string {
	return "venues/" + strategy
}

// TagItems returns one item per vocabulary tag, keyed by label, with the
// tag description as text.
func TagItems(v *vocab.Vocabulary) []Item {
	entries := v.Entries()
	items := make([]Item, len(entries))
	for i, e := range entries {
		items[i] = Item{Key: e.Label, Text: e.Description}
	}
	return items
}

// VenueItems returns one item per venue ID with the text chosen by selector.
// Venues sharing an ID collapse into the last record.
func VenueItems(venues []*core.Venue, selector corpus.TextSelector) []Item {
	venues, _ = corpus.Collapse(venues)
	items := make([]Item, 0, len(venues))
	for _, venue := range venues {
		id := venue.ID
		if id == "" {
			id = core.VenueID(venue.Name)
		}
		items = append(items, Item{Key: id, Text: selector.Text(venue)})
	}
	return items
}
