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

package corpus

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/poiesic/vibematch/core"
)

// Column names of the curation sheet.
const (
	ColumnName            = "Name"
	ColumnCategory        = "Category"
	ColumnDescription     = "Description"
	ColumnVibeDescription = "VibeDescription"
	ColumnVibe            = "Vibe"
	ColumnRating          = "Rating"
	ColumnPriceRange      = "Price_Range"
	ColumnTouristLevel    = "Tourist_Level"
)

// LoadCSV reads venues from the curation sheet. Only the Name column is
// required; other known columns are read when present and extra columns are
// ignored. Rows with a blank name are skipped.
func LoadCSV(r io.Reader) ([]*core.Venue, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read csv header: %w", err)
	}
	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))] = i
	}
	if _, ok := cols[ColumnName]; !ok {
		return nil, fmt.Errorf("csv is missing the %s column", ColumnName)
	}

	field := func(row []string, name string) string {
		i, ok := cols[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	var venues []*core.Venue
	line := 1
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("failed to read csv line %d: %w", line, err)
		}

		name := field(row, ColumnName)
		if name == "" {
			continue
		}
		venue := &core.Venue{
			ID:              core.VenueID(name),
			Name:            name,
			Category:        field(row, ColumnCategory),
			Description:     field(row, ColumnDescription),
			VibeDescription: field(row, ColumnVibeDescription),
			Vibes:           SplitVibes(field(row, ColumnVibe)),
			PriceTier:       field(row, ColumnPriceRange),
		}
		if s := field(row, ColumnRating); s != "" && !strings.EqualFold(s, "nan") {
			rating, err := strconv.ParseFloat(s, 64)
			if err != nil {
				return nil, fmt.Errorf("line %d: invalid rating %q: %w", line, s, err)
			}
			venue.Rating = &rating
		}
		if s := field(row, ColumnTouristLevel); s != "" {
			// Levels are sometimes exported as "3.0"
			level, err := strconv.ParseFloat(s, 64)
			if err != nil {
				return nil, fmt.Errorf("line %d: invalid tourist level %q: %w", line, s, err)
			}
			venue.TouristLevel = int(level)
		}
		if err := core.ValidateVenue(venue); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		venues = append(venues, venue)
	}
	return venues, nil
}

// SplitVibes splits a comma separated vibe string, dropping blanks.
func SplitVibes(s string) []string {
	var vibes []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			vibes = append(vibes, part)
		}
	}
	return vibes
}

// WriteCSV writes venues as a curation sheet that LoadCSV reads back.
func WriteCSV(w io.Writer, venues []*core.Venue) error {
	writer := csv.NewWriter(w)
	header := []string{
		ColumnName, ColumnCategory, ColumnDescription, ColumnVibeDescription,
		ColumnVibe, ColumnRating, ColumnPriceRange, ColumnTouristLevel,
	}
	if err := writer.Write(header); err != nil {
		return err
	}
	for _, v := range venues {
		rating := ""
		if v.Rating != nil {
			rating = strconv.FormatFloat(*v.Rating, 'f', -1, 64)
		}
		level := ""
		if v.TouristLevel != 0 {
			level = strconv.Itoa(v.TouristLevel)
		}
		row := []string{
			v.Name, v.Category, v.Description, v.VibeDescription,
			v.VibesString(), rating, v.PriceTier, level,
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}
