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

package core

import (
	"math"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var idPattern = regexp.MustCompile(`^[a-z0-9-]+-[0-9a-f]{4}$`)

func TestVenueID_Deterministic(t *testing.T) {
	assert.Equal(t, VenueID("Harbour House"), VenueID("Harbour House"))
	assert.NotEqual(t, VenueID("Harbour House"), VenueID("Harbour House Restaurant"))
}

func TestVenueID_Format(t *testing.T) {
	tests := []struct {
		name   string
		prefix string
	}{
		{name: "Harbour House", prefix: "harbour-house-"},
		{name: "Woolley's Tidal Pool", prefix: "woolleys-tidal-pool-"},
		{name: "Maiden’s Cove", prefix: "maidens-cove-"},
		{name: "Clifton 4th Beach", prefix: "clifton-4th-beach-"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id := VenueID(tt.name)
			assert.True(t, strings.HasPrefix(id, tt.prefix), "id %q", id)
			assert.Regexp(t, idPattern, id)
		})
	}
}

func TestVenueID_Truncated(t *testing.T) {
	id := VenueID("The Extraordinarily Long Named Seaside Establishment Of Kalk Bay")
	parts := strings.Split(id, "-")
	suffix := parts[len(parts)-1]
	base := strings.TrimSuffix(id, "-"+suffix)

	assert.LessOrEqual(t, len(base), maxSlugLength)
	assert.Len(t, suffix, 4)
	assert.False(t, strings.HasSuffix(base, "-"))
}

func TestValidateVenue(t *testing.T) {
	rating := 4.6
	bad := 7.0

	require.NoError(t, ValidateVenue(&Venue{Name: "Harbour House", ID: VenueID("Harbour House"), Rating: &rating}))
	require.NoError(t, ValidateVenue(&Venue{Name: "Harbour House"}))

	err := ValidateVenue(nil)
	assert.ErrorIs(t, err, ErrInvalidVenue)

	err = ValidateVenue(&Venue{Name: "  "})
	assert.ErrorIs(t, err, ErrInvalidVenue)
	assert.ErrorIs(t, err, ErrEmptyVenueName)

	err = ValidateVenue(&Venue{Name: "Harbour House", ID: "harbour-house-0000-x"})
	assert.ErrorIs(t, err, ErrInvalidVenue)

	err = ValidateVenue(&Venue{Name: "Harbour House", Rating: &bad})
	assert.ErrorIs(t, err, ErrInvalidVenue)
}

func TestValidateCalibration(t *testing.T) {
	assert.NoError(t, ValidateCalibration(Calibration{MinSim: 0.2, MaxSim: 0.6, DisplayFloor: 0.55, DisplayCeiling: 0.98}))
	assert.ErrorIs(t, ValidateCalibration(Calibration{MinSim: 0.6, MaxSim: 0.6, DisplayFloor: 0.55, DisplayCeiling: 0.98}), ErrInvalidCalibration)
	assert.ErrorIs(t, ValidateCalibration(Calibration{MinSim: 0.2, MaxSim: 0.6, DisplayFloor: 0.9, DisplayCeiling: 0.5}), ErrInvalidCalibration)
}

func TestValidateVector(t *testing.T) {
	assert.NoError(t, ValidateVector([]float32{1, 0, 0}, 3))
	assert.ErrorIs(t, ValidateVector([]float32{1, 0}, 3), ErrDimensionMismatch)
	assert.ErrorIs(t, ValidateVector([]float32{0, 0, 0}, 3), ErrZeroVector)

	nan := float32(math.NaN())
	inf := float32(math.Inf(1))
	assert.ErrorIs(t, ValidateVector([]float32{1, nan, 0}, 3), ErrNonFiniteVector)
	assert.ErrorIs(t, ValidateVector([]float32{inf, 0, 0}, 3), ErrNonFiniteVector)
	assert.ErrorIs(t, ValidateVector([]float32{0, 0, -inf}, 3), ErrNonFiniteVector)
}
