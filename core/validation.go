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
	"fmt"
	"math"
	"strings"
)

// ValidateVenue validates a Venue according to domain rules.
//
// Validation rules:
//   - Name must not be blank
//   - ID, when set, must equal VenueID(Name)
//   - Rating, when set, must be within [0, 5]
//
// NOT validated (populated by the embedding job):
//   - Vector
func ValidateVenue(venue *Venue) error {
	if venue == nil {
		return fmt.Errorf("%w: venue is nil", ErrInvalidVenue)
	}

	if strings.TrimSpace(venue.Name) == "" {
		return fmt.Errorf("%w: %w", ErrInvalidVenue, ErrEmptyVenueName)
	}

	if venue.ID != "" && venue.ID != VenueID(venue.Name) {
		return fmt.Errorf("%w: id %q does not match name %q", ErrInvalidVenue, venue.ID, venue.Name)
	}

	if venue.Rating != nil && (*venue.Rating < 0 || *venue.Rating > 5) {
		return fmt.Errorf("%w: rating %.2f out of range", ErrInvalidVenue, *venue.Rating)
	}

	return nil
}

// ValidateCalibration checks that the bounds describe a non-empty input and display range.
func ValidateCalibration(c Calibration) error {
	if c.MaxSim <= c.MinSim {
		return fmt.Errorf("%w: max_sim %.3f must exceed min_sim %.3f", ErrInvalidCalibration, c.MaxSim, c.MinSim)
	}
	if c.DisplayCeiling < c.DisplayFloor {
		return fmt.Errorf("%w: display_ceiling %.3f below display_floor %.3f", ErrInvalidCalibration, c.DisplayCeiling, c.DisplayFloor)
	}
	return nil
}

// ValidateVector checks a vector against the expected dimension and rejects
// non-finite and zero-norm vectors.
func ValidateVector(v []float32, dimensions int) error {
	if len(v) != dimensions {
		return fmt.Errorf("%w: expected %d, got %d", ErrDimensionMismatch, dimensions, len(v))
	}
	for i, x := range v {
		f := float64(x)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return fmt.Errorf("%w: component %d is %v", ErrNonFiniteVector, i, x)
		}
	}
	if Norm(v) == 0 {
		return ErrZeroVector
	}
	return nil
}
