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

import "errors"

// Configuration errors. These are detected before any scoring work begins.
var (
	// ErrUnknownTag indicates a label that is not part of the vocabulary.
	ErrUnknownTag = errors.New("unknown tag")

	// ErrEmptyQuery indicates a query with no tags.
	ErrEmptyQuery = errors.New("query must contain at least one tag")

	// ErrDimensionMismatch indicates vectors of different lengths were combined or compared.
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")

	// ErrModelMismatch indicates tags and venues were embedded with different models.
	ErrModelMismatch = errors.New("embedding model mismatch")

	// ErrStrategyMismatch indicates a corpus build tried to mix text selection strategies.
	ErrStrategyMismatch = errors.New("text strategy mismatch")

	// ErrInvalidCalibration indicates unusable normalization bounds.
	ErrInvalidCalibration = errors.New("invalid calibration")
)

// Data errors. These are reported per item at build time.
var (
	// ErrEmptyText indicates a venue whose selected embedding text is blank.
	ErrEmptyText = errors.New("embedding text cannot be empty")

	// ErrZeroVector indicates a vector with zero norm.
	ErrZeroVector = errors.New("zero-norm vector")

	// ErrNonFiniteVector indicates a vector with a NaN or infinite component.
	ErrNonFiniteVector = errors.New("vector has non-finite components")

	// ErrInvalidVenue indicates a Venue failed validation.
	ErrInvalidVenue = errors.New("invalid venue")

	// ErrEmptyVenueName indicates the Name field is empty.
	ErrEmptyVenueName = errors.New("venue name cannot be empty")
)

// ErrCorpusUnavailable is returned at query time when no consistent corpus is loaded.
var ErrCorpusUnavailable = errors.New("corpus unavailable")
