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

	"gonum.org/v1/gonum/blas/blas32"
)

func blasVector(v []float32) blas32.Vector {
	return blas32.Vector{N: len(v), Inc: 1, Data: v}
}

// Norm returns the Euclidean length of v, accumulated in float64.
func Norm(v []float32) float64 {
	if len(v) == 0 {
		return 0
	}
	x := blasVector(v)
	return math.Sqrt(blas32.DDot(x, x))
}

// Cosine returns the cosine similarity of a and b in [-1, 1].
// Vectors must have equal length and non-zero norm.
func Cosine(a, b []float32) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("%w: %d vs %d", ErrDimensionMismatch, len(a), len(b))
	}
	na, nb := Norm(a), Norm(b)
	if na == 0 || nb == 0 {
		return 0, ErrZeroVector
	}
	sim := blas32.DDot(blasVector(a), blasVector(b)) / (na * nb)
	// Rounding can push identical vectors a hair past 1
	return math.Max(-1, math.Min(1, sim)), nil
}

// MeanPool returns the element-wise mean of vectors. All vectors must share
// the same length; an empty input yields ErrEmptyQuery.
func MeanPool(vectors [][]float32) ([]float32, error) {
	if len(vectors) == 0 {
		return nil, ErrEmptyQuery
	}
	dim := len(vectors[0])
	sum := make([]float32, dim)
	acc := blasVector(sum)
	for i, v := range vectors {
		if len(v) != dim {
			return nil, fmt.Errorf("%w: vector %d has %d dimensions, want %d", ErrDimensionMismatch, i, len(v), dim)
		}
		blas32.Axpy(1, blasVector(v), acc)
	}
	blas32.Scal(1/float32(len(vectors)), acc)
	return sum, nil
}

// NormalizeVector scales v to unit length. A zero vector is returned as zeros.
func NormalizeVector(v []float32) []float32 {
	result := make([]float32, len(v))
	magnitude := Norm(v)
	if magnitude == 0 {
		return result
	}
	copy(result, v)
	blas32.Scal(float32(1/magnitude), blasVector(result))
	return result
}
