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

package storage

import (
	"testing"
	"time"

	"github.com/poiesic/vibematch/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckpointSerialization(t *testing.T) {
	original := &core.Checkpoint{
		JobType:   "venues:ai_desc",
		Completed: []string{"venue:harbour-house-1a2b", "venue:kalk-bay-pier-3c4d"},
		UpdatedAt: time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC),
	}

	decoded, err := UnmarshalCheckpoint(MarshalCheckpoint(original))
	require.NoError(t, err)
	assert.Equal(t, original.JobType, decoded.JobType)
	assert.Equal(t, original.Completed, decoded.Completed)
	assert.True(t, original.UpdatedAt.Equal(decoded.UpdatedAt))
}

func TestCheckpointSerialization_ZeroTime(t *testing.T) {
	decoded, err := UnmarshalCheckpoint(MarshalCheckpoint(&core.Checkpoint{JobType: "tags"}))
	require.NoError(t, err)
	assert.True(t, decoded.UpdatedAt.IsZero())
	assert.Empty(t, decoded.Completed)
}

func TestStoredVectorSerialization(t *testing.T) {
	original := &core.StoredVector{
		Key:       "tag:romantic",
		Model:     "text-embedding-3-small",
		TextHash:  core.ContentKey("text-embedding-3-small", 4, "Candlelight and quiet corners"),
		Vector:    []float32{0.25, -1.5, 3.125, 0},
		UpdatedAt: time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC),
	}

	decoded, err := UnmarshalStoredVector(MarshalStoredVector(original))
	require.NoError(t, err)
	assert.Equal(t, original.Key, decoded.Key)
	assert.Equal(t, original.Model, decoded.Model)
	assert.Equal(t, original.TextHash, decoded.TextHash)
	assert.Equal(t, original.Vector, decoded.Vector)
	assert.True(t, original.UpdatedAt.Equal(decoded.UpdatedAt))
}

func TestUnmarshal_Truncated(t *testing.T) {
	data := MarshalStoredVector(&core.StoredVector{Key: "venue:x", Model: "m", Vector: []float32{1, 2, 3}})

	_, err := UnmarshalStoredVector(data[:len(data)/2])
	assert.ErrorIs(t, err, ErrSerializationFailed)

	_, err = UnmarshalVector(nil)
	assert.ErrorIs(t, err, ErrSerializationFailed)

	checkpoint := MarshalCheckpoint(&core.Checkpoint{JobType: "tags", Completed: []string{"Romantic", "Coastal"}})
	_, err = UnmarshalCheckpoint(checkpoint[:len(checkpoint)-3])
	assert.ErrorIs(t, err, ErrSerializationFailed)
}

func TestVectorSerialization(t *testing.T) {
	original := []float32{0.5, -0.125, 1e-7, 3}
	data := MarshalVector(original)
	assert.Len(t, data, 1+4*len(original), "length prefix plus fixed-width floats")

	decoded, err := UnmarshalVector(data)
	require.NoError(t, err)
	assert.Equal(t, original, decoded)
}

func TestStoredVectorSerialization_MicrosecondTimestamps(t *testing.T) {
	at := time.Date(2025, 3, 14, 9, 26, 53, 123456789, time.UTC)
	decoded, err := UnmarshalStoredVector(MarshalStoredVector(&core.StoredVector{Key: "k", UpdatedAt: at}))
	require.NoError(t, err)
	assert.True(t, at.Truncate(time.Microsecond).Equal(decoded.UpdatedAt))
}
