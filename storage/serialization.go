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
	"fmt"

	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/raw"
	"github.com/poiesic/vibematch/core"
)

// vectorMUS encodes bare cache embeddings with fixed-width floats.
var vectorMUS = ord.NewSliceSer[float32](raw.Float32)

// MarshalCheckpoint serializes a Checkpoint to bytes.
func MarshalCheckpoint(checkpoint *core.Checkpoint) []byte {
	buf := make([]byte, core.CheckpointMUS.Size(*checkpoint))
	core.CheckpointMUS.Marshal(*checkpoint, buf)
	return buf
}

// UnmarshalCheckpoint deserializes a Checkpoint from bytes.
func UnmarshalCheckpoint(data []byte) (*core.Checkpoint, error) {
	checkpoint, _, err := core.CheckpointMUS.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("%w: checkpoint: %w", ErrSerializationFailed, err)
	}
	return &checkpoint, nil
}

// MarshalStoredVector serializes a StoredVector to bytes.
func MarshalStoredVector(vector *core.StoredVector) []byte {
	buf := make([]byte, core.StoredVectorMUS.Size(*vector))
	core.StoredVectorMUS.Marshal(*vector, buf)
	return buf
}

// UnmarshalStoredVector deserializes a StoredVector from bytes.
func UnmarshalStoredVector(data []byte) (*core.StoredVector, error) {
	vector, _, err := core.StoredVectorMUS.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("%w: stored vector: %w", ErrSerializationFailed, err)
	}
	return &vector, nil
}

// MarshalVector serializes a bare embedding to bytes.
func MarshalVector(v []float32) []byte {
	buf := make([]byte, vectorMUS.Size(v))
	vectorMUS.Marshal(v, buf)
	return buf
}

// UnmarshalVector deserializes a bare embedding from bytes.
func UnmarshalVector(data []byte) ([]float32, error) {
	v, _, err := vectorMUS.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	return v, nil
}
