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

	"github.com/poiesic/heritage/core"
	"github.com/vmihailenco/msgpack/v5"
)

// MarshalArtifact serializes an Artifact to bytes.
func MarshalArtifact(artifact *core.Artifact) ([]byte, error) {
	data, err := msgpack.Marshal(artifact)
	if err != nil {
		return nil, fmt.Errorf("%w: artifact %d: %w", ErrSerializationFailed, artifact.ID, err)
	}
	return data, nil
}

// UnmarshalArtifact deserializes an Artifact from bytes.
// Timestamps are returned in UTC.
func UnmarshalArtifact(data []byte) (*core.Artifact, error) {
	var artifact core.Artifact
	if err := msgpack.Unmarshal(data, &artifact); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	artifact.InsertedAt = artifact.InsertedAt.UTC()
	artifact.UpdatedAt = artifact.UpdatedAt.UTC()
	return &artifact, nil
}

// MarshalCheckpoint serializes a Checkpoint to bytes.
func MarshalCheckpoint(checkpoint *core.Checkpoint) ([]byte, error) {
	data, err := msgpack.Marshal(checkpoint)
	if err != nil {
		return nil, fmt.Errorf("%w: checkpoint %q: %w", ErrSerializationFailed, checkpoint.Collection, err)
	}
	return data, nil
}

// UnmarshalCheckpoint deserializes a Checkpoint from bytes.
func UnmarshalCheckpoint(data []byte) (*core.Checkpoint, error) {
	var checkpoint core.Checkpoint
	if err := msgpack.Unmarshal(data, &checkpoint); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	checkpoint.UpdatedAt = checkpoint.UpdatedAt.UTC()
	return &checkpoint, nil
}
