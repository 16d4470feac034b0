package storage

import (
	"testing"
	"time"

	"github.com/poiesic/heritage/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalUnmarshalArtifact(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Microsecond)

	tests := []struct {
		name     string
		artifact *core.Artifact
	}{
		{
			name: "seed artifact",
			artifact: func() *core.Artifact {
				a := core.SeedArtifacts()[0]
				a.InsertedAt = now
				a.UpdatedAt = now
				return a
			}(),
		},
		{
			name: "unicode fields",
			artifact: &core.Artifact{
				ID:          42,
				Title:       "लाखे",
				Language:    "नेपाल भाषा",
				Description: "Mask worn during Indra Jatra",
				Keywords:    []string{"mask", "लाखे"},
				InsertedAt:  now,
				UpdatedAt:   now.Add(time.Hour),
			},
		},
		{
			name: "no keywords",
			artifact: &core.Artifact{
				ID:          7,
				Title:       "Sarangi",
				Description: "Bowed string instrument",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := MarshalArtifact(tt.artifact)
			require.NoError(t, err)
			require.NotEmpty(t, data)

			decoded, err := UnmarshalArtifact(data)
			require.NoError(t, err)

			assert.Equal(t, tt.artifact.ID, decoded.ID)
			assert.Equal(t, tt.artifact.Title, decoded.Title)
			assert.Equal(t, tt.artifact.Language, decoded.Language)
			assert.Equal(t, tt.artifact.Description, decoded.Description)
			assert.Equal(t, len(tt.artifact.Keywords), len(decoded.Keywords))
			for i := range tt.artifact.Keywords {
				assert.Equal(t, tt.artifact.Keywords[i], decoded.Keywords[i])
			}
			assert.True(t, tt.artifact.InsertedAt.Equal(decoded.InsertedAt))
			assert.True(t, tt.artifact.UpdatedAt.Equal(decoded.UpdatedAt))
			assert.Equal(t, tt.artifact.ContentHash(), decoded.ContentHash())
		})
	}
}

func TestMarshalUnmarshalCheckpoint(t *testing.T) {
	checkpoint := &core.Checkpoint{
		Collection: "nepal_heritage",
		Model:      "text-embedding-004",
		Embedder:   "embedding-001",
		Dimension:  768,
		Hashes:     map[core.ID]uint64{1: 11, 2: 22, 3: 1<<64 - 1},
		UpdatedAt:  time.Now().UTC().Truncate(time.Microsecond),
	}

	data, err := MarshalCheckpoint(checkpoint)
	require.NoError(t, err)

	decoded, err := UnmarshalCheckpoint(data)
	require.NoError(t, err)
	assert.Equal(t, checkpoint.Collection, decoded.Collection)
	assert.Equal(t, checkpoint.Model, decoded.Model)
	assert.Equal(t, checkpoint.Embedder, decoded.Embedder)
	assert.Equal(t, checkpoint.Dimension, decoded.Dimension)
	assert.Equal(t, checkpoint.Hashes, decoded.Hashes)
	assert.True(t, checkpoint.UpdatedAt.Equal(decoded.UpdatedAt))
}

func TestUnmarshal_Invalid(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"empty data", []byte{}},
		{"truncated map", []byte{0x87, 0xa2, 0x49}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := UnmarshalArtifact(tt.data)
			assert.ErrorIs(t, err, ErrSerializationFailed)

			_, err = UnmarshalCheckpoint(tt.data)
			assert.ErrorIs(t, err, ErrSerializationFailed)
		})
	}
}
