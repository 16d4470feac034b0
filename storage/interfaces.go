package storage

import (
	"context"

	"github.com/poiesic/heritage/core"
)

// ArtifactRepository provides operations for managing the artifact catalog.
// Implementations must be thread-safe and support concurrent access.
type ArtifactRepository interface {
	// AddArtifacts stores one or more artifacts, replacing any existing
	// record with the same ID.
	// Sets InsertedAt on first insert and UpdatedAt on every write.
	// Returns the artifacts with timestamps populated.
	AddArtifacts(ctx context.Context, artifacts ...*core.Artifact) ([]*core.Artifact, error)

	// GetArtifact retrieves a single artifact by ID.
	// Returns ErrNotFound if the artifact doesn't exist.
	GetArtifact(ctx context.Context, id core.ID) (*core.Artifact, error)

	// ListArtifacts returns every artifact ordered by ascending ID.
	ListArtifacts(ctx context.Context) ([]*core.Artifact, error)

	// DeleteArtifacts removes artifacts by their IDs.
	// Returns ErrNotFound if any artifact doesn't exist.
	DeleteArtifacts(ctx context.Context, ids ...core.ID) error

	// Close releases resources held by the repository.
	Close() error
}

// CheckpointRepository persists seeding state, one checkpoint per collection.
type CheckpointRepository interface {
	// SaveCheckpoint stores the checkpoint and sets its UpdatedAt timestamp.
	SaveCheckpoint(ctx context.Context, checkpoint *core.Checkpoint) error

	// LoadCheckpoint returns the checkpoint for a collection.
	// Returns nil, nil if no checkpoint exists.
	LoadCheckpoint(ctx context.Context, collection string) (*core.Checkpoint, error)

	// ClearCheckpoint removes the checkpoint for a collection, if any.
	ClearCheckpoint(ctx context.Context, collection string) error
}
