package badger

import (
	"context"

	"github.com/poiesic/heritage/core"
	"github.com/poiesic/heritage/storage"
)

// NewMemoryRepositories opens an in-memory catalog for tests. Any artifacts
// given are added before returning. The caller closes the backend.
func NewMemoryRepositories(artifacts ...*core.Artifact) (storage.ArtifactRepository, storage.CheckpointRepository, *Backend, error) {
	backend, err := OpenBackend("", true)
	if err != nil {
		return nil, nil, nil, err
	}

	repo := newArtifactRepository(backend)
	if len(artifacts) > 0 {
		if _, err := repo.AddArtifacts(context.Background(), artifacts...); err != nil {
			backend.Close()
			return nil, nil, nil, err
		}
	}
	return repo, NewCheckpointRepository(backend), backend, nil
}
