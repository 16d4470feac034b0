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


package badger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/heritage/core"
	"github.com/poiesic/heritage/storage"
)

// ArtifactRepository implements storage.ArtifactRepository for BadgerDB.
type ArtifactRepository struct {
	backend *Backend
}

var _ storage.ArtifactRepository = (*ArtifactRepository)(nil)

func newArtifactRepository(backend *Backend) *ArtifactRepository {
	return &ArtifactRepository{backend: backend}
}

// NewArtifactRepository creates an artifact repository on an open backend.
func NewArtifactRepository(backend *Backend) (storage.ArtifactRepository, error) {
	if backend == nil {
		return nil, errors.New("backend required")
	}
	return newArtifactRepository(backend), nil
}

// Close is a no-op; the backend is closed by its owner.
func (r *ArtifactRepository) Close() error {
	return nil
}

// AddArtifacts validates and stores artifacts, replacing existing records.
// Keywords are normalized before storing.
func (r *ArtifactRepository) AddArtifacts(ctx context.Context, artifacts ...*core.Artifact) ([]*core.Artifact, error) {
	for _, artifact := range artifacts {
		if err := core.ValidateArtifact(artifact); err != nil {
			return nil, err
		}
	}

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		now := time.Now().UTC()
		for _, artifact := range artifacts {
			key := makeArtifactKey(artifact.ID)

			old, err := readArtifact(tx, key)
			if err != nil {
				return err
			}
			switch {
			case old != nil:
				artifact.InsertedAt = old.InsertedAt
			case artifact.InsertedAt.IsZero():
				artifact.InsertedAt = now
			}
			artifact.UpdatedAt = now
			artifact.Keywords = core.NormalizeKeywords(artifact.Keywords)

			value, err := storage.MarshalArtifact(artifact)
			if err != nil {
				return err
			}
			if err := tx.Set(key, value); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
	if err != nil {
		return nil, err
	}

	return artifacts, nil
}

// GetArtifact retrieves a single artifact by ID.
func (r *ArtifactRepository) GetArtifact(ctx context.Context, id core.ID) (*core.Artifact, error) {
	var artifact *core.Artifact
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		artifact, err = readArtifact(tx, makeArtifactKey(id))
		return err
	}, false)
	if err != nil {
		return nil, err
	}
	if artifact == nil {
		return nil, fmt.Errorf("%w: artifact %d", storage.ErrNotFound, id)
	}
	return artifact, nil
}

// ListArtifacts returns every artifact ordered by ascending ID.
func (r *ArtifactRepository) ListArtifacts(ctx context.Context) ([]*core.Artifact, error) {
	artifacts := make([]*core.Artifact, 0)

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(artifactPrefix)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			err := iter.Item().Value(func(val []byte) error {
				artifact, err := storage.UnmarshalArtifact(val)
				if err != nil {
					return err
				}
				artifacts = append(artifacts, artifact)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}

	return artifacts, nil
}

// DeleteArtifacts removes artifacts by their IDs.
// Nothing is deleted if any ID is missing.
func (r *ArtifactRepository) DeleteArtifacts(ctx context.Context, ids ...core.ID) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		for _, id := range ids {
			key := makeArtifactKey(id)
			if _, err := tx.Get(key); err != nil {
				if errors.Is(err, badger.ErrKeyNotFound) {
					return fmt.Errorf("%w: artifact %d", storage.ErrNotFound, id)
				}
				return err
			}
			if err := tx.Delete(key); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// readArtifact reads an artifact within a transaction.
// Returns nil, nil if the key doesn't exist.
func readArtifact(tx *badger.Txn, key []byte) (*core.Artifact, error) {
	item, err := tx.Get(key)
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, nil
		}
		return nil, err
	}

	var artifact *core.Artifact
	err = item.Value(func(val []byte) error {
		var err error
		artifact, err = storage.UnmarshalArtifact(val)
		return err
	})
	return artifact, err
}
