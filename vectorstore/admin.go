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


package vectorstore

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/poiesic/heritage/core"
	"github.com/qdrant/go-client/qdrant"
)

// Point is an artifact vector ready to be written to the store.
type Point struct {
	ID      core.ID
	Vector  []float32
	Payload map[string]any
}

// Admin manages the artifact collection over Qdrant's gRPC API.
// It is used by seeding only; the search path stays on REST.
type Admin struct {
	client     *qdrant.Client
	collection string
	logger     *slog.Logger
}

// NewAdmin connects to the store's gRPC endpoint.
// The host and TLS setting come from the REST URL, the port from GRPCPort.
func NewAdmin(config Config) (*Admin, error) {
	if !config.Configured() {
		return nil, ErrNotConfigured
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	config = config.withDefaults()

	grpcConfig, err := grpcConfig(config)
	if err != nil {
		return nil, err
	}
	client, err := qdrant.NewClient(grpcConfig)
	if err != nil {
		return nil, fmt.Errorf("connect to vector store: %w", err)
	}

	return &Admin{
		client:     client,
		collection: config.Collection,
		logger:     slog.Default().With("component", "vectorstore-admin", "collection", config.Collection),
	}, nil
}

// grpcConfig derives the gRPC client configuration from a REST configuration.
func grpcConfig(config Config) (*qdrant.Config, error) {
	u, err := url.Parse(config.URL)
	if err != nil {
		return nil, fmt.Errorf("parse vector store url: %w", err)
	}
	host := u.Hostname()
	if host == "" {
		return nil, fmt.Errorf("vector store url %q has no host", config.URL)
	}
	return &qdrant.Config{
		Host:   host,
		Port:   config.GRPCPort,
		APIKey: config.APIKey,
		UseTLS: strings.EqualFold(u.Scheme, "https"),
	}, nil
}

// Close closes the gRPC connection.
func (a *Admin) Close() error {
	return a.client.Close()
}

// Exists reports whether the collection exists.
func (a *Admin) Exists(ctx context.Context) (bool, error) {
	return a.client.CollectionExists(ctx, a.collection)
}

// Recreate drops the collection if present and creates it again with cosine
// distance and the given vector dimension.
func (a *Admin) Recreate(ctx context.Context, dimension int) error {
	exists, err := a.Exists(ctx)
	if err != nil {
		return fmt.Errorf("check collection: %w", err)
	}
	if exists {
		if err := a.client.DeleteCollection(ctx, a.collection); err != nil {
			a.logger.Warn("failed to delete collection, creating anyway", "err", err)
		}
	}
	return a.create(ctx, dimension)
}

// Ensure creates the collection when it does not exist yet.
func (a *Admin) Ensure(ctx context.Context, dimension int) error {
	exists, err := a.Exists(ctx)
	if err != nil {
		return fmt.Errorf("check collection: %w", err)
	}
	if exists {
		return nil
	}
	return a.create(ctx, dimension)
}

func (a *Admin) create(ctx context.Context, dimension int) error {
	if dimension <= 0 {
		return fmt.Errorf("%w: dimension %d", ErrEmptyVector, dimension)
	}
	a.logger.Info("creating collection", "dimension", dimension)
	return a.client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: a.collection,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     uint64(dimension),
			Distance: qdrant.Distance_Cosine,
		}),
	})
}

// Upsert writes points and waits for the store to apply them.
func (a *Admin) Upsert(ctx context.Context, points []Point) error {
	if len(points) == 0 {
		return nil
	}
	structs, err := pointStructs(points)
	if err != nil {
		return err
	}
	_, err = a.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: a.collection,
		Wait:           qdrant.PtrOf(true),
		Points:         structs,
	})
	if err != nil {
		return fmt.Errorf("upsert %d points: %w", len(points), err)
	}
	return nil
}

// Delete removes points by artifact id and waits for the store to apply it.
func (a *Admin) Delete(ctx context.Context, ids []core.ID) error {
	if len(ids) == 0 {
		return nil
	}
	pointIDs := make([]*qdrant.PointId, 0, len(ids))
	for _, id := range ids {
		if id <= 0 {
			return fmt.Errorf("%w: %d", core.ErrInvalidArtifactID, id)
		}
		pointIDs = append(pointIDs, qdrant.NewIDNum(uint64(id)))
	}
	_, err := a.client.Delete(ctx, &qdrant.DeletePoints{
		CollectionName: a.collection,
		Wait:           qdrant.PtrOf(true),
		Points:         qdrant.NewPointsSelector(pointIDs...),
	})
	if err != nil {
		return fmt.Errorf("delete %d points: %w", len(ids), err)
	}
	return nil
}

func pointStructs(points []Point) ([]*qdrant.PointStruct, error) {
	structs := make([]*qdrant.PointStruct, 0, len(points))
	for _, p := range points {
		if p.ID <= 0 {
			return nil, fmt.Errorf("%w: %d", core.ErrInvalidArtifactID, p.ID)
		}
		if len(p.Vector) == 0 {
			return nil, fmt.Errorf("%w: artifact %d", ErrEmptyVector, p.ID)
		}
		payload, err := qdrant.TryValueMap(p.Payload)
		if err != nil {
			return nil, fmt.Errorf("payload for artifact %d: %w", p.ID, err)
		}
		structs = append(structs, &qdrant.PointStruct{
			Id:      qdrant.NewIDNum(uint64(p.ID)),
			Vectors: qdrant.NewVectorsDense(p.Vector),
			Payload: payload,
		})
	}
	return structs, nil
}
