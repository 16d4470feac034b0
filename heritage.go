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


// Package heritage resolves free-text queries to cultural heritage artifacts.
//
// Service wires the pieces together from a config.Config: the artifact
// catalog, the local keyword index, the embedding provider chain, the
// vector store client and the search resolver.
//
//	svc, err := heritage.NewService(ctx, config.Default())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer svc.Close()
//
//	outcome := svc.Resolve(ctx, "festival mask")
package heritage

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/poiesic/heritage/ai"
	"github.com/poiesic/heritage/ai/googleai"
	"github.com/poiesic/heritage/ai/openai"
	"github.com/poiesic/heritage/config"
	"github.com/poiesic/heritage/core"
	"github.com/poiesic/heritage/lexical"
	"github.com/poiesic/heritage/search"
	"github.com/poiesic/heritage/seed"
	"github.com/poiesic/heritage/storage"
	"github.com/poiesic/heritage/storage/badger"
	"github.com/poiesic/heritage/vectorstore"
)

// ErrStoreNotConfigured is returned by operations that need the vector store
// when its URL or API key is missing.
var ErrStoreNotConfigured = errors.New("vector store not configured")

// Service is the assembled application.
type Service struct {
	config      *config.Config
	backend     *badger.Backend
	artifacts   storage.ArtifactRepository
	checkpoints storage.CheckpointRepository
	index       *lexical.Index
	selector    *ai.Selector
	store       *vectorstore.Client
	resolver    *search.Resolver
	logger      *slog.Logger

	adminOnce sync.Once
	admin     *vectorstore.Admin
	adminErr  error
}

// ServiceOption configures a Service.
type ServiceOption func(*serviceOptions)

type serviceOptions struct {
	embedders []ai.Embedder
	logger    *slog.Logger
}

// WithEmbedders replaces the provider chain built from configuration.
func WithEmbedders(chain ...ai.Embedder) ServiceOption {
	return func(o *serviceOptions) {
		o.embedders = chain
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) ServiceOption {
	return func(o *serviceOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// NewService builds a service from configuration.
// A nil cfg means config.Default().
func NewService(ctx context.Context, cfg *config.Config, opts ...ServiceOption) (*Service, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	options := &serviceOptions{logger: slog.Default()}
	for _, opt := range opts {
		opt(options)
	}

	s := &Service{
		config: cfg,
		logger: options.logger.With("component", "service"),
	}

	if err := s.openCatalog(ctx); err != nil {
		return nil, err
	}

	index, err := s.buildIndex(ctx)
	if err != nil {
		s.backend.Close()
		return nil, err
	}
	s.index = index

	embedding := cfg.Embedder()
	embedding.Normalize()
	chain := options.embedders
	if chain == nil {
		chain = buildEmbedders(ctx, embedding, s.logger)
	}
	s.selector = ai.NewSelector(embedding.Provider, chain...)

	resolverOpts := []search.Option{
		search.WithEmbedder(s.selector),
		search.WithLogger(options.logger.With("component", "resolver")),
	}
	if store := cfg.VectorStore(); store.Configured() {
		client, err := vectorstore.NewClient(store)
		if err != nil {
			s.Close()
			return nil, err
		}
		s.store = client
		resolverOpts = append(resolverOpts, search.WithStore(client, client))
	} else {
		s.logger.Info("vector store not configured, using local keyword search only")
	}

	s.resolver, err = search.NewResolver(s.index, resolverOpts...)
	if err != nil {
		s.Close()
		return nil, err
	}

	return s, nil
}

// openCatalog opens the catalog at the configured path, or an in-memory
// catalog holding the built-in artifacts when no path is set.
func (s *Service) openCatalog(ctx context.Context) error {
	path := s.config.Catalog.Path
	backend, err := badger.OpenBackend(path, path == "")
	if err != nil {
		return err
	}

	artifacts, err := badger.NewArtifactRepository(backend)
	if err != nil {
		backend.Close()
		return err
	}

	if path == "" {
		if _, err := artifacts.AddArtifacts(ctx, core.SeedArtifacts()...); err != nil {
			backend.Close()
			return err
		}
	}

	s.backend = backend
	s.artifacts = artifacts
	s.checkpoints = badger.NewCheckpointRepository(backend)
	return nil
}

// buildIndex snapshots a persistent catalog into the keyword index.
// The built-in index is used when there is no catalog or it is empty.
func (s *Service) buildIndex(ctx context.Context) (*lexical.Index, error) {
	if s.config.Catalog.Path == "" {
		return lexical.DefaultIndex(), nil
	}
	artifacts, err := s.artifacts.ListArtifacts(ctx)
	if err != nil {
		return nil, err
	}
	if len(artifacts) == 0 {
		s.logger.Info("catalog is empty, using built-in keyword index")
		return lexical.DefaultIndex(), nil
	}
	s.logger.Debug("keyword index built from catalog", "artifacts", len(artifacts))
	return lexical.FromArtifacts(artifacts), nil
}

// buildEmbedders creates the provider chain for the configured family.
// A provider that cannot be built leaves the chain empty.
func buildEmbedders(ctx context.Context, cfg *ai.Config, logger *slog.Logger) []ai.Embedder {
	switch {
	case cfg.UsesAlternate():
		e, err := openai.NewEmbedder(cfg)
		if err != nil {
			logger.Warn("alternate embedding provider unavailable", "err", err)
			return nil
		}
		return []ai.Embedder{e}
	case cfg.UsesPrimary():
		primary, secondary, err := googleai.NewEmbedders(ctx, cfg)
		if err != nil {
			logger.Warn("gemini embedding provider unavailable", "err", err)
			return nil
		}
		return []ai.Embedder{primary, secondary}
	default:
		return nil
	}
}

// Resolve maps a query to ranked artifact references.
func (s *Service) Resolve(ctx context.Context, query string) core.Outcome {
	return s.resolver.Resolve(ctx, query)
}

// Resolver returns the search resolver.
func (s *Service) Resolver() *search.Resolver {
	return s.resolver
}

// Artifacts returns the artifact catalog.
func (s *Service) Artifacts() storage.ArtifactRepository {
	return s.artifacts
}

// Status reports the active embedding provider and probes the vector store.
func (s *Service) Status(ctx context.Context) core.Status {
	return core.Status{
		Provider:        s.selector.Provider(),
		Model:           s.selector.Model(),
		Collection:      s.config.VectorStore().Collection,
		QdrantConnected: s.store != nil && s.store.Probe(ctx),
		Timestamp:       time.Now().UTC(),
	}
}

// NewSeeder creates a seeder that writes the catalog into the vector store.
// The store's gRPC connection is opened on first use and closed by Close.
func (s *Service) NewSeeder(opts ...seed.Option) (*seed.Seeder, error) {
	if s.store == nil {
		return nil, ErrStoreNotConfigured
	}

	s.adminOnce.Do(func() {
		s.admin, s.adminErr = vectorstore.NewAdmin(s.config.VectorStore())
	})
	if s.adminErr != nil {
		return nil, s.adminErr
	}

	opts = append([]seed.Option{
		seed.WithCheckpoints(s.checkpoints),
		seed.WithLogger(s.logger.With("component", "seeder")),
	}, opts...)
	return seed.NewSeeder(s.artifacts, s.selector, s.admin, s.store.Collection(), s.config.SeedOptions(), opts...)
}

// Close releases the provider clients, the store connection and the catalog.
func (s *Service) Close() error {
	var errs []error
	if s.selector != nil {
		if err := s.selector.Close(); err != nil {
			s.logger.Error("error closing embedding providers", "err", err)
			errs = append(errs, err)
		}
	}
	if s.admin != nil {
		if err := s.admin.Close(); err != nil {
			s.logger.Error("error closing vector store admin", "err", err)
			errs = append(errs, err)
		}
	}
	if s.artifacts != nil {
		if err := s.artifacts.Close(); err != nil {
			s.logger.Error("error closing artifact repository", "err", err)
			errs = append(errs, err)
		}
	}
	if s.backend != nil && !s.backend.IsClosed() {
		if err := s.backend.Close(); err != nil {
			s.logger.Error("error closing catalog", "err", err)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
