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


package seed

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/heritage/ai"
	"github.com/poiesic/heritage/core"
	"github.com/poiesic/heritage/storage"
	"github.com/poiesic/heritage/vectorstore"
	"golang.org/x/time/rate"
)

// Source lists the artifacts to seed.
type Source interface {
	ListArtifacts(ctx context.Context) ([]*core.Artifact, error)
}

// StaticSource serves a fixed artifact list.
type StaticSource []*core.Artifact

// ListArtifacts returns the list.
func (s StaticSource) ListArtifacts(_ context.Context) ([]*core.Artifact, error) {
	return s, nil
}

// Embedder produces document embeddings. Model names the model tried first.
type Embedder interface {
	Embed(ctx context.Context, text string) (ai.Embedding, error)
	Model() string
}

// CollectionWriter manages the target collection.
type CollectionWriter interface {
	Recreate(ctx context.Context, dimension int) error
	Ensure(ctx context.Context, dimension int) error
	Upsert(ctx context.Context, points []vectorstore.Point) error
	Delete(ctx context.Context, ids []core.ID) error
}

// Report summarizes a seeding run.
type Report struct {
	Total     int    // Artifacts in the source
	Embedded  int    // Artifacts embedded and upserted
	Removed   int    // Points deleted because their artifact left the source
	Recreated bool   // Whether the collection was rebuilt
	Model     string // Model of the stored vectors
	Dimension int
}

// Seeder embeds artifact descriptions and writes them to the vector store.
type Seeder struct {
	source      Source
	embedder    Embedder
	writer      CollectionWriter
	checkpoints storage.CheckpointRepository
	collection  string
	config      *Config
	progress    io.Writer
	logger      *slog.Logger
}

// Option configures a Seeder.
type Option func(*Seeder) error

// WithCheckpoints enables incremental seeding against saved checkpoints.
// Without it every run recreates the collection.
func WithCheckpoints(checkpoints storage.CheckpointRepository) Option {
	return func(s *Seeder) error {
		s.checkpoints = checkpoints
		return nil
	}
}

// WithProgress sets where progress output is written.
// Default is io.Discard.
func WithProgress(w io.Writer) Option {
	return func(s *Seeder) error {
		if w == nil {
			w = io.Discard
		}
		s.progress = w
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Seeder) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// NewSeeder creates a seeder for one collection.
func NewSeeder(source Source, embedder Embedder, writer CollectionWriter, collection string, config *Config, opts ...Option) (*Seeder, error) {
	if source == nil || embedder == nil || writer == nil {
		return nil, fmt.Errorf("%w: source, embedder and writer are required", ErrInvalidConfig)
	}
	if collection == "" {
		return nil, fmt.Errorf("%w: collection name required", ErrInvalidConfig)
	}
	if config == nil {
		config = DefaultConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	s := &Seeder{
		source:     source,
		embedder:   embedder,
		writer:     writer,
		collection: collection,
		config:     config,
		progress:   io.Discard,
		logger:     slog.Default().With("component", "seeder", "collection", collection),
	}

	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// plan is the work a run has to do.
type plan struct {
	full       bool
	embed      []*core.Artifact
	remove     []core.ID
	checkpoint *core.Checkpoint
}

// Run seeds the collection.
// Artifacts are validated first; nothing is written if any is invalid.
func (s *Seeder) Run(ctx context.Context) (*Report, error) {
	artifacts, err := s.source.ListArtifacts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list artifacts: %w", err)
	}
	for _, artifact := range artifacts {
		if err := core.ValidateArtifact(artifact); err != nil {
			return nil, err
		}
	}

	report := &Report{Total: len(artifacts)}
	if len(artifacts) == 0 {
		fmt.Fprintf(s.progress, "No artifacts found (0 artifacts)\n")
		return report, nil
	}

	p, err := s.plan(ctx, artifacts)
	if err != nil {
		return nil, err
	}
	if !p.full && len(p.embed) == 0 && len(p.remove) == 0 {
		fmt.Fprintf(s.progress, "Collection %q is up to date (%d artifacts)\n", s.collection, len(artifacts))
		report.Model = p.checkpoint.Model
		report.Dimension = p.checkpoint.Dimension
		return report, nil
	}

	mode := "incremental"
	if p.full {
		mode = "full"
	}
	fmt.Fprintf(s.progress, "Starting %s seeding of %d artifacts into %q (workers: %d)\n",
		mode, len(p.embed), s.collection, s.config.PoolSize)

	start := time.Now()
	embeddings, err := s.embedAll(ctx, p.embed)
	if err != nil {
		return nil, err
	}

	model, dimension, err := s.vectorShape(p, embeddings)
	if err != nil {
		return nil, err
	}

	if p.full {
		// A rebuild that fails part way must not leave the old hashes behind.
		if s.checkpoints != nil {
			if err := s.checkpoints.ClearCheckpoint(ctx, s.collection); err != nil {
				return nil, fmt.Errorf("failed to clear checkpoint: %w", err)
			}
		}
		err = s.writer.Recreate(ctx, dimension)
	} else {
		err = s.writer.Ensure(ctx, dimension)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to prepare collection: %w", err)
	}

	if err := s.writer.Delete(ctx, p.remove); err != nil {
		return nil, fmt.Errorf("failed to remove stale points: %w", err)
	}
	if err := s.upsert(ctx, p.embed, embeddings); err != nil {
		return nil, err
	}

	if s.checkpoints != nil {
		checkpoint := &core.Checkpoint{
			Collection: s.collection,
			Model:      model,
			Embedder:   s.embedder.Model(),
			Dimension:  dimension,
			Hashes:     make(map[core.ID]uint64, len(artifacts)),
		}
		for _, artifact := range artifacts {
			checkpoint.Hashes[artifact.ID] = artifact.ContentHash()
		}
		if err := s.checkpoints.SaveCheckpoint(ctx, checkpoint); err != nil {
			return nil, fmt.Errorf("failed to save checkpoint: %w", err)
		}
	}

	elapsed := time.Since(start)
	fmt.Fprintf(s.progress, "Seeding complete. Embedded %d artifacts in %v (%.1f artifacts/sec)\n",
		len(p.embed), elapsed.Round(time.Millisecond), float64(len(p.embed))/elapsed.Seconds())

	report.Embedded = len(p.embed)
	report.Removed = len(p.remove)
	report.Recreated = p.full
	report.Model = model
	report.Dimension = dimension
	return report, nil
}

// plan decides between a full rebuild and an incremental update.
// A missing checkpoint or a differently configured embedding chain forces
// a rebuild. A run served by a fallback model is not a change.
func (s *Seeder) plan(ctx context.Context, artifacts []*core.Artifact) (*plan, error) {
	full := &plan{full: true, embed: artifacts}
	if s.config.Recreate || s.checkpoints == nil {
		return full, nil
	}

	checkpoint, err := s.checkpoints.LoadCheckpoint(ctx, s.collection)
	if err != nil {
		return nil, fmt.Errorf("failed to load checkpoint: %w", err)
	}
	if checkpoint == nil {
		s.logger.Info("no checkpoint, rebuilding collection")
		return full, nil
	}
	if checkpoint.ConfiguredModel() != s.embedder.Model() {
		s.logger.Info("embedding model changed, rebuilding collection",
			"previous", checkpoint.ConfiguredModel(), "current", s.embedder.Model())
		return full, nil
	}

	p := &plan{checkpoint: checkpoint}
	present := make(map[core.ID]bool, len(artifacts))
	for _, artifact := range artifacts {
		present[artifact.ID] = true
		if hash, ok := checkpoint.Hashes[artifact.ID]; !ok || hash != artifact.ContentHash() {
			p.embed = append(p.embed, artifact)
		}
	}
	for id := range checkpoint.Hashes {
		if !present[id] {
			p.remove = append(p.remove, id)
		}
	}
	slices.Sort(p.remove)

	s.logger.Debug("incremental plan", "changed", len(p.embed), "removed", len(p.remove))
	return p, nil
}

// vectorShape returns the model and dimension of this run's vectors.
// The dimension comes from the first vector; every other vector, and an
// existing collection in incremental mode, must match it.
func (s *Seeder) vectorShape(p *plan, embeddings []ai.Embedding) (string, int, error) {
	if len(embeddings) == 0 {
		return p.checkpoint.Model, p.checkpoint.Dimension, nil
	}

	model := embeddings[0].Model
	dimension := len(embeddings[0].Vector)
	for i, embedding := range embeddings {
		if len(embedding.Vector) != dimension {
			return "", 0, fmt.Errorf("%w: artifact %d has %d values, expected %d",
				ErrDimensionMismatch, p.embed[i].ID, len(embedding.Vector), dimension)
		}
		if embedding.Model != model {
			s.logger.Warn("artifacts embedded with different models",
				"artifact", p.embed[i].ID, "model", embedding.Model, "expected", model)
		}
	}
	if !p.full && model != p.checkpoint.Model {
		s.logger.Warn("incremental vectors come from a different model than the collection",
			"collection_model", p.checkpoint.Model, "model", model)
	}
	if !p.full && p.checkpoint.Dimension != dimension {
		return "", 0, fmt.Errorf("%w: collection has %d, embeddings have %d; rerun with recreate",
			ErrDimensionMismatch, p.checkpoint.Dimension, dimension)
	}
	return model, dimension, nil
}

// embedAll embeds artifact descriptions on a worker pool.
// The first failure cancels the remaining work.
func (s *Seeder) embedAll(ctx context.Context, artifacts []*core.Artifact) ([]ai.Embedding, error) {
	if len(artifacts) == 0 {
		return nil, nil
	}

	pool, err := ants.NewPool(s.config.PoolSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create worker pool: %w", err)
	}
	defer pool.Release()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	limiter := rate.NewLimiter(rate.Inf, 1)
	if s.config.RatePerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(s.config.RatePerSecond), 1)
	}

	progress := NewProgress(s.progress, len(artifacts), s.config.ReportInterval)
	defer progress.Finish()

	var (
		wg         sync.WaitGroup
		mu         sync.Mutex
		firstErr   error
		embeddings = make([]ai.Embedding, len(artifacts))
	)
	fail := func(err error) {
		mu.Lock()
		defer mu.Unlock()
		if firstErr == nil {
			firstErr = err
			cancel()
		}
	}

	for i, artifact := range artifacts {
		wg.Add(1)
		err := pool.Submit(func() {
			defer wg.Done()
			embedding, err := s.embedOne(ctx, limiter, progress, artifact)
			if err != nil {
				fail(fmt.Errorf("failed to embed artifact %d: %w", artifact.ID, err))
				return
			}
			mu.Lock()
			embeddings[i] = embedding
			mu.Unlock()
			progress.Embedded()
		})
		if err != nil {
			wg.Done()
			fail(fmt.Errorf("failed to submit artifact %d: %w", artifact.ID, err))
			break
		}
	}
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	return embeddings, nil
}

func (s *Seeder) embedOne(ctx context.Context, limiter *rate.Limiter, progress *Progress, artifact *core.Artifact) (ai.Embedding, error) {
	backoff := Backoff{
		Attempts: s.config.MaxRetries,
		Base:     s.config.RetryDelay,
		OnRetry: func(attempt int, err error) {
			progress.Retried()
			s.logger.Debug("embedding attempt failed", "artifact", artifact.ID, "attempt", attempt, "err", err)
		},
	}

	var embedding ai.Embedding
	err := backoff.Do(ctx, func() error {
		if err := limiter.Wait(ctx); err != nil {
			return Permanent(err)
		}
		e, err := s.embedder.Embed(ctx, artifact.Description)
		if err != nil {
			if errors.Is(err, ai.ErrNoProvider) || ctx.Err() != nil {
				return Permanent(err)
			}
			return err
		}
		if len(e.Vector) == 0 {
			return ai.ErrEmptyVector
		}
		embedding = e
		return nil
	})
	return embedding, err
}

// upsert writes points in batches of Config.BatchSize.
func (s *Seeder) upsert(ctx context.Context, artifacts []*core.Artifact, embeddings []ai.Embedding) error {
	points := make([]vectorstore.Point, len(artifacts))
	for i, artifact := range artifacts {
		points[i] = vectorstore.Point{
			ID:      artifact.ID,
			Vector:  embeddings[i].Vector,
			Payload: artifact.Payload(),
		}
	}

	for batch := range slices.Chunk(points, s.config.BatchSize) {
		if err := s.writer.Upsert(ctx, batch); err != nil {
			return fmt.Errorf("failed to upsert points: %w", err)
		}
		s.logger.Debug("upserted batch", "points", len(batch))
	}
	return nil
}
