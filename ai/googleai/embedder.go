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


// Package googleai implements the primary embedding provider family on
// Google's Gemini embedding models via langchaingo.
//
// Each model gets its own client, so the primary and secondary models are
// two independent ai.Embedder values that an ai.Selector tries in order.
package googleai

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/poiesic/heritage/ai"
	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms/googleai"
)

// Embedder implements ai.Embedder for a single Gemini embedding model.
type Embedder struct {
	client embeddings.EmbedderClient
	closer func() error
	model  string
	logger *slog.Logger
}

var _ ai.Embedder = (*Embedder)(nil)

// newEmbedder is an internal constructor that returns the concrete type.
func newEmbedder(ctx context.Context, apiKey, model string) (*Embedder, error) {
	if apiKey == "" {
		return nil, ai.ErrMissingAPIKey
	}

	client, err := googleai.New(ctx,
		googleai.WithAPIKey(apiKey),
		googleai.WithDefaultEmbeddingModel(model),
	)
	if err != nil {
		return nil, err
	}

	return &Embedder{
		client: client,
		closer: client.Close,
		model:  model,
		logger: slog.Default().With("component", "googleai-embedder", "model", model),
	}, nil
}

// NewEmbedder creates an embedder for one Gemini model.
//
// Returns ai.Embedder interface to enforce abstraction.
func NewEmbedder(ctx context.Context, apiKey, model string) (ai.Embedder, error) {
	e, err := newEmbedder(ctx, apiKey, model)
	if err != nil {
		return nil, err
	}
	return e, nil
}

// NewEmbedders creates the primary and secondary embedders described by config.
// The secondary is nil when no secondary model is configured.
func NewEmbedders(ctx context.Context, config *ai.Config) (primary, secondary ai.Embedder, err error) {
	if err := config.Validate(); err != nil {
		return nil, nil, err
	}

	p, err := newEmbedder(ctx, config.GeminiAPIKey, config.PrimaryModel)
	if err != nil {
		return nil, nil, err
	}
	if config.SecondaryModel == "" {
		return p, nil, nil
	}

	s, err := newEmbedder(ctx, config.GeminiAPIKey, config.SecondaryModel)
	if err != nil {
		p.Close()
		return nil, nil, err
	}
	return p, s, nil
}

// EmbedText generates a vector embedding for a single text string.
func (e *Embedder) EmbedText(ctx context.Context, text string) ([]float32, error) {
	e.logger.Debug("generating embedding", "length", len(text))

	vectors, err := e.client.CreateEmbedding(ctx, []string{text})
	if err != nil {
		e.logger.Debug("embedding request failed", "err", err)
		return nil, err
	}

	if len(vectors) == 0 || len(vectors[0]) == 0 {
		e.logger.Warn("embedder returned empty result")
		return nil, ai.ErrEmptyVector
	}

	return vectors[0], nil
}

// Model returns the Gemini model name.
func (e *Embedder) Model() string {
	return e.model
}

// Close releases the underlying client connection.
func (e *Embedder) Close() error {
	if e.closer == nil {
		return nil
	}
	err := e.closer()
	e.closer = nil
	if err != nil {
		return fmt.Errorf("googleai: close client: %w", err)
	}
	return nil
}
