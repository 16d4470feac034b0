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


package ai

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
)

// Selector turns the configured provider family into a single embedding call.
//
// The family is fixed at construction as an ordered chain of embedders. The
// alternate family is a chain of one (a single request, no retry). The Gemini
// family is the primary model followed by the secondary model, tried one after
// the other. An empty chain means nothing is configured and no call is made.
type Selector struct {
	provider string
	chain    []Embedder
	logger   *slog.Logger
}

// NewSelector creates a selector for the named provider family.
// Nil embedders are ignored.
func NewSelector(provider string, chain ...Embedder) *Selector {
	s := &Selector{
		provider: provider,
		chain:    make([]Embedder, 0, len(chain)),
		logger:   slog.Default().With("component", "embedding-selector"),
	}
	for _, e := range chain {
		if e != nil {
			s.chain = append(s.chain, e)
		}
	}
	return s
}

// Provider returns the configured provider family name.
func (s *Selector) Provider() string {
	return s.provider
}

// Model returns the model tried first, or "" when nothing is configured.
func (s *Selector) Model() string {
	if len(s.chain) == 0 {
		return ""
	}
	return s.chain[0].Model()
}

// Configured reports whether any embedder is available.
func (s *Selector) Configured() bool {
	return len(s.chain) > 0
}

// Embed returns the first non-empty vector produced by the chain.
// It returns ErrNoProvider without any call when the chain is empty, and
// ErrEmbeddingFailed wrapping the last failure when every model fails.
func (s *Selector) Embed(ctx context.Context, text string) (Embedding, error) {
	if len(s.chain) == 0 {
		return Embedding{}, ErrNoProvider
	}

	var lastErr error
	for _, e := range s.chain {
		if err := ctx.Err(); err != nil {
			return Embedding{}, err
		}

		vector, err := e.EmbedText(ctx, text)
		if err == nil && len(vector) == 0 {
			err = ErrEmptyVector
		}
		if err == nil {
			return Embedding{Vector: vector, Model: e.Model()}, nil
		}

		s.logger.Debug("embedding model failed", "model", e.Model(), "err", err)
		lastErr = err
	}

	return Embedding{}, fmt.Errorf("%w: %w", ErrEmbeddingFailed, lastErr)
}

// EmbedQuery is the soft-fail form of Embed used on the search path.
// Any failure is logged and reported as ok == false.
func (s *Selector) EmbedQuery(ctx context.Context, query string) (Embedding, bool) {
	embedding, err := s.Embed(ctx, query)
	if err != nil {
		if errors.Is(err, ErrNoProvider) {
			s.logger.Debug("no embedding provider configured")
		} else {
			s.logger.Warn("query embedding unavailable", "provider", s.provider, "err", err)
		}
		return Embedding{}, false
	}
	return embedding, true
}

// Close releases embedders that hold resources.
func (s *Selector) Close() error {
	var errs []error
	for _, e := range s.chain {
		if c, ok := e.(io.Closer); ok {
			if err := c.Close(); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}
