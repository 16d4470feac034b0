package search

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/poiesic/heritage/ai"
	"github.com/poiesic/heritage/core"
)

// QueryEmbedder turns a query into a vector. A false result means no
// embedding is available and vector search is skipped.
type QueryEmbedder interface {
	EmbedQuery(ctx context.Context, query string) (ai.Embedding, bool)
}

// VectorSearcher runs a similarity search against the store.
type VectorSearcher interface {
	Search(ctx context.Context, vector []float32) []core.ArtifactRef
}

// PayloadFilterer runs a text filter over stored artifact payloads.
type PayloadFilterer interface {
	Filter(ctx context.Context, query string) []core.ArtifactRef
}

// LocalMatcher matches a query against the in-process keyword index.
type LocalMatcher interface {
	Match(query string) []core.ArtifactRef
}

// Resolver runs the search cascade.
type Resolver struct {
	local    LocalMatcher
	embedder QueryEmbedder
	vectors  VectorSearcher
	filter   PayloadFilterer
	logger   *slog.Logger
	now      func() time.Time
}

// Option configures a Resolver.
type Option func(*Resolver) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(r *Resolver) error {
		if logger == nil {
			logger = slog.Default()
		}
		r.logger = logger
		return nil
	}
}

// WithStore enables the vector search and payload filter stages.
// Passing two nils leaves the store disabled.
func WithStore(vectors VectorSearcher, filter PayloadFilterer) Option {
	return func(r *Resolver) error {
		if vectors == nil && filter == nil {
			return nil
		}
		if vectors == nil || filter == nil {
			return ErrIncompleteStore
		}
		r.vectors = vectors
		r.filter = filter
		return nil
	}
}

// WithEmbedder sets the query embedder used ahead of vector search.
// Without one, a configured store goes straight to the payload filter.
func WithEmbedder(embedder QueryEmbedder) Option {
	return func(r *Resolver) error {
		r.embedder = embedder
		return nil
	}
}

// WithClock overrides the time source used for audit timestamps.
func WithClock(now func() time.Time) Option {
	return func(r *Resolver) error {
		if now != nil {
			r.now = now
		}
		return nil
	}
}

// NewResolver creates a resolver around the local keyword matcher.
func NewResolver(local LocalMatcher, opts ...Option) (*Resolver, error) {
	if local == nil {
		return nil, ErrLocalMatcherRequired
	}

	r := &Resolver{
		local:  local,
		logger: slog.Default(),
		now:    time.Now,
	}

	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, err
		}
	}

	return r, nil
}

// StoreConfigured reports whether the store stages are enabled.
func (r *Resolver) StoreConfigured() bool {
	return r.vectors != nil && r.filter != nil
}

// Resolve maps a query to ranked artifact references.
func (r *Resolver) Resolve(ctx context.Context, query string) core.Outcome {
	return r.ResolveWithMonitor(ctx, query, nil)
}

// ResolveWithMonitor resolves a query and reports each stage to monitor.
func (r *Resolver) ResolveWithMonitor(ctx context.Context, query string, monitor ResolveMonitor) (outcome core.Outcome) {
	if monitor == nil {
		monitor = &noopMonitor{}
	}
	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Error("resolve panicked", "panic", rec)
			outcome = core.EmptyOutcome()
		}
	}()

	q := strings.TrimSpace(query)
	if q == "" {
		return core.EmptyOutcome()
	}
	monitor.Start(q)

	var model string
	if r.StoreConfigured() {
		embedding, ok := r.embed(ctx, q)
		monitor.AfterEmbedding(embedding.Model, ok)
		if ok {
			model = embedding.Model
			refs := guard(r, "vector_search", func() []core.ArtifactRef {
				return r.vectors.Search(ctx, embedding.Vector)
			})
			monitor.AfterVectorSearch(refs)
			if len(refs) > 0 {
				return r.finish(monitor, core.MethodVectorSearch, model, refs)
			}
		}

		refs := guard(r, "payload_filter", func() []core.ArtifactRef {
			return r.filter.Filter(ctx, q)
		})
		monitor.AfterPayloadFilter(refs)
		if len(refs) > 0 {
			return r.finish(monitor, core.MethodPayloadFilter, model, refs)
		}
	}

	refs := guard(r, "local_keywords", func() []core.ArtifactRef {
		return r.local.Match(q)
	})
	monitor.AfterLocalMatch(refs)
	return r.finish(monitor, core.MethodLocalKeywords, model, refs)
}

func (r *Resolver) embed(ctx context.Context, query string) (embedding ai.Embedding, ok bool) {
	if r.embedder == nil {
		return ai.Embedding{}, false
	}
	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Error("search stage panicked", "stage", "embedding", "panic", rec)
			embedding, ok = ai.Embedding{}, false
		}
	}()
	embedding, ok = r.embedder.EmbedQuery(ctx, query)
	if ok && len(embedding.Vector) == 0 {
		return ai.Embedding{}, false
	}
	return embedding, ok
}

func (r *Resolver) finish(monitor ResolveMonitor, method core.Method, model string, refs []core.ArtifactRef) core.Outcome {
	outcome := core.Outcome{
		Results: refs,
		Audit: &core.Audit{
			Method:    method,
			Model:     model,
			Results:   refs,
			Timestamp: r.now().UTC(),
		},
	}
	r.logger.Debug("query resolved", "method", method, "model", model, "results", len(refs))
	monitor.Finish(outcome)
	return outcome
}

// guard runs one stage, turning a panic into an empty result. The stage
// output is sanitized so callers only see usable references.
func guard(r *Resolver, stage string, fn func() []core.ArtifactRef) (refs []core.ArtifactRef) {
	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Error("search stage panicked", "stage", stage, "panic", rec)
			refs = []core.ArtifactRef{}
		}
	}()
	return sanitize(fn())
}

// sanitize clamps confidences into [0, 1] and drops references with invalid
// or repeated ids. Order is preserved.
func sanitize(refs []core.ArtifactRef) []core.ArtifactRef {
	out := make([]core.ArtifactRef, 0, len(refs))
	seen := make(map[core.ID]bool, len(refs))
	for _, ref := range refs {
		if ref.ID <= 0 || seen[ref.ID] {
			continue
		}
		seen[ref.ID] = true
		out = append(out, core.ArtifactRef{ID: ref.ID, Confidence: core.NormalizeConfidence(ref.Confidence)})
	}
	return out
}
