package openai

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/poiesic/heritage/ai"
	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms/openai"
)

// Embedder implements ai.Embedder against an OpenAI-compatible embeddings endpoint.
// Requests carry a bearer token and {"model", "input"}; the vector is read
// from data[0].embedding. Any non-200 answer is an error.
type Embedder struct {
	client embeddings.EmbedderClient
	model  string
	logger *slog.Logger
}

var _ ai.Embedder = (*Embedder)(nil)

// newEmbedder is an internal constructor that returns the concrete type.
func newEmbedder(config *ai.Config) (*Embedder, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if config.AlternateAPIKey == "" {
		return nil, ai.ErrMissingAPIKey
	}

	client, err := openai.New(
		openai.WithBaseURL(baseURL(config.AlternateURL)),
		openai.WithToken(config.AlternateAPIKey),
		openai.WithEmbeddingModel(config.AlternateModel),
		openai.WithHTTPClient(&http.Client{Timeout: config.Timeout}),
	)
	if err != nil {
		return nil, err
	}

	return &Embedder{
		client: client,
		model:  config.AlternateModel,
		logger: slog.Default().With("component", "openai-embedder"),
	}, nil
}

// NewEmbedder creates the alternate-provider embedder described by config.
// It fails with ai.ErrMissingAPIKey when no key is configured.
//
// Returns ai.Embedder interface to enforce abstraction.
func NewEmbedder(config *ai.Config) (ai.Embedder, error) {
	e, err := newEmbedder(config)
	if err != nil {
		return nil, err
	}
	return e, nil
}

// baseURL converts a full embeddings endpoint into the base URL the client
// appends "/embeddings" to.
func baseURL(endpoint string) string {
	endpoint = strings.TrimSuffix(endpoint, "/")
	return strings.TrimSuffix(endpoint, "/embeddings")
}

// EmbedText generates a vector embedding for a single text string.
func (e *Embedder) EmbedText(ctx context.Context, text string) ([]float32, error) {
	e.logger.Debug("generating embedding", "model", e.model, "length", len(text))

	vectors, err := e.client.CreateEmbedding(ctx, []string{text})
	if err != nil {
		e.logger.Debug("embedding request failed", "model", e.model, "err", err)
		return nil, err
	}

	if len(vectors) == 0 || len(vectors[0]) == 0 {
		e.logger.Warn("embedder returned empty result", "model", e.model)
		return nil, ai.ErrEmptyVector
	}

	return vectors[0], nil
}

// Model returns the configured embedding model.
func (e *Embedder) Model() string {
	return e.model
}
