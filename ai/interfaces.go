package ai

import "context"

// Embedder generates vector embeddings from text for semantic similarity search.
// Implementations must be thread-safe for concurrent use.
type Embedder interface {
	// EmbedText generates a vector embedding for a single text string.
	// An empty vector is reported as ErrEmptyVector rather than returned.
	EmbedText(ctx context.Context, text string) ([]float32, error)

	// Model returns the identifier of the model that produces the vectors.
	Model() string
}

// Embedding is a vector together with the model that produced it.
// Model is informational only; it ends up in the search audit.
type Embedding struct {
	Vector []float32
	Model  string
}
