package core

import (
	"encoding/binary"
	"strings"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID identifies a heritage artifact.
// Identifiers are positive integers shared by the catalog, the vector store
// payloads and the local keyword index.
type ID int64

// HashContent returns a deterministic 64-bit BLAKE2b digest of text.
// Identical content always produces the identical hash.
func HashContent(text string) uint64 {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return binary.LittleEndian.Uint64(sum)
}

// Method names the strategy that produced a search outcome.
type Method string

const (
	// MethodVectorSearch marks results from embedding similarity search.
	MethodVectorSearch Method = "vector_search"
	// MethodPayloadFilter marks results from the store's keyword payload filter.
	MethodPayloadFilter Method = "payload_filter"
	// MethodLocalKeywords marks results from the in-process keyword matcher.
	MethodLocalKeywords Method = "local_keywords"
)

// ArtifactRef is a ranked reference to an artifact.
// It is the only shape shared by every search strategy.
type ArtifactRef struct {
	ID         ID      `json:"id"`
	Confidence float64 `json:"confidence"`
}

// Audit describes how a search outcome was produced.
// It lives only as long as the outcome it belongs to and is never stored.
type Audit struct {
	Method    Method        `json:"method"`
	Model     string        `json:"model,omitempty"` // Embedding model, when a vector was obtained
	Results   []ArtifactRef `json:"results"`
	Timestamp time.Time     `json:"timestamp"`
}

// Outcome is the result of resolving one query.
type Outcome struct {
	Results []ArtifactRef `json:"results"`
	Audit   *Audit        `json:"audit,omitempty"`
}

// EmptyOutcome returns an outcome with no results and no audit.
func EmptyOutcome() Outcome {
	return Outcome{Results: []ArtifactRef{}}
}

// Artifact is a catalog record for a heritage item.
type Artifact struct {
	ID          ID        `json:"id"`
	Title       string    `json:"title"`
	Language    string    `json:"language"`
	Description string    `json:"description"`
	Keywords    []string  `json:"keywords"`
	InsertedAt  time.Time `json:"insertedAt"` // When the record was first added to the catalog
	UpdatedAt   time.Time `json:"updatedAt"`  // When the record was last changed
}

// ContentHash returns a digest over the fields that feed the vector store.
// A changed hash means the artifact must be embedded and upserted again.
func (a *Artifact) ContentHash() uint64 {
	var b strings.Builder
	b.WriteString(a.Title)
	b.WriteByte(0)
	b.WriteString(a.Language)
	b.WriteByte(0)
	b.WriteString(a.Description)
	for _, k := range a.Keywords {
		b.WriteByte(0)
		b.WriteString(k)
	}
	return HashContent(b.String())
}

// Payload returns the document stored alongside the artifact's vector.
// Both id and artifactId carry the identifier; search reads artifactId.
func (a *Artifact) Payload() map[string]any {
	keywords := make([]any, len(a.Keywords))
	for i, k := range a.Keywords {
		keywords[i] = k
	}
	return map[string]any{
		"id":          int64(a.ID),
		"artifactId":  int64(a.ID),
		"title":       a.Title,
		"language":    a.Language,
		"description": a.Description,
		"keywords":    keywords,
	}
}

// Checkpoint records what was last written to a vector store collection.
// Incremental seeding compares content hashes against it.
//
// Model is the model that produced the vectors. Embedder is the model the
// embedding chain was configured to try first; the two differ when a
// fallback model did the work.
type Checkpoint struct {
	Collection string
	Model      string
	Embedder   string
	Dimension  int
	Hashes     map[ID]uint64
	UpdatedAt  time.Time
}

// ConfiguredModel returns the chain head recorded in the checkpoint.
// Checkpoints written before Embedder existed fall back to Model.
func (c *Checkpoint) ConfiguredModel() string {
	if c.Embedder != "" {
		return c.Embedder
	}
	return c.Model
}

// Status reports which embedding provider is active and whether the vector
// store answers.
type Status struct {
	Provider        string    `json:"provider"`
	Model           string    `json:"model"`
	Collection      string    `json:"collection"`
	QdrantConnected bool      `json:"qdrantConnected"`
	Timestamp       time.Time `json:"timestamp"`
}
