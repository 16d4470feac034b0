package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/poiesic/heritage/ai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type embeddingRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

func newTestEmbedder(t *testing.T, handler http.HandlerFunc) *Embedder {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := ai.NewConfig(
		ai.WithProvider("aimlapi"),
		ai.WithAlternateAPIKey("test-key"),
		ai.WithAlternateModel("text-embedding-3-large"),
		ai.WithAlternateURL(server.URL+"/v1/embeddings"),
	)
	e, err := newEmbedder(cfg)
	require.NoError(t, err)
	return e
}

func TestBaseURL(t *testing.T) {
	assert.Equal(t, "https://api.aimlapi.com/v1", baseURL("https://api.aimlapi.com/v1/embeddings"))
	assert.Equal(t, "https://api.aimlapi.com/v1", baseURL("https://api.aimlapi.com/v1/embeddings/"))
	assert.Equal(t, "http://localhost:8080/v1", baseURL("http://localhost:8080/v1"))
}

func TestNewEmbedder_MissingKey(t *testing.T) {
	cfg := ai.NewConfig(ai.WithProvider("aimlapi"))
	_, err := NewEmbedder(cfg)
	assert.ErrorIs(t, err, ai.ErrMissingAPIKey)
}

func TestEmbedText_Success(t *testing.T) {
	var got embeddingRequest
	e := newTestEmbedder(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/embeddings", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":[{"embedding":[0.25,0.5,0.75],"index":0}],"model":"text-embedding-3-large"}`))
	})

	vector, err := e.EmbedText(context.Background(), "festival mask")
	require.NoError(t, err)
	assert.Equal(t, []float32{0.25, 0.5, 0.75}, vector)
	assert.Equal(t, "text-embedding-3-large", got.Model)
	// The client always sends input as a one-element array.
	assert.Equal(t, []string{"festival mask"}, got.Input)
	assert.Equal(t, "text-embedding-3-large", e.Model())
}

func TestEmbedText_Failures(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
	}{
		{name: "server error", status: http.StatusInternalServerError, body: `{"error":{"message":"boom"}}`},
		{name: "unauthorized", status: http.StatusUnauthorized, body: `not json`},
		{name: "malformed body", status: http.StatusOK, body: `{"data": "nope"}`},
		{name: "no data", status: http.StatusOK, body: `{"data": []}`},
		{name: "non-200 success", status: http.StatusCreated, body: `{"data":[{"embedding":[0.1,0.2]}]}`},
		{name: "empty vector", status: http.StatusOK, body: `{"data":[{"embedding":[]}]}`, wantErr: ai.ErrEmptyVector},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestEmbedder(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			vector, err := e.EmbedText(context.Background(), "drum")
			require.Error(t, err)
			assert.Nil(t, vector)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestEmbedText_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	cfg := ai.NewConfig(
		ai.WithProvider("aimlapi"),
		ai.WithAlternateAPIKey("test-key"),
		ai.WithAlternateURL(url+"/v1/embeddings"),
	)
	e, err := newEmbedder(cfg)
	require.NoError(t, err)

	_, err = e.EmbedText(context.Background(), "drum")
	assert.Error(t, err)
}
