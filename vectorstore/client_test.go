package vectorstore

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/poiesic/heritage/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := DefaultConfig()
	cfg.URL = server.URL
	cfg.APIKey = "store-key"
	client, err := NewClient(cfg)
	require.NoError(t, err)
	return client
}

func respond(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}

func TestNewClient_NotConfigured(t *testing.T) {
	tests := []struct {
		name string
		url  string
		key  string
	}{
		{"nothing set", "", ""},
		{"missing key", "http://localhost:6333", ""},
		{"missing url", "", "key"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.URL = tt.url
			cfg.APIKey = tt.key
			_, err := NewClient(cfg)
			assert.ErrorIs(t, err, ErrNotConfigured)
		})
	}
}

func TestNewClient_InvalidURL(t *testing.T) {
	cfg := DefaultConfig()
	cfg.URL = "localhost:6333"
	cfg.APIKey = "key"
	_, err := NewClient(cfg)
	assert.Error(t, err)
}

func TestNewClient_BlankCollection(t *testing.T) {
	for _, collection := range []string{"", "   "} {
		client, err := NewClient(Config{URL: "http://localhost:6333", APIKey: "k", Collection: collection})
		require.NoError(t, err)
		assert.Equal(t, DefaultCollection, client.Collection())
	}

	assert.NoError(t, Config{URL: "http://localhost:6333", APIKey: "k"}.Validate())
}

func TestSearch(t *testing.T) {
	t.Run("request shape", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/collections/nepal_heritage/points/search", r.URL.Path)
			assert.Equal(t, "store-key", r.Header.Get("api-key"))

			var body map[string]any
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, float64(5), body["limit"])
			assert.Equal(t, true, body["with_payload"])
			assert.Len(t, body["vector"], 3)

			respond(w, http.StatusOK, `{"result":[{"payload":{"artifactId":2},"score":0.91}]}`)
		})

		refs := client.Search(context.Background(), []float32{0.1, 0.2, 0.3})
		assert.Equal(t, []core.ArtifactRef{{ID: 2, Confidence: 0.91}}, refs)
	})

	t.Run("score above one is clamped", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			respond(w, http.StatusOK, `{"result":[{"payload":{"artifactId":2},"score":1.4}]}`)
		})

		refs := client.Search(context.Background(), []float32{1})
		assert.Equal(t, []core.ArtifactRef{{ID: 2, Confidence: 1.0}}, refs)
	})

	t.Run("missing or non-numeric score uses default", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			respond(w, http.StatusOK, `{"result":[
				{"payload":{"artifactId":1}},
				{"payload":{"artifactId":3},"score":"high"},
				{"payload":{"artifactId":2},"score":-0.2}
			]}`)
		})

		refs := client.Search(context.Background(), []float32{1})
		assert.Equal(t, []core.ArtifactRef{
			{ID: 1, Confidence: 0.75},
			{ID: 3, Confidence: 0.75},
			{ID: 2, Confidence: 0},
		}, refs)
	})

	t.Run("invalid ids are skipped", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			respond(w, http.StatusOK, `{"result":[
				{"payload":{"artifactId":"abc"},"score":0.9},
				{"payload":{},"score":0.9},
				{"payload":null,"score":0.9},
				{"payload":{"artifactId":2.5},"score":0.9},
				{"payload":{"artifactId":"3"},"score":0.8},
				{"payload":{"artifactId":true},"score":0.8},
				{"payload":{"artifactId":1},"score":0.7}
			]}`)
		})

		refs := client.Search(context.Background(), []float32{1})
		assert.Equal(t, []core.ArtifactRef{
			{ID: 3, Confidence: 0.8},
			{ID: 1, Confidence: 0.7},
		}, refs)
	})

	t.Run("duplicate ids keep the first hit", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			respond(w, http.StatusOK, `{"result":[
				{"payload":{"artifactId":1},"score":0.9},
				{"payload":{"artifactId":1},"score":0.4}
			]}`)
		})

		refs := client.Search(context.Background(), []float32{1})
		assert.Equal(t, []core.ArtifactRef{{ID: 1, Confidence: 0.9}}, refs)
	})

	t.Run("empty vector makes no request", func(t *testing.T) {
		called := false
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			called = true
		})

		refs := client.Search(context.Background(), nil)
		assert.Empty(t, refs)
		assert.False(t, called)
	})
}

func TestSearch_SoftFailures(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"server error", http.StatusInternalServerError, `{"status":"error"}`},
		{"not found", http.StatusNotFound, `{"status":{"error":"Collection not found"}}`},
		{"malformed json", http.StatusOK, `{"result":`},
		{"wrong shape", http.StatusOK, `{"result":{"points":[]}}`},
		{"no points", http.StatusOK, `{"result":[]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				respond(w, tt.status, tt.body)
			})

			refs := client.Search(context.Background(), []float32{1})
			require.NotNil(t, refs)
			assert.Empty(t, refs)
		})
	}
}

func TestSearch_Timeout(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		respond(w, http.StatusOK, `{"result":[{"payload":{"artifactId":1},"score":0.9}]}`)
	})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	assert.Empty(t, client.Search(ctx, []float32{1}))
}

func TestFilter(t *testing.T) {
	t.Run("request shape", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/collections/nepal_heritage/points/scroll", r.URL.Path)
			assert.Equal(t, "store-key", r.Header.Get("api-key"))

			var body scrollRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, 10, body.Limit)
			require.Len(t, body.Filter.Should, 4)
			keys := make([]string, 0, 4)
			for _, cond := range body.Filter.Should {
				keys = append(keys, cond.Key)
				assert.Equal(t, "sacred mask", cond.Match.Text)
			}
			assert.Equal(t, []string{"keywords", "title", "description", "language"}, keys)

			respond(w, http.StatusOK, `{"result":{"points":[
				{"id":1,"payload":{"artifactId":1}},
				{"id":9,"payload":{"artifactId":"x"}},
				{"id":3,"payload":{"artifactId":3}}
			],"next_page_offset":null}}`)
		})

		refs := client.Filter(context.Background(), "sacred mask")
		assert.Equal(t, []core.ArtifactRef{
			{ID: 1, Confidence: 0.7},
			{ID: 3, Confidence: 0.7},
		}, refs)
	})

	t.Run("failure is empty", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			respond(w, http.StatusBadGateway, ``)
		})

		refs := client.Filter(context.Background(), "drum")
		require.NotNil(t, refs)
		assert.Empty(t, refs)
	})
}

func TestProbe(t *testing.T) {
	t.Run("reachable", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodGet, r.Method)
			assert.Equal(t, "/collections/nepal_heritage", r.URL.Path)
			assert.Equal(t, "store-key", r.Header.Get("api-key"))
			respond(w, http.StatusOK, `{"result":{"status":"green"}}`)
		})
		assert.True(t, client.Probe(context.Background()))
	})

	t.Run("missing collection", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			respond(w, http.StatusNotFound, `{}`)
		})
		assert.False(t, client.Probe(context.Background()))
	})

	t.Run("unreachable", func(t *testing.T) {
		server := httptest.NewServer(http.NotFoundHandler())
		cfg := DefaultConfig()
		cfg.URL = server.URL
		cfg.APIKey = "k"
		server.Close()

		client, err := NewClient(cfg)
		require.NoError(t, err)
		assert.False(t, client.Probe(context.Background()))
	})
}

func TestCollectionNameIsEscaped(t *testing.T) {
	var path string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.EscapedPath()
		respond(w, http.StatusOK, `{}`)
	}))
	defer server.Close()

	cfg := DefaultConfig()
	cfg.URL = server.URL + "/"
	cfg.APIKey = "k"
	cfg.Collection = "heritage items"
	client, err := NewClient(cfg)
	require.NoError(t, err)

	client.Probe(context.Background())
	assert.Equal(t, "/collections/heritage%20items", path)
	assert.Equal(t, "heritage items", client.Collection())
}
