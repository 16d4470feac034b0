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


package vectorstore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/poiesic/heritage/core"
)

// maxResponseBytes bounds how much of a store response is read.
const maxResponseBytes = 8 << 20

// filterFields are the payload fields matched by Filter, with OR semantics.
var filterFields = []string{"keywords", "title", "description", "language"}

// Client talks to the vector store's REST API.
//
// Search and Filter never return errors. Transport failures, non-2xx
// answers and undecodable bodies are logged and reported as no results, so
// the caller can fall through to its next strategy.
type Client struct {
	config Config
	http   *http.Client
	logger *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the HTTP client. A nil client is ignored.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		if httpClient != nil {
			c.http = httpClient
		}
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger == nil {
			logger = slog.Default()
		}
		c.logger = logger
	}
}

// NewClient creates a REST client for a configured store.
// It returns ErrNotConfigured unless both URL and API key are set.
func NewClient(config Config, opts ...Option) (*Client, error) {
	if !config.Configured() {
		return nil, ErrNotConfigured
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	config = config.withDefaults()

	c := &Client{
		config: config,
		http:   &http.Client{Timeout: config.Timeout},
		logger: slog.Default().With("component", "vectorstore", "collection", config.Collection),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Collection returns the collection name the client queries.
func (c *Client) Collection() string {
	return c.config.Collection
}

type searchRequest struct {
	Vector      []float32 `json:"vector"`
	Limit       int       `json:"limit"`
	WithPayload bool      `json:"with_payload"`
}

type searchResponse struct {
	Result []point `json:"result"`
}

type matchText struct {
	Text string `json:"text"`
}

type fieldCondition struct {
	Key   string    `json:"key"`
	Match matchText `json:"match"`
}

type filter struct {
	Should []fieldCondition `json:"should"`
}

type scrollRequest struct {
	Limit       int    `json:"limit"`
	Filter      filter `json:"filter"`
	WithPayload bool   `json:"with_payload"`
}

type scrollResponse struct {
	Result struct {
		Points []point `json:"points"`
	} `json:"result"`
}

// Search runs a similarity search for vector.
// Each point's confidence is its normalized score, or DefaultVectorConfidence
// when the score is missing or not a number. Points without a usable
// artifact id are skipped.
func (c *Client) Search(ctx context.Context, vector []float32) []core.ArtifactRef {
	if len(vector) == 0 {
		return []core.ArtifactRef{}
	}

	req := searchRequest{
		Vector:      vector,
		Limit:       c.config.SearchLimit,
		WithPayload: true,
	}
	var resp searchResponse
	if err := c.post(ctx, c.collectionPath()+"/points/search", req, &resp); err != nil {
		c.logger.Warn("vector search failed", "err", err)
		return []core.ArtifactRef{}
	}

	refs := collectRefs(resp.Result, func(p point) float64 {
		if score, ok := p.score(); ok {
			return core.NormalizeConfidence(score)
		}
		return core.DefaultVectorConfidence
	})
	c.logger.Debug("vector search complete", "points", len(resp.Result), "results", len(refs))
	return refs
}

// Filter matches query against the keyword, title, description and language
// payload fields. Any field match qualifies a point, and every hit gets
// PayloadFilterConfidence.
func (c *Client) Filter(ctx context.Context, query string) []core.ArtifactRef {
	req := scrollRequest{
		Limit:       c.config.FilterLimit,
		WithPayload: true,
	}
	for _, field := range filterFields {
		req.Filter.Should = append(req.Filter.Should, fieldCondition{Key: field, Match: matchText{Text: query}})
	}

	var resp scrollResponse
	if err := c.post(ctx, c.collectionPath()+"/points/scroll", req, &resp); err != nil {
		c.logger.Warn("payload filter failed", "err", err)
		return []core.ArtifactRef{}
	}

	refs := collectRefs(resp.Result.Points, func(point) float64 {
		return core.PayloadFilterConfidence
	})
	c.logger.Debug("payload filter complete", "points", len(resp.Result.Points), "results", len(refs))
	return refs
}

// Probe reports whether the collection endpoint answers with a 2xx status.
func (c *Client) Probe(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.config.URL+c.collectionPath(), nil)
	if err != nil {
		return false
	}
	req.Header.Set("api-key", c.config.APIKey)

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Debug("probe failed", "err", err)
		return false
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseBytes))

	return resp.StatusCode >= 200 && resp.StatusCode < 300
}

func (c *Client) collectionPath() string {
	return "/collections/" + url.PathEscape(c.config.Collection)
}

// post sends body as JSON and decodes a 2xx answer into out.
func (c *Client) post(ctx context.Context, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.URL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("api-key", c.config.APIKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseBytes))
		return fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode)
	}

	dec := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes))
	dec.UseNumber()
	if err := dec.Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
