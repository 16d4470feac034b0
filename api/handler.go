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


// Package api exposes the resolver over HTTP.
//
//	POST /api/search  {"query": "..."}  -> {"results": [...], "audit": {...}}
//	GET  /api/status                    -> {"provider", "model", "collection", "qdrantConnected", "timestamp"}
//
// The search endpoint always answers 200. Malformed requests and internal
// failures produce {"results": []}.
package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/poiesic/heritage/core"
)

const maxRequestBytes = 64 << 10

// Resolver answers search queries.
type Resolver interface {
	Resolve(ctx context.Context, query string) core.Outcome
}

// StatusReporter reports provider and store status.
type StatusReporter interface {
	Status(ctx context.Context) core.Status
}

type searchRequest struct {
	Query string `json:"query"`
}

// Handler serves the search and status endpoints.
type Handler struct {
	resolver Resolver
	status   StatusReporter
	timeout  time.Duration
	logger   *slog.Logger
	mux      *http.ServeMux
}

var _ http.Handler = (*Handler)(nil)

// Option configures a Handler.
type Option func(*Handler)

// WithTimeout bounds each search request. Zero means no bound.
func WithTimeout(timeout time.Duration) Option {
	return func(h *Handler) {
		h.timeout = timeout
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(h *Handler) {
		if logger != nil {
			h.logger = logger
		}
	}
}

// NewHandler creates the API handler.
func NewHandler(resolver Resolver, status StatusReporter, opts ...Option) *Handler {
	h := &Handler{
		resolver: resolver,
		status:   status,
		logger:   slog.Default().With("component", "api"),
		mux:      http.NewServeMux(),
	}
	for _, opt := range opts {
		opt(h)
	}

	h.mux.HandleFunc("POST /api/search", h.handleSearch)
	h.mux.HandleFunc("GET /api/status", h.handleStatus)
	return h
}

// ServeHTTP dispatches to the registered routes.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

func (h *Handler) handleSearch(w http.ResponseWriter, r *http.Request) {
	outcome := core.EmptyOutcome()
	defer func() {
		if rec := recover(); rec != nil {
			h.logger.Error("search handler panicked", "panic", rec)
			outcome = core.EmptyOutcome()
		}
		writeJSON(w, h.logger, outcome)
	}()

	var req searchRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBytes)).Decode(&req); err != nil {
		h.logger.Debug("malformed search request", "err", err)
		return
	}

	ctx := r.Context()
	if h.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}

	start := time.Now()
	outcome = h.resolver.Resolve(ctx, req.Query)
	method := core.Method("")
	if outcome.Audit != nil {
		method = outcome.Audit.Method
	}
	h.logger.Info("search", "method", method, "results", len(outcome.Results), "elapsed", time.Since(start))
}

func (h *Handler) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.logger, h.status.Status(r.Context()))
}

func writeJSON(w http.ResponseWriter, logger *slog.Logger, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Warn("failed to write response", "err", err)
	}
}
