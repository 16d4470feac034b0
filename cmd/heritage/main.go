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


package main

import (
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/poiesic/heritage/config"
	"github.com/urfave/cli/v2"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "heritage",
		Usage: "Search the heritage artifact catalog",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to a TOML configuration file",
				EnvVars: []string{"HERITAGE_CONFIG"},
			},
			&cli.StringFlag{
				Name:    "catalog",
				Usage:   "Path to the BadgerDB catalog directory (empty keeps the built-in artifacts in memory)",
				EnvVars: []string{"HERITAGE_CATALOG"},
			},
			&cli.StringFlag{
				Name:    "qdrant-url",
				Usage:   "Vector store REST endpoint",
				EnvVars: []string{"QDRANT_URL"},
			},
			&cli.StringFlag{
				Name:    "qdrant-api-key",
				Usage:   "Vector store API key",
				EnvVars: []string{"QDRANT_API_KEY"},
			},
			&cli.StringFlag{
				Name:    "collection",
				Usage:   "Vector store collection name",
				EnvVars: []string{"QDRANT_COLLECTION"},
			},
			&cli.StringFlag{
				Name:    "embed-provider",
				Usage:   "Embedding provider (gemini or aimlapi)",
				EnvVars: []string{"EMBED_PROVIDER"},
			},
			&cli.StringFlag{
				Name:    "gemini-api-key",
				Usage:   "Gemini API key",
				EnvVars: []string{"GEMINI_API_KEY"},
			},
			&cli.StringFlag{
				Name:    "aimlapi-key",
				Usage:   "AIMLAPI key",
				EnvVars: []string{"AIMLAPI_KEY"},
			},
			&cli.StringFlag{
				Name:    "aimlapi-model",
				Usage:   "AIMLAPI embedding model",
				EnvVars: []string{"AIMLAPI_EMBED_MODEL"},
			},
			&cli.StringFlag{
				Name:    "aimlapi-url",
				Usage:   "AIMLAPI embeddings endpoint",
				EnvVars: []string{"AIMLAPI_EMBED_URL"},
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:      "search",
				Usage:     "Resolve a free-text query to artifacts",
				ArgsUsage: "<query>",
				Action:    searchCommand,
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Print the full outcome as JSON",
					},
				},
			},
			{
				Name:   "status",
				Usage:  "Show the embedding provider and vector store status",
				Action: statusCommand,
			},
			{
				Name:   "serve",
				Usage:  "Serve the search API over HTTP",
				Action: serveCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "addr",
						Usage:   "Listen address",
						EnvVars: []string{"HERITAGE_ADDR"},
					},
					&cli.DurationFlag{
						Name:  "search-timeout",
						Usage: "Upper bound on a single search request",
					},
				},
			},
			{
				Name:   "seed",
				Usage:  "Embed the catalog and write it to the vector store",
				Action: seedCommand,
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "recreate",
						Usage: "Drop and rebuild the collection",
					},
					&cli.IntFlag{
						Name:  "pool-size",
						Usage: "Number of concurrent embedding workers",
					},
					&cli.Float64Flag{
						Name:  "rate",
						Usage: "Embedding requests per second (0 for unlimited)",
					},
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Points per upsert request",
					},
					&cli.IntFlag{
						Name:  "max-retries",
						Usage: "Maximum retry attempts for failed embeddings",
					},
					&cli.DurationFlag{
						Name:  "retry-delay",
						Usage: "Base delay for exponential backoff",
					},
				},
			},
			{
				Name:  "catalog",
				Usage: "Manage the artifact catalog",
				Subcommands: []*cli.Command{
					{
						Name:   "init",
						Usage:  "Write the built-in artifacts to the catalog",
						Action: catalogInitCommand,
					},
					{
						Name:      "import",
						Usage:     "Add or replace artifacts from a JSON array",
						ArgsUsage: "<file.json>",
						Action:    catalogImportCommand,
					},
					{
						Name:   "list",
						Usage:  "List catalog artifacts",
						Action: catalogListCommand,
					},
				},
			},
		},
	}
}

// loadConfig reads the configuration file, then applies flags and
// environment variables on top.
func loadConfig(c *cli.Context) (*config.Config, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return nil, err
	}

	overlayString(c, "catalog", &cfg.Catalog.Path)
	overlayString(c, "qdrant-url", &cfg.Store.URL)
	overlayString(c, "qdrant-api-key", &cfg.Store.APIKey)
	overlayString(c, "collection", &cfg.Store.Collection)
	overlayString(c, "embed-provider", &cfg.Embedding.Provider)
	overlayString(c, "gemini-api-key", &cfg.Embedding.GeminiAPIKey)
	overlayString(c, "aimlapi-key", &cfg.Embedding.AlternateAPIKey)
	overlayString(c, "aimlapi-model", &cfg.Embedding.AlternateModel)
	overlayString(c, "aimlapi-url", &cfg.Embedding.AlternateURL)

	overlayString(c, "addr", &cfg.Server.Addr)
	overlayDuration(c, "search-timeout", &cfg.Server.SearchTimeout)

	if c.IsSet("recreate") {
		cfg.Seed.Recreate = c.Bool("recreate")
	}
	if c.IsSet("pool-size") {
		cfg.Seed.PoolSize = c.Int("pool-size")
	}
	if c.IsSet("rate") {
		cfg.Seed.RatePerSecond = c.Float64("rate")
	}
	if c.IsSet("batch-size") {
		cfg.Seed.BatchSize = c.Int("batch-size")
	}
	if c.IsSet("max-retries") {
		cfg.Seed.MaxRetries = c.Int("max-retries")
	}
	overlayDuration(c, "retry-delay", &cfg.Seed.RetryDelay)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func overlayString(c *cli.Context, name string, dst *string) {
	if c.IsSet(name) {
		*dst = c.String(name)
	}
}

func overlayDuration(c *cli.Context, name string, dst *config.Duration) {
	if c.IsSet(name) {
		*dst = config.Duration(c.Duration(name))
	}
}

func setupLogger(c *cli.Context) error {
	levelStr := strings.ToLower(c.String("log-level"))

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}

// formatTime renders catalog timestamps for listings.
func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format(time.DateTime)
}
