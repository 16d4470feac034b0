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


// Package config holds the application configuration.
//
// Values come from defaults, then an optional TOML file, then command-line
// flags and environment variables applied by the caller:
//
//	[store]
//	url = "https://xyz.cloud.qdrant.io:6333"
//	api_key = "..."
//	collection = "nepal_heritage"
//
//	[embedding]
//	provider = "aimlapi"
//	aimlapi_key = "..."
//
//	[server]
//	addr = ":8080"
//	search_timeout = "30s"
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/poiesic/heritage/ai"
	"github.com/poiesic/heritage/seed"
	"github.com/poiesic/heritage/vectorstore"
)

// ErrInvalid is returned when a configuration fails validation.
var ErrInvalid = errors.New("invalid configuration")

// Duration is a time.Duration written as a string such as "20s" in TOML.
type Duration time.Duration

// UnmarshalText parses a duration string.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// MarshalText formats the duration.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// Config is the complete application configuration.
type Config struct {
	Store     StoreConfig     `toml:"store"`
	Embedding EmbeddingConfig `toml:"embedding"`
	Catalog   CatalogConfig   `toml:"catalog"`
	Server    ServerConfig    `toml:"server"`
	Seed      SeedConfig      `toml:"seed"`
}

// StoreConfig describes the vector store. The store is used only when both
// URL and APIKey are set.
type StoreConfig struct {
	URL        string   `toml:"url"`
	APIKey     string   `toml:"api_key"`
	Collection string   `toml:"collection"`
	GRPCPort   int      `toml:"grpc_port"`
	Timeout    Duration `toml:"timeout"`
}

// EmbeddingConfig selects and configures the embedding provider.
type EmbeddingConfig struct {
	Provider        string   `toml:"provider"`
	GeminiAPIKey    string   `toml:"gemini_api_key"`
	PrimaryModel    string   `toml:"primary_model"`
	SecondaryModel  string   `toml:"secondary_model"`
	AlternateURL    string   `toml:"aimlapi_url"`
	AlternateAPIKey string   `toml:"aimlapi_key"`
	AlternateModel  string   `toml:"aimlapi_model"`
	Timeout         Duration `toml:"timeout"`
}

// CatalogConfig locates the artifact catalog. An empty path means the
// built-in artifacts are used.
type CatalogConfig struct {
	Path string `toml:"path"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr          string   `toml:"addr"`
	SearchTimeout Duration `toml:"search_timeout"`
}

// SeedConfig configures collection seeding.
type SeedConfig struct {
	PoolSize      int      `toml:"pool_size"`
	RatePerSecond float64  `toml:"rate_per_second"`
	BatchSize     int      `toml:"batch_size"`
	MaxRetries    int      `toml:"max_retries"`
	RetryDelay    Duration `toml:"retry_delay"`
	Recreate      bool     `toml:"recreate"`
}

// Default returns the configuration used when nothing else is supplied.
func Default() *Config {
	store := vectorstore.DefaultConfig()
	embedding := ai.DefaultConfig()
	seeding := seed.DefaultConfig()

	return &Config{
		Store: StoreConfig{
			Collection: store.Collection,
			GRPCPort:   store.GRPCPort,
			Timeout:    Duration(store.Timeout),
		},
		Embedding: EmbeddingConfig{
			PrimaryModel:   embedding.PrimaryModel,
			SecondaryModel: embedding.SecondaryModel,
			AlternateURL:   embedding.AlternateURL,
			AlternateModel: embedding.AlternateModel,
			Timeout:        Duration(embedding.Timeout),
		},
		Server: ServerConfig{
			Addr:          ":8080",
			SearchTimeout: Duration(30 * time.Second),
		},
		Seed: SeedConfig{
			PoolSize:      seeding.PoolSize,
			RatePerSecond: seeding.RatePerSecond,
			BatchSize:     seeding.BatchSize,
			MaxRetries:    seeding.MaxRetries,
			RetryDelay:    Duration(seeding.RetryDelay),
		},
	}
}

// Load reads a TOML file over the defaults.
// An empty path returns the defaults. Unknown keys are rejected.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config: %w", err)
	}
	defer f.Close()

	if err := toml.NewDecoder(f).DisallowUnknownFields().Decode(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks every section.
func (c *Config) Validate() error {
	if err := c.VectorStore().Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	if err := c.Embedder().Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	if err := c.SeedOptions().Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	if c.Server.SearchTimeout < 0 {
		return fmt.Errorf("%w: server search_timeout cannot be negative", ErrInvalid)
	}
	return nil
}

// VectorStore returns the vector store client configuration.
func (c *Config) VectorStore() vectorstore.Config {
	cfg := vectorstore.DefaultConfig()
	cfg.URL = c.Store.URL
	cfg.APIKey = c.Store.APIKey
	if strings.TrimSpace(c.Store.Collection) != "" {
		cfg.Collection = strings.TrimSpace(c.Store.Collection)
	}
	cfg.GRPCPort = c.Store.GRPCPort
	cfg.Timeout = time.Duration(c.Store.Timeout)
	return cfg
}

// Embedder returns the embedding provider configuration.
func (c *Config) Embedder() *ai.Config {
	return ai.NewConfig(
		ai.WithProvider(c.Embedding.Provider),
		ai.WithGeminiAPIKey(c.Embedding.GeminiAPIKey),
		ai.WithPrimaryModel(c.Embedding.PrimaryModel),
		ai.WithSecondaryModel(c.Embedding.SecondaryModel),
		ai.WithAlternateURL(c.Embedding.AlternateURL),
		ai.WithAlternateAPIKey(c.Embedding.AlternateAPIKey),
		ai.WithAlternateModel(c.Embedding.AlternateModel),
		ai.WithTimeout(time.Duration(c.Embedding.Timeout)),
	)
}

// SeedOptions returns the seeder configuration.
func (c *Config) SeedOptions() *seed.Config {
	return &seed.Config{
		PoolSize:       c.Seed.PoolSize,
		RatePerSecond:  c.Seed.RatePerSecond,
		BatchSize:      c.Seed.BatchSize,
		ReportInterval: 1,
		MaxRetries:     c.Seed.MaxRetries,
		RetryDelay:     time.Duration(c.Seed.RetryDelay),
		Recreate:       c.Seed.Recreate,
	}
}
