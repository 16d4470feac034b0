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


package ai

import (
	"errors"
	"net/url"
	"strings"
	"time"
)

// ProviderAIMLAPI selects the OpenAI-compatible alternate embedding provider.
const ProviderAIMLAPI = "aimlapi"

// Config holds configuration for embedding providers.
type Config struct {
	// Provider names the alternate provider family. Only "aimlapi" is recognised;
	// any other value (including "") selects the Gemini family when a key is set.
	Provider string

	// GeminiAPIKey enables the primary (Gemini) provider family.
	GeminiAPIKey string

	// PrimaryModel is the first Gemini model tried.
	// Default: "embedding-001"
	PrimaryModel string

	// SecondaryModel is tried once when PrimaryModel fails or returns no vector.
	// Default: "text-embedding-004"
	SecondaryModel string

	// AlternateURL is the full embeddings endpoint of the alternate provider.
	// Default: "https://api.aimlapi.com/v1/embeddings"
	AlternateURL string

	// AlternateAPIKey is sent as a bearer token to the alternate provider.
	AlternateAPIKey string

	// AlternateModel is the model requested from the alternate provider.
	// Default: "text-embedding-3-large"
	AlternateModel string

	// Timeout bounds a single HTTP request to the alternate provider.
	// Default: 20s
	Timeout time.Duration
}

// ConfigOption is a functional option for configuring a Config.
type ConfigOption func(*Config)

// WithProvider sets the provider family selector.
func WithProvider(provider string) ConfigOption {
	return func(c *Config) {
		c.Provider = provider
	}
}

// WithGeminiAPIKey sets the Gemini API key.
func WithGeminiAPIKey(key string) ConfigOption {
	return func(c *Config) {
		c.GeminiAPIKey = key
	}
}

// WithPrimaryModel sets the first Gemini embedding model.
func WithPrimaryModel(model string) ConfigOption {
	return func(c *Config) {
		c.PrimaryModel = model
	}
}

// WithSecondaryModel sets the fallback Gemini embedding model.
func WithSecondaryModel(model string) ConfigOption {
	return func(c *Config) {
		c.SecondaryModel = model
	}
}

// WithAlternateURL sets the alternate provider's embeddings endpoint.
func WithAlternateURL(endpoint string) ConfigOption {
	return func(c *Config) {
		c.AlternateURL = endpoint
	}
}

// WithAlternateAPIKey sets the alternate provider's API key.
func WithAlternateAPIKey(key string) ConfigOption {
	return func(c *Config) {
		c.AlternateAPIKey = key
	}
}

// WithAlternateModel sets the alternate provider's embedding model.
func WithAlternateModel(model string) ConfigOption {
	return func(c *Config) {
		c.AlternateModel = model
	}
}

// WithTimeout sets the per-request timeout for HTTP providers.
func WithTimeout(timeout time.Duration) ConfigOption {
	return func(c *Config) {
		c.Timeout = timeout
	}
}

// DefaultConfig returns a Config with the stock model names and endpoint.
// No provider is enabled until a key is supplied.
func DefaultConfig() *Config {
	return &Config{
		PrimaryModel:   "embedding-001",
		SecondaryModel: "text-embedding-004",
		AlternateURL:   "https://api.aimlapi.com/v1/embeddings",
		AlternateModel: "text-embedding-3-large",
		Timeout:        20 * time.Second,
	}
}

// NewConfig creates a Config with the default values and applies the provided options.
//
// Example:
//
//	cfg := NewConfig(
//	    WithProvider("aimlapi"),
//	    WithAlternateAPIKey(os.Getenv("AIMLAPI_KEY")),
//	)
func NewConfig(opts ...ConfigOption) *Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Normalize puts the configuration in canonical form.
// The provider name is compared case-insensitively, so it is lowercased here.
func (c *Config) Normalize() {
	c.Provider = strings.ToLower(strings.TrimSpace(c.Provider))
	c.GeminiAPIKey = strings.TrimSpace(c.GeminiAPIKey)
	c.AlternateAPIKey = strings.TrimSpace(c.AlternateAPIKey)
	c.AlternateURL = strings.TrimSuffix(strings.TrimSpace(c.AlternateURL), "/")
}

// UsesAlternate reports whether the alternate provider family is selected.
func (c *Config) UsesAlternate() bool {
	return strings.EqualFold(strings.TrimSpace(c.Provider), ProviderAIMLAPI)
}

// UsesPrimary reports whether the Gemini family is selected.
// The alternate family always wins when both are configured.
func (c *Config) UsesPrimary() bool {
	return !c.UsesAlternate() && strings.TrimSpace(c.GeminiAPIKey) != ""
}

// Validate checks that the configuration is usable.
// It automatically normalizes the configuration before validation.
func (c *Config) Validate() error {
	c.Normalize()

	if c.Timeout < 0 {
		return errors.New("ai config: Timeout cannot be negative")
	}
	if c.UsesAlternate() {
		if c.AlternateModel == "" {
			return errors.New("ai config: AlternateModel is required")
		}
		u, err := url.Parse(c.AlternateURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return errors.New("ai config: AlternateURL must be an absolute URL")
		}
	}
	if c.UsesPrimary() && c.PrimaryModel == "" {
		return errors.New("ai config: PrimaryModel is required")
	}
	return nil
}
