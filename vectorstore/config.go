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
	"errors"
	"net/url"
	"strings"
	"time"
)

const (
	// DefaultCollection is the collection used when none is configured.
	DefaultCollection = "nepal_heritage"

	// DefaultSearchLimit caps the number of points returned by a similarity search.
	DefaultSearchLimit = 5

	// DefaultFilterLimit caps the number of points returned by a payload filter scroll.
	DefaultFilterLimit = 10

	// DefaultGRPCPort is Qdrant's gRPC port, used for collection administration.
	DefaultGRPCPort = 6334
)

// Config describes how to reach the vector store.
type Config struct {
	// URL is the REST base URL, e.g. "https://xyz.cloud.qdrant.io:6333".
	URL string

	// APIKey is sent in the api-key header.
	APIKey string

	// Collection holds the artifact points.
	Collection string

	// Timeout bounds each HTTP request. Zero disables the client timeout.
	Timeout time.Duration

	// SearchLimit and FilterLimit cap the points each strategy asks for.
	SearchLimit int
	FilterLimit int

	// GRPCPort is used by Admin. The host is taken from URL.
	GRPCPort int
}

// DefaultConfig returns a Config with no store configured.
func DefaultConfig() Config {
	return Config{
		Collection:  DefaultCollection,
		Timeout:     20 * time.Second,
		SearchLimit: DefaultSearchLimit,
		FilterLimit: DefaultFilterLimit,
		GRPCPort:    DefaultGRPCPort,
	}
}

// Configured reports whether both the store URL and API key are set.
// Without both, the store-backed search stages are skipped.
func (c Config) Configured() bool {
	return strings.TrimSpace(c.URL) != "" && strings.TrimSpace(c.APIKey) != ""
}

// Validate checks a configured store. An unconfigured store is valid.
// A blank collection is valid and resolves to DefaultCollection.
func (c Config) Validate() error {
	if !c.Configured() {
		return nil
	}
	c = c.withDefaults()
	u, err := url.Parse(c.URL)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return errors.New("vectorstore config: URL must be an absolute http(s) URL")
	}
	if c.Timeout < 0 {
		return errors.New("vectorstore config: Timeout cannot be negative")
	}
	if c.SearchLimit < 0 || c.FilterLimit < 0 {
		return errors.New("vectorstore config: limits cannot be negative")
	}
	if c.GRPCPort < 0 || c.GRPCPort > 65535 {
		return errors.New("vectorstore config: GRPCPort out of range")
	}
	return nil
}

// withDefaults fills zero-valued limits and collection.
func (c Config) withDefaults() Config {
	c.URL = strings.TrimSuffix(strings.TrimSpace(c.URL), "/")
	c.APIKey = strings.TrimSpace(c.APIKey)
	if strings.TrimSpace(c.Collection) == "" {
		c.Collection = DefaultCollection
	}
	if c.SearchLimit == 0 {
		c.SearchLimit = DefaultSearchLimit
	}
	if c.FilterLimit == 0 {
		c.FilterLimit = DefaultFilterLimit
	}
	if c.GRPCPort == 0 {
		c.GRPCPort = DefaultGRPCPort
	}
	return c
}
