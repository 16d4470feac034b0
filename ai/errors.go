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

import "errors"

var (
	// ErrNoProvider is returned when no embedding provider is configured.
	ErrNoProvider = errors.New("no embedding provider configured")

	// ErrEmptyVector is returned when a provider answers without a vector.
	ErrEmptyVector = errors.New("provider returned an empty vector")

	// ErrMissingAPIKey is returned when a provider is selected without its key.
	ErrMissingAPIKey = errors.New("provider API key missing")

	// ErrEmbeddingFailed wraps the last provider error once every candidate model failed.
	ErrEmbeddingFailed = errors.New("embedding failed")
)
