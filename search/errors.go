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


package search

import "errors"

var (
	// ErrLocalMatcherRequired is returned when no local keyword matcher is provided.
	ErrLocalMatcherRequired = errors.New("local matcher required")

	// ErrIncompleteStore is returned when only one of the store strategies is provided.
	ErrIncompleteStore = errors.New("vector search and payload filter must both be provided")
)
