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


// Package search resolves free-text queries to heritage artifacts.
//
// The Resolver tries strategies in a fixed order and stops at the first one
// that produces results:
//
//  1. vector search, when a store is configured and the query embeds
//  2. payload keyword filter, when a store is configured
//  3. local keyword match, always
//
// Every stage soft-fails: errors and panics inside a stage count as "no
// results" and the cascade moves on. Resolve never returns an error.
//
// Every non-empty query produces an audit naming the method that answered
// it. Blank queries produce an empty outcome and no audit.
package search
