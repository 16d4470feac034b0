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


// Package vectorstore provides access to the Qdrant collection that holds
// artifact vectors.
//
// Client covers the search path over REST:
//
//   - Search: POST collections/{c}/points/search with {vector, limit: 5, with_payload: true}
//   - Filter: POST collections/{c}/points/scroll with a "should" filter over
//     keywords, title, description and language, limit 10
//   - Probe:  GET collections/{c}, reachable iff 2xx
//
// Both search strategies read the artifact identifier from payload.artifactId
// and never return errors; a failed call is an empty result.
//
// Admin covers collection management over gRPC (exists, recreate, upsert)
// and is only used when seeding.
package vectorstore
