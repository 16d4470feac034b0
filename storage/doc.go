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


// Package storage provides the storage abstraction for the artifact catalog.
//
// The catalog holds the artifact records that the seeder embeds into the
// vector store and that the local keyword index can be built from. It also
// keeps one seeding checkpoint per vector store collection so that seeding
// can skip artifacts whose content has not changed.
//
// # Constructor Return Type Pattern
//
// Public constructors in backend packages return the interfaces defined
// here:
//
//	repo, err := badger.NewArtifactRepository(backend)  // returns storage.ArtifactRepository
//
// Internal constructors (newArtifactRepository, etc.) may return concrete
// types since they're only used within the implementation package.
//
// # Usage
//
//	backend, err := badger.OpenBackend("/path/to/catalog", false)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer backend.Close()
//
//	artifacts, err := badger.NewArtifactRepository(backend)
//
// Tests use the in-memory variant:
//
//	artifacts, checkpoints, backend, err := badger.NewMemoryRepositories()
//
// Records are encoded with msgpack.
package storage
