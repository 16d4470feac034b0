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


// Package lexical provides the in-process keyword matcher that backs the
// last search stage.
//
// An Index is built once at startup, either from the built-in table
// (DefaultIndex) or from catalog records (FromArtifacts), and is shared
// read-only by every request. Matching uses plain substring containment in
// both directions, so "indra" matches the keyword "indra jatra" and the query
// "festival masks" matches both "festival" and "mask".
package lexical
