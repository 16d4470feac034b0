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


package lexical

import (
	"cmp"
	"slices"
	"strings"

	"github.com/poiesic/heritage/core"
)

const (
	baseTenths = 5 // confidence floor, before keyword hits are added
	capTenths  = 9
)

// Entry is one artifact in an Index.
type Entry struct {
	ID       core.ID
	Keywords []string
}

// Index is an immutable keyword table.
// It is safe for concurrent use because nothing mutates it after construction.
type Index struct {
	entries []Entry
}

// NewIndex builds an Index from entries.
// Keywords are copied, lowercased and de-duplicated, so later changes to the
// caller's slices have no effect on the index. Entries with a non-positive
// id are dropped, and only the first entry for an id is kept.
func NewIndex(entries []Entry) *Index {
	idx := &Index{entries: make([]Entry, 0, len(entries))}
	seen := make(map[core.ID]bool, len(entries))
	for _, e := range entries {
		if e.ID <= 0 || seen[e.ID] {
			continue
		}
		seen[e.ID] = true
		idx.entries = append(idx.entries, Entry{
			ID:       e.ID,
			Keywords: core.NormalizeKeywords(e.Keywords),
		})
	}
	return idx
}

// FromArtifacts builds an Index from catalog records.
func FromArtifacts(artifacts []*core.Artifact) *Index {
	entries := make([]Entry, 0, len(artifacts))
	for _, a := range artifacts {
		if a == nil {
			continue
		}
		entries = append(entries, Entry{ID: a.ID, Keywords: a.Keywords})
	}
	return NewIndex(entries)
}

// DefaultIndex returns the built-in keyword table used when no catalog is configured.
func DefaultIndex() *Index {
	return NewIndex([]Entry{
		{ID: 1, Keywords: []string{"protection", "ceremony", "festival", "mask", "spirit", "newar", "indra jatra", "guardian", "deity"}},
		{ID: 2, Keywords: []string{"music", "celebration", "drum", "culture", "storytelling", "tamang", "selo", "indigenous", "rhythm"}},
		{ID: 3, Keywords: []string{"art", "nature", "harvest", "village", "painting", "tharu", "terai", "agriculture", "sustainable"}},
	})
}

// Len returns the number of artifacts in the index.
func (idx *Index) Len() int {
	return len(idx.entries)
}

// Match scores every artifact against query.
//
// A keyword counts when it is a substring of the lowercased query or the
// query is a substring of it. Artifacts with at least one hit get confidence
// min(0.9, 0.5 + 0.1*hits); the rest are excluded. Results are ordered by
// descending confidence, ties keep index order. Match never fails and
// returns an empty slice when nothing matches.
func (idx *Index) Match(query string) []core.ArtifactRef {
	q := strings.ToLower(strings.TrimSpace(query))
	results := make([]core.ArtifactRef, 0)
	if q == "" {
		return results
	}

	for _, e := range idx.entries {
		hits := 0
		for _, k := range e.Keywords {
			if strings.Contains(q, k) || strings.Contains(k, q) {
				hits++
			}
		}
		if hits == 0 {
			continue
		}
		results = append(results, core.ArtifactRef{
			ID:         e.ID,
			Confidence: float64(min(baseTenths+hits, capTenths)) / 10,
		})
	}

	slices.SortStableFunc(results, func(a, b core.ArtifactRef) int {
		return cmp.Compare(b.Confidence, a.Confidence)
	})
	return results
}
