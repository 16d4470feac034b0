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


package core

import (
	"fmt"
	"strings"
)

// ValidateArtifact validates an Artifact according to domain rules.
//
// Validation rules:
//   - ID must be positive
//   - Title must not be empty
//   - Description must not be empty (it is the text that gets embedded)
//   - Keywords must not be blank
//
// NOT validated:
//   - Language (optional)
//   - Keyword case (see NormalizeKeywords)
func ValidateArtifact(artifact *Artifact) error {
	if artifact == nil {
		return fmt.Errorf("%w: artifact is nil", ErrInvalidArtifact)
	}

	if artifact.ID <= 0 {
		return fmt.Errorf("%w: %w", ErrInvalidArtifact, ErrInvalidArtifactID)
	}

	if strings.TrimSpace(artifact.Title) == "" {
		return fmt.Errorf("%w: %w", ErrInvalidArtifact, ErrEmptyTitle)
	}

	if strings.TrimSpace(artifact.Description) == "" {
		return fmt.Errorf("%w: %w", ErrInvalidArtifact, ErrEmptyDescription)
	}

	for _, k := range artifact.Keywords {
		if strings.TrimSpace(k) == "" {
			return fmt.Errorf("%w: %w", ErrInvalidArtifact, ErrEmptyKeyword)
		}
	}

	return nil
}

// NormalizeKeywords lowercases and trims keywords, dropping blanks and duplicates.
// Order of first occurrence is preserved.
func NormalizeKeywords(keywords []string) []string {
	seen := make(map[string]bool, len(keywords))
	out := make([]string, 0, len(keywords))
	for _, k := range keywords {
		k = strings.ToLower(strings.TrimSpace(k))
		if k == "" || seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, k)
	}
	return out
}
