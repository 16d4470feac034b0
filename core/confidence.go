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

import "math"

const (
	// DefaultVectorConfidence is used for a vector hit whose score is missing or not a number.
	DefaultVectorConfidence = 0.75

	// PayloadFilterConfidence is assigned to every payload filter hit.
	// The filter path carries no similarity score.
	PayloadFilterConfidence = 0.7
)

// NormalizeConfidence clamps score into [0, 1].
// External similarity scores are not trusted to be bounded. NaN maps to 0.
func NormalizeConfidence(score float64) float64 {
	if math.IsNaN(score) {
		return 0
	}
	return math.Min(1, math.Max(0, score))
}
