package vectorstore

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/poiesic/heritage/core"
)

// point is a search or scroll hit. Responses are decoded with UseNumber, so
// numeric payload values and scores arrive as json.Number.
type point struct {
	Payload map[string]any `json:"payload"`
	Score   any            `json:"score"`
}

// score returns the point's similarity score when it is a finite number.
func (p point) score() (float64, bool) {
	n, ok := p.Score.(json.Number)
	if !ok {
		return 0, false
	}
	f, err := n.Float64()
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, false
	}
	return f, true
}

// artifactID reads payload.artifactId.
// Integers and integer strings are accepted; anything else is rejected.
func (p point) artifactID() (core.ID, bool) {
	if p.Payload == nil {
		return 0, false
	}
	switch v := p.Payload["artifactId"].(type) {
	case json.Number:
		return parseID(v.String())
	case string:
		return parseID(strings.TrimSpace(v))
	default:
		return 0, false
	}
}

func parseID(s string) (core.ID, bool) {
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return core.ID(n), n > 0
	}
	// Integral values written in float form, e.g. 2.0 or 2e0.
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != math.Trunc(f) || f <= 0 || f >= 1<<63 {
		return 0, false
	}
	return core.ID(f), true
}

// collectRefs maps points to artifact references in response order.
// Points without a valid id are skipped, and only the first point for an id is kept.
func collectRefs(points []point, confidence func(point) float64) []core.ArtifactRef {
	refs := make([]core.ArtifactRef, 0, len(points))
	seen := make(map[core.ID]bool, len(points))
	for _, p := range points {
		id, ok := p.artifactID()
		if !ok || seen[id] {
			continue
		}
		seen[id] = true
		refs = append(refs, core.ArtifactRef{ID: id, Confidence: confidence(p)})
	}
	return refs
}
