package quality

import (
	"path/filepath"
	"strings"
)

// Assessor scores an uploaded dataset artifact in [0, 100]. Real assessment
// (profiling, null counts, schema checks) runs elsewhere; implementations
// here only need to be deterministic for identical inputs.
type Assessor interface {
	Assess(name string, sizeBytes int64) int
}

// HeuristicAssessor is the default: a coarse format/size heuristic standing
// in until a profiling backend is wired up.
type HeuristicAssessor struct{}

func NewHeuristicAssessor() Assessor {
	return HeuristicAssessor{}
}

func (HeuristicAssessor) Assess(name string, sizeBytes int64) int {
	score := 80
	switch strings.ToLower(strings.TrimPrefix(filepath.Ext(name), ".")) {
	case "parquet":
		score += 15
	case "csv", "json":
		score += 10
	case "xlsx":
		score += 5
	}
	if sizeBytes <= 0 {
		score -= 30
	}
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	return score
}
