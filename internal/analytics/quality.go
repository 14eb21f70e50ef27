package analytics

import (
	"math"

	"github.com/modelyard/modelyard-backend/internal/types"
)

type SuiteQualityResult struct {
	Score int `json:"score"`
	Count int `json:"count"`
}

// SuiteQuality aggregates the dataset suite's quality score: the arithmetic
// mean over the collection, rounded to the nearest integer. A dataset with
// no score counts as zero. ok is false for an empty collection ("no data");
// there is never a division by zero.
func SuiteQuality(datasets []*types.Dataset) (SuiteQualityResult, bool) {
	if len(datasets) == 0 {
		return SuiteQualityResult{}, false
	}
	sum := 0
	for _, d := range datasets {
		if d.QualityScore != nil {
			sum += *d.QualityScore
		}
	}
	mean := float64(sum) / float64(len(datasets))
	return SuiteQualityResult{
		Score: int(math.Round(mean)),
		Count: len(datasets),
	}, true
}
