package analytics

import (
	"fmt"
	"math"
	"sort"

	"github.com/modelyard/modelyard-backend/internal/platform/apierr"
)

// Explainability synthesis consumes externally computed SHAP-style outputs;
// no attribution math happens here beyond ordering and the running sum.

type FeatureImportance struct {
	Feature string  `json:"feature"`
	Weight  float64 `json:"weight"`
}

type Attribution struct {
	Feature      string  `json:"feature"`
	Contribution float64 `json:"contribution"`
}

type WaterfallStep struct {
	Label        string  `json:"label"`
	Contribution float64 `json:"contribution"`
	// Running is the cumulative display value after this step.
	Running float64 `json:"running"`
}

type Explanation struct {
	Importances []FeatureImportance `json:"importances"`
	// Attributions ordered by absolute contribution descending.
	Attributions    []Attribution   `json:"attributions"`
	Waterfall       []WaterfallStep `json:"waterfall"`
	BaseValue       float64         `json:"base_value"`
	FinalPrediction float64         `json:"final_prediction"`
}

// SynthesizeExplanation validates the importance list (non-negative weights
// summing to at most 1, within epsilon) and builds the waterfall view: base
// value first, then each attribution carried forward step by step.
func SynthesizeExplanation(base float64, importances []FeatureImportance, attributions []Attribution, epsilon float64) (Explanation, error) {
	sum := 0.0
	for _, imp := range importances {
		if imp.Weight < 0 {
			return Explanation{}, apierr.Validationf("importances", "weight for %q is negative", imp.Feature)
		}
		sum += imp.Weight
	}
	if sum > 1+epsilon {
		return Explanation{}, apierr.Validationf("importances", "weights sum to %.4f, expected at most 1", sum)
	}

	ordered := make([]Attribution, len(attributions))
	copy(ordered, attributions)
	sort.SliceStable(ordered, func(i, j int) bool {
		return math.Abs(ordered[i].Contribution) > math.Abs(ordered[j].Contribution)
	})

	waterfall := make([]WaterfallStep, 0, len(ordered)+2)
	running := base
	waterfall = append(waterfall, WaterfallStep{Label: "Base Value", Running: running})
	for _, a := range ordered {
		running += a.Contribution
		sign := "+"
		if a.Contribution < 0 {
			sign = "-"
		}
		waterfall = append(waterfall, WaterfallStep{
			Label:        fmt.Sprintf("%s %s", sign, a.Feature),
			Contribution: a.Contribution,
			Running:      running,
		})
	}
	waterfall = append(waterfall, WaterfallStep{Label: "Final Prediction", Running: running})

	return Explanation{
		Importances:     importances,
		Attributions:    ordered,
		Waterfall:       waterfall,
		BaseValue:       base,
		FinalPrediction: running,
	}, nil
}
