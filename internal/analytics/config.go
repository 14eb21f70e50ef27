package analytics

import (
	"github.com/modelyard/modelyard-backend/internal/platform/envutil"
)

type Config struct {
	// Models with accuracy below this are classified baseline on the
	// leaderboard regardless of rank.
	BaselineAccuracy float64

	// Defaults applied when a drift evaluation request omits them.
	DriftThreshold float64
	DriftWindow    int

	// Tolerance for the feature-importance weight-sum check.
	WeightSumEpsilon float64
}

func LoadConfigFromEnv() Config {
	return Config{
		BaselineAccuracy: envutil.Float("ANALYTICS_BASELINE_ACCURACY", 90),
		DriftThreshold:   envutil.Float("ANALYTICS_DRIFT_THRESHOLD", 0.05),
		DriftWindow:      envutil.Int("ANALYTICS_DRIFT_WINDOW", 7),
		WeightSumEpsilon: envutil.Float("ANALYTICS_WEIGHT_SUM_EPSILON", 1e-6),
	}
}
