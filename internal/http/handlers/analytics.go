package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/modelyard/modelyard-backend/internal/analytics"
	"github.com/modelyard/modelyard-backend/internal/http/response"
	"github.com/modelyard/modelyard-backend/internal/platform/apierr"
	"github.com/modelyard/modelyard-backend/internal/services"
)

// AnalyticsHandler exposes the derived views: leaderboard, suite quality,
// drift evaluation and prediction explanations. Collection-backed views read
// through the stale-tolerant cache path (a dashboard a few seconds behind
// beats one blocking on a refetch) and flag the response as stale while the
// refresh runs; drift and explanation are pure functions of the request.
type AnalyticsHandler struct {
	queryService services.QueryService
	cfg          analytics.Config
}

func NewAnalyticsHandler(queryService services.QueryService, cfg analytics.Config) *AnalyticsHandler {
	return &AnalyticsHandler{queryService: queryService, cfg: cfg}
}

// GET /analytics/leaderboard
func (ah *AnalyticsHandler) Leaderboard(c *gin.Context) {
	id, err := callerIdentity(c)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	models, stale, err := ah.queryService.ModelsStale(c.Request.Context(), id)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	entries := analytics.Leaderboard(models, ah.cfg.BaselineAccuracy)
	response.RespondOK(c, gin.H{"leaderboard": entries, "stale": stale})
}

// GET /analytics/quality
func (ah *AnalyticsHandler) SuiteQuality(c *gin.Context) {
	id, err := callerIdentity(c)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	datasets, stale, err := ah.queryService.DatasetsStale(c.Request.Context(), id)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	result, ok := analytics.SuiteQuality(datasets)
	if !ok {
		response.RespondOK(c, gin.H{"quality": nil, "stale": stale})
		return
	}
	response.RespondOK(c, gin.H{"quality": result, "stale": stale})
}

// POST /analytics/drift
// body: { "baseline": 0.02, "series": [{"label": "Mon", "observed": 0.03}, ...],
//         "threshold": 0.05, "window": 7 }
func (ah *AnalyticsHandler) EvaluateDrift(c *gin.Context) {
	if _, err := callerIdentity(c); err != nil {
		response.RespondError(c, err)
		return
	}
	var req struct {
		Baseline  float64                `json:"baseline"`
		Series    []analytics.DriftPoint `json:"series"`
		Threshold *float64               `json:"threshold,omitempty"`
		Window    *int                   `json:"window,omitempty"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, apierr.Validationf("body", "invalid json: %s", err.Error()))
		return
	}
	if len(req.Series) == 0 {
		response.RespondError(c, apierr.Validationf("series", "at least one observation required"))
		return
	}
	threshold := ah.cfg.DriftThreshold
	if req.Threshold != nil {
		threshold = *req.Threshold
	}
	window := ah.cfg.DriftWindow
	if req.Window != nil {
		window = *req.Window
	}
	result := analytics.EvaluateDrift(req.Baseline, req.Series, threshold, window)
	response.RespondOK(c, gin.H{"drift": result})
}

// POST /analytics/explain
// body: { "base_value": 0.5, "importances": [...], "attributions": [...] }
func (ah *AnalyticsHandler) Explain(c *gin.Context) {
	if _, err := callerIdentity(c); err != nil {
		response.RespondError(c, err)
		return
	}
	var req struct {
		BaseValue    float64                       `json:"base_value"`
		Importances  []analytics.FeatureImportance `json:"importances"`
		Attributions []analytics.Attribution       `json:"attributions"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, apierr.Validationf("body", "invalid json: %s", err.Error()))
		return
	}
	explanation, err := analytics.SynthesizeExplanation(req.BaseValue, req.Importances, req.Attributions, ah.cfg.WeightSumEpsilon)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"explanation": explanation})
}
