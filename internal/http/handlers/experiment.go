package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/modelyard/modelyard-backend/internal/http/response"
	"github.com/modelyard/modelyard-backend/internal/platform/apierr"
	"github.com/modelyard/modelyard-backend/internal/services"
)

type ExperimentHandler struct {
	experimentService services.ExperimentService
}

func NewExperimentHandler(experimentService services.ExperimentService) *ExperimentHandler {
	return &ExperimentHandler{experimentService: experimentService}
}

// POST /experiments
func (eh *ExperimentHandler) Create(c *gin.Context) {
	id, err := callerIdentity(c)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	var input services.CreateExperimentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.RespondError(c, apierr.Validationf("body", "invalid json: %s", err.Error()))
		return
	}
	created, err := eh.experimentService.Create(c.Request.Context(), id, input)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"experiment": created})
}
