package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/modelyard/modelyard-backend/internal/http/response"
	"github.com/modelyard/modelyard-backend/internal/platform/apierr"
	"github.com/modelyard/modelyard-backend/internal/services"
)

type ModelHandler struct {
	modelService services.ModelService
}

func NewModelHandler(modelService services.ModelService) *ModelHandler {
	return &ModelHandler{modelService: modelService}
}

// POST /models
func (mh *ModelHandler) Create(c *gin.Context) {
	id, err := callerIdentity(c)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	var input services.CreateModelInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.RespondError(c, apierr.Validationf("body", "invalid json: %s", err.Error()))
		return
	}
	created, err := mh.modelService.Create(c.Request.Context(), id, input)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"model": created})
}
