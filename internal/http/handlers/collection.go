package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/modelyard/modelyard-backend/internal/http/response"
	"github.com/modelyard/modelyard-backend/internal/platform/apierr"
	"github.com/modelyard/modelyard-backend/internal/services"
)

// CollectionHandler serves the read path. Every listing goes through the
// synchronization cache, so a burst of views costs one gateway round trip.
type CollectionHandler struct {
	queryService services.QueryService
}

func NewCollectionHandler(queryService services.QueryService) *CollectionHandler {
	return &CollectionHandler{queryService: queryService}
}

// GET /datasets
func (ch *CollectionHandler) ListDatasets(c *gin.Context) {
	id, err := callerIdentity(c)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	rows, err := ch.queryService.Datasets(c.Request.Context(), id)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"datasets": rows})
}

// GET /models
func (ch *CollectionHandler) ListModels(c *gin.Context) {
	id, err := callerIdentity(c)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	rows, err := ch.queryService.Models(c.Request.Context(), id)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"models": rows})
}

// GET /experiments
func (ch *CollectionHandler) ListExperiments(c *gin.Context) {
	id, err := callerIdentity(c)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	rows, err := ch.queryService.Experiments(c.Request.Context(), id)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"experiments": rows})
}

// GET /me
func (ch *CollectionHandler) GetMe(c *gin.Context) {
	id, err := callerIdentity(c)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	profile, err := ch.queryService.Profile(c.Request.Context(), id)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"me": profile})
}

// GET /experiments/:id/lineage
func (ch *CollectionHandler) GetLineage(c *gin.Context) {
	id, err := callerIdentity(c)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	experimentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, apierr.Validationf("id", "must be a uuid"))
		return
	}
	nodes, err := ch.queryService.Lineage(c.Request.Context(), id, experimentID)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"lineage": nodes})
}
