package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/modelyard/modelyard-backend/internal/http/response"
	"github.com/modelyard/modelyard-backend/internal/platform/apierr"
	"github.com/modelyard/modelyard-backend/internal/services"
)

type ProfileHandler struct {
	profileService services.ProfileService
}

func NewProfileHandler(profileService services.ProfileService) *ProfileHandler {
	return &ProfileHandler{profileService: profileService}
}

// PATCH /me
func (ph *ProfileHandler) Update(c *gin.Context) {
	id, err := callerIdentity(c)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	var input services.UpdateProfileInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.RespondError(c, apierr.Validationf("body", "invalid json: %s", err.Error()))
		return
	}
	if input.FullName == nil && input.Email == nil {
		response.RespondError(c, apierr.Validationf("body", "no profile changes provided"))
		return
	}
	updated, err := ph.profileService.Update(c.Request.Context(), id, input)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"me": updated})
}
