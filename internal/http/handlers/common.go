package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/modelyard/modelyard-backend/internal/identity"
)

func callerIdentity(c *gin.Context) (identity.Identity, error) {
	return identity.Require(c.Request.Context())
}
