package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/modelyard/modelyard-backend/internal/cache"
	"github.com/modelyard/modelyard-backend/internal/http/response"
)

// SessionHandler covers the local end of the identity lifecycle. Tokens are
// issued and revoked by the external identity collaborator; sign-out here
// only drops the caller's cached snapshots so they do not outlive the
// session.
type SessionHandler struct {
	store *cache.Store
}

func NewSessionHandler(store *cache.Store) *SessionHandler {
	return &SessionHandler{store: store}
}

// POST /auth/signout
func (sh *SessionHandler) SignOut(c *gin.Context) {
	id, err := callerIdentity(c)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	if sh.store != nil {
		sh.store.Reset(id.UserID)
	}
	response.RespondOK(c, gin.H{"signed_out": true})
}
