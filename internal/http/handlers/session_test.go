package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/modelyard/modelyard-backend/internal/cache"
	"github.com/modelyard/modelyard-backend/internal/identity"
	"github.com/modelyard/modelyard-backend/internal/platform/logger"
	"github.com/modelyard/modelyard-backend/internal/types"
)

func TestSignOutDropsOnlyCallersSnapshots(t *testing.T) {
	gin.SetMode(gin.TestMode)
	store := cache.NewStore(logger.NewNop())
	caller := identity.Identity{UserID: uuid.New()}
	other := uuid.New()

	fetch := func(ctx context.Context) (interface{}, error) { return "snapshot", nil }
	callerKey := cache.Key{Kind: types.KindDataset, Owner: caller.UserID}
	otherKey := cache.Key{Kind: types.KindDataset, Owner: other}
	if _, err := store.Get(context.Background(), callerKey, fetch); err != nil {
		t.Fatalf("warm caller entry: %v", err)
	}
	if _, err := store.Get(context.Background(), otherKey, fetch); err != nil {
		t.Fatalf("warm other entry: %v", err)
	}

	sh := NewSessionHandler(store)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Request = c.Request.WithContext(identity.WithIdentity(c.Request.Context(), caller))
		c.Next()
	})
	r.POST("/auth/signout", sh.SignOut)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/auth/signout", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", w.Code, w.Body.String())
	}
	if _, ok := store.Snapshot(callerKey); ok {
		t.Fatalf("sign-out must drop the caller's snapshots")
	}
	if _, ok := store.Snapshot(otherKey); !ok {
		t.Fatalf("sign-out must not touch another operator's snapshots")
	}
}
