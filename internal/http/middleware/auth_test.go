package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/modelyard/modelyard-backend/internal/cache"
	"github.com/modelyard/modelyard-backend/internal/identity"
	"github.com/modelyard/modelyard-backend/internal/platform/apierr"
	"github.com/modelyard/modelyard-backend/internal/platform/logger"
	"github.com/modelyard/modelyard-backend/internal/types"
)

const testSecret = "test-secret"

func signToken(t *testing.T, userID uuid.UUID) string {
	t.Helper()
	claims := identity.Claims{
		UserID: userID.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func newAuthRig(t *testing.T) (*gin.Engine, *identity.Identity) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	am := NewAuthMiddleware(logger.NewNop(), identity.NewHS256Verifier(testSecret))

	var seen identity.Identity
	r := gin.New()
	r.GET("/whoami", am.RequireAuth(), func(c *gin.Context) {
		id, err := identity.Require(c.Request.Context())
		if err != nil {
			c.Status(http.StatusInternalServerError)
			return
		}
		seen = id
		c.Status(http.StatusOK)
	})
	return r, &seen
}

func TestRequireAuthRejectsMissingToken(t *testing.T) {
	r, _ := newAuthRig(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/whoami", nil))
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without a token, got %d", w.Code)
	}
}

func TestRequireAuthRejectsGarbageToken(t *testing.T) {
	r, _ := newAuthRig(t)

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer not-a-jwt")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for a garbage token, got %d", w.Code)
	}
}

func TestRequireAuthAttachesIdentity(t *testing.T) {
	r, seen := newAuthRig(t)
	userID := uuid.New()

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, userID))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 with a valid token, got %d (%s)", w.Code, w.Body.String())
	}
	if seen.UserID != userID {
		t.Fatalf("handler saw identity %s, want %s", seen.UserID, userID)
	}
}

// Two operators hammering the same server must never fail each other's
// authenticated reads: cache entries are keyed per owner, and no request
// rescopes shared state.
func TestRequireAuthConcurrentCallersStayIsolated(t *testing.T) {
	gin.SetMode(gin.TestMode)
	store := cache.NewStore(logger.NewNop())
	am := NewAuthMiddleware(logger.NewNop(), identity.NewHS256Verifier(testSecret))

	r := gin.New()
	r.GET("/datasets", am.RequireAuth(), func(c *gin.Context) {
		id, err := identity.Require(c.Request.Context())
		if err != nil {
			c.String(http.StatusInternalServerError, err.Error())
			return
		}
		key := cache.Key{Kind: types.KindDataset, Owner: id.UserID}
		snap, err := store.Get(c.Request.Context(), key, func(ctx context.Context) (interface{}, error) {
			return id.UserID.String(), nil
		})
		if err != nil {
			c.String(apierr.HTTPStatus(err), err.Error())
			return
		}
		c.String(http.StatusOK, snap.(string))
	})

	callers := []uuid.UUID{uuid.New(), uuid.New()}
	tokens := []string{signToken(t, callers[0]), signToken(t, callers[1])}

	const requests = 100
	var wg sync.WaitGroup
	codes := make([]int, requests)
	bodies := make([]string, requests)
	for i := 0; i < requests; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			req := httptest.NewRequest(http.MethodGet, "/datasets", nil)
			req.Header.Set("Authorization", "Bearer "+tokens[i%2])
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			codes[i] = w.Code
			bodies[i] = w.Body.String()
		}(i)
	}
	wg.Wait()

	for i := 0; i < requests; i++ {
		if codes[i] != http.StatusOK {
			t.Fatalf("request %d: valid token got %d (%s)", i, codes[i], bodies[i])
		}
		if want := callers[i%2].String(); bodies[i] != want {
			t.Fatalf("request %d: served %q, want own snapshot %q", i, bodies[i], want)
		}
	}
}
