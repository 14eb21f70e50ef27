package identity

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/modelyard/modelyard-backend/internal/platform/apierr"
)

// Verifier checks bearer tokens issued by the external identity collaborator.
// Token issuance (login, refresh) is not this service's concern.
type Verifier interface {
	Verify(tokenString string) (Identity, error)
}

type Claims struct {
	UserID string `json:"user_id"`
	jwt.RegisteredClaims
}

type hs256Verifier struct {
	secret []byte
}

func NewHS256Verifier(secret string) Verifier {
	return &hs256Verifier{secret: []byte(secret)}
}

func (v *hs256Verifier) Verify(tokenString string) (Identity, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return v.secret, nil
	})
	if err != nil {
		return Identity{}, apierr.Unauthorized(err)
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return Identity{}, apierr.Unauthorized(fmt.Errorf("invalid token"))
	}
	userID, err := uuid.Parse(claims.UserID)
	if err != nil || userID == uuid.Nil {
		return Identity{}, apierr.Unauthorized(fmt.Errorf("token has no usable subject"))
	}
	return Identity{UserID: userID}, nil
}
