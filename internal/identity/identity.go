package identity

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/modelyard/modelyard-backend/internal/platform/apierr"
)

// Identity is the authenticated actor owning and mutating entities. It is
// threaded explicitly into gateway, cache and mutation calls; core packages
// never read ambient session state.
type Identity struct {
	UserID uuid.UUID
}

func (id Identity) Zero() bool { return id.UserID == uuid.Nil }

type ctxKey struct{}

func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

func FromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(ctxKey{}).(Identity)
	return id, ok && !id.Zero()
}

// Require resolves the caller identity or fails with the unauthorized code.
func Require(ctx context.Context) (Identity, error) {
	id, ok := FromContext(ctx)
	if !ok {
		return Identity{}, apierr.Unauthorized(fmt.Errorf("no active identity"))
	}
	return id, nil
}
