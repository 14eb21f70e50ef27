package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/modelyard/modelyard-backend/internal/cache"
	"github.com/modelyard/modelyard-backend/internal/platform/logger"
	"github.com/modelyard/modelyard-backend/internal/realtime/bus"
	"github.com/modelyard/modelyard-backend/internal/types"
)

// invalidator marks a cache key dirty after a successful write and, when a
// bus is wired, tells the other processes to do the same. It runs only after
// the gateway confirmed the mutation.
type invalidator struct {
	log   *logger.Logger
	cache *cache.Store
	bus   bus.Bus
}

func (iv invalidator) invalidate(ctx context.Context, kind types.Kind, owner uuid.UUID) {
	iv.cache.Invalidate(cache.Key{Kind: kind, Owner: owner})
	if iv.bus != nil {
		if err := iv.bus.Publish(ctx, bus.InvalidationEvent{Kind: kind, Owner: owner}); err != nil {
			iv.log.Warn("invalidation broadcast failed", "kind", kind, "error", err)
		}
	}
}
