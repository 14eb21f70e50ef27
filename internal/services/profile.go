package services

import (
	"context"
	"fmt"

	"github.com/modelyard/modelyard-backend/internal/cache"
	"github.com/modelyard/modelyard-backend/internal/gateway"
	"github.com/modelyard/modelyard-backend/internal/identity"
	"github.com/modelyard/modelyard-backend/internal/platform/apierr"
	"github.com/modelyard/modelyard-backend/internal/platform/logger"
	"github.com/modelyard/modelyard-backend/internal/realtime/bus"
	"github.com/modelyard/modelyard-backend/internal/types"
)

type UpdateProfileInput struct {
	FullName *string `json:"full_name,omitempty"`
	Email    *string `json:"email,omitempty"`
}

// ProfileService updates the caller's own profile row. Profile creation
// belongs to the identity collaborator (rows appear at signup); updates are
// last-write-wins like every gateway write.
type ProfileService interface {
	Update(ctx context.Context, id identity.Identity, input UpdateProfileInput) (*types.Profile, error)
}

type profileService struct {
	log *logger.Logger
	gw  gateway.Gateway
	inv invalidator
}

func NewProfileService(baseLog *logger.Logger, gw gateway.Gateway, store *cache.Store, invBus bus.Bus) ProfileService {
	serviceLog := baseLog.With("service", "ProfileService")
	return &profileService{
		log: serviceLog,
		gw:  gw,
		inv: invalidator{log: serviceLog, cache: store, bus: invBus},
	}
}

func (s *profileService) Update(ctx context.Context, id identity.Identity, input UpdateProfileInput) (*types.Profile, error) {
	if id.Zero() {
		return nil, apierr.Unauthorized(fmt.Errorf("no active identity"))
	}
	probe := &types.Profile{FullName: input.FullName, Email: input.Email}
	if fieldErrs := probe.Validate(); len(fieldErrs) > 0 {
		return nil, apierr.Validation(fieldErrs)
	}
	updated, err := s.gw.UpdateProfile(ctx, id.UserID, gateway.ProfilePatch{
		FullName: input.FullName,
		Email:    input.Email,
	})
	if err != nil {
		return nil, err
	}
	s.inv.invalidate(ctx, types.KindProfile, id.UserID)
	return updated, nil
}
