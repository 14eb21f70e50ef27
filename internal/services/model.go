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

type CreateModelInput struct {
	Name      string   `json:"name"`
	Type      *string  `json:"type,omitempty"`
	Accuracy  *float64 `json:"accuracy,omitempty"`
	F1Score   *float64 `json:"f1_score,omitempty"`
	ROCAUC    *float64 `json:"roc_auc,omitempty"`
	Status    string   `json:"status,omitempty"`
	TrainTime *string  `json:"train_time,omitempty"`
}

type ModelService interface {
	Create(ctx context.Context, id identity.Identity, input CreateModelInput) (*types.Model, error)
}

type modelService struct {
	log *logger.Logger
	gw  gateway.Gateway
	inv invalidator
}

func NewModelService(baseLog *logger.Logger, gw gateway.Gateway, store *cache.Store, invBus bus.Bus) ModelService {
	serviceLog := baseLog.With("service", "ModelService")
	return &modelService{
		log: serviceLog,
		gw:  gw,
		inv: invalidator{log: serviceLog, cache: store, bus: invBus},
	}
}

func (s *modelService) Create(ctx context.Context, id identity.Identity, input CreateModelInput) (*types.Model, error) {
	if id.Zero() {
		return nil, apierr.Unauthorized(fmt.Errorf("no active identity"))
	}
	row := &types.Model{
		Name:      input.Name,
		Type:      input.Type,
		Accuracy:  input.Accuracy,
		F1Score:   input.F1Score,
		ROCAUC:    input.ROCAUC,
		Status:    types.ModelStatus(input.Status),
		TrainTime: input.TrainTime,
	}
	if fieldErrs := row.Validate(); len(fieldErrs) > 0 {
		return nil, apierr.Validation(fieldErrs)
	}
	created, err := s.gw.InsertModel(ctx, id.UserID, row)
	if err != nil {
		return nil, err
	}
	s.inv.invalidate(ctx, types.KindModel, id.UserID)
	return created, nil
}
