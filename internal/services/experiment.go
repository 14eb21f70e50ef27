package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/modelyard/modelyard-backend/internal/cache"
	"github.com/modelyard/modelyard-backend/internal/gateway"
	"github.com/modelyard/modelyard-backend/internal/identity"
	"github.com/modelyard/modelyard-backend/internal/platform/apierr"
	"github.com/modelyard/modelyard-backend/internal/platform/logger"
	"github.com/modelyard/modelyard-backend/internal/realtime/bus"
	"github.com/modelyard/modelyard-backend/internal/types"
)

type CreateExperimentInput struct {
	Name            string                 `json:"name"`
	DatasetID       *uuid.UUID             `json:"dataset_id,omitempty"`
	ModelID         *uuid.UUID             `json:"model_id,omitempty"`
	Accuracy        *float64               `json:"accuracy,omitempty"`
	F1Score         *float64               `json:"f1_score,omitempty"`
	DurationSeconds *int                   `json:"duration_seconds,omitempty"`
	Status          string                 `json:"status,omitempty"`
	Hyperparameters map[string]interface{} `json:"hyperparameters,omitempty"`
}

type ExperimentService interface {
	Create(ctx context.Context, id identity.Identity, input CreateExperimentInput) (*types.Experiment, error)
}

type experimentService struct {
	log *logger.Logger
	gw  gateway.Gateway
	inv invalidator
}

func NewExperimentService(baseLog *logger.Logger, gw gateway.Gateway, store *cache.Store, invBus bus.Bus) ExperimentService {
	serviceLog := baseLog.With("service", "ExperimentService")
	return &experimentService{
		log: serviceLog,
		gw:  gw,
		inv: invalidator{log: serviceLog, cache: store, bus: invBus},
	}
}

func (s *experimentService) Create(ctx context.Context, id identity.Identity, input CreateExperimentInput) (*types.Experiment, error) {
	if id.Zero() {
		return nil, apierr.Unauthorized(fmt.Errorf("no active identity"))
	}
	row := &types.Experiment{
		Name:            input.Name,
		DatasetID:       input.DatasetID,
		ModelID:         input.ModelID,
		Accuracy:        input.Accuracy,
		F1Score:         input.F1Score,
		DurationSeconds: input.DurationSeconds,
		Status:          types.ExperimentStatus(input.Status),
		Hyperparameters: datatypes.JSONMap(input.Hyperparameters),
	}
	if fieldErrs := row.Validate(); len(fieldErrs) > 0 {
		return nil, apierr.Validation(fieldErrs)
	}
	created, err := s.gw.InsertExperiment(ctx, id.UserID, row)
	if err != nil {
		return nil, err
	}
	s.inv.invalidate(ctx, types.KindExperiment, id.UserID)
	return created, nil
}
