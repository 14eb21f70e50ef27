package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/modelyard/modelyard-backend/internal/analytics"
	"github.com/modelyard/modelyard-backend/internal/cache"
	"github.com/modelyard/modelyard-backend/internal/gateway"
	"github.com/modelyard/modelyard-backend/internal/identity"
	"github.com/modelyard/modelyard-backend/internal/platform/apierr"
	"github.com/modelyard/modelyard-backend/internal/platform/logger"
	"github.com/modelyard/modelyard-backend/internal/types"
)

// QueryService is the read path: every collection request goes through the
// synchronization cache, so concurrent views coalesce onto one gateway fetch
// and reads after a mutation see the refreshed snapshot. The Stale variants
// serve a previous snapshot immediately while a refresh runs in the
// background; derived analytics views use them, collection lists that must
// reflect the caller's own writes use the strict readers.
type QueryService interface {
	Datasets(ctx context.Context, id identity.Identity) ([]*types.Dataset, error)
	DatasetsStale(ctx context.Context, id identity.Identity) ([]*types.Dataset, bool, error)
	Models(ctx context.Context, id identity.Identity) ([]*types.Model, error)
	ModelsStale(ctx context.Context, id identity.Identity) ([]*types.Model, bool, error)
	Experiments(ctx context.Context, id identity.Identity) ([]*types.Experiment, error)
	Profile(ctx context.Context, id identity.Identity) (*types.Profile, error)
	Lineage(ctx context.Context, id identity.Identity, experimentID uuid.UUID) ([]analytics.LineageNode, error)
}

type queryService struct {
	log   *logger.Logger
	gw    gateway.Gateway
	cache *cache.Store
}

func NewQueryService(baseLog *logger.Logger, gw gateway.Gateway, store *cache.Store) QueryService {
	return &queryService{
		log:   baseLog.With("service", "QueryService"),
		gw:    gw,
		cache: store,
	}
}

func (s *queryService) Datasets(ctx context.Context, id identity.Identity) ([]*types.Dataset, error) {
	snap, err := s.cache.Get(ctx, cache.Key{Kind: types.KindDataset, Owner: id.UserID}, func(ctx context.Context) (interface{}, error) {
		return s.gw.ListDatasets(ctx, id.UserID)
	})
	if err != nil {
		return nil, err
	}
	return snap.([]*types.Dataset), nil
}

func (s *queryService) DatasetsStale(ctx context.Context, id identity.Identity) ([]*types.Dataset, bool, error) {
	snap, stale, err := s.cache.GetStale(ctx, cache.Key{Kind: types.KindDataset, Owner: id.UserID}, func(ctx context.Context) (interface{}, error) {
		return s.gw.ListDatasets(ctx, id.UserID)
	})
	if err != nil {
		return nil, false, err
	}
	return snap.([]*types.Dataset), stale, nil
}

func (s *queryService) Models(ctx context.Context, id identity.Identity) ([]*types.Model, error) {
	snap, err := s.cache.Get(ctx, cache.Key{Kind: types.KindModel, Owner: id.UserID}, func(ctx context.Context) (interface{}, error) {
		return s.gw.ListModels(ctx, id.UserID)
	})
	if err != nil {
		return nil, err
	}
	return snap.([]*types.Model), nil
}

func (s *queryService) ModelsStale(ctx context.Context, id identity.Identity) ([]*types.Model, bool, error) {
	snap, stale, err := s.cache.GetStale(ctx, cache.Key{Kind: types.KindModel, Owner: id.UserID}, func(ctx context.Context) (interface{}, error) {
		return s.gw.ListModels(ctx, id.UserID)
	})
	if err != nil {
		return nil, false, err
	}
	return snap.([]*types.Model), stale, nil
}

func (s *queryService) Experiments(ctx context.Context, id identity.Identity) ([]*types.Experiment, error) {
	snap, err := s.cache.Get(ctx, cache.Key{Kind: types.KindExperiment, Owner: id.UserID}, func(ctx context.Context) (interface{}, error) {
		return s.gw.ListExperiments(ctx, id.UserID)
	})
	if err != nil {
		return nil, err
	}
	return snap.([]*types.Experiment), nil
}

func (s *queryService) Profile(ctx context.Context, id identity.Identity) (*types.Profile, error) {
	snap, err := s.cache.Get(ctx, cache.Key{Kind: types.KindProfile, Owner: id.UserID}, func(ctx context.Context) (interface{}, error) {
		return s.gw.GetProfile(ctx, id.UserID)
	})
	if err != nil {
		return nil, err
	}
	return snap.(*types.Profile), nil
}

// Lineage resolves an experiment's dataset/model references against the
// cached collections and assembles the provenance chain.
func (s *queryService) Lineage(ctx context.Context, id identity.Identity, experimentID uuid.UUID) ([]analytics.LineageNode, error) {
	experiments, err := s.Experiments(ctx, id)
	if err != nil {
		return nil, err
	}
	var exp *types.Experiment
	for _, e := range experiments {
		if e.ID == experimentID {
			exp = e
			break
		}
	}
	if exp == nil {
		return nil, apierr.NotFound(fmt.Errorf("experiment %s not found in caller scope", experimentID))
	}

	var dataset *types.Dataset
	if exp.DatasetID != nil {
		datasets, err := s.Datasets(ctx, id)
		if err != nil {
			return nil, err
		}
		for _, d := range datasets {
			if d.ID == *exp.DatasetID {
				dataset = d
				break
			}
		}
	}

	var model *types.Model
	if exp.ModelID != nil {
		models, err := s.Models(ctx, id)
		if err != nil {
			return nil, err
		}
		for _, m := range models {
			if m.ID == *exp.ModelID {
				model = m
				break
			}
		}
	}

	return analytics.AssembleLineage(exp, dataset, model), nil
}
