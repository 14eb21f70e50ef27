package gateway

import (
	"context"

	"github.com/google/uuid"

	"github.com/modelyard/modelyard-backend/internal/types"
)

// Gateway is the sole channel to the remote metadata store. Every call is
// scoped to the owner identity; rows outside that scope do not exist as far
// as callers are concerned. The gateway performs no retries; an unavailable
// backend is surfaced as-is and retry policy belongs to the caller.
//
// Updates are last-write-wins: the store keeps no concurrency token, and two
// racing updates to the same row resolve at the store's discretion.
type Gateway interface {
	ListDatasets(ctx context.Context, owner uuid.UUID) ([]*types.Dataset, error)
	ListModels(ctx context.Context, owner uuid.UUID) ([]*types.Model, error)
	ListExperiments(ctx context.Context, owner uuid.UUID) ([]*types.Experiment, error)
	GetProfile(ctx context.Context, owner uuid.UUID) (*types.Profile, error)

	InsertDataset(ctx context.Context, owner uuid.UUID, row *types.Dataset) (*types.Dataset, error)
	InsertModel(ctx context.Context, owner uuid.UUID, row *types.Model) (*types.Model, error)
	InsertExperiment(ctx context.Context, owner uuid.UUID, row *types.Experiment) (*types.Experiment, error)

	UpdateDataset(ctx context.Context, owner, id uuid.UUID, patch DatasetPatch) (*types.Dataset, error)
	UpdateProfile(ctx context.Context, owner uuid.UUID, patch ProfilePatch) (*types.Profile, error)
}

// DatasetPatch carries only the fields a caller may change; nil means leave
// untouched. Ownership and timestamps are never client-supplied.
type DatasetPatch struct {
	Name         *string `json:"name,omitempty"`
	Description  *string `json:"description,omitempty"`
	Format       *string `json:"format,omitempty"`
	SizeBytes    *int64  `json:"size_bytes,omitempty"`
	QualityScore *int    `json:"quality_score,omitempty"`
	FileURL      *string `json:"file_url,omitempty"`
	Version      *string `json:"version,omitempty"`
}

type ProfilePatch struct {
	FullName *string `json:"full_name,omitempty"`
	Email    *string `json:"email,omitempty"`
}
