package gateway

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"github.com/modelyard/modelyard-backend/internal/platform/apierr"
	"github.com/modelyard/modelyard-backend/internal/platform/logger"
	"github.com/modelyard/modelyard-backend/internal/types"
)

type postgresGateway struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPostgresGateway(db *gorm.DB, baseLog *logger.Logger) Gateway {
	gwLog := baseLog.With("service", "PostgresGateway")
	return &postgresGateway{db: db, log: gwLog}
}

func requireOwner(owner uuid.UUID) error {
	if owner == uuid.Nil {
		return apierr.Unauthorized(fmt.Errorf("gateway call without an active identity"))
	}
	return nil
}

// classify maps storage errors onto the failure taxonomy. Anything the
// postgres driver cannot name is treated as a transport failure.
func classify(err error, field string) error {
	if err == nil {
		return nil
	}
	var ae *apierr.Error
	if errors.As(err, &ae) {
		return err
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apierr.NotFound(err)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // unique_violation
			return apierr.Conflict(field, err)
		case "23503": // foreign_key_violation
			return apierr.Conflict(field, err)
		}
	}
	return apierr.Unavailable(err)
}

func (g *postgresGateway) ListDatasets(ctx context.Context, owner uuid.UUID) ([]*types.Dataset, error) {
	if err := requireOwner(owner); err != nil {
		return nil, err
	}
	var rows []*types.Dataset
	err := g.db.WithContext(ctx).
		Where("user_id = ?", owner).
		Order("created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, classify(err, "")
	}
	return rows, nil
}

// ListModels orders by accuracy descending for leaderboard semantics; rows
// without an accuracy sort last, ties break newest-first.
func (g *postgresGateway) ListModels(ctx context.Context, owner uuid.UUID) ([]*types.Model, error) {
	if err := requireOwner(owner); err != nil {
		return nil, err
	}
	var rows []*types.Model
	err := g.db.WithContext(ctx).
		Where("user_id = ?", owner).
		Order("accuracy DESC NULLS LAST, created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, classify(err, "")
	}
	return rows, nil
}

func (g *postgresGateway) ListExperiments(ctx context.Context, owner uuid.UUID) ([]*types.Experiment, error) {
	if err := requireOwner(owner); err != nil {
		return nil, err
	}
	var rows []*types.Experiment
	err := g.db.WithContext(ctx).
		Where("user_id = ?", owner).
		Order("created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, classify(err, "")
	}
	return rows, nil
}

func (g *postgresGateway) GetProfile(ctx context.Context, owner uuid.UUID) (*types.Profile, error) {
	if err := requireOwner(owner); err != nil {
		return nil, err
	}
	var row types.Profile
	err := g.db.WithContext(ctx).
		Where("user_id = ?", owner).
		First(&row).Error
	if err != nil {
		return nil, classify(err, "")
	}
	return &row, nil
}

func (g *postgresGateway) InsertDataset(ctx context.Context, owner uuid.UUID, row *types.Dataset) (*types.Dataset, error) {
	if err := requireOwner(owner); err != nil {
		return nil, err
	}
	row.UserID = owner
	if err := g.db.WithContext(ctx).Create(row).Error; err != nil {
		g.log.Error("dataset insert failed", "error", err, "owner", owner)
		return nil, classify(err, "name")
	}
	return row, nil
}

func (g *postgresGateway) InsertModel(ctx context.Context, owner uuid.UUID, row *types.Model) (*types.Model, error) {
	if err := requireOwner(owner); err != nil {
		return nil, err
	}
	row.UserID = owner
	if err := g.db.WithContext(ctx).Create(row).Error; err != nil {
		g.log.Error("model insert failed", "error", err, "owner", owner)
		return nil, classify(err, "name")
	}
	return row, nil
}

// InsertExperiment enforces referential scoping, not just existence: a
// dataset or model reference must resolve within the owner's scope.
func (g *postgresGateway) InsertExperiment(ctx context.Context, owner uuid.UUID, row *types.Experiment) (*types.Experiment, error) {
	if err := requireOwner(owner); err != nil {
		return nil, err
	}
	row.UserID = owner
	if row.DatasetID != nil {
		ok, err := g.ownedRowExists(ctx, &types.Dataset{}, owner, *row.DatasetID)
		if err != nil {
			return nil, classify(err, "dataset_id")
		}
		if !ok {
			return nil, apierr.Conflict("dataset_id", fmt.Errorf("dataset %s not found in caller scope", row.DatasetID))
		}
	}
	if row.ModelID != nil {
		ok, err := g.ownedRowExists(ctx, &types.Model{}, owner, *row.ModelID)
		if err != nil {
			return nil, classify(err, "model_id")
		}
		if !ok {
			return nil, apierr.Conflict("model_id", fmt.Errorf("model %s not found in caller scope", row.ModelID))
		}
	}
	if err := g.db.WithContext(ctx).Create(row).Error; err != nil {
		g.log.Error("experiment insert failed", "error", err, "owner", owner)
		return nil, classify(err, "")
	}
	return row, nil
}

func (g *postgresGateway) ownedRowExists(ctx context.Context, model interface{}, owner, id uuid.UUID) (bool, error) {
	var count int64
	err := g.db.WithContext(ctx).
		Model(model).
		Where("id = ? AND user_id = ?", id, owner).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (g *postgresGateway) UpdateDataset(ctx context.Context, owner, id uuid.UUID, patch DatasetPatch) (*types.Dataset, error) {
	if err := requireOwner(owner); err != nil {
		return nil, err
	}
	updates := map[string]interface{}{}
	if patch.Name != nil {
		updates["name"] = *patch.Name
	}
	if patch.Description != nil {
		updates["description"] = *patch.Description
	}
	if patch.Format != nil {
		updates["format"] = *patch.Format
	}
	if patch.SizeBytes != nil {
		updates["size_bytes"] = *patch.SizeBytes
	}
	if patch.QualityScore != nil {
		updates["quality_score"] = *patch.QualityScore
	}
	if patch.FileURL != nil {
		updates["file_url"] = *patch.FileURL
	}
	if patch.Version != nil {
		updates["version"] = *patch.Version
	}
	if len(updates) > 0 {
		res := g.db.WithContext(ctx).
			Model(&types.Dataset{}).
			Where("id = ? AND user_id = ?", id, owner).
			Updates(updates)
		if res.Error != nil {
			return nil, classify(res.Error, "")
		}
		if res.RowsAffected == 0 {
			return nil, apierr.NotFound(fmt.Errorf("dataset %s not found in caller scope", id))
		}
	}
	var row types.Dataset
	if err := g.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, owner).First(&row).Error; err != nil {
		return nil, classify(err, "")
	}
	return &row, nil
}

func (g *postgresGateway) UpdateProfile(ctx context.Context, owner uuid.UUID, patch ProfilePatch) (*types.Profile, error) {
	if err := requireOwner(owner); err != nil {
		return nil, err
	}
	updates := map[string]interface{}{}
	if patch.FullName != nil {
		updates["full_name"] = *patch.FullName
	}
	if patch.Email != nil {
		updates["email"] = *patch.Email
	}
	if len(updates) > 0 {
		res := g.db.WithContext(ctx).
			Model(&types.Profile{}).
			Where("user_id = ?", owner).
			Updates(updates)
		if res.Error != nil {
			return nil, classify(res.Error, "email")
		}
		if res.RowsAffected == 0 {
			// Profiles normally appear at signup, but the identity
			// collaborator may lag; create the row instead of failing.
			row := &types.Profile{
				UserID:   owner,
				FullName: patch.FullName,
				Email:    patch.Email,
			}
			if err := g.db.WithContext(ctx).Create(row).Error; err != nil {
				return nil, classify(err, "email")
			}
			return row, nil
		}
	}
	return g.GetProfile(ctx, owner)
}
