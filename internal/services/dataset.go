package services

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/modelyard/modelyard-backend/internal/cache"
	"github.com/modelyard/modelyard-backend/internal/gateway"
	"github.com/modelyard/modelyard-backend/internal/identity"
	"github.com/modelyard/modelyard-backend/internal/platform/apierr"
	"github.com/modelyard/modelyard-backend/internal/platform/logger"
	"github.com/modelyard/modelyard-backend/internal/quality"
	"github.com/modelyard/modelyard-backend/internal/realtime/bus"
	"github.com/modelyard/modelyard-backend/internal/storage"
	"github.com/modelyard/modelyard-backend/internal/types"
)

type CreateDatasetInput struct {
	Name         string  `json:"name"`
	Description  *string `json:"description,omitempty"`
	Format       *string `json:"format,omitempty"`
	SizeBytes    *int64  `json:"size_bytes,omitempty"`
	QualityScore *int    `json:"quality_score,omitempty"`
	FileURL      *string `json:"file_url,omitempty"`
	Version      *string `json:"version,omitempty"`
}

type ArtifactRef struct {
	Key string `json:"key"`
	URL string `json:"url"`
}

type ArtifactUpload struct {
	FileName  string
	SizeBytes int64
	File      io.Reader
}

type DatasetService interface {
	Create(ctx context.Context, id identity.Identity, input CreateDatasetInput) (*types.Dataset, error)
	Update(ctx context.Context, id identity.Identity, datasetID uuid.UUID, patch gateway.DatasetPatch) (*types.Dataset, error)
	UploadArtifact(ctx context.Context, id identity.Identity, upload ArtifactUpload) (ArtifactRef, error)
	CreateFromUpload(ctx context.Context, id identity.Identity, upload ArtifactUpload) (*types.Dataset, error)
	CreateFromUploads(ctx context.Context, id identity.Identity, uploads []ArtifactUpload) ([]*types.Dataset, error)
}

type datasetService struct {
	log      *logger.Logger
	gw       gateway.Gateway
	bucket   storage.BucketService
	assessor quality.Assessor
	inv      invalidator
}

func NewDatasetService(
	baseLog *logger.Logger,
	gw gateway.Gateway,
	store *cache.Store,
	invBus bus.Bus,
	bucket storage.BucketService,
	assessor quality.Assessor,
) DatasetService {
	serviceLog := baseLog.With("service", "DatasetService")
	return &datasetService{
		log:      serviceLog,
		gw:       gw,
		bucket:   bucket,
		assessor: assessor,
		inv:      invalidator{log: serviceLog, cache: store, bus: invBus},
	}
}

func (s *datasetService) Create(ctx context.Context, id identity.Identity, input CreateDatasetInput) (*types.Dataset, error) {
	if id.Zero() {
		return nil, apierr.Unauthorized(fmt.Errorf("no active identity"))
	}
	row := &types.Dataset{
		Name:         input.Name,
		Description:  input.Description,
		Format:       input.Format,
		SizeBytes:    input.SizeBytes,
		QualityScore: input.QualityScore,
		FileURL:      input.FileURL,
		Version:      input.Version,
	}
	if fieldErrs := row.Validate(); len(fieldErrs) > 0 {
		return nil, apierr.Validation(fieldErrs)
	}
	created, err := s.gw.InsertDataset(ctx, id.UserID, row)
	if err != nil {
		return nil, err
	}
	s.inv.invalidate(ctx, types.KindDataset, id.UserID)
	return created, nil
}

func (s *datasetService) Update(ctx context.Context, id identity.Identity, datasetID uuid.UUID, patch gateway.DatasetPatch) (*types.Dataset, error) {
	if id.Zero() {
		return nil, apierr.Unauthorized(fmt.Errorf("no active identity"))
	}
	if patch.Name != nil && strings.TrimSpace(*patch.Name) == "" {
		return nil, apierr.Validationf("name", "required")
	}
	if patch.QualityScore != nil && (*patch.QualityScore < 0 || *patch.QualityScore > 100) {
		return nil, apierr.Validationf("quality_score", "must be between 0 and 100")
	}
	updated, err := s.gw.UpdateDataset(ctx, id.UserID, datasetID, patch)
	if err != nil {
		return nil, err
	}
	s.inv.invalidate(ctx, types.KindDataset, id.UserID)
	return updated, nil
}

// UploadArtifact writes the raw file under a collision-resistant key and
// returns the reference a subsequent Create can point at.
func (s *datasetService) UploadArtifact(ctx context.Context, id identity.Identity, upload ArtifactUpload) (ArtifactRef, error) {
	if id.Zero() {
		return ArtifactRef{}, apierr.Unauthorized(fmt.Errorf("no active identity"))
	}
	name := sanitizeFileName(upload.FileName)
	if name == "" {
		return ArtifactRef{}, apierr.Validationf("file_name", "required")
	}
	key := fmt.Sprintf("%s/%d-%s_%s", id.UserID, time.Now().UnixMilli(), shortID(), name)
	if err := s.bucket.Upload(ctx, key, upload.File); err != nil {
		return ArtifactRef{}, apierr.Unavailable(err)
	}
	return ArtifactRef{Key: key, URL: s.bucket.PublicURL(key)}, nil
}

// CreateFromUpload runs the two-step flow: artifact first, metadata second.
// A failed upload aborts before any gateway call, so no orphaned dataset row
// can exist. Invalidation happens only after both steps succeeded.
func (s *datasetService) CreateFromUpload(ctx context.Context, id identity.Identity, upload ArtifactUpload) (*types.Dataset, error) {
	ref, err := s.UploadArtifact(ctx, id, upload)
	if err != nil {
		return nil, err
	}
	format := strings.ToLower(strings.TrimPrefix(filepath.Ext(upload.FileName), "."))
	if format == "" {
		format = "csv"
	}
	score := s.assessor.Assess(upload.FileName, upload.SizeBytes)
	size := upload.SizeBytes
	input := CreateDatasetInput{
		Name:         upload.FileName,
		Format:       &format,
		SizeBytes:    &size,
		QualityScore: &score,
		FileURL:      &ref.Key,
	}
	created, err := s.Create(ctx, id, input)
	if err != nil {
		// The metadata write failed; drop the artifact so storage does not
		// accumulate unreferenced files.
		if delErr := s.bucket.Delete(ctx, ref.Key); delErr != nil {
			s.log.Warn("orphaned artifact cleanup failed", "key", ref.Key, "error", delErr)
		}
		return nil, err
	}
	return created, nil
}

func (s *datasetService) CreateFromUploads(ctx context.Context, id identity.Identity, uploads []ArtifactUpload) ([]*types.Dataset, error) {
	results := make([]*types.Dataset, len(uploads))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for i, u := range uploads {
		g.Go(func() error {
			created, err := s.CreateFromUpload(gctx, id, u)
			if err != nil {
				return err
			}
			results[i] = created
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func sanitizeFileName(name string) string {
	name = filepath.Base(strings.TrimSpace(name))
	if name == "." || name == string(filepath.Separator) {
		return ""
	}
	return strings.ReplaceAll(name, " ", "_")
}

func shortID() string {
	return strings.Split(uuid.NewString(), "-")[0]
}
