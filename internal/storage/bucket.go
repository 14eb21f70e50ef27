package storage

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"

	gcs "cloud.google.com/go/storage"
	"google.golang.org/api/option"

	"github.com/modelyard/modelyard-backend/internal/platform/envutil"
	"github.com/modelyard/modelyard-backend/internal/platform/logger"
)

// BucketService is the artifact storage boundary: raw dataset files go in,
// a storage key and a retrievable locator come out. Metadata stays in the
// gateway; this layer never sees entity rows.
type BucketService interface {
	Upload(ctx context.Context, key string, file io.Reader) error
	Delete(ctx context.Context, key string) error
	PublicURL(key string) string
}

type bucketService struct {
	log           *logger.Logger
	client        *gcs.Client
	bucketName    string
	publicBaseURL string
}

func NewBucketService(ctx context.Context, baseLog *logger.Logger) (BucketService, error) {
	serviceLog := baseLog.With("service", "BucketService")

	bucketName := envutil.String("DATASET_GCS_BUCKET_NAME", "")
	if bucketName == "" {
		return nil, fmt.Errorf("missing env var DATASET_GCS_BUCKET_NAME")
	}
	publicBaseURL := envutil.String("DATASET_PUBLIC_BASE_URL", "https://storage.googleapis.com/"+bucketName)

	var opts []option.ClientOption
	if host := envutil.String("STORAGE_EMULATOR_HOST", ""); host != "" {
		opts = append(opts, option.WithoutAuthentication())
	}
	client, err := gcs.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("init storage client: %w", err)
	}

	return &bucketService{
		log:           serviceLog,
		client:        client,
		bucketName:    bucketName,
		publicBaseURL: strings.TrimRight(publicBaseURL, "/"),
	}, nil
}

func (b *bucketService) Upload(ctx context.Context, key string, file io.Reader) error {
	w := b.client.Bucket(b.bucketName).Object(key).NewWriter(ctx)
	if _, err := io.Copy(w, file); err != nil {
		_ = w.Close()
		b.log.Error("artifact upload failed", "key", key, "error", err)
		return fmt.Errorf("upload %s: %w", key, err)
	}
	if err := w.Close(); err != nil {
		b.log.Error("artifact upload close failed", "key", key, "error", err)
		return fmt.Errorf("upload %s: %w", key, err)
	}
	return nil
}

func (b *bucketService) Delete(ctx context.Context, key string) error {
	if err := b.client.Bucket(b.bucketName).Object(key).Delete(ctx); err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

func (b *bucketService) PublicURL(key string) string {
	parts := strings.Split(key, "/")
	escaped := make([]string, len(parts))
	for i, p := range parts {
		escaped[i] = url.PathEscape(p)
	}
	return b.publicBaseURL + "/" + strings.Join(escaped, "/")
}
