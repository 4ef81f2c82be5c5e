package gcs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"cloud.google.com/go/storage"
	"google.golang.org/api/googleapi"

	"github.com/feichai0017/document-checklist/config"
	"github.com/feichai0017/document-checklist/pkg/logger"
)

type GCSStorage struct {
	client *storage.Client
	bucket *storage.BucketHandle
	name   string
	prefix string
	logger logger.Logger
}

func NewGCSStorage(ctx context.Context, cfg config.GCSConfig, log logger.Logger) (*GCSStorage, error) {
	if cfg.BucketName == "" {
		return nil, fmt.Errorf("GCS_BUCKET_NAME is required for gcs storage")
	}
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCS client: %w", err)
	}
	return &GCSStorage{
		client: client,
		bucket: client.Bucket(cfg.BucketName),
		name:   cfg.BucketName,
		prefix: cfg.Prefix,
		logger: log,
	}, nil
}

// Store writes the object only if it does not exist yet. Keys are unique per
// upload, so an existing object means a retried write already landed.
func (g *GCSStorage) Store(ctx context.Context, reader io.Reader, key string) (string, error) {
	writer := g.bucket.Object(g.prefix + key).If(storage.Conditions{DoesNotExist: true}).NewWriter(ctx)

	if _, err := io.Copy(writer, reader); err != nil {
		_ = writer.Close()
		if isPreconditionFailed(err) {
			return key, nil
		}
		g.logger.Error("Failed to write GCS object",
			logger.String("bucket", g.name),
			logger.String("key", key),
			logger.Error(err),
		)
		return "", fmt.Errorf("failed to store file: %w", err)
	}

	if err := writer.Close(); err != nil {
		if isPreconditionFailed(err) {
			g.logger.Warn("GCS object already exists", logger.String("key", key))
			return key, nil
		}
		return "", fmt.Errorf("failed to finalize GCS write: %w", err)
	}
	return key, nil
}

func (g *GCSStorage) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	r, err := g.bucket.Object(g.prefix + key).NewReader(ctx)
	if err != nil {
		g.logger.Error("Failed to read GCS object",
			logger.String("bucket", g.name),
			logger.String("key", key),
			logger.Error(err),
		)
		return nil, fmt.Errorf("failed to get file: %w", err)
	}
	return r, nil
}

func (g *GCSStorage) Delete(ctx context.Context, key string) error {
	if err := g.bucket.Object(g.prefix + key).Delete(ctx); err != nil {
		g.logger.Error("Failed to delete GCS object",
			logger.String("bucket", g.name),
			logger.String("key", key),
			logger.Error(err),
		)
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

func (g *GCSStorage) Close() error {
	return g.client.Close()
}

func isPreconditionFailed(err error) bool {
	var gerr *googleapi.Error
	return errors.As(err, &gerr) && gerr.Code == http.StatusPreconditionFailed
}
