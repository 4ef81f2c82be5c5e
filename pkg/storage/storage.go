package storage

import (
	"context"
	"fmt"
	"io"

	"github.com/feichai0017/document-checklist/config"
	"github.com/feichai0017/document-checklist/pkg/logger"
	"github.com/feichai0017/document-checklist/pkg/storage/gcs"
	"github.com/feichai0017/document-checklist/pkg/storage/local"
	"github.com/feichai0017/document-checklist/pkg/storage/minio"
	"github.com/feichai0017/document-checklist/pkg/storage/s3"
)

type StorageType string

const (
	StorageTypeLocal StorageType = "local"
	StorageTypeS3    StorageType = "s3"
	StorageTypeMinio StorageType = "minio"
	StorageTypeGCS   StorageType = "gcs"
)

// Storage holds document bytes under opaque keys.
type Storage interface {
	// Store writes the reader under key and returns the key the object can be fetched by.
	Store(ctx context.Context, reader io.Reader, key string) (string, error)
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
}

// NewStorage builds the backend selected by cfg.Storage.Type.
func NewStorage(ctx context.Context, cfg *config.Config, log logger.Logger) (Storage, error) {
	log = log.Named("storage")
	switch StorageType(cfg.Storage.Type) {
	case StorageTypeLocal, "":
		return local.NewLocalStorage(cfg.Upload.Directory, log)
	case StorageTypeS3:
		return s3.NewS3Storage(ctx, cfg.S3, log)
	case StorageTypeMinio:
		return minio.NewMinioStorage(ctx, cfg.Minio, log)
	case StorageTypeGCS:
		return gcs.NewGCSStorage(ctx, cfg.GCS, log)
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", cfg.Storage.Type)
	}
}
