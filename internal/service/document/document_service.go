package document

import (
	"context"
	"fmt"
	"time"

	"github.com/feichai0017/document-checklist/internal/models"
)

// Repository is the record store for documents.
type Repository interface {
	Create(ctx context.Context, doc *models.Document) error
	FindByID(ctx context.Context, id uint) (*models.Document, error)
	FindByHash(ctx context.Context, hash string) (*models.Document, error)
	FindByIDs(ctx context.Context, ids []uint) ([]models.Document, error)
	List(ctx context.Context) ([]models.Document, error)
	SetRemoteFileID(ctx context.Context, id uint, remoteFileID string, expiresAt *time.Time) error
	Delete(ctx context.Context, id uint) (bool, error)
}

// RemoteDeleter removes a document's copy from the model provider. It reports
// failure instead of returning an error.
type RemoteDeleter interface {
	Delete(ctx context.Context, remoteFileID string) bool
}

// RetryQueue schedules another attempt at a remote delete that failed.
type RetryQueue interface {
	EnqueueRemoteDelete(ctx context.Context, documentID uint, remoteFileID string) error
}

// StorageWriteError reports that document bytes could not be written. No
// record exists for the upload.
type StorageWriteError struct {
	Key string
	Err error
}

func (e *StorageWriteError) Error() string {
	return fmt.Sprintf("failed to save file %s: %v", e.Key, e.Err)
}

func (e *StorageWriteError) Unwrap() error { return e.Err }
