package document

import (
	"bytes"
	"context"
	"crypto/md5"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/feichai0017/document-checklist/internal/agent/extractor"
	"github.com/feichai0017/document-checklist/internal/models"
	"github.com/feichai0017/document-checklist/internal/utils/validator"
	"github.com/feichai0017/document-checklist/pkg/logger"
	"github.com/feichai0017/document-checklist/pkg/storage"
)

// Store owns uploaded documents: their bytes in blob storage and their records.
type Store struct {
	repo      Repository
	storage   storage.Storage
	validator *validator.DocumentValidator
	remote    RemoteDeleter
	retries   RetryQueue
	logger    logger.Logger
}

func NewStore(repo Repository, blobs storage.Storage, v *validator.DocumentValidator, log logger.Logger) *Store {
	return &Store{
		repo:      repo,
		storage:   blobs,
		validator: v,
		logger:    log,
	}
}

// SetRemoteDeleter wires the provider cleanup run on Delete.
func (s *Store) SetRemoteDeleter(d RemoteDeleter) {
	s.remote = d
}

// SetRetryQueue wires the queue used when a remote delete fails.
func (s *Store) SetRetryQueue(q RetryQueue) {
	s.retries = q
}

// Store persists an upload. Identical bytes uploaded earlier return the existing
// record unchanged.
func (s *Store) Store(ctx context.Context, r io.Reader, displayName, contentType string) (*models.Document, error) {
	ext, err := s.validator.ValidateName(displayName)
	if err != nil {
		return nil, err
	}

	data, err := io.ReadAll(io.LimitReader(r, s.validator.MaxFileSize()+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}
	if err := s.validator.ValidateSize(int64(len(data))); err != nil {
		return nil, err
	}

	sum := md5.Sum(data)
	hash := hex.EncodeToString(sum[:])

	existing, err := s.repo.FindByHash(ctx, hash)
	if err == nil {
		s.logger.Info("Duplicate upload, returning existing document",
			logger.String("filename", displayName),
			logger.Uint("documentId", existing.ID),
		)
		return existing, nil
	}
	if !errors.Is(err, models.ErrNotFound) {
		return nil, fmt.Errorf("failed to look up document hash: %w", err)
	}

	storedName := uuid.New().String() + ext
	key, err := s.storage.Store(ctx, bytes.NewReader(data), storedName)
	if err != nil {
		return nil, &StorageWriteError{Key: storedName, Err: err}
	}

	if contentType == "" || contentType == "application/octet-stream" {
		contentType = extractor.MIMEType(displayName)
	}
	doc := &models.Document{
		StoredName:   storedName,
		StoragePath:  key,
		OriginalName: displayName,
		FileSize:     int64(len(data)),
		ContentType:  contentType,
		ContentHash:  hash,
	}
	if ext == ".pdf" {
		if pages, err := s.validator.PageCount(data); err == nil {
			doc.PageCount = &pages
		} else {
			s.logger.Debug("Page count unavailable",
				logger.String("filename", displayName),
				logger.Error(err),
			)
		}
	}

	if err := s.repo.Create(ctx, doc); err != nil {
		s.removeBlob(ctx, key)
		// A concurrent upload of the same bytes won the unique hash index.
		if winner, lookupErr := s.repo.FindByHash(ctx, hash); lookupErr == nil {
			return winner, nil
		}
		return nil, fmt.Errorf("failed to save document record: %w", err)
	}

	s.logger.Info("Stored document",
		logger.Uint("documentId", doc.ID),
		logger.String("filename", displayName),
		logger.Int64("size", doc.FileSize),
	)
	return doc, nil
}

func (s *Store) removeBlob(ctx context.Context, key string) {
	if err := s.storage.Delete(ctx, key); err != nil {
		s.logger.Warn("Failed to remove stored bytes",
			logger.String("key", key),
			logger.Error(err),
		)
	}
}

func (s *Store) Get(ctx context.Context, id uint) (*models.Document, error) {
	return s.repo.FindByID(ctx, id)
}

// List returns all documents, newest first.
func (s *Store) List(ctx context.Context) ([]models.Document, error) {
	return s.repo.List(ctx)
}

// Open returns the stored bytes of doc.
func (s *Store) Open(ctx context.Context, doc *models.Document) (io.ReadCloser, error) {
	return s.storage.Get(ctx, doc.StoragePath)
}

func (s *Store) SetRemoteFileID(ctx context.Context, id uint, remoteFileID string, expiresAt *time.Time) error {
	return s.repo.SetRemoteFileID(ctx, id, remoteFileID, expiresAt)
}

// DisplayNames returns the original names of the documents among ids that
// exist, in the order of ids. Repeated ids are listed once.
func (s *Store) DisplayNames(ctx context.Context, ids []uint) ([]string, error) {
	docs, err := s.repo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[uint]string, len(docs))
	for _, d := range docs {
		byID[d.ID] = d.OriginalName
	}
	names := make([]string, 0, len(docs))
	seen := make(map[uint]bool, len(ids))
	for _, id := range ids {
		name, ok := byID[id]
		if !ok || seen[id] {
			continue
		}
		seen[id] = true
		names = append(names, name)
	}
	return names, nil
}

// Delete removes the document. It returns false when no such document exists.
// Failures to remove the stored bytes or the provider copy are logged, not
// returned.
func (s *Store) Delete(ctx context.Context, id uint) (bool, error) {
	doc, err := s.repo.FindByID(ctx, id)
	if errors.Is(err, models.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	s.removeBlob(ctx, doc.StoragePath)

	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete document record: %w", err)
	}
	if !deleted {
		return false, nil
	}

	if doc.HasRemoteReference() && s.remote != nil {
		if !s.remote.Delete(ctx, *doc.RemoteFileID) {
			s.scheduleRemoteDelete(ctx, doc.ID, *doc.RemoteFileID)
		}
	}

	s.logger.Info("Deleted document", logger.Uint("documentId", id))
	return true, nil
}

func (s *Store) scheduleRemoteDelete(ctx context.Context, id uint, remoteFileID string) {
	if s.retries == nil {
		return
	}
	if err := s.retries.EnqueueRemoteDelete(ctx, id, remoteFileID); err != nil {
		s.logger.Warn("Failed to schedule remote delete retry",
			logger.Uint("documentId", id),
			logger.String("remoteFileId", remoteFileID),
			logger.Error(err),
		)
	}
}
