package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/feichai0017/document-checklist/internal/models"
)

type DocumentRepository struct {
	db *gorm.DB
}

func NewDocumentRepository(db *gorm.DB) *DocumentRepository {
	return &DocumentRepository{db: db}
}

func (r *DocumentRepository) Create(ctx context.Context, doc *models.Document) error {
	return r.db.WithContext(ctx).Create(doc).Error
}

func (r *DocumentRepository) FindByID(ctx context.Context, id uint) (*models.Document, error) {
	var doc models.Document
	if err := r.db.WithContext(ctx).First(&doc, id).Error; err != nil {
		return nil, translate(err)
	}
	return &doc, nil
}

func (r *DocumentRepository) FindByHash(ctx context.Context, hash string) (*models.Document, error) {
	var doc models.Document
	err := r.db.WithContext(ctx).Where("content_hash = ?", hash).First(&doc).Error
	if err != nil {
		return nil, translate(err)
	}
	return &doc, nil
}

// FindByIDs returns the documents that exist among ids, in no particular order.
func (r *DocumentRepository) FindByIDs(ctx context.Context, ids []uint) ([]models.Document, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var docs []models.Document
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&docs).Error
	return docs, err
}

// List returns every document, most recently uploaded first.
func (r *DocumentRepository) List(ctx context.Context) ([]models.Document, error) {
	var docs []models.Document
	err := r.db.WithContext(ctx).Order("created_at DESC").Order("id DESC").Find(&docs).Error
	return docs, err
}

// SetRemoteFileID records the provider reference and its expiry in one write,
// replacing any earlier reference.
func (r *DocumentRepository) SetRemoteFileID(ctx context.Context, id uint, remoteFileID string, expiresAt *time.Time) error {
	res := r.db.WithContext(ctx).Model(&models.Document{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"remote_file_id":         remoteFileID,
			"remote_file_expires_at": expiresAt,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return models.ErrNotFound
	}
	return nil
}

// ListRemoteFileIDs returns every provider reference still recorded, by document id.
func (r *DocumentRepository) ListRemoteFileIDs(ctx context.Context) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).Model(&models.Document{}).
		Where("remote_file_id IS NOT NULL AND remote_file_id <> ''").
		Order("id").
		Pluck("remote_file_id", &ids).Error
	return ids, err
}

// Delete removes the row and reports whether one existed.
func (r *DocumentRepository) Delete(ctx context.Context, id uint) (bool, error) {
	res := r.db.WithContext(ctx).Delete(&models.Document{}, id)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
