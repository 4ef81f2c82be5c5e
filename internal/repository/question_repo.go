package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/feichai0017/document-checklist/internal/models"
)

type ItemFilter struct {
	Type       models.ItemType
	ActiveOnly bool
}

type QuestionRepository struct {
	db *gorm.DB
}

func NewQuestionRepository(db *gorm.DB) *QuestionRepository {
	return &QuestionRepository{db: db}
}

func (r *QuestionRepository) Create(ctx context.Context, item *models.ChecklistItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *QuestionRepository) FindByID(ctx context.Context, id uint) (*models.ChecklistItem, error) {
	var item models.ChecklistItem
	if err := r.db.WithContext(ctx).First(&item, id).Error; err != nil {
		return nil, translate(err)
	}
	return &item, nil
}

// FindActiveByIDs returns the active items among ids in the order ids lists them.
// Unknown and inactive ids are dropped.
func (r *QuestionRepository) FindActiveByIDs(ctx context.Context, ids []uint) ([]models.ChecklistItem, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var found []models.ChecklistItem
	err := r.db.WithContext(ctx).
		Where("id IN ? AND is_active = ?", ids, true).
		Find(&found).Error
	if err != nil {
		return nil, err
	}

	byID := make(map[uint]models.ChecklistItem, len(found))
	for _, item := range found {
		byID[item.ID] = item
	}
	ordered := make([]models.ChecklistItem, 0, len(found))
	for _, id := range ids {
		if item, ok := byID[id]; ok {
			ordered = append(ordered, item)
		}
	}
	return ordered, nil
}

// List returns items newest first.
func (r *QuestionRepository) List(ctx context.Context, filter ItemFilter) ([]models.ChecklistItem, error) {
	query := r.db.WithContext(ctx).Model(&models.ChecklistItem{})
	if filter.ActiveOnly {
		query = query.Where("is_active = ?", true)
	}
	if filter.Type != "" {
		query = query.Where("type = ?", filter.Type)
	}

	var items []models.ChecklistItem
	err := query.Order("created_at DESC").Order("id DESC").Find(&items).Error
	return items, err
}

// Update applies the given column values and returns the fresh row.
func (r *QuestionRepository) Update(ctx context.Context, id uint, values map[string]interface{}) (*models.ChecklistItem, error) {
	var item models.ChecklistItem
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&item, id).Error; err != nil {
			return translate(err)
		}
		if len(values) == 0 {
			return nil
		}
		if err := tx.Model(&item).Updates(values).Error; err != nil {
			return err
		}
		return tx.First(&item, id).Error
	})
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *QuestionRepository) Deactivate(ctx context.Context, id uint) (bool, error) {
	res := r.db.WithContext(ctx).Model(&models.ChecklistItem{}).
		Where("id = ?", id).
		Update("is_active", false)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *QuestionRepository) Delete(ctx context.Context, id uint) (bool, error) {
	res := r.db.WithContext(ctx).Delete(&models.ChecklistItem{}, id)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
