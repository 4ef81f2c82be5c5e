package question

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/feichai0017/document-checklist/internal/models"
	"github.com/feichai0017/document-checklist/internal/repository"
	"github.com/feichai0017/document-checklist/pkg/logger"
)

// Repository is the record store for checklist items.
type Repository interface {
	Create(ctx context.Context, item *models.ChecklistItem) error
	FindByID(ctx context.Context, id uint) (*models.ChecklistItem, error)
	FindActiveByIDs(ctx context.Context, ids []uint) ([]models.ChecklistItem, error)
	List(ctx context.Context, filter repository.ItemFilter) ([]models.ChecklistItem, error)
	Update(ctx context.Context, id uint, values map[string]interface{}) (*models.ChecklistItem, error)
	Deactivate(ctx context.Context, id uint) (bool, error)
	Delete(ctx context.Context, id uint) (bool, error)
}

// Update is a partial update; nil fields are left alone.
type Update struct {
	Text     *string          `json:"text"`
	Type     *models.ItemType `json:"type"`
	IsActive *bool            `json:"is_active"`
}

type Service struct {
	repo   Repository
	logger logger.Logger
}

func NewService(repo Repository, log logger.Logger) *Service {
	return &Service{repo: repo, logger: log}
}

func validateText(text string) error {
	n := utf8.RuneCountInString(text)
	if n < 1 || n > models.MaxItemTextLength {
		return fmt.Errorf("%w: text must be between 1 and %d characters", models.ErrInvalidInput, models.MaxItemTextLength)
	}
	return nil
}

// normalizeType trims surrounding whitespace and rejects unknown kinds.
func normalizeType(t models.ItemType) (models.ItemType, error) {
	t = models.ItemType(strings.TrimSpace(string(t)))
	if !t.Valid() {
		return "", fmt.Errorf("%w: type must be 'question' or 'condition'", models.ErrInvalidInput)
	}
	return t, nil
}

func (s *Service) Create(ctx context.Context, text string, itemType models.ItemType) (*models.ChecklistItem, error) {
	if err := validateText(text); err != nil {
		return nil, err
	}
	itemType, err := normalizeType(itemType)
	if err != nil {
		return nil, err
	}

	item := &models.ChecklistItem{Text: text, Type: itemType, IsActive: true}
	if err := s.repo.Create(ctx, item); err != nil {
		return nil, fmt.Errorf("failed to create item: %w", err)
	}
	s.logger.Info("Created checklist item",
		logger.Uint("itemId", item.ID),
		logger.String("type", string(item.Type)),
	)
	return item, nil
}

// List returns items newest first. An empty type lists both kinds.
func (s *Service) List(ctx context.Context, itemType models.ItemType, activeOnly bool) ([]models.ChecklistItem, error) {
	if itemType != "" {
		var err error
		if itemType, err = normalizeType(itemType); err != nil {
			return nil, err
		}
	}
	return s.repo.List(ctx, repository.ItemFilter{Type: itemType, ActiveOnly: activeOnly})
}

// Get returns the item whether or not it is active.
func (s *Service) Get(ctx context.Context, id uint) (*models.ChecklistItem, error) {
	return s.repo.FindByID(ctx, id)
}

// ActiveByIDs returns the active items among ids in the order of ids.
func (s *Service) ActiveByIDs(ctx context.Context, ids []uint) ([]models.ChecklistItem, error) {
	return s.repo.FindActiveByIDs(ctx, ids)
}

func (s *Service) Update(ctx context.Context, id uint, upd Update) (*models.ChecklistItem, error) {
	values := map[string]interface{}{}
	if upd.Text != nil {
		if err := validateText(*upd.Text); err != nil {
			return nil, err
		}
		values["text"] = *upd.Text
	}
	if upd.Type != nil {
		t, err := normalizeType(*upd.Type)
		if err != nil {
			return nil, err
		}
		values["type"] = t
	}
	if upd.IsActive != nil {
		values["is_active"] = *upd.IsActive
	}
	return s.repo.Update(ctx, id, values)
}

// Delete deactivates the item. It returns false when the item does not exist.
func (s *Service) Delete(ctx context.Context, id uint) (bool, error) {
	return s.repo.Deactivate(ctx, id)
}

// HardDelete removes the item permanently.
func (s *Service) HardDelete(ctx context.Context, id uint) (bool, error) {
	return s.repo.Delete(ctx, id)
}
