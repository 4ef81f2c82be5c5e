package repository

import (
	"errors"

	"gorm.io/gorm"

	"github.com/feichai0017/document-checklist/internal/models"
)

func translate(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.ErrNotFound
	}
	return err
}
