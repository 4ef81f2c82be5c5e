package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/feichai0017/document-checklist/internal/models"
)

// ErrSessionClosed is returned when a terminal write targets a session that is no
// longer processing.
var ErrSessionClosed = errors.New("session is not processing")

type SessionRepository struct {
	db *gorm.DB
}

func NewSessionRepository(db *gorm.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

func (r *SessionRepository) Create(ctx context.Context, session *models.ProcessingSession) error {
	return r.db.WithContext(ctx).Create(session).Error
}

func (r *SessionRepository) FindBySessionID(ctx context.Context, sessionID string) (*models.ProcessingSession, error) {
	var session models.ProcessingSession
	err := r.db.WithContext(ctx).Where("session_id = ?", sessionID).First(&session).Error
	if err != nil {
		return nil, translate(err)
	}
	return &session, nil
}

// Complete moves a processing session to completed inside one transaction.
func (r *SessionRepository) Complete(ctx context.Context, id uint, results string, elapsedMS int64, completedAt time.Time) error {
	return r.finish(ctx, id, map[string]interface{}{
		"status":             models.SessionCompleted,
		"results":            results,
		"processing_time_ms": elapsedMS,
		"completed_at":       completedAt,
	})
}

// Fail moves a processing session to failed inside one transaction.
func (r *SessionRepository) Fail(ctx context.Context, id uint, message string, elapsedMS int64) error {
	return r.finish(ctx, id, map[string]interface{}{
		"status":             models.SessionFailed,
		"error_message":      message,
		"processing_time_ms": elapsedMS,
	})
}

func (r *SessionRepository) finish(ctx context.Context, id uint, values map[string]interface{}) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.ProcessingSession{}).
			Where("id = ? AND status = ?", id, models.SessionProcessing).
			Updates(values)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrSessionClosed
		}
		return nil
	})
}
