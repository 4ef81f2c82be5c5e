package checklist

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/feichai0017/document-checklist/internal/models"
	"github.com/feichai0017/document-checklist/pkg/converters"
	"github.com/feichai0017/document-checklist/pkg/logger"
)

// SessionStore persists processing sessions. Complete and Fail each run in
// one transaction and only apply to sessions that are still processing.
type SessionStore interface {
	Create(ctx context.Context, session *models.ProcessingSession) error
	Complete(ctx context.Context, id uint, results string, elapsedMS int64, completedAt time.Time) error
	Fail(ctx context.Context, id uint, message string, elapsedMS int64) error
}

// Workflow produces the answers for one session.
type Workflow func(ctx context.Context) (models.ChecklistAnswers, error)

type Outcome struct {
	SessionID string
	Answers   models.ChecklistAnswers
	ElapsedMS int64
}

// SessionManager records every checklist request as a session that moves from
// processing to completed or failed exactly once.
type SessionManager struct {
	store  SessionStore
	logger logger.Logger
	now    func() time.Time
	newID  func() string
}

func NewSessionManager(store SessionStore, log logger.Logger) *SessionManager {
	return &SessionManager{
		store:  store,
		logger: log,
		now:    time.Now,
		newID:  func() string { return uuid.New().String() },
	}
}

// Run creates a processing session, runs fn and records the result. On failure
// the session is marked failed and fn's error (or the error writing the
// result) is returned unchanged, even when marking the session failed also fails.
func (m *SessionManager) Run(ctx context.Context, req ChecklistRequest, fn Workflow) (*Outcome, error) {
	start := m.now()
	session := &models.ProcessingSession{
		SessionID:   m.newID(),
		FileIDs:     converters.EncodeIDs(req.FileIDs),
		QuestionIDs: converters.EncodeIDs(req.QuestionIDs),
		Status:      models.SessionProcessing,
	}
	if err := m.store.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to create processing session: %w", err)
	}

	log := m.logger.With(logger.String("sessionId", session.SessionID))
	log.Info("Processing session started",
		logger.Uints("fileIds", req.FileIDs),
		logger.Int("files", len(req.FileIDs)),
		logger.Int("storedItems", len(req.QuestionIDs)),
	)

	// Terminal writes must land even if the caller went away.
	writeCtx := context.WithoutCancel(ctx)

	answers, err := fn(ctx)
	var elapsed int64
	if err == nil {
		elapsed, err = m.complete(writeCtx, session, answers, start)
	}
	if err != nil {
		elapsed = m.elapsed(start)
		if failErr := m.store.Fail(writeCtx, session.ID, err.Error(), elapsed); failErr != nil {
			log.Error("Failed to mark session failed",
				logger.Error(failErr),
				logger.NamedError("cause", err),
			)
		} else {
			log.Warn("Processing session failed",
				logger.Int64("elapsedMs", elapsed),
				logger.Error(err),
			)
		}
		return nil, err
	}

	log.Info("Processing session completed", logger.Int64("elapsedMs", elapsed))
	return &Outcome{SessionID: session.SessionID, Answers: answers, ElapsedMS: elapsed}, nil
}

// complete writes the results and returns the elapsed time it recorded.
func (m *SessionManager) complete(ctx context.Context, session *models.ProcessingSession, answers models.ChecklistAnswers, start time.Time) (int64, error) {
	results, err := converters.EncodeAnswers(answers)
	if err != nil {
		return 0, err
	}
	elapsed := m.elapsed(start)
	if err := m.store.Complete(ctx, session.ID, results, elapsed, m.now()); err != nil {
		return 0, fmt.Errorf("failed to record session results: %w", err)
	}
	return elapsed, nil
}

func (m *SessionManager) elapsed(start time.Time) int64 {
	return m.now().Sub(start).Milliseconds()
}
