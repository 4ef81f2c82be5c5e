package checklist

import (
	"context"

	"github.com/feichai0017/document-checklist/internal/models"
	"github.com/feichai0017/document-checklist/pkg/cache"
	"github.com/feichai0017/document-checklist/pkg/converters"
	"github.com/feichai0017/document-checklist/pkg/logger"
)

type SessionFinder interface {
	FindBySessionID(ctx context.Context, sessionID string) (*models.ProcessingSession, error)
}

// SessionLookup reads sessions, serving terminal ones from the cache when it
// has them.
type SessionLookup struct {
	finder SessionFinder
	cache  cache.SessionCache
	logger logger.Logger
}

func NewSessionLookup(finder SessionFinder, c cache.SessionCache, log logger.Logger) *SessionLookup {
	if c == nil {
		c = cache.NopSessionCache{}
	}
	return &SessionLookup{finder: finder, cache: c, logger: log}
}

// Get returns models.ErrNotFound for unknown session ids.
func (l *SessionLookup) Get(ctx context.Context, sessionID string) (*converters.SessionResponse, error) {
	if cached, err := l.cache.Get(ctx, sessionID); err != nil {
		l.logger.Warn("Session cache read failed",
			logger.String("sessionId", sessionID),
			logger.Error(err),
		)
	} else if cached != nil {
		l.logger.Debug("Session served", logger.String("sessionId", sessionID), logger.Bool("cached", true))
		return cached, nil
	}

	session, err := l.finder.FindBySessionID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	resp, err := converters.ToSessionResponse(session)
	if err != nil {
		return nil, err
	}

	if err := l.cache.Set(ctx, resp); err != nil {
		l.logger.Warn("Session cache write failed",
			logger.String("sessionId", sessionID),
			logger.Error(err),
		)
	}
	l.logger.Debug("Session served", logger.String("sessionId", sessionID), logger.Bool("cached", false))
	return resp, nil
}
