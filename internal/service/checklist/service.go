package checklist

import (
	"context"
	"fmt"
	"strings"

	"github.com/feichai0017/document-checklist/internal/agent/llm"
	"github.com/feichai0017/document-checklist/internal/models"
	"github.com/feichai0017/document-checklist/pkg/logger"
)

// Resolver turns document ids into prompt content blocks.
type Resolver interface {
	Resolve(ctx context.Context, ids []uint) ([]models.ContentBlock, error)
}

// NameSource returns display names of documents in id order.
type NameSource interface {
	DisplayNames(ctx context.Context, ids []uint) ([]string, error)
}

// Service is the provider-backed AIService.
type Service struct {
	sessions *SessionManager
	composer *Composer
	refs     Resolver
	provider llm.Provider
	names    NameSource
	logger   logger.Logger
}

var _ AIService = (*Service)(nil)

func NewService(sessions *SessionManager, composer *Composer, refs Resolver, provider llm.Provider, names NameSource, log logger.Logger) *Service {
	return &Service{
		sessions: sessions,
		composer: composer,
		refs:     refs,
		provider: provider,
		names:    names,
		logger:   log,
	}
}

// ProcessChecklist runs one checklist request inside a processing session. A
// request with no questions and no conditions completes with empty answers
// without touching the provider.
func (s *Service) ProcessChecklist(ctx context.Context, req ChecklistRequest) (*ChecklistResult, error) {
	outcome, err := s.sessions.Run(ctx, req, func(ctx context.Context) (models.ChecklistAnswers, error) {
		questions, conditions, err := s.composer.PrepareItems(ctx, req)
		if err != nil {
			return models.ChecklistAnswers{}, err
		}
		if len(questions) == 0 && len(conditions) == 0 {
			return models.EmptyAnswers(), nil
		}

		blocks, err := s.refs.Resolve(ctx, req.FileIDs)
		if err != nil {
			return models.ChecklistAnswers{}, err
		}
		prompt := BuildPrompt(questions, conditions, blocks)

		reply, err := s.provider.CreateMessage(ctx, prompt.System, prompt.Blocks)
		if err != nil {
			return models.ChecklistAnswers{}, err
		}
		return ParseResponse(reply), nil
	})
	if err != nil {
		return nil, err
	}

	return &ChecklistResult{
		SessionID:            outcome.SessionID,
		QuestionAnswers:      outcome.Answers.QuestionAnswers,
		ConditionEvaluations: outcome.Answers.ConditionEvaluations,
		ProcessingTimeMS:     outcome.ElapsedMS,
		FilesProcessed:       s.fileNames(ctx, req.FileIDs),
	}, nil
}

// ChatWithDocuments answers a free-form message with the documents as context.
// No session is recorded.
func (s *Service) ChatWithDocuments(ctx context.Context, message string, fileIDs []uint) (*ChatResult, error) {
	if strings.TrimSpace(message) == "" {
		return nil, fmt.Errorf("%w: message must not be empty", models.ErrInvalidInput)
	}

	blocks, err := s.refs.Resolve(ctx, fileIDs)
	if err != nil {
		return nil, err
	}
	prompt := BuildChatPrompt(message, blocks)

	reply, err := s.provider.CreateMessage(ctx, prompt.System, prompt.Blocks)
	if err != nil {
		return nil, err
	}
	return &ChatResult{Response: reply, FilesUsed: s.fileNames(ctx, fileIDs)}, nil
}

func (s *Service) fileNames(ctx context.Context, ids []uint) []string {
	names, err := s.names.DisplayNames(ctx, ids)
	if err != nil {
		s.logger.Warn("Failed to load file names", logger.Error(err))
		return []string{}
	}
	return names
}
