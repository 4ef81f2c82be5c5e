package checklist

import (
	"context"
	"fmt"
	"strings"

	"github.com/feichai0017/document-checklist/internal/models"
)

const (
	mockAnswer    = "Mock answer for testing purposes"
	mockSessionID = "mock-session-id"
	mockFileName  = "mock-file.pdf"
)

// MockService returns canned results without any I/O. Only ad-hoc items are
// answered; stored item ids are ignored.
type MockService struct{}

var _ AIService = MockService{}

func (MockService) ProcessChecklist(_ context.Context, req ChecklistRequest) (*ChecklistResult, error) {
	answers := models.EmptyAnswers()
	for _, q := range req.Questions {
		answers.QuestionAnswers[q] = mockAnswer
	}
	for _, c := range req.Conditions {
		answers.ConditionEvaluations[c] = true
	}
	return &ChecklistResult{
		SessionID:            mockSessionID,
		QuestionAnswers:      answers.QuestionAnswers,
		ConditionEvaluations: answers.ConditionEvaluations,
		ProcessingTimeMS:     100,
		FilesProcessed:       []string{mockFileName},
	}, nil
}

func (MockService) ChatWithDocuments(_ context.Context, message string, _ []uint) (*ChatResult, error) {
	if strings.TrimSpace(message) == "" {
		return nil, fmt.Errorf("%w: message must not be empty", models.ErrInvalidInput)
	}
	return &ChatResult{
		Response:  "Mock response to: " + message,
		FilesUsed: []string{mockFileName},
	}, nil
}
