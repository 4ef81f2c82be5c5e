// Package converters owns the JSON text columns of processing sessions. Nothing
// else encodes or decodes them.
package converters

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/feichai0017/document-checklist/internal/models"
)

// SessionResponse is the decoded view of a ProcessingSession.
type SessionResponse struct {
	ID               uint                     `json:"id"`
	SessionID        string                   `json:"session_id"`
	Status           models.SessionStatus     `json:"status"`
	FileIDs          []uint                   `json:"file_ids"`
	QuestionIDs      []uint                   `json:"question_ids"`
	Results          *models.ChecklistAnswers `json:"results"`
	ErrorMessage     *string                  `json:"error_message"`
	ProcessingTimeMS *int64                   `json:"processing_time_ms"`
	CreatedAt        time.Time                `json:"created_at"`
	CompletedAt      *time.Time               `json:"completed_at"`
}

// EncodeIDs renders ids as a JSON array; nil becomes "[]".
func EncodeIDs(ids []uint) string {
	if ids == nil {
		ids = []uint{}
	}
	data, _ := json.Marshal(ids)
	return string(data)
}

func DecodeIDs(text string) ([]uint, error) {
	ids := []uint{}
	if strings.TrimSpace(text) == "" {
		return ids, nil
	}
	if err := json.Unmarshal([]byte(text), &ids); err != nil {
		return nil, fmt.Errorf("failed to decode id list: %w", err)
	}
	return ids, nil
}

func EncodeAnswers(answers models.ChecklistAnswers) (string, error) {
	if answers.QuestionAnswers == nil {
		answers.QuestionAnswers = map[string]string{}
	}
	if answers.ConditionEvaluations == nil {
		answers.ConditionEvaluations = map[string]bool{}
	}
	data, err := json.Marshal(answers)
	if err != nil {
		return "", fmt.Errorf("failed to encode results: %w", err)
	}
	return string(data), nil
}

func DecodeAnswers(text string) (*models.ChecklistAnswers, error) {
	answers := models.EmptyAnswers()
	if err := json.Unmarshal([]byte(text), &answers); err != nil {
		return nil, fmt.Errorf("failed to decode results: %w", err)
	}
	if answers.QuestionAnswers == nil {
		answers.QuestionAnswers = map[string]string{}
	}
	if answers.ConditionEvaluations == nil {
		answers.ConditionEvaluations = map[string]bool{}
	}
	return &answers, nil
}

// ToSessionResponse decodes the text columns of s.
func ToSessionResponse(s *models.ProcessingSession) (*SessionResponse, error) {
	fileIDs, err := DecodeIDs(s.FileIDs)
	if err != nil {
		return nil, err
	}
	questionIDs, err := DecodeIDs(s.QuestionIDs)
	if err != nil {
		return nil, err
	}

	resp := &SessionResponse{
		ID:               s.ID,
		SessionID:        s.SessionID,
		Status:           s.Status,
		FileIDs:          fileIDs,
		QuestionIDs:      questionIDs,
		ErrorMessage:     s.ErrorMessage,
		ProcessingTimeMS: s.ProcessingTimeMS,
		CreatedAt:        s.CreatedAt,
		CompletedAt:      s.CompletedAt,
	}
	if s.Results != nil && *s.Results != "" {
		resp.Results, err = DecodeAnswers(*s.Results)
		if err != nil {
			return nil, err
		}
	}
	return resp, nil
}
