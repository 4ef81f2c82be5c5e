package checklist

import (
	"context"
)

// ChecklistRequest names the documents to analyze and the items to answer.
// Items come from stored ids and from ad-hoc text; ad-hoc text is never stored.
type ChecklistRequest struct {
	FileIDs     []uint   `json:"file_ids"`
	QuestionIDs []uint   `json:"question_ids"`
	Questions   []string `json:"questions"`
	Conditions  []string `json:"conditions"`
}

type ChecklistResult struct {
	SessionID            string            `json:"session_id"`
	QuestionAnswers      map[string]string `json:"question_answers"`
	ConditionEvaluations map[string]bool   `json:"condition_evaluations"`
	ProcessingTimeMS     int64             `json:"processing_time_ms"`
	FilesProcessed       []string          `json:"files_processed"`
}

type ChatResult struct {
	Response  string   `json:"response"`
	FilesUsed []string `json:"files_used"`
}

// AIService answers checklists and chat messages against uploaded documents.
type AIService interface {
	ProcessChecklist(ctx context.Context, req ChecklistRequest) (*ChecklistResult, error)
	ChatWithDocuments(ctx context.Context, message string, fileIDs []uint) (*ChatResult, error)
}
