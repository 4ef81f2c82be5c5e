package models

import (
	"time"
)

type SessionStatus string

const (
	SessionPending    SessionStatus = "pending"
	SessionProcessing SessionStatus = "processing"
	SessionCompleted  SessionStatus = "completed"
	SessionFailed     SessionStatus = "failed"
)

func (s SessionStatus) Terminal() bool {
	return s == SessionCompleted || s == SessionFailed
}

// ProcessingSession is the audit record of one checklist request. FileIDs,
// QuestionIDs and Results hold JSON text; see pkg/converters.
type ProcessingSession struct {
	ID               uint          `gorm:"primaryKey"`
	SessionID        string        `gorm:"size:100;not null;uniqueIndex"`
	FileIDs          string        `gorm:"type:text"`
	QuestionIDs      string        `gorm:"type:text"`
	Results          *string       `gorm:"type:text"`
	Status           SessionStatus `gorm:"size:50;not null;default:'pending'"`
	ErrorMessage     *string       `gorm:"type:text"`
	ProcessingTimeMS *int64
	CreatedAt        time.Time
	CompletedAt      *time.Time
}

func (ProcessingSession) TableName() string {
	return "processing_sessions"
}

// ChecklistAnswers is the parsed model reply stored in ProcessingSession.Results.
type ChecklistAnswers struct {
	QuestionAnswers      map[string]string `json:"question_answers"`
	ConditionEvaluations map[string]bool   `json:"condition_evaluations"`
}

func EmptyAnswers() ChecklistAnswers {
	return ChecklistAnswers{
		QuestionAnswers:      map[string]string{},
		ConditionEvaluations: map[string]bool{},
	}
}
