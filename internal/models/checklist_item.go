package models

import (
	"time"
)

type ItemType string

const (
	ItemTypeQuestion  ItemType = "question"
	ItemTypeCondition ItemType = "condition"
)

func (t ItemType) Valid() bool {
	return t == ItemTypeQuestion || t == ItemTypeCondition
}

const MaxItemTextLength = 50000

// ChecklistItem is a persisted question or condition.
type ChecklistItem struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Text      string    `gorm:"type:text;not null" json:"text"`
	Type      ItemType  `gorm:"size:50;not null;index" json:"type"`
	IsActive  bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (ChecklistItem) TableName() string {
	return "questions"
}
