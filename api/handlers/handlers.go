package handlers

import (
	"github.com/feichai0017/document-checklist/config"
	"github.com/feichai0017/document-checklist/internal/service/checklist"
	"github.com/feichai0017/document-checklist/pkg/logger"
)

type Handlers struct {
	File      *FileHandler
	Question  *QuestionHandler
	Checklist *ChecklistHandler
	System    *SystemHandler
}

func NewHandlers(
	cfg *config.Config,
	documents DocumentService,
	questions QuestionService,
	ai checklist.AIService,
	sessions SessionGetter,
	log logger.Logger,
) *Handlers {
	return &Handlers{
		File:      NewFileHandler(documents, log.Named("files")),
		Question:  NewQuestionHandler(questions, log.Named("questions")),
		Checklist: NewChecklistHandler(ai, sessions, log.Named("checklist")),
		System:    NewSystemHandler(cfg),
	}
}
