package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/feichai0017/document-checklist/internal/service/checklist"
	"github.com/feichai0017/document-checklist/pkg/converters"
	"github.com/feichai0017/document-checklist/pkg/logger"
)

type SessionGetter interface {
	Get(ctx context.Context, sessionID string) (*converters.SessionResponse, error)
}

type ChatRequest struct {
	Message string `json:"message" binding:"max=50000"`
	FileIDs []uint `json:"file_ids"`
}

type ChecklistHandler struct {
	ai       checklist.AIService
	sessions SessionGetter
	logger   logger.Logger
}

func NewChecklistHandler(ai checklist.AIService, sessions SessionGetter, log logger.Logger) *ChecklistHandler {
	return &ChecklistHandler{ai: ai, sessions: sessions, logger: log}
}

func (h *ChecklistHandler) Process(c *gin.Context) {
	var req checklist.ChecklistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, h.logger, "Invalid request body", err)
		return
	}
	result, err := h.ai.ProcessChecklist(c.Request.Context(), req)
	if err != nil {
		handleError(c, h.logger, "Checklist processing failed", err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *ChecklistHandler) Chat(c *gin.Context) {
	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, h.logger, "Invalid request body", err)
		return
	}
	result, err := h.ai.ChatWithDocuments(c.Request.Context(), req.Message, req.FileIDs)
	if err != nil {
		handleError(c, h.logger, "Chat failed", err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *ChecklistHandler) GetSession(c *gin.Context) {
	session, err := h.sessions.Get(c.Request.Context(), c.Param("sessionId"))
	if err != nil {
		handleError(c, h.logger, "Failed to get session", err)
		return
	}
	c.JSON(http.StatusOK, session)
}
