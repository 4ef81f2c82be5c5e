package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/feichai0017/document-checklist/internal/models"
	"github.com/feichai0017/document-checklist/internal/service/question"
	"github.com/feichai0017/document-checklist/pkg/logger"
)

type QuestionService interface {
	Create(ctx context.Context, text string, itemType models.ItemType) (*models.ChecklistItem, error)
	List(ctx context.Context, itemType models.ItemType, activeOnly bool) ([]models.ChecklistItem, error)
	Get(ctx context.Context, id uint) (*models.ChecklistItem, error)
	Update(ctx context.Context, id uint, upd question.Update) (*models.ChecklistItem, error)
	Delete(ctx context.Context, id uint) (bool, error)
	HardDelete(ctx context.Context, id uint) (bool, error)
}

type CreateQuestionRequest struct {
	Text string          `json:"text"`
	Type models.ItemType `json:"type"`
}

type QuestionHandler struct {
	service QuestionService
	logger  logger.Logger
}

func NewQuestionHandler(service QuestionService, log logger.Logger) *QuestionHandler {
	return &QuestionHandler{service: service, logger: log}
}

func (h *QuestionHandler) Create(c *gin.Context) {
	var req CreateQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, h.logger, "Invalid request body", err)
		return
	}
	item, err := h.service.Create(c.Request.Context(), req.Text, req.Type)
	if err != nil {
		handleError(c, h.logger, "Failed to create question", err)
		return
	}
	c.JSON(http.StatusOK, item)
}

// List accepts question_type (question or condition) and active_only
// (default true).
func (h *QuestionHandler) List(c *gin.Context) {
	activeOnly := true
	if raw := c.Query("active_only"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			badRequest(c, h.logger, "Invalid active_only", fmt.Errorf("%w: %v", models.ErrInvalidInput, err))
			return
		}
		activeOnly = v
	}

	items, err := h.service.List(c.Request.Context(), models.ItemType(c.Query("question_type")), activeOnly)
	if err != nil {
		handleError(c, h.logger, "Failed to list questions", err)
		return
	}
	c.JSON(http.StatusOK, items)
}

func (h *QuestionHandler) Get(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		badRequest(c, h.logger, "Invalid question id", err)
		return
	}
	item, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		handleError(c, h.logger, "Failed to get question", err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (h *QuestionHandler) Update(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		badRequest(c, h.logger, "Invalid question id", err)
		return
	}
	var upd question.Update
	if err := c.ShouldBindJSON(&upd); err != nil {
		badRequest(c, h.logger, "Invalid request body", err)
		return
	}
	item, err := h.service.Update(c.Request.Context(), id, upd)
	if err != nil {
		handleError(c, h.logger, "Failed to update question", err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (h *QuestionHandler) Delete(c *gin.Context) {
	h.remove(c, h.service.Delete, "Question deleted successfully")
}

func (h *QuestionHandler) HardDelete(c *gin.Context) {
	h.remove(c, h.service.HardDelete, "Question permanently deleted")
}

func (h *QuestionHandler) remove(c *gin.Context, del func(context.Context, uint) (bool, error), message string) {
	id, err := idParam(c, "id")
	if err != nil {
		badRequest(c, h.logger, "Invalid question id", err)
		return
	}
	deleted, err := del(c.Request.Context(), id)
	if err != nil {
		handleError(c, h.logger, "Failed to delete question", err)
		return
	}
	if !deleted {
		notFound(c, h.logger, "Question not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": message})
}
