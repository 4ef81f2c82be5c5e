package handlers

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/feichai0017/document-checklist/internal/models"
	"github.com/feichai0017/document-checklist/pkg/logger"
)

// DocumentService is the part of document.Store the HTTP layer uses.
type DocumentService interface {
	Store(ctx context.Context, r io.Reader, displayName, contentType string) (*models.Document, error)
	Get(ctx context.Context, id uint) (*models.Document, error)
	List(ctx context.Context) ([]models.Document, error)
	Delete(ctx context.Context, id uint) (bool, error)
}

type FileHandler struct {
	service DocumentService
	logger  logger.Logger
}

func NewFileHandler(service DocumentService, log logger.Logger) *FileHandler {
	return &FileHandler{service: service, logger: log}
}

// Upload stores the multipart "file" field. Identical content returns the
// existing record.
func (h *FileHandler) Upload(c *gin.Context) {
	header, err := c.FormFile("file")
	if err != nil {
		badRequest(c, h.logger, "Invalid file upload", fmt.Errorf("%w: %v", models.ErrInvalidInput, err))
		return
	}
	file, err := header.Open()
	if err != nil {
		badRequest(c, h.logger, "Invalid file upload", err)
		return
	}
	defer file.Close()

	doc, err := h.service.Store(c.Request.Context(), file, header.Filename, header.Header.Get("Content-Type"))
	if err != nil {
		handleError(c, h.logger, "Failed to upload file", err)
		return
	}
	c.JSON(http.StatusOK, doc)
}

func (h *FileHandler) List(c *gin.Context) {
	docs, err := h.service.List(c.Request.Context())
	if err != nil {
		handleError(c, h.logger, "Failed to list files", err)
		return
	}
	c.JSON(http.StatusOK, docs)
}

func (h *FileHandler) Get(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		badRequest(c, h.logger, "Invalid file id", err)
		return
	}
	doc, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		handleError(c, h.logger, "Failed to get file", err)
		return
	}
	c.JSON(http.StatusOK, doc)
}

func (h *FileHandler) Delete(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		badRequest(c, h.logger, "Invalid file id", err)
		return
	}
	deleted, err := h.service.Delete(c.Request.Context(), id)
	if err != nil {
		handleError(c, h.logger, "Failed to delete file", err)
		return
	}
	if !deleted {
		notFound(c, h.logger, "File not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "File deleted successfully"})
}
