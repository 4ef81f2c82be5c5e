package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/feichai0017/document-checklist/config"
)

type SystemHandler struct {
	cfg *config.Config
}

func NewSystemHandler(cfg *config.Config) *SystemHandler {
	return &SystemHandler{cfg: cfg}
}

func (h *SystemHandler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message":     h.cfg.AppName + " API",
		"version":     h.cfg.AppVersion,
		"environment": h.cfg.Environment,
	})
}

func (h *SystemHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

func (h *SystemHandler) Debug(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message":              "Debug Information",
		"environment":          h.cfg.Environment,
		"is_production":        h.cfg.IsProduction(),
		"allowed_cors_origins": h.cfg.CORSOrigins(),
		"api_version":          h.cfg.AppVersion,
		"ai_backend":           h.cfg.LLM.Backend,
		"storage_type":         h.cfg.Storage.Type,
	})
}
