package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/feichai0017/document-checklist/api/handlers"
	"github.com/feichai0017/document-checklist/api/middleware"
	"github.com/feichai0017/document-checklist/config"
	"github.com/feichai0017/document-checklist/pkg/logger"
)

// SetupRoutes registers every endpoint on r.
func SetupRoutes(r *gin.Engine, cfg *config.Config, h *handlers.Handlers, log logger.Logger) {
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger(log))
	r.Use(middleware.CORS(cfg.CORSOrigins()))

	r.GET("/", h.System.Root)
	r.GET("/health", h.System.Health)
	if !cfg.IsProduction() {
		r.GET("/debug", h.System.Debug)
	}

	v1 := r.Group("/api/v1")

	files := v1.Group("/files")
	{
		files.POST("/upload", h.File.Upload)
		files.GET("", h.File.List)
		files.GET("/:id", h.File.Get)
		files.DELETE("/:id", h.File.Delete)
	}

	questions := v1.Group("/questions")
	{
		questions.POST("", h.Question.Create)
		questions.GET("", h.Question.List)
		questions.GET("/:id", h.Question.Get)
		questions.PUT("/:id", h.Question.Update)
		questions.DELETE("/:id", h.Question.Delete)
		questions.DELETE("/:id/hard", h.Question.HardDelete)
	}

	checklist := v1.Group("/checklist")
	{
		checklist.POST("", h.Checklist.Process)
		checklist.POST("/chat", h.Checklist.Chat)
		checklist.GET("/sessions/:sessionId", h.Checklist.GetSession)
	}
}
