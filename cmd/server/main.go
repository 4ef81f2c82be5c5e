package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/feichai0017/document-checklist/api/handlers"
	"github.com/feichai0017/document-checklist/api/routes"
	"github.com/feichai0017/document-checklist/config"
	"github.com/feichai0017/document-checklist/internal/app"
	"github.com/feichai0017/document-checklist/pkg/logger"
)

func main() {
	cfg, err := config.Load(".env")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	log, err := app.NewLogger(cfg)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	ctx := context.Background()
	a, err := app.New(ctx, cfg, log)
	if err != nil {
		log.Fatal("Failed to initialize application", logger.Error(err))
	}
	defer func() {
		if err := a.Close(); err != nil {
			log.Error("Failed to release resources", logger.Error(err))
		}
	}()

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	h := handlers.NewHandlers(cfg, a.Documents, a.Questions, a.AI, a.Sessions, log)
	routes.SetupRoutes(r, cfg, h, log.Named("http"))

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("Server starting",
			logger.String("addr", srv.Addr),
			logger.String("environment", cfg.Environment),
			logger.String("aiBackend", cfg.LLM.Backend),
			logger.Strings("corsOrigins", cfg.CORSOrigins()),
			logger.Bool("debug", cfg.Debug),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("Server error", logger.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", logger.Error(err))
	}
}
