package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/feichai0017/document-checklist/config"
	"github.com/feichai0017/document-checklist/internal/app"
	"github.com/feichai0017/document-checklist/pkg/logger"
	"github.com/feichai0017/document-checklist/pkg/worker"
)

func main() {
	cfg, err := config.Load(".env")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	cfg.Log.OutputPaths = []string{"stdout", "logs/worker.log"}

	log, err := app.NewLogger(cfg)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	if !cfg.Redis.Enabled() {
		log.Error("REDIS_ADDR is required to run the worker")
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	provider, err := app.NewProvider(ctx, cfg, log)
	if err != nil {
		log.Error("Failed to create AI provider", logger.Error(err))
		os.Exit(1)
	}
	if provider == nil {
		log.Error("The worker needs a real AI backend", logger.String("aiBackend", cfg.LLM.Backend))
		os.Exit(1)
	}

	workerCfg := &worker.Config{
		RedisAddr:     cfg.Redis.Addr,
		RedisPassword: cfg.Redis.Password,
		RedisDB:       cfg.Redis.DB,
		Concurrency:   2,
	}
	deleteWorker := worker.NewRemoteDeleteWorker(workerCfg, provider, log.Named("worker"))

	if err := deleteWorker.Start(ctx); err != nil {
		log.Error("Failed to start worker", logger.Error(err))
		os.Exit(1)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	log.Info("Shutting down worker...")
	if err := deleteWorker.Stop(); err != nil {
		log.Error("Worker stop failed", logger.Error(err))
	}
	log.Info("Worker stopped")
}
