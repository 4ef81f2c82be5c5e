// Package app builds the object graph shared by the server, the worker and
// the admin CLI from one explicit *config.Config.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"

	"gorm.io/gorm"

	"github.com/feichai0017/document-checklist/config"
	"github.com/feichai0017/document-checklist/internal/agent/extractor"
	"github.com/feichai0017/document-checklist/internal/agent/extractor/pdf"
	"github.com/feichai0017/document-checklist/internal/agent/extractor/textract"
	"github.com/feichai0017/document-checklist/internal/agent/llm"
	"github.com/feichai0017/document-checklist/internal/database"
	"github.com/feichai0017/document-checklist/internal/repository"
	"github.com/feichai0017/document-checklist/internal/service/checklist"
	"github.com/feichai0017/document-checklist/internal/service/document"
	"github.com/feichai0017/document-checklist/internal/service/question"
	"github.com/feichai0017/document-checklist/internal/service/reference"
	"github.com/feichai0017/document-checklist/internal/utils/validator"
	"github.com/feichai0017/document-checklist/pkg/cache"
	"github.com/feichai0017/document-checklist/pkg/logger"
	"github.com/feichai0017/document-checklist/pkg/queue"
	"github.com/feichai0017/document-checklist/pkg/storage"
)

type App struct {
	Config    *config.Config
	Logger    logger.Logger
	DB        *gorm.DB
	Documents *document.Store
	Questions *question.Service
	AI        checklist.AIService
	Sessions  *checklist.SessionLookup

	closers []io.Closer
}

// NewLogger builds the process logger from cfg.Log.
func NewLogger(cfg *config.Config) (logger.Logger, error) {
	return logger.NewLogger(
		logger.WithLevel(cfg.Log.Level),
		logger.WithEncoding(cfg.Log.Encoding),
		logger.WithOutputPaths(cfg.Log.OutputPaths),
		logger.WithDevelopment(cfg.Debug),
		logger.WithField("app", cfg.AppName),
	)
}

// NewProvider returns the Gemini provider. The mock backend has none.
func NewProvider(ctx context.Context, cfg *config.Config, log logger.Logger) (llm.Provider, error) {
	if cfg.LLM.Backend != config.BackendGemini {
		return nil, nil
	}
	g, err := llm.NewGemini(ctx, llm.GeminiConfig{
		APIKey:    cfg.LLM.APIKey,
		Model:     cfg.LLM.Model,
		MaxTokens: cfg.LLM.MaxTokens,
	}, log.Named("gemini"))
	if err != nil {
		return nil, err
	}
	return g, nil
}

// NewExtractorChain returns the PDF text extractor, followed by Textract when
// it is enabled.
func NewExtractorChain(ctx context.Context, cfg *config.Config, log logger.Logger) (*extractor.Chain, error) {
	chain := extractor.NewChain(log.Named("extractor"), pdf.NewExtractor(log.Named("pdf")))
	if cfg.Textract.Enabled {
		ocr, err := textract.NewExtractor(ctx, cfg.Textract, log.Named("textract"))
		if err != nil {
			return nil, err
		}
		chain.Register(ocr)
	}
	return chain, nil
}

// New opens the database and wires every service. The caller owns Close.
func New(ctx context.Context, cfg *config.Config, log logger.Logger) (*App, error) {
	a := &App{Config: cfg, Logger: log}
	if err := a.wire(ctx); err != nil {
		_ = a.Close()
		return nil, err
	}
	return a, nil
}

func (a *App) wire(ctx context.Context) error {
	cfg, log := a.Config, a.Logger

	var err error
	a.DB, err = database.OpenMigrated(cfg.DatabaseURL, cfg.Debug)
	if err != nil {
		return err
	}

	blobs, err := storage.NewStorage(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("failed to init storage: %w", err)
	}
	if c, ok := blobs.(io.Closer); ok {
		a.closers = append(a.closers, c)
	}

	docRepo := repository.NewDocumentRepository(a.DB)
	v := validator.NewDocumentValidator(log.Named("validator"), validator.ValidatorConfig{
		MaxFileSize:  cfg.Upload.MaxFileSize,
		AllowedTypes: cfg.Upload.AllowedTypes,
	})
	a.Documents = document.NewStore(docRepo, blobs, v, log.Named("documents"))
	a.Questions = question.NewService(repository.NewQuestionRepository(a.DB), log.Named("questions"))

	sessionRepo := repository.NewSessionRepository(a.DB)
	sessionCache := cache.SessionCache(cache.NopSessionCache{})
	if cfg.Redis.Enabled() {
		rc := cache.NewRedisSessionCache(cache.RedisSessionCacheConfig{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		a.closers = append(a.closers, rc)
		if err := rc.Ping(ctx); err != nil {
			log.Warn("Redis unreachable, session cache disabled", logger.Error(err))
		} else {
			sessionCache = rc
		}
	}
	a.Sessions = checklist.NewSessionLookup(sessionRepo, sessionCache, log.Named("sessions"))

	provider, err := NewProvider(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("failed to init AI provider: %w", err)
	}
	if provider == nil {
		log.Info("Using mock AI backend")
		a.AI = checklist.MockService{}
		return nil
	}

	chain, err := NewExtractorChain(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("failed to init text extraction: %w", err)
	}
	refs := reference.NewCache(a.Documents, provider, chain, log.Named("references"))
	a.Documents.SetRemoteDeleter(refs)
	if cfg.Redis.Enabled() {
		q := queue.NewAsynqQueue(queue.QueueConfig{
			RedisAddr:     cfg.Redis.Addr,
			RedisPassword: cfg.Redis.Password,
			RedisDB:       cfg.Redis.DB,
		})
		a.closers = append(a.closers, q)
		a.Documents.SetRetryQueue(q)
	}

	a.AI = checklist.NewService(
		checklist.NewSessionManager(sessionRepo, log.Named("sessions")),
		checklist.NewComposer(a.Questions),
		refs,
		provider,
		a.Documents,
		log.Named("checklist"),
	)
	return nil
}

// Close releases everything New opened, in reverse order.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		errs = append(errs, a.closers[i].Close())
	}
	a.closers = nil
	if a.DB != nil {
		errs = append(errs, database.Close(a.DB))
		a.DB = nil
	}
	return errors.Join(errs...)
}
