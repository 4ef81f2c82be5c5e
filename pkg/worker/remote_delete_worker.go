package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/hibiken/asynq"

	"github.com/feichai0017/document-checklist/pkg/logger"
	"github.com/feichai0017/document-checklist/pkg/queue"
)

// FileDeleter removes a file from the model provider's storage.
type FileDeleter interface {
	DeleteFile(ctx context.Context, remoteFileID string) error
}

// RemoteDeleteWorker retries remote deletes that failed during document deletion.
type RemoteDeleteWorker struct {
	BaseWorker
	deleter FileDeleter
}

func NewRemoteDeleteWorker(cfg *Config, deleter FileDeleter, log logger.Logger) *RemoteDeleteWorker {
	if cfg.Concurrency == 0 {
		cfg.Concurrency = 2
	}
	if cfg.Queues == nil {
		cfg.Queues = map[string]int{queue.QueueDefault: 3, queue.QueueLow: 1}
	}
	server := asynq.NewServer(
		queue.RedisOpt(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB),
		asynq.Config{
			Concurrency: cfg.Concurrency,
			Queues:      cfg.Queues,
			RetryDelayFunc: func(n int, err error, task *asynq.Task) time.Duration {
				return time.Duration(n+1) * time.Minute
			},
		},
	)

	w := &RemoteDeleteWorker{
		BaseWorker: BaseWorker{
			server: server,
			mux:    asynq.NewServeMux(),
			logger: log,
		},
		deleter: deleter,
	}
	w.registerHandlers()
	return w
}

func (w *RemoteDeleteWorker) registerHandlers() {
	w.mux.HandleFunc(queue.TaskTypeRemoteDelete, w.handleRemoteDelete)
}

func (w *RemoteDeleteWorker) handleRemoteDelete(ctx context.Context, t *asynq.Task) error {
	p, err := queue.ParseRemoteDeletePayload(t)
	if err != nil {
		w.logger.Error("Dropping malformed task",
			logger.String("payload", string(t.Payload())),
			logger.Error(err),
		)
		// Retrying cannot fix a malformed payload.
		return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
	}

	if err := w.deleter.DeleteFile(ctx, p.RemoteFileID); err != nil {
		w.logger.Warn("Remote delete retry failed",
			logger.Uint("documentId", p.DocumentID),
			logger.String("remoteFileId", p.RemoteFileID),
			logger.Error(err),
		)
		return err
	}

	w.logger.Info("Remote file deleted",
		logger.Uint("documentId", p.DocumentID),
		logger.String("remoteFileId", p.RemoteFileID),
	)
	return nil
}

// Start runs the asynq server until ctx is cancelled.
func (w *RemoteDeleteWorker) Start(ctx context.Context) error {
	if err := w.server.Start(w.mux); err != nil {
		return fmt.Errorf("failed to start worker: %w", err)
	}

	go func() {
		<-ctx.Done()
		w.Stop()
	}()

	return nil
}
