package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
)

const (
	TaskTypeRemoteDelete = "remote:delete"

	QueueDefault = "default"
	QueueLow     = "low"
)

// RemoteDeletePayload asks the worker to remove a file from the model provider's
// file storage after the synchronous delete failed.
type RemoteDeletePayload struct {
	DocumentID   uint      `json:"document_id"`
	RemoteFileID string    `json:"remote_file_id"`
	RequestedAt  time.Time `json:"requested_at"`
}

type QueueConfig struct {
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	MaxRetries    int
	Timeout       time.Duration
}

// AsynqQueue enqueues tasks; the worker process consumes them.
type AsynqQueue struct {
	client *asynq.Client
	cfg    QueueConfig
}

func NewAsynqQueue(cfg QueueConfig) *AsynqQueue {
	if cfg.MaxRetries == 0 {
		cfg.MaxRetries = 5
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = time.Minute
	}
	client := asynq.NewClient(RedisOpt(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB))
	return &AsynqQueue{client: client, cfg: cfg}
}

func RedisOpt(addr, password string, db int) asynq.RedisClientOpt {
	return asynq.RedisClientOpt{Addr: addr, Password: password, DB: db}
}

// NewRemoteDeleteTask builds the task. The task id is derived from the remote id
// so a second failure for the same file does not queue a duplicate.
func NewRemoteDeleteTask(payload RemoteDeletePayload, maxRetries int, timeout time.Duration) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal task: %w", err)
	}
	opts := []asynq.Option{
		asynq.Queue(QueueLow),
		asynq.MaxRetry(maxRetries),
		asynq.Timeout(timeout),
		asynq.TaskID(TaskTypeRemoteDelete + ":" + payload.RemoteFileID),
		asynq.Retention(time.Hour),
	}
	return asynq.NewTask(TaskTypeRemoteDelete, data, opts...), nil
}

func ParseRemoteDeletePayload(t *asynq.Task) (RemoteDeletePayload, error) {
	var p RemoteDeletePayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return p, fmt.Errorf("failed to unmarshal task: %w", err)
	}
	if p.RemoteFileID == "" {
		return p, fmt.Errorf("invalid task data: missing remote_file_id")
	}
	return p, nil
}

// EnqueueRemoteDelete schedules a retry of a failed remote delete.
func (q *AsynqQueue) EnqueueRemoteDelete(ctx context.Context, documentID uint, remoteFileID string) error {
	task, err := NewRemoteDeleteTask(RemoteDeletePayload{
		DocumentID:   documentID,
		RemoteFileID: remoteFileID,
		RequestedAt:  time.Now().UTC(),
	}, q.cfg.MaxRetries, q.cfg.Timeout)
	if err != nil {
		return err
	}
	if _, err := q.client.EnqueueContext(ctx, task); err != nil {
		if errors.Is(err, asynq.ErrTaskIDConflict) {
			return nil
		}
		return fmt.Errorf("failed to enqueue task: %w", err)
	}
	return nil
}

func (q *AsynqQueue) Close() error {
	return q.client.Close()
}
