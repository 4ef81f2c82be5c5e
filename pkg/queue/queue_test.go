package queue

import (
	"testing"
	"time"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRemoteDeleteTask_RoundTrip(t *testing.T) {
	task, err := NewRemoteDeleteTask(RemoteDeletePayload{DocumentID: 4, RemoteFileID: "files/abc"}, 3, time.Minute)
	require.NoError(t, err)
	assert.Equal(t, TaskTypeRemoteDelete, task.Type())

	p, err := ParseRemoteDeletePayload(task)
	require.NoError(t, err)
	assert.Equal(t, uint(4), p.DocumentID)
	assert.Equal(t, "files/abc", p.RemoteFileID)
}

func TestParseRemoteDeletePayload_Invalid(t *testing.T) {
	_, err := ParseRemoteDeletePayload(asynq.NewTask(TaskTypeRemoteDelete, []byte("{")))
	assert.Error(t, err)

	_, err = ParseRemoteDeletePayload(asynq.NewTask(TaskTypeRemoteDelete, []byte(`{"document_id":1}`)))
	assert.Error(t, err)
}
