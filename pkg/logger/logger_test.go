package logger

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger_WritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "app.log")

	log, err := NewLogger(
		WithLevel("debug"),
		WithEncoding("json"),
		WithOutputPaths([]string{path}),
		WithField("service", "test"),
	)
	require.NoError(t, err)

	log.Named("store").Info("document stored", String("name", "a.pdf"))
	require.NoError(t, log.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"message":"document stored"`)
	assert.Contains(t, string(data), `"logger":"store"`)
	assert.Contains(t, string(data), `"service":"test"`)
}

func TestNewLogger_BadLevel(t *testing.T) {
	_, err := NewLogger(WithLevel("loud"), WithOutputPaths([]string{"stdout"}))
	require.Error(t, err)
}

func TestTestLogger_SharesBufferAcrossChildren(t *testing.T) {
	log := NewTestLogger()
	child := log.Named("refcache").With(String("doc", "1"))

	child.Warn("upload failed")
	log.Info("root entry")

	entries := log.GetEntries()
	require.Len(t, entries, 2)
	assert.Equal(t, "refcache", entries[0].Logger)
	assert.Len(t, entries[0].Fields, 1)
	assert.Len(t, log.EntriesAt("WARN"), 1)

	log.Clear()
	assert.Empty(t, log.GetEntries())
}

func TestFromContext(t *testing.T) {
	log := NewTestLogger()

	FromContext(context.Background(), log).Info("no id")
	FromContext(ContextWithRequestID(context.Background(), "req-1"), log).Info("with id")

	entries := log.GetEntries()
	require.Len(t, entries, 2)
	assert.Empty(t, entries[0].Fields)
	require.Len(t, entries[1].Fields, 1)
	assert.Equal(t, "request_id", entries[1].Fields[0].Key)
	assert.Equal(t, "req-1", entries[1].Fields[0].String)
}
