package main

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feichai0017/document-checklist/internal/database"
	"github.com/feichai0017/document-checklist/internal/models"
	"github.com/feichai0017/document-checklist/internal/repository"
)

func setupEnv(t *testing.T) string {
	t.Helper()
	url := "sqlite:///" + filepath.Join(t.TempDir(), "docctl.db")
	t.Setenv("AI_BACKEND", "mock")
	t.Setenv("DATABASE_URL", url)
	return url
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append(args, "--env-file", ""))
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestMigrate(t *testing.T) {
	setupEnv(t)
	out, err := run(t, "migrate")
	require.NoError(t, err)
	assert.Contains(t, out, "up to date")
}

func TestSessionAndDocuments(t *testing.T) {
	url := setupEnv(t)

	db, err := database.OpenMigrated(url, false)
	require.NoError(t, err)
	results := `{"question_answers":{"Who?":"Alice"},"condition_evaluations":{}}`
	require.NoError(t, repository.NewSessionRepository(db).Create(context.Background(), &models.ProcessingSession{
		SessionID: "abc", FileIDs: "[1]", QuestionIDs: "[]", Status: models.SessionCompleted, Results: &results,
	}))
	require.NoError(t, repository.NewDocumentRepository(db).Create(context.Background(), &models.Document{
		StoredName: "x.pdf", StoragePath: "x.pdf", OriginalName: "lease.pdf", FileSize: 10, ContentHash: "0123456789abcdef0123456789abcdef",
	}))
	require.NoError(t, database.Close(db))

	out, err := run(t, "session", "abc")
	require.NoError(t, err)
	assert.Contains(t, out, `"session_id": "abc"`)
	assert.Contains(t, out, `"Who?": "Alice"`)

	_, err = run(t, "session", "missing")
	assert.ErrorIs(t, err, models.ErrNotFound)

	out, err = run(t, "documents")
	require.NoError(t, err)
	assert.Contains(t, out, "lease.pdf")
}

func TestRemoteFiles(t *testing.T) {
	url := setupEnv(t)

	db, err := database.OpenMigrated(url, false)
	require.NoError(t, err)
	repo := repository.NewDocumentRepository(db)
	uploaded := &models.Document{StoredName: "a.pdf", StoragePath: "a.pdf", OriginalName: "a.pdf", FileSize: 1, ContentHash: "00000000000000000000000000000001"}
	local := &models.Document{StoredName: "b.pdf", StoragePath: "b.pdf", OriginalName: "b.pdf", FileSize: 1, ContentHash: "00000000000000000000000000000002"}
	require.NoError(t, repo.Create(context.Background(), uploaded))
	require.NoError(t, repo.Create(context.Background(), local))
	require.NoError(t, repo.SetRemoteFileID(context.Background(), uploaded.ID, "files/abc", nil))
	require.NoError(t, database.Close(db))

	out, err := run(t, "remote-files")
	require.NoError(t, err)
	assert.Equal(t, "files/abc\n", out)
}
