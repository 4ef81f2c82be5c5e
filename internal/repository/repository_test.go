package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/feichai0017/document-checklist/internal/database"
	"github.com/feichai0017/document-checklist/internal/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.OpenMigrated("sqlite://:memory:", false)
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })
	return db
}

func TestDocumentRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewDocumentRepository(newTestDB(t))

	first := &models.Document{StoredName: "a.pdf", StoragePath: "a.pdf", OriginalName: "A.pdf", FileSize: 1, ContentHash: "h1"}
	second := &models.Document{StoredName: "b.pdf", StoragePath: "b.pdf", OriginalName: "B.pdf", FileSize: 2, ContentHash: "h2"}
	require.NoError(t, repo.Create(ctx, first))
	require.NoError(t, repo.Create(ctx, second))

	t.Run("hash is unique", func(t *testing.T) {
		dup := &models.Document{StoredName: "c.pdf", StoragePath: "c.pdf", OriginalName: "C.pdf", ContentHash: "h1"}
		assert.Error(t, repo.Create(ctx, dup))
	})

	t.Run("find by hash", func(t *testing.T) {
		doc, err := repo.FindByHash(ctx, "h2")
		require.NoError(t, err)
		assert.Equal(t, second.ID, doc.ID)

		_, err = repo.FindByHash(ctx, "missing")
		assert.ErrorIs(t, err, models.ErrNotFound)
	})

	t.Run("list newest first", func(t *testing.T) {
		docs, err := repo.List(ctx)
		require.NoError(t, err)
		require.Len(t, docs, 2)
		assert.Equal(t, second.ID, docs[0].ID)
	})

	t.Run("set remote id", func(t *testing.T) {
		expires := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
		require.NoError(t, repo.SetRemoteFileID(ctx, first.ID, "files/abc", &expires))
		doc, err := repo.FindByID(ctx, first.ID)
		require.NoError(t, err)
		require.NotNil(t, doc.RemoteFileID)
		assert.Equal(t, "files/abc", *doc.RemoteFileID)
		require.NotNil(t, doc.RemoteFileExpiresAt)
		assert.True(t, expires.Equal(*doc.RemoteFileExpiresAt))

		ids, err := repo.ListRemoteFileIDs(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"files/abc"}, ids)

		assert.ErrorIs(t, repo.SetRemoteFileID(ctx, 999, "x", nil), models.ErrNotFound)
	})

	t.Run("replacing a remote id overwrites the expiry", func(t *testing.T) {
		require.NoError(t, repo.SetRemoteFileID(ctx, first.ID, "files/def", nil))
		doc, err := repo.FindByID(ctx, first.ID)
		require.NoError(t, err)
		assert.Equal(t, "files/def", *doc.RemoteFileID)
		assert.Nil(t, doc.RemoteFileExpiresAt)
	})

	t.Run("delete", func(t *testing.T) {
		ok, err := repo.Delete(ctx, second.ID)
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = repo.Delete(ctx, second.ID)
		require.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestQuestionRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewQuestionRepository(newTestDB(t))

	q1 := &models.ChecklistItem{Text: "Q1", Type: models.ItemTypeQuestion, IsActive: true}
	c1 := &models.ChecklistItem{Text: "C1", Type: models.ItemTypeCondition, IsActive: true}
	q2 := &models.ChecklistItem{Text: "Q2", Type: models.ItemTypeQuestion, IsActive: true}
	for _, item := range []*models.ChecklistItem{q1, c1, q2} {
		require.NoError(t, repo.Create(ctx, item))
	}

	ok, err := repo.Deactivate(ctx, q2.ID)
	require.NoError(t, err)
	require.True(t, ok)

	t.Run("active by ids keeps request order", func(t *testing.T) {
		items, err := repo.FindActiveByIDs(ctx, []uint{c1.ID, 42, q2.ID, q1.ID})
		require.NoError(t, err)
		require.Len(t, items, 2)
		assert.Equal(t, c1.ID, items[0].ID)
		assert.Equal(t, q1.ID, items[1].ID)
	})

	t.Run("filters", func(t *testing.T) {
		active, err := repo.List(ctx, ItemFilter{ActiveOnly: true})
		require.NoError(t, err)
		assert.Len(t, active, 2)

		all, err := repo.List(ctx, ItemFilter{})
		require.NoError(t, err)
		assert.Len(t, all, 3)

		questions, err := repo.List(ctx, ItemFilter{Type: models.ItemTypeQuestion})
		require.NoError(t, err)
		require.Len(t, questions, 2)
		assert.Equal(t, q2.ID, questions[0].ID)
	})

	t.Run("update", func(t *testing.T) {
		item, err := repo.Update(ctx, q1.ID, map[string]interface{}{"text": "Q1 edited", "is_active": false})
		require.NoError(t, err)
		assert.Equal(t, "Q1 edited", item.Text)
		assert.False(t, item.IsActive)

		_, err = repo.Update(ctx, 999, map[string]interface{}{"text": "x"})
		assert.ErrorIs(t, err, models.ErrNotFound)
	})

	t.Run("hard delete", func(t *testing.T) {
		ok, err := repo.Delete(ctx, c1.ID)
		require.NoError(t, err)
		assert.True(t, ok)
		_, err = repo.FindByID(ctx, c1.ID)
		assert.ErrorIs(t, err, models.ErrNotFound)
	})
}

func TestSessionRepository_TerminalStatesAreFinal(t *testing.T) {
	ctx := context.Background()
	repo := NewSessionRepository(newTestDB(t))

	session := &models.ProcessingSession{SessionID: "s-1", FileIDs: "[]", QuestionIDs: "[]", Status: models.SessionProcessing}
	require.NoError(t, repo.Create(ctx, session))

	now := time.Now()
	require.NoError(t, repo.Complete(ctx, session.ID, `{"question_answers":{},"condition_evaluations":{}}`, 12, now))

	assert.ErrorIs(t, repo.Fail(ctx, session.ID, "late failure", 20), ErrSessionClosed)
	assert.ErrorIs(t, repo.Complete(ctx, session.ID, "{}", 20, now), ErrSessionClosed)

	stored, err := repo.FindBySessionID(ctx, "s-1")
	require.NoError(t, err)
	assert.Equal(t, models.SessionCompleted, stored.Status)
	assert.Nil(t, stored.ErrorMessage)
	require.NotNil(t, stored.ProcessingTimeMS)
	assert.Equal(t, int64(12), *stored.ProcessingTimeMS)
	assert.NotNil(t, stored.CompletedAt)
}

func TestSessionRepository_Fail(t *testing.T) {
	ctx := context.Background()
	repo := NewSessionRepository(newTestDB(t))

	session := &models.ProcessingSession{SessionID: "s-2", Status: models.SessionProcessing}
	require.NoError(t, repo.Create(ctx, session))
	require.NoError(t, repo.Fail(ctx, session.ID, "boom", 5))

	stored, err := repo.FindBySessionID(ctx, "s-2")
	require.NoError(t, err)
	assert.Equal(t, models.SessionFailed, stored.Status)
	require.NotNil(t, stored.ErrorMessage)
	assert.Equal(t, "boom", *stored.ErrorMessage)
	assert.Nil(t, stored.CompletedAt)
	assert.Nil(t, stored.Results)

	_, err = repo.FindBySessionID(ctx, "nope")
	assert.ErrorIs(t, err, models.ErrNotFound)
}
