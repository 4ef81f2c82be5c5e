package database

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feichai0017/document-checklist/internal/models"
)

func TestSqlitePath(t *testing.T) {
	assert.Equal(t, "./documents.db", sqlitePath("sqlite:///./documents.db"))
	assert.Equal(t, "/var/lib/app.db", sqlitePath("sqlite:////var/lib/app.db"))
	assert.Equal(t, ":memory:", sqlitePath("sqlite://:memory:"))
}

func TestOpen_Unsupported(t *testing.T) {
	_, err := Open("mysql://localhost/db", false)
	require.Error(t, err)
}

func TestOpenMigrated_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")
	db, err := OpenMigrated("sqlite:///"+path, false)
	require.NoError(t, err)
	defer Close(db)

	assert.True(t, db.Migrator().HasTable(&models.Document{}))
	assert.True(t, db.Migrator().HasTable(&models.ChecklistItem{}))
	assert.True(t, db.Migrator().HasTable(&models.ProcessingSession{}))
}
