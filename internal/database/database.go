package database

import (
	"fmt"
	"strings"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/feichai0017/document-checklist/internal/models"
)

const memoryDSN = ":memory:"

// Open connects to the database named by url. Supported forms:
//
//	sqlite:///./documents.db   relative or absolute sqlite file
//	sqlite://:memory:          private in-memory database
//	postgres://...             PostgreSQL
func Open(url string, debug bool) (*gorm.DB, error) {
	logLevel := gormlogger.Warn
	if debug {
		logLevel = gormlogger.Info
	}
	gormCfg := &gorm.Config{
		Logger: gormlogger.Default.LogMode(logLevel),
	}

	var (
		db  *gorm.DB
		err error
	)
	switch {
	case strings.HasPrefix(url, "postgres://"), strings.HasPrefix(url, "postgresql://"):
		db, err = gorm.Open(postgres.Open(url), gormCfg)
	case strings.HasPrefix(url, "sqlite://"):
		db, err = gorm.Open(sqlite.Open(sqlitePath(url)), gormCfg)
	default:
		return nil, fmt.Errorf("unsupported database url: %s", url)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if strings.HasPrefix(url, "sqlite://") {
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to get sql handle: %w", err)
		}
		// Every new sqlite connection to :memory: is a separate empty database,
		// and a single writer avoids SQLITE_BUSY on files.
		sqlDB.SetMaxOpenConns(1)
	}
	return db, nil
}

func sqlitePath(url string) string {
	rest := strings.TrimPrefix(url, "sqlite://")
	if rest == memoryDSN {
		return memoryDSN
	}
	// sqlite:///./documents.db -> ./documents.db, sqlite:////var/db.sqlite -> /var/db.sqlite
	return strings.TrimPrefix(rest, "/")
}

func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Document{},
		&models.ChecklistItem{},
		&models.ProcessingSession{},
	)
}

// OpenMigrated opens url and applies the schema.
func OpenMigrated(url string, debug bool) (*gorm.DB, error) {
	db, err := Open(url, debug)
	if err != nil {
		return nil, err
	}
	if err := AutoMigrate(db); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return db, nil
}

func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
