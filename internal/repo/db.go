// Package repo implements the data persistence layer for action records,
// backed by GORM. This file contains database bootstrapping helpers for
// SQLite (pure Go driver), schema migrations, and the whole-store reset.
package repo

import (
	"os"
	"path/filepath"
	"time"

	sqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"github.com/akratos/go-actions-backend/internal/domain"
)

// OpenSQLite opens (or creates) a SQLite database and applies PRAGMAs.
func OpenSQLite(path string) (*gorm.DB, error) {
	// Fail early if parent directory does not exist (instead of sqlite "out of memory (14)" on Windows).
	if dir := filepath.Dir(path); dir != "." {
		if _, err := os.Stat(dir); err != nil {
			return nil, err
		}
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	// PRAGMAs
	db.Exec("PRAGMA journal_mode=WAL;")
	db.Exec("PRAGMA synchronous=NORMAL;")
	db.Exec("PRAGMA foreign_keys=ON;")
	db.Exec("PRAGMA busy_timeout=5000;")

	// Pool. Ingestion is single-writer; the pool serves concurrent readers.
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.SetMaxOpenConns(10)
		sqlDB.SetMaxIdleConns(10)
		sqlDB.SetConnMaxIdleTime(5 * time.Minute)
		sqlDB.SetConnMaxLifetime(30 * time.Minute)
	}

	return db, nil
}

// AutoMigrate creates or updates the actions schema, including the unique
// index on content_hash that enforces the dedup contract.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&domain.Action{},
	)
}

// Reset drops and recreates the actions schema. This is the only destructive
// operation in the system: records are never deleted individually, only the
// whole store is reinitialized.
func Reset(db *gorm.DB) error {
	m := db.Migrator()
	if m.HasTable(&domain.Action{}) {
		if err := m.DropTable(&domain.Action{}); err != nil {
			return err
		}
	}
	return AutoMigrate(db)
}
