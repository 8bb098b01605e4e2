// Package repo implements the data persistence layer for action records,
// backed by GORM. This file provides repository functions for the Action
// model.
//
// The repository follows a "thin" approach: it performs persistence and
// simple query composition, leaving outcome classification to the services
// package.
//
// Error semantics:
//   - A duplicate content hash relies on the database unique constraint and
//     is returned as a raw DB error. The service layer translates it into
//     services.ErrDuplicateAction.
//   - On other DB errors (connectivity, constraints, etc.), the raw gorm
//     error is propagated.
package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/akratos/go-actions-backend/internal/domain"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = gorm.ErrRecordNotFound

// CreateAction inserts one action row. The content_hash column carries a
// unique index; inserting a record whose hash already exists returns the
// driver's unique-violation error, which callers must treat as "already
// present", not as failure.
func CreateAction(ctx context.Context, db *gorm.DB, a *domain.Action) error {
	return db.WithContext(ctx).Create(a).Error
}

// ListActions returns all stored actions ordered deterministically
// (OccurredAt ASC, ID ASC). The full set is the input to the aggregation
// engine; the source emits on the order of hundreds of records, so loading
// it whole is intentional.
func ListActions(ctx context.Context, db *gorm.DB) ([]domain.Action, error) {
	var out []domain.Action
	err := db.WithContext(ctx).Order("occurred_at ASC, id ASC").Find(&out).Error
	return out, err
}

// CountActions uses a raw COUNT so a missing table surfaces as an error.
func CountActions(ctx context.Context, db *gorm.DB) (int64, error) {
	var total int64
	err := db.WithContext(ctx).Raw("SELECT COUNT(*) FROM presidential_actions").Scan(&total).Error
	return total, err
}

// ListActionsPage returns a paginated slice ordered (OccurredAt DESC, ID ASC)
// for the listing endpoint — newest first, unlike the aggregation feed.
func ListActionsPage(ctx context.Context, db *gorm.DB, offset, limit int) ([]domain.Action, error) {
	var out []domain.Action
	err := db.WithContext(ctx).
		Order("occurred_at DESC, id ASC").
		Offset(offset).
		Limit(limit).
		Find(&out).Error
	return out, err
}

// HasContentHash reports whether a record with the given identity digest is
// already stored. Used by tests and diagnostics; the insert path relies on
// the unique constraint instead of a read-before-write check.
func HasContentHash(ctx context.Context, db *gorm.DB, hash string) (bool, error) {
	var n int64
	err := db.WithContext(ctx).
		Model(&domain.Action{}).
		Where("content_hash = ?", hash).
		Count(&n).Error
	return n > 0, err
}
