// Package repo implements the data persistence layer for action records,
// backed by GORM. This file provides small aggregate/statistics queries used
// by the dashboard's "last refreshed" surface and for ETag generation in the
// HTTP layer. Each function is context-aware and safe to call from services
// or handlers.
package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/akratos/go-actions-backend/internal/domain"
)

// ActionsStats returns aggregate metadata for the store: the total number of
// rows and the most recent CreatedAt among them. CreatedAt tracks when a
// record was loaded, so the maximum is the "last refreshed" timestamp shown
// by the dashboard.
//
// It executes two lightweight queries. When the store is empty, the returned
// count is 0 and lastLoaded is nil.
//
// Return values:
//   - count:      total stored actions
//   - lastLoaded: pointer to the greatest CreatedAt, or nil if no rows
//   - err:        database error, if any
func ActionsStats(ctx context.Context, db *gorm.DB) (count int64, lastLoaded *time.Time, err error) {
	q := db.WithContext(ctx).Model(&domain.Action{})

	// Count
	if err = q.Count(&count).Error; err != nil {
		return 0, nil, err
	}
	if count == 0 {
		return 0, nil, nil
	}

	// Get latest created_at (avoid MAX() -> TEXT in SQLite)
	var row struct {
		CreatedAt time.Time
	}
	if err = q.Select("created_at").Order("created_at DESC").Limit(1).Scan(&row).Error; err != nil {
		return 0, nil, err
	}
	return count, &row.CreatedAt, nil
}
