// Package services – DashboardService
//
// This file implements the DashboardService, the read model behind the
// dashboard API. It loads stored actions and derives the daily, hourly
// and theme aggregations on demand, along with a headline summary used
// for the dashboard landing view.
package services

import (
	"context"
	"sort"
	"time"

	"gorm.io/gorm"

	"github.com/akratos/go-actions-backend/internal/aggregate"
	"github.com/akratos/go-actions-backend/internal/domain"
	"github.com/akratos/go-actions-backend/internal/repo"
)

// HourCount pairs an hour of day (0-23) with how many actions occurred
// in that hour across all stored days.
type HourCount struct {
	Hour  int   `json:"hour"`
	Count int64 `json:"count"`
}

// Overview is the headline figures for the dashboard landing view.
type Overview struct {
	TotalActions  int64                  `json:"total_actions"`
	ThemeCounts   []aggregate.ThemeCount `json:"theme_counts"`
	LastRefreshed *time.Time             `json:"last_refreshed,omitempty"`
}

// DashboardService answers the dashboard read queries. All methods are
// context-aware and safe for concurrent use.
type DashboardService struct {
	// DB is the database handle used for all reads.
	DB *gorm.DB
}

// Daily returns per-day action counts in ascending date order. Days with
// no actions do not appear.
func (s *DashboardService) Daily(ctx context.Context) ([]aggregate.DailyCount, error) {
	actions, err := repo.ListActions(ctx, s.DB)
	if err != nil {
		return nil, err
	}
	return aggregate.ByDay(actions), nil
}

// Hourly returns counts for all 24 hours of the day, zero-filled, in
// ascending hour order.
func (s *DashboardService) Hourly(ctx context.Context) ([]HourCount, error) {
	actions, err := repo.ListActions(ctx, s.DB)
	if err != nil {
		return nil, err
	}

	byHour := aggregate.ByHourOfDay(actions)
	out := make([]HourCount, 0, len(byHour))
	for hour, count := range byHour {
		out = append(out, HourCount{Hour: hour, Count: int64(count)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Hour < out[j].Hour })
	return out, nil
}

// Themes returns per-theme action counts, most frequent first. Ties keep
// first-encounter order.
func (s *DashboardService) Themes(ctx context.Context) ([]aggregate.ThemeCount, error) {
	actions, err := repo.ListActions(ctx, s.DB)
	if err != nil {
		return nil, err
	}
	return aggregate.ByTheme(actions), nil
}

// Actions returns one page of stored actions, newest first, along with
// the total count for pagination.
func (s *DashboardService) Actions(ctx context.Context, offset, limit int) ([]domain.Action, int64, error) {
	total, err := repo.CountActions(ctx, s.DB)
	if err != nil {
		return nil, 0, err
	}
	page, err := repo.ListActionsPage(ctx, s.DB, offset, limit)
	if err != nil {
		return nil, 0, err
	}
	return page, total, nil
}

// Summary returns the headline dashboard figures.
func (s *DashboardService) Summary(ctx context.Context) (*Overview, error) {
	count, lastLoaded, err := repo.ActionsStats(ctx, s.DB)
	if err != nil {
		return nil, err
	}

	themeCounts, err := s.Themes(ctx)
	if err != nil {
		return nil, err
	}

	return &Overview{
		TotalActions:  count,
		ThemeCounts:   themeCounts,
		LastRefreshed: lastLoaded,
	}, nil
}
