// Dashboard HTTP handlers.
//
// This file exposes the read-side REST endpoints backing the dashboard:
//   - GET /actions       (list, paginated, ETag support)
//   - GET /stats/daily   (per-day action counts)
//   - GET /stats/hourly  (hour-of-day histogram, zero-filled)
//   - GET /stats/themes  (per-theme counts, most frequent first)
//   - GET /summary       (headline figures)
//
// Handlers are transport-thin: they validate input, call application services,
// and translate results into HTTP responses (including conditional responses).
package handlers

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/akratos/go-actions-backend/internal/aggregate"
	"github.com/akratos/go-actions-backend/internal/domain"
	"github.com/akratos/go-actions-backend/internal/repo"
	"github.com/akratos/go-actions-backend/internal/services"
	"github.com/akratos/go-actions-backend/internal/utils"
)

//
// Service contracts (context-aware)
//

// DashboardService defines the read queries consumed by HTTP handlers.
//
// Implementations should be safe for concurrent use and must honor the
// provided context for cancellation and timeouts.
type DashboardService interface {
	// Daily returns per-day action counts in ascending date order.
	Daily(ctx context.Context) ([]aggregate.DailyCount, error)
	// Hourly returns zero-filled counts for all 24 hours of the day.
	Hourly(ctx context.Context) ([]services.HourCount, error)
	// Themes returns per-theme counts, most frequent first.
	Themes(ctx context.Context) ([]aggregate.ThemeCount, error)
	// Actions returns one page of actions, newest first, with the total count.
	Actions(ctx context.Context, offset, limit int) ([]domain.Action, int64, error)
	// Summary returns the headline dashboard figures.
	Summary(ctx context.Context) (*services.Overview, error)
}

//
// Handler wiring
//

// Handlers groups the HTTP endpoints for the dashboard and admin surfaces.
// It depends on abstract service interfaces to keep transport concerns
// separate from business logic.
type Handlers struct {
	dashSvc DashboardService
	pipeSvc PipelineService
	db      *gorm.DB
}

// New constructs and returns a Handlers instance bound to the given services.
// The db handle is used for ETag stats and the admin reset endpoint.
func New(dashSvc DashboardService, pipeSvc PipelineService, db *gorm.DB) *Handlers {
	return &Handlers{dashSvc: dashSvc, pipeSvc: pipeSvc, db: db}
}

//
// DTOs
//

// Pagination carries pagination metadata for list responses.
type Pagination struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
}

// ListActionsResponse wraps a page of actions and pagination information.
type ListActionsResponse struct {
	Actions    []domain.Action `json:"actions"`
	Pagination Pagination      `json:"pagination"`
}

// DailyStatsResponse wraps the per-day counts.
type DailyStatsResponse struct {
	Daily []aggregate.DailyCount `json:"daily"`
}

// HourlyStatsResponse wraps the hour-of-day histogram.
type HourlyStatsResponse struct {
	Hourly []services.HourCount `json:"hourly"`
}

// ThemeStatsResponse wraps the per-theme counts.
type ThemeStatsResponse struct {
	Themes []aggregate.ThemeCount `json:"themes"`
}

//
// Helpers
//

// clampPagination parses and bounds page and page_size query params to sane
// defaults and limits, returning (page, pageSize).
func clampPagination(c *gin.Context) (page, pageSize int) {
	const (
		defaultPage     = 1
		defaultPageSize = 20
		maxPageSize     = 100
	)
	page = utils.AtoiDefault(c.Query("page"), defaultPage)
	if page < 1 {
		page = 1
	}
	pageSize = utils.AtoiDefault(c.Query("page_size"), defaultPageSize)
	if pageSize < 1 {
		pageSize = 1
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	return
}

//
// Handlers
//

// ListActions godoc
// @ID          listActions
// @Summary     List actions (paginated)
// @Description Returns a page of stored actions, newest first. Supports weak ETag via If-None-Match and may return 304.
// @Tags        Actions
// @Produce     json
//
// @Param       If-None-Match  header  string  false "Return 304 if ETag matches"  example(W/\"abc123\")
// @Param       page           query   int     false "Page number"                  minimum(1) default(1)
// @Param       page_size      query   int     false "Items per page"               minimum(1) maximum(100) default(20)
//
// @Success     200  {object} handlers.ListActionsResponse
// @Header      200  {string} ETag "Weak ETag for current result"
// @Success     304  {string} string "Not Modified"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /actions [get]
func (h *Handlers) ListActions(c *gin.Context) {
	ctx := c.Request.Context()
	page, pageSize := clampPagination(c)

	// ETag pre-check (best effort).
	if h.db != nil {
		count, maxTS, err := repo.ActionsStats(ctx, h.db)
		if err == nil {
			var ts int64
			if maxTS != nil {
				ts = maxTS.Unix()
			}
			etag := fmt.Sprintf(`W/"actions:%d:%d"`, count, ts)
			c.Header("ETag", etag)
			if inm := c.GetHeader("If-None-Match"); inm != "" && inm == etag {
				c.Status(http.StatusNotModified)
				return
			}
		}
	}

	items, total, err := h.dashSvc.Actions(ctx, (page-1)*pageSize, pageSize)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, err.Error())
		return
	}

	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))
	resp := ListActionsResponse{
		Actions: items,
		Pagination: Pagination{
			Page:       page,
			PageSize:   pageSize,
			Total:      total,
			TotalPages: totalPages,
			HasNext:    page < totalPages,
		},
	}
	ok(c, http.StatusOK, resp)
}

// DailyStats godoc
// @ID          dailyStats
// @Summary     Per-day action counts
// @Description Returns how many actions occurred on each stored day, in ascending date order. Days without actions are omitted.
// @Tags        Stats
// @Produce     json
//
// @Success     200  {object} handlers.DailyStatsResponse
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /stats/daily [get]
func (h *Handlers) DailyStats(c *gin.Context) {
	daily, err := h.dashSvc.Daily(c.Request.Context())
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeStatsFailed, err.Error())
		return
	}
	ok(c, http.StatusOK, DailyStatsResponse{Daily: daily})
}

// HourlyStats godoc
// @ID          hourlyStats
// @Summary     Hour-of-day histogram
// @Description Returns action counts for every hour of the day (0-23), zero-filled.
// @Tags        Stats
// @Produce     json
//
// @Success     200  {object} handlers.HourlyStatsResponse
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /stats/hourly [get]
func (h *Handlers) HourlyStats(c *gin.Context) {
	hourly, err := h.dashSvc.Hourly(c.Request.Context())
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeStatsFailed, err.Error())
		return
	}
	ok(c, http.StatusOK, HourlyStatsResponse{Hourly: hourly})
}

// ThemeStats godoc
// @ID          themeStats
// @Summary     Per-theme action counts
// @Description Returns how many actions carry each theme, most frequent first. Multi-theme actions count once per theme.
// @Tags        Stats
// @Produce     json
//
// @Success     200  {object} handlers.ThemeStatsResponse
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /stats/themes [get]
func (h *Handlers) ThemeStats(c *gin.Context) {
	themes, err := h.dashSvc.Themes(c.Request.Context())
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeStatsFailed, err.Error())
		return
	}
	ok(c, http.StatusOK, ThemeStatsResponse{Themes: themes})
}

// Summary godoc
// @ID          summary
// @Summary     Dashboard headline figures
// @Description Returns the total action count, theme distribution and the last refresh timestamp.
// @Tags        Stats
// @Produce     json
//
// @Success     200  {object} services.Overview
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /summary [get]
func (h *Handlers) Summary(c *gin.Context) {
	ov, err := h.dashSvc.Summary(c.Request.Context())
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeStatsFailed, err.Error())
		return
	}
	ok(c, http.StatusOK, ov)
}
