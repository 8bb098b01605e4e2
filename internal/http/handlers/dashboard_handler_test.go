package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	sqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/akratos/go-actions-backend/internal/domain"
	"github.com/akratos/go-actions-backend/internal/qa"
	"github.com/akratos/go-actions-backend/internal/repo"
	"github.com/akratos/go-actions-backend/internal/services"
)

// ---------- test DB + router helpers ----------

func newHandlerDB(t *testing.T) *gorm.DB {
	t.Helper()

	// Unique DSN per call to avoid cross-test contamination
	dsn := fmt.Sprintf("file:dash_handlers_%s?mode=memory&cache=shared", uuid.NewString())

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&domain.Action{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func seedActions(t *testing.T, db *gorm.DB) {
	t.Helper()
	seed := []struct {
		title string
		at    time.Time
		th    domain.ThemeList
	}{
		{"Border Memo", time.Date(2025, 2, 9, 9, 0, 0, 0, time.UTC), domain.ThemeList{domain.ThemeNationalSecurity}},
		{"Tariff Memo", time.Date(2025, 2, 9, 15, 0, 0, 0, time.UTC), domain.ThemeList{domain.ThemeEconomicNationalism}},
		{"Flag Memo", time.Date(2025, 2, 10, 9, 0, 0, 0, time.UTC), domain.ThemeList{domain.ThemeCelebratory}},
	}
	for _, s := range seed {
		a, err := domain.NewAction(s.title, s.at, "", s.th)
		if err != nil {
			t.Fatalf("NewAction: %v", err)
		}
		if err := repo.CreateAction(context.Background(), db, a); err != nil {
			t.Fatalf("CreateAction: %v", err)
		}
	}
}

type stubPipeline struct {
	summary *services.Summary
	report  *qa.Report
	err     error
}

func (s stubPipeline) Refresh(ctx context.Context) (*services.Summary, error) {
	return s.summary, s.err
}

func (s stubPipeline) LoadLatest(ctx context.Context) (*services.Summary, error) {
	return s.summary, s.err
}

func (s stubPipeline) InspectLatest() (*qa.Report, error) {
	return s.report, s.err
}

func newDashRouter(t *testing.T, db *gorm.DB) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	h := New(&services.DashboardService{DB: db}, stubPipeline{}, db)

	r := gin.New()
	r.GET("/actions", h.ListActions)
	r.GET("/stats/daily", h.DailyStats)
	r.GET("/stats/hourly", h.HourlyStats)
	r.GET("/stats/themes", h.ThemeStats)
	r.GET("/summary", h.Summary)
	return r
}

func doGet(t *testing.T, r *gin.Engine, path string, hdr map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for k, v := range hdr {
		req.Header.Set(k, v)
	}
	r.ServeHTTP(w, req)
	return w
}

// ---------- tests ----------

func TestListActions_PaginationAndOrder(t *testing.T) {
	db := newHandlerDB(t)
	seedActions(t, db)
	r := newDashRouter(t, db)

	w := doGet(t, r, "/actions?page=1&page_size=2", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("GET /actions -> %d: %s", w.Code, w.Body.String())
	}

	var resp ListActionsResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Pagination.Total != 3 || resp.Pagination.TotalPages != 2 || !resp.Pagination.HasNext {
		t.Fatalf("pagination unexpected: %+v", resp.Pagination)
	}
	if len(resp.Actions) != 2 || resp.Actions[0].Title != "Flag Memo" {
		t.Fatalf("expected newest first, got %+v", resp.Actions)
	}
}

func TestListActions_ETagNotModified(t *testing.T) {
	db := newHandlerDB(t)
	seedActions(t, db)
	r := newDashRouter(t, db)

	w1 := doGet(t, r, "/actions", nil)
	if w1.Code != http.StatusOK {
		t.Fatalf("first GET -> %d", w1.Code)
	}
	etag := w1.Header().Get("ETag")
	if etag == "" {
		t.Fatal("expected ETag header")
	}

	w2 := doGet(t, r, "/actions", map[string]string{"If-None-Match": etag})
	if w2.Code != http.StatusNotModified {
		t.Fatalf("expected 304 with matching ETag, got %d", w2.Code)
	}
}

func TestListActions_ClampsBadParams(t *testing.T) {
	db := newHandlerDB(t)
	seedActions(t, db)
	r := newDashRouter(t, db)

	w := doGet(t, r, "/actions?page=-5&page_size=9999", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("GET /actions -> %d", w.Code)
	}
	var resp ListActionsResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Pagination.Page != 1 || resp.Pagination.PageSize != 100 {
		t.Fatalf("expected clamped params, got %+v", resp.Pagination)
	}
}

func TestDailyStats(t *testing.T) {
	db := newHandlerDB(t)
	seedActions(t, db)
	r := newDashRouter(t, db)

	w := doGet(t, r, "/stats/daily", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("GET /stats/daily -> %d", w.Code)
	}
	var resp DailyStatsResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Daily) != 2 || resp.Daily[0].Count != 2 || resp.Daily[1].Count != 1 {
		t.Fatalf("unexpected daily stats: %+v", resp.Daily)
	}
}

func TestHourlyStats_ZeroFilled(t *testing.T) {
	db := newHandlerDB(t)
	r := newDashRouter(t, db)

	// Empty store still yields all 24 hours.
	w := doGet(t, r, "/stats/hourly", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("GET /stats/hourly -> %d", w.Code)
	}
	var resp HourlyStatsResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Hourly) != 24 {
		t.Fatalf("expected 24 hours, got %d", len(resp.Hourly))
	}
}

func TestThemeStats(t *testing.T) {
	db := newHandlerDB(t)
	seedActions(t, db)
	r := newDashRouter(t, db)

	w := doGet(t, r, "/stats/themes", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("GET /stats/themes -> %d", w.Code)
	}
	var resp ThemeStatsResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Themes) != 3 {
		t.Fatalf("expected 3 themes, got %+v", resp.Themes)
	}
}

func TestSummary(t *testing.T) {
	db := newHandlerDB(t)
	seedActions(t, db)
	r := newDashRouter(t, db)

	w := doGet(t, r, "/summary", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("GET /summary -> %d", w.Code)
	}
	var ov services.Overview
	if err := json.Unmarshal(w.Body.Bytes(), &ov); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if ov.TotalActions != 3 || ov.LastRefreshed == nil {
		t.Fatalf("unexpected overview: %+v", ov)
	}
}
