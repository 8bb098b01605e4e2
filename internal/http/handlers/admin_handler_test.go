package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/akratos/go-actions-backend/internal/batch"
	"github.com/akratos/go-actions-backend/internal/qa"
	"github.com/akratos/go-actions-backend/internal/repo"
	"github.com/akratos/go-actions-backend/internal/services"
)

func newAdminRouter(t *testing.T, db *gorm.DB, pipe PipelineService) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	h := New(&services.DashboardService{DB: db}, pipe, db)

	r := gin.New()
	r.POST("/admin/refresh", h.Refresh)
	r.POST("/admin/load", h.Load)
	r.GET("/admin/qa", h.QAReport)
	r.POST("/admin/reset", h.Reset)
	return r
}

func doPost(t *testing.T, r *gin.Engine, path string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, nil)
	r.ServeHTTP(w, req)
	return w
}

func TestRefresh_ReturnsSummary(t *testing.T) {
	db := newHandlerDB(t)
	pipe := stubPipeline{summary: &services.Summary{Total: 2, Inserted: 2}}
	r := newAdminRouter(t, db, pipe)

	w := doPost(t, r, "/admin/refresh")
	if w.Code != http.StatusOK {
		t.Fatalf("POST /admin/refresh -> %d: %s", w.Code, w.Body.String())
	}
	var sum services.Summary
	if err := json.Unmarshal(w.Body.Bytes(), &sum); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if sum.Inserted != 2 {
		t.Fatalf("unexpected summary: %+v", sum)
	}
}

func TestRefresh_UpstreamFailureIsBadGateway(t *testing.T) {
	db := newHandlerDB(t)
	pipe := stubPipeline{err: errors.New("fetch: status 500")}
	r := newAdminRouter(t, db, pipe)

	w := doPost(t, r, "/admin/refresh")
	if w.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", w.Code)
	}
	var resp ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Code != ErrCodeIngestFailed {
		t.Fatalf("unexpected error code %q", resp.Code)
	}
}

func TestLoad_NoBatchesIsNotFound(t *testing.T) {
	db := newHandlerDB(t)
	pipe := stubPipeline{err: batch.ErrNoBatches}
	r := newAdminRouter(t, db, pipe)

	w := doPost(t, r, "/admin/load")
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestQAReport_ReturnsReport(t *testing.T) {
	db := newHandlerDB(t)
	pipe := stubPipeline{report: &qa.Report{
		Invalid: []qa.RecordErrors{{Index: 1, Errors: []string{"missing date"}}},
	}}
	r := newAdminRouter(t, db, pipe)

	w := doGet(t, r, "/admin/qa", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("GET /admin/qa -> %d", w.Code)
	}
	var report qa.Report
	if err := json.Unmarshal(w.Body.Bytes(), &report); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(report.Invalid) != 1 || report.Invalid[0].Index != 1 {
		t.Fatalf("unexpected report: %+v", report)
	}
}

func TestReset_RequiresConfirmation(t *testing.T) {
	db := newHandlerDB(t)
	seedActions(t, db)
	r := newAdminRouter(t, db, stubPipeline{})

	w := doPost(t, r, "/admin/reset")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without confirm, got %d", w.Code)
	}

	count, err := repo.CountActions(context.Background(), db)
	if err != nil {
		t.Fatalf("CountActions: %v", err)
	}
	if count != 3 {
		t.Fatalf("reset should not have run, count=%d", count)
	}
}

func TestReset_DropsAllRows(t *testing.T) {
	db := newHandlerDB(t)
	seedActions(t, db)
	r := newAdminRouter(t, db, stubPipeline{})

	w := doPost(t, r, "/admin/reset?confirm=yes")
	if w.Code != http.StatusNoContent {
		t.Fatalf("POST /admin/reset -> %d: %s", w.Code, w.Body.String())
	}

	count, err := repo.CountActions(context.Background(), db)
	if err != nil {
		t.Fatalf("CountActions after reset: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected empty store after reset, got %d", count)
	}
}
