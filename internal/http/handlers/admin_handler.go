// Admin HTTP handlers.
//
// This file exposes the operational endpoints used to drive the pipeline:
//   - POST /admin/refresh  (scrape upstream, snapshot, ingest)
//   - POST /admin/load     (re-ingest the latest on-disk batch)
//   - GET  /admin/qa       (data quality report for the latest batch)
//   - POST /admin/reset    (drop and recreate the actions table)
//
// These endpoints mutate state or talk to the upstream site, so deployments
// should place them behind network-level access control.
package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/akratos/go-actions-backend/internal/batch"
	"github.com/akratos/go-actions-backend/internal/qa"
	"github.com/akratos/go-actions-backend/internal/repo"
	"github.com/akratos/go-actions-backend/internal/services"
)

// PipelineService defines the pipeline operations consumed by the admin
// endpoints.
//
// Implementations should be safe for concurrent use and must honor the
// provided context for cancellation and timeouts.
type PipelineService interface {
	// Refresh fetches upstream listings, snapshots them and ingests the result.
	Refresh(ctx context.Context) (*services.Summary, error)
	// LoadLatest re-ingests the most recent on-disk batch.
	LoadLatest(ctx context.Context) (*services.Summary, error)
	// InspectLatest reports data quality findings for the most recent batch.
	InspectLatest() (*qa.Report, error)
}

// ResetConfirm is the query parameter value required by the reset endpoint.
const ResetConfirm = "yes"

// Refresh godoc
// @ID          adminRefresh
// @Summary     Scrape and ingest
// @Description Fetches the upstream listing, writes a batch snapshot and ingests it. Returns the ingestion summary.
// @Tags        Admin
// @Produce     json
//
// @Success     200  {object} services.Summary
// @Failure     502  {object} handlers.ErrorResponse "Upstream fetch failed"
// @Failure     500  {object} handlers.ErrorResponse "Ingestion failed"
// @Router      /admin/refresh [post]
func (h *Handlers) Refresh(c *gin.Context) {
	sum, err := h.pipeSvc.Refresh(c.Request.Context())
	if err != nil {
		status := http.StatusInternalServerError
		if sum == nil {
			// No summary means we never reached ingestion.
			status = http.StatusBadGateway
		}
		fail(c, status, ErrCodeIngestFailed, err.Error())
		return
	}
	ok(c, http.StatusOK, sum)
}

// Load godoc
// @ID          adminLoad
// @Summary     Ingest the latest batch snapshot
// @Description Re-ingests the most recent batch file from the data directory without fetching upstream.
// @Tags        Admin
// @Produce     json
//
// @Success     200  {object} services.Summary
// @Failure     404  {object} handlers.ErrorResponse "No batch files found"
// @Failure     500  {object} handlers.ErrorResponse "Ingestion failed"
// @Router      /admin/load [post]
func (h *Handlers) Load(c *gin.Context) {
	sum, err := h.pipeSvc.LoadLatest(c.Request.Context())
	if err != nil {
		if errors.Is(err, batch.ErrNoBatches) {
			fail(c, http.StatusNotFound, ErrCodeNotFound, "no batch files found")
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeIngestFailed, err.Error())
		return
	}
	ok(c, http.StatusOK, sum)
}

// QAReport godoc
// @ID          adminQAReport
// @Summary     Data quality report
// @Description Inspects the latest batch snapshot and reports invalid records and advisory duplicate groups. Nothing is modified.
// @Tags        Admin
// @Produce     json
//
// @Success     200  {object} qa.Report
// @Failure     404  {object} handlers.ErrorResponse "No batch files found"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /admin/qa [get]
func (h *Handlers) QAReport(c *gin.Context) {
	report, err := h.pipeSvc.InspectLatest()
	if err != nil {
		if errors.Is(err, batch.ErrNoBatches) {
			fail(c, http.StatusNotFound, ErrCodeNotFound, "no batch files found")
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}
	ok(c, http.StatusOK, report)
}

// Reset godoc
// @ID          adminReset
// @Summary     Reset the store
// @Description Drops and recreates the actions table. Destroys all stored data; requires confirm=yes.
// @Tags        Admin
// @Produce     json
//
// @Param       confirm  query  string  true  "Must be \"yes\" to proceed"
//
// @Success     204  {string} string "No Content"
// @Failure     400  {object} handlers.ErrorResponse "Missing confirmation"
// @Failure     500  {object} handlers.ErrorResponse "Reset failed"
// @Router      /admin/reset [post]
func (h *Handlers) Reset(c *gin.Context) {
	if c.Query("confirm") != ResetConfirm {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "pass confirm=yes to reset the store")
		return
	}
	if err := repo.Reset(h.db); err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeResetFailed, err.Error())
		return
	}
	noContent(c)
}
