// Package services – PipelineService
//
// This file implements the PipelineService, which composes the scraper, the
// batch directory and the ingestion service into the refresh flow used by the
// admin API and the CLI: fetch upstream listings, snapshot them to disk, then
// ingest the snapshot.
package services

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/akratos/go-actions-backend/internal/batch"
	"github.com/akratos/go-actions-backend/internal/domain"
	"github.com/akratos/go-actions-backend/internal/qa"
)

// Fetcher retrieves raw records from the upstream site.
type Fetcher interface {
	Fetch(ctx context.Context) ([]domain.RawAction, error)
}

// PipelineService drives the full refresh flow. Snapshots are written
// before ingestion so a failed ingest can be replayed from disk.
type PipelineService struct {
	// Fetcher pulls raw records from upstream.
	Fetcher Fetcher

	// DataDir is where batch snapshots are written.
	DataDir string

	// Ingest persists batches.
	Ingest *IngestService

	// Source discovers previously written batches.
	Source batch.Source
}

// Refresh fetches upstream listings, snapshots them to the data directory
// and ingests the snapshot. It returns the ingestion summary.
func (p *PipelineService) Refresh(ctx context.Context) (*Summary, error) {
	records, err := p.Fetcher.Fetch(ctx)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		// An empty fetch writes no snapshot; the data directory only ever
		// holds batches worth replaying.
		return nil, ErrNoData
	}

	path, err := batch.Save(p.DataDir, records, time.Now())
	if err != nil {
		return nil, err
	}
	log.Info().Str("path", path).Int("records", len(records)).Msg("saved batch snapshot")

	return p.Ingest.IngestBatch(ctx, &domain.RawBatch{Source: path, Records: records})
}

// LoadLatest ingests the most recent batch snapshot without fetching.
func (p *PipelineService) LoadLatest(ctx context.Context) (*Summary, error) {
	return p.Ingest.IngestLatest(ctx, p.Source)
}

// LoadAll ingests every batch snapshot, oldest first.
func (p *PipelineService) LoadAll(ctx context.Context) (*Summary, error) {
	return p.Ingest.IngestAll(ctx, p.Source)
}

// InspectLatest reports data quality findings for the most recent batch
// snapshot without touching the store.
func (p *PipelineService) InspectLatest() (*qa.Report, error) {
	return p.Ingest.InspectLatest(p.Source)
}
