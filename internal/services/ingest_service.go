// Package services – IngestService
//
// This file implements the IngestService, which drives raw scraped records
// through repair, validation, theme tagging and deduplicated persistence.
// Every record ends in exactly one outcome (inserted, duplicate_skipped,
// validation_rejected or storage_error) and a batch summary reports the
// tally, so repeated runs over the same input are observably idempotent.
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/akratos/go-actions-backend/internal/batch"
	"github.com/akratos/go-actions-backend/internal/domain"
	"github.com/akratos/go-actions-backend/internal/qa"
	"github.com/akratos/go-actions-backend/internal/repo"
	"github.com/akratos/go-actions-backend/internal/themes"
)

// Outcome classifies what happened to a single record during ingestion.
type Outcome string

const (
	// OutcomeInserted means the record was stored as a new action.
	OutcomeInserted Outcome = "inserted"

	// OutcomeDuplicateSkipped means the record's content hash already
	// exists in the store.
	OutcomeDuplicateSkipped Outcome = "duplicate_skipped"

	// OutcomeValidationRejected means the record failed validation after
	// repair and was never offered to the store.
	OutcomeValidationRejected Outcome = "validation_rejected"

	// OutcomeStorageError means persistence failed for a reason other
	// than duplication.
	OutcomeStorageError Outcome = "storage_error"
)

// Rejection describes one record that did not make it into the store.
type Rejection struct {
	Index  int      `json:"index"`
	Title  string   `json:"title,omitempty"`
	Issues []string `json:"issues"`
}

// Summary is the per-batch ingestion tally. Total always equals the sum
// of the four outcome counters.
type Summary struct {
	Source             string      `json:"source,omitempty"`
	Total              int         `json:"total"`
	Inserted           int         `json:"inserted"`
	DuplicatesSkipped  int         `json:"duplicates_skipped"`
	ValidationRejected int         `json:"validation_rejected"`
	StorageErrors      int         `json:"storage_errors"`
	Rejections         []Rejection `json:"rejections,omitempty"`
}

func (s *Summary) add(other *Summary) {
	s.Total += other.Total
	s.Inserted += other.Inserted
	s.DuplicatesSkipped += other.DuplicatesSkipped
	s.ValidationRejected += other.ValidationRejected
	s.StorageErrors += other.StorageErrors
	s.Rejections = append(s.Rejections, other.Rejections...)
}

// OutcomeObserver receives one callback per processed record. It exists
// so the HTTP layer can feed ingestion counters without the service
// importing metrics code.
type OutcomeObserver func(o Outcome)

// IngestService turns raw batches into stored actions.
//
// A batch is processed record by record; individual rejections and
// duplicates never abort the batch. Storage failures abort the pass and
// the whole batch is retried with a constant delay, which is safe
// because the content hash constraint turns re-offered records into
// duplicate skips.
type IngestService struct {
	// DB is the database handle used for all persistence.
	DB *gorm.DB

	// MaxAttempts bounds how many times a failing batch pass is tried.
	// Zero or negative means a single attempt.
	MaxAttempts int

	// RetryDelay is the constant wait between batch attempts.
	RetryDelay time.Duration

	// Observe, when set, is invoked once per record outcome.
	Observe OutcomeObserver
}

// IngestBatch processes one raw batch and returns its summary. The
// returned error is non-nil only when a storage failure survived every
// retry attempt; the summary is valid either way.
func (s *IngestService) IngestBatch(ctx context.Context, b *domain.RawBatch) (*Summary, error) {
	attempts := s.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	var summary *Summary
	operation := func() error {
		var err error
		summary, err = s.ingestOnce(ctx, b)
		return err
	}

	bo := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(s.RetryDelay), uint64(attempts-1)),
		ctx,
	)
	err := backoff.Retry(operation, bo)
	if err != nil {
		log.Error().Err(err).Str("source", b.Source).Msg("batch ingestion failed after retries")
	}
	return summary, err
}

// IngestLatest ingests the most recent batch offered by src.
func (s *IngestService) IngestLatest(ctx context.Context, src batch.Source) (*Summary, error) {
	b, err := src.Latest()
	if err != nil {
		return nil, err
	}
	return s.IngestBatch(ctx, b)
}

// IngestAll ingests every batch offered by src, oldest first, and
// returns the combined summary. Processing stops at the first batch
// whose storage failures survive retries.
func (s *IngestService) IngestAll(ctx context.Context, src batch.Source) (*Summary, error) {
	batches, err := src.All()
	if err != nil {
		return nil, err
	}

	total := &Summary{}
	for _, b := range batches {
		sum, err := s.IngestBatch(ctx, b)
		if sum != nil {
			total.add(sum)
		}
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// InspectLatest builds a data quality report for the most recent batch
// without touching the store.
func (s *IngestService) InspectLatest(src batch.Source) (*qa.Report, error) {
	b, err := src.Latest()
	if err != nil {
		return nil, err
	}
	r := qa.Inspect(b.Records)
	return &r, nil
}

// ingestOnce runs a single pass over the batch. It returns an error only
// for storage failures; rejected and duplicate records are absorbed into
// the summary.
func (s *IngestService) ingestOnce(ctx context.Context, b *domain.RawBatch) (*Summary, error) {
	summary := &Summary{Source: b.Source, Total: len(b.Records)}

	var storageErr error
	for i, raw := range b.Records {
		rec := raw
		// Classification precedes repair: records arriving without themes
		// are tagged from the title, then Fix backstops anything the
		// classifier could not label.
		if len(rec.Themes) == 0 {
			rec.Themes = themes.ClassifyStrings(rec.Title)
		}
		rec = qa.Fix(rec)

		if issues := qa.Validate(rec, i); len(issues) > 0 {
			summary.ValidationRejected++
			summary.Rejections = append(summary.Rejections, Rejection{
				Index:  i,
				Title:  rec.Title,
				Issues: issues,
			})
			s.observe(OutcomeValidationRejected)
			continue
		}

		action, err := s.buildAction(rec)
		if err != nil {
			summary.ValidationRejected++
			summary.Rejections = append(summary.Rejections, Rejection{
				Index:  i,
				Title:  rec.Title,
				Issues: []string{err.Error()},
			})
			s.observe(OutcomeValidationRejected)
			continue
		}

		switch err := s.store(ctx, action); {
		case err == nil:
			summary.Inserted++
			s.observe(OutcomeInserted)
		case errors.Is(err, ErrDuplicateAction):
			summary.DuplicatesSkipped++
			s.observe(OutcomeDuplicateSkipped)
		default:
			summary.StorageErrors++
			s.observe(OutcomeStorageError)
			log.Warn().Err(err).Int("index", i).Str("title", rec.Title).
				Msg("failed to store action")
			if storageErr == nil {
				storageErr = err
			}
		}
	}

	return summary, storageErr
}

// buildAction converts a classified, repaired, validated record into a
// domain action. Failures wrap ErrInvalidRecord so callers can tell them
// apart from storage errors.
func (s *IngestService) buildAction(rec domain.RawAction) (*domain.Action, error) {
	occurredAt, err := domain.ParseActionTime(rec.Date)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRecord, err)
	}

	list := make(domain.ThemeList, len(rec.Themes))
	for i, th := range rec.Themes {
		list[i] = domain.Theme(th)
	}

	return domain.NewAction(rec.Title, occurredAt, rec.SourceURL, list)
}

// store persists one action, mapping unique-constraint violations to
// ErrDuplicateAction.
func (s *IngestService) store(ctx context.Context, a *domain.Action) error {
	if err := repo.CreateAction(ctx, s.DB, a); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) || isDuplicate(err) {
			return ErrDuplicateAction
		}
		return err
	}
	return nil
}

func (s *IngestService) observe(o Outcome) {
	if s.Observe != nil {
		s.Observe(o)
	}
}

// isDuplicate attempts to detect unique-constraint violations across
// drivers that may not map to gorm.ErrDuplicatedKey.
func isDuplicate(err error) bool {
	// SQLite typically: "UNIQUE constraint failed"
	// Postgres typically: "duplicate key value violates unique constraint"
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "duplicate key")
}
