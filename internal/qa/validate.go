// Package qa implements structural validation, deterministic repair, and
// advisory duplicate detection for raw scraped records before they are
// handed to the ingestion pipeline.
//
// Validation and repair are deliberately separate operations: Validate
// reports every violated check (it never short-circuits), while Fix applies
// only the repairs that are safe to make mechanically. A record with a
// missing title or an unparseable date is a hard failure — it is excluded
// from loading, never patched with placeholder values.
package qa

import (
	"fmt"
	"strings"

	"github.com/akratos/go-actions-backend/internal/domain"
)

// Validate checks the structural validity of one raw record and returns a
// description of every violated check. An empty result means the record is
// valid. The index is carried into messages for log correlation only.
//
// Checks (independent, all evaluated):
//  1. title present and non-blank after trimming
//  2. date present and parseable as ISO-8601 (date-only or offset datetime)
//  3. themes present and non-empty
func Validate(rec domain.RawAction, index int) []string {
	var errs []string

	if strings.TrimSpace(rec.Title) == "" {
		errs = append(errs, "missing or empty title")
	}

	if rec.Date == "" {
		errs = append(errs, "missing date")
	} else if _, err := domain.ParseActionTime(rec.Date); err != nil {
		errs = append(errs, fmt.Sprintf("invalid date format: %s", rec.Date))
	}

	if rec.Themes == nil {
		errs = append(errs, "missing themes field")
	} else if len(rec.Themes) == 0 {
		errs = append(errs, "empty themes field")
	}

	return errs
}

// Fix applies deterministic repairs to a raw record and returns the result.
// The only repair is injecting the default theme when themes are absent or
// empty; title and date pass through untouched. Fix is idempotent:
// Fix(Fix(r)) == Fix(r).
func Fix(rec domain.RawAction) domain.RawAction {
	if len(rec.Themes) == 0 {
		rec.Themes = []string{string(domain.ThemeAmericaFirst)}
	}
	return rec
}

// RecordErrors ties a failed record to its position and the checks it
// violated, for the QA report and rejection logs.
type RecordErrors struct {
	Index  int      `json:"index"`
	Title  string   `json:"title"`
	Errors []string `json:"errors"`
}

// DuplicateGroup lists the indices of records sharing one advisory
// (title, date) natural key.
type DuplicateGroup struct {
	Title   string `json:"title"`
	Date    string `json:"date"`
	Indices []int  `json:"indices"`
}

// Report summarizes QA findings for one batch. Duplicate groups are
// advisory only: the records stay in the batch and final deduplication
// authority is the content-hash uniqueness constraint at the storage
// boundary. The advisory key catches near-duplicates the hash treats as
// distinct (same title and date captured from a different source URL),
// surfacing them for review.
type Report struct {
	Total      int              `json:"total"`
	Invalid    []RecordErrors   `json:"invalid,omitempty"`
	Duplicates []DuplicateGroup `json:"duplicates,omitempty"`
}

// Inspect validates every record in a batch and flags advisory duplicates.
// It never mutates or drops records; callers decide what to do with the
// findings (the orchestrator rejects invalid records after attempting Fix).
func Inspect(records []domain.RawAction) Report {
	rep := Report{Total: len(records)}

	type key struct{ title, date string }
	seen := make(map[key][]int)

	for idx, rec := range records {
		if errs := Validate(rec, idx); len(errs) > 0 {
			rep.Invalid = append(rep.Invalid, RecordErrors{Index: idx, Title: rec.Title, Errors: errs})
		}
		k := key{rec.Title, rec.Date}
		seen[k] = append(seen[k], idx)
	}

	// Emit groups in first-encounter order for stable reports.
	emitted := make(map[key]bool)
	for _, rec := range records {
		k := key{rec.Title, rec.Date}
		if emitted[k] {
			continue
		}
		emitted[k] = true
		if idxs := seen[k]; len(idxs) > 1 {
			rep.Duplicates = append(rep.Duplicates, DuplicateGroup{
				Title:   rec.Title,
				Date:    rec.Date,
				Indices: idxs,
			})
		}
	}

	return rep
}
