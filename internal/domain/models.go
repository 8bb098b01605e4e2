// Package domain defines the persistence model for presidential-action
// records and the raw scraped form they are ingested from. The Action type
// is mapped with GORM and forms the core data layer of the application.
package domain

import (
	"crypto/sha256"
	"database/sql/driver"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Theme is a topical label assigned to an action title by keyword
// heuristics. Labels are non-exclusive: one action may carry several.
//
// Themes are typed constants rather than free text so that a typo cannot
// silently create a new category in the store.
type Theme string

// The fixed theme taxonomy. ThemeAmericaFirst is the fallback assigned when
// no other theme matches; the classifier guarantees every action carries at
// least one label.
const (
	ThemeNationalSecurity    Theme = "National Security & Border Enforcement"
	ThemeCulturalValues      Theme = "Cultural & Traditional Values"
	ThemeEconomicNationalism Theme = "Deregulation & Economic Nationalism"
	ThemeForeignPolicy       Theme = "Foreign Policy Realignment"
	ThemeCelebratory         Theme = "Celebratory & Identity-Driven Initiatives"
	ThemeAmericaFirst        Theme = "America First"
)

// ThemeList is an ordered set of theme labels stored as a single JSON text
// column. Order is preserved for display; it is irrelevant for matching.
type ThemeList []Theme

// Value serializes the list as JSON for storage.
func (l ThemeList) Value() (driver.Value, error) {
	if len(l) == 0 {
		return nil, errors.New("themes must not be empty at persistence")
	}
	b, err := json.Marshal(l)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan deserializes the JSON column back into the list.
func (l *ThemeList) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*l = nil
		return nil
	case string:
		return json.Unmarshal([]byte(v), l)
	case []byte:
		return json.Unmarshal(v, l)
	default:
		return fmt.Errorf("themes: cannot scan %T", src)
	}
}

// Strings returns the labels as plain strings.
func (l ThemeList) Strings() []string {
	out := make([]string, len(l))
	for i, t := range l {
		out[i] = string(t)
	}
	return out
}

// Action represents one classified, validated presidential-action record
// ready for storage. Actions are immutable after construction: corrections
// are made by re-deriving a new record from corrected raw input, never by
// editing a stored row.
//
// Fields:
//   - ID: stable UUID primary key (char(36)).
//   - Title: the announcement title as scraped; never blank.
//   - OccurredAt: full timestamp with offset; indexed for the aggregations.
//   - SourceURL: optional capture URL; carries no uniqueness constraint.
//   - Themes: non-empty ordered set of labels, JSON-encoded in one column.
//   - ContentHash: sha256 digest of (title, timestamp, source URL); the sole
//     global uniqueness key, enforced by a unique index.
//   - CreatedAt / UpdatedAt: timestamps managed by GORM.
type Action struct {
	ID          string    `json:"id"                   gorm:"type:char(36);primaryKey"`
	Title       string    `json:"title"                gorm:"type:text;not null"`
	OccurredAt  time.Time `json:"occurred_at"          gorm:"not null;index:idx_actions_occurred"`
	SourceURL   *string   `json:"source_url,omitempty" gorm:"type:text"`
	Themes      ThemeList `json:"themes"               gorm:"type:text;not null"`
	ContentHash string    `json:"content_hash"         gorm:"type:char(64);not null;uniqueIndex:ux_actions_content_hash"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName returns the database table name for Action.
func (Action) TableName() string { return "presidential_actions" }

// ErrInvalidAction is returned by NewAction when a construction invariant
// (non-blank title, non-zero timestamp, non-empty themes) is violated.
// Callers are expected to have validated and repaired raw input first, so
// hitting this indicates a pipeline bug rather than bad source data.
var ErrInvalidAction = errors.New("invalid action record")

// NewAction constructs an immutable Action and computes its content hash.
// The hash is derived at construction time so a record can never reach the
// storage boundary without its identity.
func NewAction(title string, occurredAt time.Time, sourceURL string, themes ThemeList) (*Action, error) {
	if strings.TrimSpace(title) == "" {
		return nil, fmt.Errorf("%w: blank title", ErrInvalidAction)
	}
	if occurredAt.IsZero() {
		return nil, fmt.Errorf("%w: zero timestamp", ErrInvalidAction)
	}
	if len(themes) == 0 {
		return nil, fmt.Errorf("%w: empty themes", ErrInvalidAction)
	}

	a := &Action{
		ID:          uuid.NewString(),
		Title:       title,
		OccurredAt:  occurredAt,
		Themes:      themes,
		ContentHash: ComputeContentHash(title, occurredAt, sourceURL),
		CreatedAt:   time.Now().UTC(),
	}
	if sourceURL != "" {
		a.SourceURL = &sourceURL
	}
	return a, nil
}

// ComputeContentHash derives the deterministic identity digest of a record
// from its immutable fields. The timestamp is normalized to RFC 3339 and the
// fields are joined with an unprintable separator so distinct triples can
// never produce the same pre-image.
func ComputeContentHash(title string, occurredAt time.Time, sourceURL string) string {
	sum := sha256.Sum256([]byte(title + "\x1f" + occurredAt.Format(time.RFC3339) + "\x1f" + sourceURL))
	return hex.EncodeToString(sum[:])
}

// RawAction is one untyped record as produced by the scrape collaborator or
// read back from a batch file. Title and Date are required; Themes is filled
// in by the classifier before validation and SourceURL is optional.
type RawAction struct {
	Title     string   `json:"title"`
	Date      string   `json:"date"`
	SourceURL string   `json:"source_url,omitempty"`
	Themes    []string `json:"themes,omitempty"`
}

// RawBatch is one raw input file's worth of records, processed as a single
// retry unit by the ingestion orchestrator.
type RawBatch struct {
	// Source identifies the originating file or page for logs and reports.
	Source string
	// Records are the raw entries in source order.
	Records []RawAction
}

// dateOnlyLayout accepts the date-only ISO-8601 form emitted by older
// batch files ("2025-02-09").
const dateOnlyLayout = "2006-01-02"

// ParseActionTime parses an ISO-8601 timestamp, accepting both the full
// offset-aware datetime form and the date-only form. Date-only values are
// pinned to midnight UTC so the derived content hash does not depend on the
// host timezone.
func ParseActionTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, errors.New("empty timestamp")
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	if t, err := time.Parse(dateOnlyLayout, s); err == nil {
		return t.UTC(), nil
	}
	return time.Time{}, fmt.Errorf("invalid ISO-8601 timestamp %q", s)
}
