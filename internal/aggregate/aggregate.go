// Package aggregate computes the read-side groupings served by the
// dashboard: counts per calendar day, per hour of day, and per theme.
//
// All three are pure functions over a slice of stored actions so that the
// live query path and static chart-series export share one implementation.
// Empty input yields empty (daily, theme) or zero-filled (hourly) results,
// never an error.
package aggregate

import (
	"sort"

	"github.com/akratos/go-actions-backend/internal/domain"
)

// dayLayout is the calendar-date grouping key format.
const dayLayout = "2006-01-02"

// DailyCount is the number of actions on one calendar date.
type DailyCount struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// ThemeCount is the number of actions carrying one theme label.
type ThemeCount struct {
	Theme domain.Theme `json:"theme"`
	Count int          `json:"count"`
}

// ByDay groups actions by the calendar-date portion of their timestamp, in
// the zone each timestamp carries, and returns per-day counts sorted
// ascending by date. Days with no actions are absent — the daily chart does
// not synthesize zero bars.
func ByDay(actions []domain.Action) []DailyCount {
	counts := make(map[string]int)
	for _, a := range actions {
		counts[a.OccurredAt.Format(dayLayout)]++
	}

	out := make([]DailyCount, 0, len(counts))
	for date, n := range counts {
		out = append(out, DailyCount{Date: date, Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}

// ByHourOfDay groups actions by the hour component of their timestamp
// (0–23), discarding the date — a superposition across all days. The result
// always contains all 24 hours, with absent hours at zero, because the
// radial presentation has a fixed 24-slot layout.
func ByHourOfDay(actions []domain.Action) map[int]int {
	out := make(map[int]int, 24)
	for h := 0; h < 24; h++ {
		out[h] = 0
	}
	for _, a := range actions {
		out[a.OccurredAt.Hour()]++
	}
	return out
}

// ByTheme counts how many actions carry each theme label. One action
// contributes to every label it carries, so the counts sum to at least the
// number of actions. Results are sorted descending by count; ties keep the
// order in which themes were first encountered.
func ByTheme(actions []domain.Action) []ThemeCount {
	counts := make(map[domain.Theme]int)
	var order []domain.Theme

	for _, a := range actions {
		for _, t := range a.Themes {
			if _, seen := counts[t]; !seen {
				order = append(order, t)
			}
			counts[t]++
		}
	}

	out := make([]ThemeCount, 0, len(order))
	for _, t := range order {
		out = append(out, ThemeCount{Theme: t, Count: counts[t]})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	return out
}
