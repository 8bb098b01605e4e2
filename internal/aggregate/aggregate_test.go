package aggregate

import (
	"testing"

	"github.com/akratos/go-actions-backend/internal/domain"
)

func action(t *testing.T, title, date string, themes ...domain.Theme) domain.Action {
	t.Helper()
	ts, err := domain.ParseActionTime(date)
	if err != nil {
		t.Fatalf("parse %q: %v", date, err)
	}
	if len(themes) == 0 {
		themes = []domain.Theme{domain.ThemeAmericaFirst}
	}
	a, err := domain.NewAction(title, ts, "", themes)
	if err != nil {
		t.Fatalf("new action: %v", err)
	}
	return *a
}

func TestByDay_SortedNoZeroFill(t *testing.T) {
	actions := []domain.Action{
		action(t, "c", "2025-01-03T10:00:00-05:00"),
		action(t, "a1", "2025-01-01T09:00:00-05:00"),
		action(t, "a2", "2025-01-01T15:00:00-05:00"),
	}

	got := ByDay(actions)
	if len(got) != 2 {
		t.Fatalf("expected 2 days (no synthesized 2025-01-02), got %v", got)
	}
	if got[0].Date != "2025-01-01" || got[0].Count != 2 {
		t.Fatalf("unexpected first day: %+v", got[0])
	}
	if got[1].Date != "2025-01-03" || got[1].Count != 1 {
		t.Fatalf("unexpected second day: %+v", got[1])
	}
}

func TestByDay_Empty(t *testing.T) {
	if got := ByDay(nil); len(got) != 0 {
		t.Fatalf("expected empty result, got %v", got)
	}
}

func TestByHourOfDay_ZeroFillOnEmpty(t *testing.T) {
	got := ByHourOfDay(nil)
	if len(got) != 24 {
		t.Fatalf("expected 24 buckets, got %d", len(got))
	}
	for h := 0; h < 24; h++ {
		if n, ok := got[h]; !ok || n != 0 {
			t.Fatalf("hour %d: expected present and zero, got %d (present=%v)", h, n, ok)
		}
	}
}

func TestByHourOfDay_SuperpositionAcrossDays(t *testing.T) {
	actions := []domain.Action{
		action(t, "a", "2025-02-09T17:08:57-05:00"),
		action(t, "b", "2025-02-09T09:00:00-05:00"),
		action(t, "c", "2025-03-01T09:30:00-05:00"),
	}

	got := ByHourOfDay(actions)
	if got[9] != 2 || got[17] != 1 {
		t.Fatalf("unexpected buckets: 9=%d 17=%d", got[9], got[17])
	}
	total := 0
	for _, n := range got {
		total += n
	}
	if total != 3 {
		t.Fatalf("counts across hours must sum to record count, got %d", total)
	}
}

func TestByTheme_DescendingWithStableTies(t *testing.T) {
	actions := []domain.Action{
		action(t, "a", "2025-02-09T17:08:57-05:00", domain.ThemeNationalSecurity),
		action(t, "b", "2025-02-09T09:00:00-05:00", domain.ThemeCelebratory),
		action(t, "c", "2025-02-10T09:00:00-05:00", domain.ThemeCelebratory),
		action(t, "d", "2025-02-11T09:00:00-05:00", domain.ThemeForeignPolicy),
	}

	got := ByTheme(actions)
	if len(got) != 3 {
		t.Fatalf("expected 3 themes, got %v", got)
	}
	if got[0].Theme != domain.ThemeCelebratory || got[0].Count != 2 {
		t.Fatalf("expected celebratory first with 2, got %+v", got[0])
	}
	// Tie between security and foreign policy resolves by encounter order.
	if got[1].Theme != domain.ThemeNationalSecurity || got[2].Theme != domain.ThemeForeignPolicy {
		t.Fatalf("tie order not stable: %+v", got)
	}
}

func TestByTheme_MultiLabelRecordsCountEverywhere(t *testing.T) {
	actions := []domain.Action{
		action(t, "a", "2025-02-09T10:00:00-05:00", domain.ThemeNationalSecurity, domain.ThemeForeignPolicy),
	}
	got := ByTheme(actions)
	if len(got) != 2 {
		t.Fatalf("multi-label record must hit every bucket: %v", got)
	}
	if got[0].Count+got[1].Count != 2 {
		t.Fatalf("theme counts may exceed record count: %v", got)
	}
}

func TestByDay_UsesCarriedZone(t *testing.T) {
	// 2025-01-02T01:30+03:00 is 2025-01-01T22:30 UTC; the grouping uses the
	// date in the timestamp's own zone.
	ts, _ := domain.ParseActionTime("2025-01-02T01:30:00+03:00")
	a, _ := domain.NewAction("t", ts, "", domain.ThemeList{domain.ThemeAmericaFirst})
	got := ByDay([]domain.Action{*a})
	if len(got) != 1 || got[0].Date != "2025-01-02" {
		t.Fatalf("expected grouping in carried zone, got %v", got)
	}
}
