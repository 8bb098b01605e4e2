package domain

import (
	"encoding/json"
	"testing"
	"time"
)

func TestComputeContentHash_Deterministic(t *testing.T) {
	ts := time.Date(2025, 2, 9, 17, 8, 57, 0, time.FixedZone("EST", -5*3600))

	h1 := ComputeContentHash("Border Security Act", ts, "https://example.gov/a")
	h2 := ComputeContentHash("Border Security Act", ts, "https://example.gov/a")
	if h1 != h2 {
		t.Fatalf("hash not deterministic: %s vs %s", h1, h2)
	}
	if len(h1) != 64 {
		t.Fatalf("expected 64 hex chars, got %d", len(h1))
	}
}

func TestComputeContentHash_FieldSensitivity(t *testing.T) {
	ts := time.Date(2025, 2, 9, 17, 8, 57, 0, time.UTC)
	base := ComputeContentHash("Title", ts, "u")

	if ComputeContentHash("Title!", ts, "u") == base {
		t.Fatal("hash ignored title change")
	}
	if ComputeContentHash("Title", ts.Add(time.Second), "u") == base {
		t.Fatal("hash ignored timestamp change")
	}
	if ComputeContentHash("Title", ts, "u2") == base {
		t.Fatal("hash ignored source URL change")
	}
}

func TestNewAction_ComputesHashAndID(t *testing.T) {
	ts := time.Date(2025, 2, 9, 9, 0, 0, 0, time.FixedZone("EST", -5*3600))

	a, err := NewAction("National Flag Day", ts, "https://example.gov/flag", ThemeList{ThemeCelebratory})
	if err != nil {
		t.Fatalf("NewAction: %v", err)
	}
	if a.ID == "" {
		t.Fatal("expected generated ID")
	}
	if a.ContentHash != ComputeContentHash("National Flag Day", ts, "https://example.gov/flag") {
		t.Fatal("hash mismatch with ComputeContentHash")
	}
	if a.SourceURL == nil || *a.SourceURL != "https://example.gov/flag" {
		t.Fatalf("source url not retained: %v", a.SourceURL)
	}
}

func TestNewAction_EmptySourceURLIsNull(t *testing.T) {
	a, err := NewAction("T", time.Now(), "", ThemeList{ThemeAmericaFirst})
	if err != nil {
		t.Fatalf("NewAction: %v", err)
	}
	if a.SourceURL != nil {
		t.Fatalf("expected nil source url, got %q", *a.SourceURL)
	}
}

func TestNewAction_Invariants(t *testing.T) {
	ts := time.Now()
	cases := []struct {
		name   string
		title  string
		when   time.Time
		themes ThemeList
	}{
		{"blank title", "   ", ts, ThemeList{ThemeAmericaFirst}},
		{"zero time", "T", time.Time{}, ThemeList{ThemeAmericaFirst}},
		{"empty themes", "T", ts, nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := NewAction(tc.title, tc.when, "", tc.themes); err == nil {
				t.Fatal("expected construction error")
			}
		})
	}
}

func TestParseActionTime_OffsetDatetime(t *testing.T) {
	got, err := ParseActionTime("2025-02-09T17:08:57-05:00")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got.Hour() != 17 {
		t.Fatalf("expected hour 17 in source offset, got %d", got.Hour())
	}
	_, off := got.Zone()
	if off != -5*3600 {
		t.Fatalf("expected -05:00 offset, got %d", off)
	}
}

func TestParseActionTime_DateOnly(t *testing.T) {
	got, err := ParseActionTime("2025-02-09")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if !got.Equal(time.Date(2025, 2, 9, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("expected midnight UTC, got %v", got)
	}
}

func TestParseActionTime_Invalid(t *testing.T) {
	for _, s := range []string{"", "  ", "09/02/2025", "2025-13-40", "not a date"} {
		if _, err := ParseActionTime(s); err == nil {
			t.Fatalf("expected error for %q", s)
		}
	}
}

func TestThemeList_RoundTrip(t *testing.T) {
	l := ThemeList{ThemeNationalSecurity, ThemeForeignPolicy}

	v, err := l.Value()
	if err != nil {
		t.Fatalf("value: %v", err)
	}
	s, ok := v.(string)
	if !ok {
		t.Fatalf("unexpected serialized form: %v", v)
	}
	// json.Marshal HTML-escapes "&", so compare decoded labels rather
	// than the raw column text.
	var labels []string
	if err := json.Unmarshal([]byte(s), &labels); err != nil {
		t.Fatalf("serialized form is not a JSON array: %v", err)
	}
	if len(labels) != 2 || labels[0] != string(ThemeNationalSecurity) {
		t.Fatalf("unexpected serialized labels: %v", labels)
	}

	var back ThemeList
	if err := back.Scan(s); err != nil {
		t.Fatalf("scan: %v", err)
	}
	if len(back) != 2 || back[0] != ThemeNationalSecurity || back[1] != ThemeForeignPolicy {
		t.Fatalf("round trip mismatch: %v", back)
	}
}

func TestThemeList_EmptyValueRejected(t *testing.T) {
	var l ThemeList
	if _, err := l.Value(); err == nil {
		t.Fatal("expected error serializing empty theme list")
	}
}
