package store

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/swamp-dev/mastery/internal/catalog"
	"github.com/swamp-dev/mastery/internal/clock"
	"github.com/swamp-dev/mastery/internal/record"
)

var testToday = time.Date(2026, 10, 18, 12, 0, 0, 0, time.Local)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(":memory:", WithClock(clock.Fixed(testToday)))
	if err != nil {
		t.Fatalf("opening test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpen(t *testing.T) {
	s := openTestStore(t)
	if s == nil {
		t.Fatal("expected non-nil store")
	}
}

func TestSchemaVersion(t *testing.T) {
	b, err := OpenSQLite(":memory:", 0)
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	defer b.Close()

	var version int
	if err := b.db.QueryRow("SELECT MAX(version) FROM schema_version").Scan(&version); err != nil {
		t.Fatalf("querying schema version: %v", err)
	}
	if version != currentSchemaVersion {
		t.Errorf("expected schema version %d, got %d", currentSchemaVersion, version)
	}
}

func TestGetFallback(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	got := Get(ctx, s, "missing", map[string]int{"x": 1})
	if got["x"] != 1 {
		t.Errorf("expected fallback for missing key, got %v", got)
	}

	if !s.SetString(ctx, "broken", "{not json") {
		t.Fatal("SetString failed")
	}
	got = Get(ctx, s, "broken", map[string]int{"x": 2})
	if got["x"] != 2 {
		t.Errorf("expected fallback for malformed value, got %v", got)
	}

	if !s.Set(ctx, "good", map[string]int{"y": 3}) {
		t.Fatal("Set failed")
	}
	got = Get(ctx, s, "good", map[string]int{})
	if got["y"] != 3 {
		t.Errorf("expected stored value, got %v", got)
	}
}

func TestGetStringFallback(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if got := s.GetString(ctx, IntensityKey, "standard"); got != "standard" {
		t.Errorf("GetString() = %q, want fallback", got)
	}
	s.SetString(ctx, IntensityKey, "legend")
	if got := s.GetString(ctx, IntensityKey, "standard"); got != "legend" {
		t.Errorf("GetString() = %q, want legend", got)
	}
}

func TestDayRoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	cat := catalog.Default()
	day := clock.Today(s.Clock())
	now := day.Add(9 * time.Hour)

	r := record.New()
	task, err := r.AddTask(cat, "Run lines for audition", "acting", 30, now)
	if err != nil {
		t.Fatalf("AddTask: %v", err)
	}
	if _, err := r.ToggleTask(task.ID, now.Add(time.Hour)); err != nil {
		t.Fatalf("ToggleTask: %v", err)
	}
	if err := r.LogXP(cat, catalog.Physical, "cardio", 140, now); err != nil {
		t.Fatalf("LogXP: %v", err)
	}
	if err := r.SaveAlignment(cat, "Ran lines twice and did a full cardio block."); err != nil {
		t.Fatalf("SaveAlignment: %v", err)
	}

	if !s.PutDay(ctx, day, r) {
		t.Fatal("PutDay failed")
	}

	got := s.Day(ctx, day)
	if diff := cmp.Diff(r, got); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestDayDefaults(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	day := clock.Today(s.Clock())

	s.SetString(ctx, DayKey(day), `{"alignment":"yes"}`)
	r := s.Day(ctx, day)
	if r.Alignment || r.Tasks == nil || r.Domains == nil {
		t.Errorf("expected normalized defaults, got %+v", r)
	}

	s.SetString(ctx, DayKey(day), `[1,2,3]`)
	r = s.Day(ctx, day)
	if r.Tasks == nil || r.Domains == nil || len(r.Tasks) != 0 {
		t.Errorf("expected fresh record for wrong shape, got %+v", r)
	}
}

func TestUpdateDay(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	cat := catalog.Default()
	day := clock.Today(s.Clock())

	_, err := s.UpdateDay(ctx, day, func(r *record.DailyRecord) error {
		return r.LogXP(cat, catalog.Recovery, "sleep", 20, day)
	})
	if err != nil {
		t.Fatalf("UpdateDay: %v", err)
	}

	_, err = s.UpdateDay(ctx, day, func(r *record.DailyRecord) error {
		return r.LogXP(cat, catalog.Recovery, "sleep", -1, day)
	})
	if err == nil {
		t.Fatal("expected validation error")
	}

	if got := s.Day(ctx, day).Domains[catalog.Recovery].Total; got != 20 {
		t.Errorf("recovery total = %d, want 20", got)
	}
}

func TestSweepOlderThan(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	today := clock.Today(s.Clock())

	for _, offset := range []int{0, -10, -100, -200} {
		s.PutDay(ctx, today.AddDate(0, 0, offset), record.New())
	}
	s.SetString(ctx, TodaysGoalKey(today.AddDate(0, 0, -200)), "old goal")
	s.SetString(ctx, CountKey("callbacks", today.AddDate(-1, 0, 0)), "4")

	removed, err := s.SweepOlderThan(ctx, s.RetentionCutoff())
	if err != nil {
		t.Fatalf("SweepOlderThan: %v", err)
	}
	if removed != 2 {
		t.Errorf("removed %d, want 2", removed)
	}

	days, _ := s.RecordedDays(ctx)
	if len(days) != 2 {
		t.Errorf("expected 2 remaining days, got %d", len(days))
	}
	if s.GetString(ctx, TodaysGoalKey(today.AddDate(0, 0, -200)), "") != "old goal" {
		t.Error("sweep must only delete daily records")
	}
}

func TestSetSweepsOnQuota(t *testing.T) {
	b, err := OpenSQLite(":memory:", 400)
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	s := New(b, WithClock(clock.Fixed(testToday)))
	defer s.Close()
	ctx := context.Background()

	old := clock.Today(s.Clock()).AddDate(0, -6, 0)
	if !s.SetString(ctx, DayKey(old), strings.Repeat("x", 300)) {
		t.Fatal("initial write should fit")
	}

	if !s.SetString(ctx, "industry_relationships", strings.Repeat("y", 200)) {
		t.Fatal("write should succeed after sweeping the old record")
	}
	if s.GetString(ctx, DayKey(old), "") != "" {
		t.Error("old record should have been swept")
	}

	if s.SetString(ctx, "huge", strings.Repeat("z", 1000)) {
		t.Error("oversized write should fail after one retry")
	}
}

func TestParseDayKey(t *testing.T) {
	tests := []struct {
		key  string
		want bool
	}{
		{"mastery_2026-10-18", true},
		{"mastery_todays_goal_2026-10-18", false},
		{"mastery_review_2026-10-12", false},
		{"mastery_callbacks_2026-10", false},
		{"mastery_goal_path", false},
		{"mastery_2026-13-45", false},
		{"industry_events_2026-10", false},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			if _, ok := ParseDayKey(tt.key); ok != tt.want {
				t.Errorf("ParseDayKey(%q) = %v, want %v", tt.key, ok, tt.want)
			}
		})
	}
}

func TestKeyHelpers(t *testing.T) {
	day := time.Date(2026, 10, 15, 0, 0, 0, 0, time.Local)

	tests := []struct {
		got  string
		want string
	}{
		{DayKey(day), "mastery_2026-10-15"},
		{TodaysGoalKey(day), "mastery_todays_goal_2026-10-15"},
		{ReviewKey(day), "mastery_review_2026-10-12"},
		{IndustryKey("events", day), "industry_events_2026-10"},
		{HistoryKey("callbacks", day), "callbacks_history_2026-10"},
		{CountKey("callbacks", day), "mastery_callbacks_2026-10"},
	}

	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("got %q, want %q", tt.got, tt.want)
		}
	}
}

func TestDaysBetween(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	start := time.Date(2026, 10, 14, 0, 0, 0, 0, time.Local)
	r := record.New()
	r.Alignment = true
	if !s.PutDay(ctx, start.AddDate(0, 0, 1), r) {
		t.Fatal("PutDay failed")
	}

	dates, recs := s.DaysBetween(ctx, start, start.AddDate(0, 0, 2))
	if len(dates) != 3 || len(recs) != 3 {
		t.Fatalf("expected 3 days, got %d dates and %d records", len(dates), len(recs))
	}
	if clock.FormatDate(dates[0]) != "2026-10-14" || clock.FormatDate(dates[2]) != "2026-10-16" {
		t.Errorf("unexpected range %v", dates)
	}
	if recs[0].Alignment || !recs[1].Alignment || recs[2].Tasks == nil {
		t.Errorf("unexpected records %+v", recs)
	}

	if dates, _ := s.DaysBetween(ctx, start, start.AddDate(0, 0, -1)); len(dates) != 0 {
		t.Errorf("reversed range should be empty, got %v", dates)
	}
}
