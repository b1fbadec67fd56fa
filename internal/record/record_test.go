package record

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/swamp-dev/mastery/internal/catalog"
)

var testNow = time.Date(2026, 10, 18, 9, 30, 0, 0, time.UTC)

func TestEffectiveXPScenario(t *testing.T) {
	raw := `{
		"domains": {"creation": {"total": 50}, "physical": {"total": 30}},
		"tasks": [{"id": 1, "text": "call agent", "category": "critical", "xp": 5, "completed": true}],
		"alignment": true
	}`

	var r DailyRecord
	if err := json.Unmarshal([]byte(raw), &r); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}

	if got := r.EffectiveXP(); got != 85 {
		t.Errorf("EffectiveXP() = %d, want 85", got)
	}
	if got := r.EffectiveXP(); got != 85 {
		t.Errorf("second EffectiveXP() = %d, want 85", got)
	}
}

func TestEffectiveXPPrefersCachedTotal(t *testing.T) {
	cached := 200
	r := New()
	r.Domains[catalog.Creation] = DomainActivity{Total: 10}
	r.TotalXP = &cached

	if got := r.EffectiveXP(); got != 200 {
		t.Errorf("EffectiveXP() = %d, want 200", got)
	}
	if got := r.RawXP(); got != 10 {
		t.Errorf("RawXP() = %d, want 10", got)
	}
}

func TestUnmarshalNormalizes(t *testing.T) {
	tests := []struct {
		name      string
		raw       string
		alignment bool
	}{
		{"empty object", `{}`, false},
		{"string alignment", `{"alignment": "true"}`, false},
		{"numeric alignment", `{"alignment": 1}`, false},
		{"null collections", `{"tasks": null, "domains": null, "alignment": true}`, true},
		{"activities missing", `{"domains": {"recovery": {"total": 4}}}`, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var r DailyRecord
			if err := json.Unmarshal([]byte(tt.raw), &r); err != nil {
				t.Fatalf("Unmarshal: %v", err)
			}
			if r.Tasks == nil {
				t.Error("tasks should default to empty")
			}
			if r.Domains == nil {
				t.Error("domains should default to empty")
			}
			for id, da := range r.Domains {
				if da.Activities == nil {
					t.Errorf("domain %s activities should default to empty", id)
				}
			}
			if r.Alignment != tt.alignment {
				t.Errorf("alignment = %v, want %v", r.Alignment, tt.alignment)
			}
		})
	}
}

func TestDomainXP(t *testing.T) {
	cat := catalog.Default()
	r := New()
	r.Domains[catalog.Physical] = DomainActivity{Total: 15}
	r.Tasks = []Task{
		{ID: 1, Category: "writing", XP: 20, Completed: true},
		{ID: 2, Category: "writing", XP: 50, Completed: false},
		{ID: 3, Category: "cardio", XP: 10, Completed: true},
		{ID: 4, Category: catalog.Scary, XP: 10, Completed: true},
	}

	got := r.DomainXP(cat)
	want := map[catalog.DomainID]int{
		catalog.Creation:   20,
		catalog.Physical:   25,
		catalog.Meditation: 0,
		catalog.Recovery:   0,
	}
	for id, xp := range want {
		if got[id] != xp {
			t.Errorf("DomainXP[%s] = %d, want %d", id, got[id], xp)
		}
	}
	if r.CompletedIn(catalog.Scary) != 1 {
		t.Errorf("expected 1 completed scary task")
	}
}

func TestAddTask(t *testing.T) {
	cat := catalog.Default()

	tests := []struct {
		name     string
		text     string
		category catalog.Category
		xp       int
		wantXP   int
		wantErr  string
	}{
		{"regular task", "Write 3 pages", "writing", 25, 25, ""},
		{"scary uses fixed xp", "Cold-call a casting director", catalog.Scary, 99, 10, ""},
		{"critical uses fixed xp", "Submit self-tape", catalog.Critical, 0, 5, ""},
		{"empty text", "   ", "writing", 10, 0, "text"},
		{"unknown category", "Something", "knitting", 10, 0, "category"},
		{"zero xp", "Run", "cardio", 0, 0, "xp"},
		{"negative xp", "Run", "cardio", -5, 0, "xp"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := New()
			task, err := r.AddTask(cat, tt.text, tt.category, tt.xp, testNow)

			if tt.wantErr != "" {
				var ve *ValidationError
				if !errors.As(err, &ve) {
					t.Fatalf("expected ValidationError, got %v", err)
				}
				if ve.Field != tt.wantErr {
					t.Errorf("field = %s, want %s", ve.Field, tt.wantErr)
				}
				if len(r.Tasks) != 0 {
					t.Error("record must not change on validation failure")
				}
				return
			}

			if err != nil {
				t.Fatalf("AddTask: %v", err)
			}
			if task.XP != tt.wantXP {
				t.Errorf("xp = %d, want %d", task.XP, tt.wantXP)
			}
			if task.ID != testNow.UnixMilli() {
				t.Errorf("id = %d, want creation timestamp", task.ID)
			}
		})
	}
}

func TestAddTaskUniqueIDs(t *testing.T) {
	cat := catalog.Default()
	r := New()

	a, _ := r.AddTask(cat, "one", "writing", 5, testNow)
	b, _ := r.AddTask(cat, "two", "writing", 5, testNow)

	if a.ID == b.ID {
		t.Errorf("expected unique ids, both %d", a.ID)
	}
	if r.Tasks[0].Text != "one" || r.Tasks[1].Text != "two" {
		t.Error("tasks must keep insertion order")
	}
}

func TestToggleTask(t *testing.T) {
	cat := catalog.Default()
	r := New()
	task, _ := r.AddTask(cat, "Stretch", "stretching", 10, testNow)

	later := testNow.Add(time.Hour)
	toggled, err := r.ToggleTask(task.ID, later)
	if err != nil {
		t.Fatalf("ToggleTask: %v", err)
	}
	if !toggled.Completed {
		t.Error("expected completed after first toggle")
	}
	if toggled.Updated == nil || !toggled.Updated.Equal(later) {
		t.Error("expected updated timestamp")
	}
	if r.EffectiveXP() != 10 {
		t.Errorf("EffectiveXP() = %d, want 10", r.EffectiveXP())
	}

	toggled, _ = r.ToggleTask(task.ID, later)
	if toggled.Completed {
		t.Error("expected incomplete after second toggle")
	}

	if _, err := r.ToggleTask(12345, later); err == nil {
		t.Error("expected error for unknown task")
	}
}

func TestLogXP(t *testing.T) {
	cat := catalog.Default()
	r := New()

	if err := r.LogXP(cat, catalog.Meditation, "breathwork", 15, testNow); err != nil {
		t.Fatalf("LogXP: %v", err)
	}
	if err := r.LogXP(cat, catalog.Meditation, "meditation", 5, testNow); err != nil {
		t.Fatalf("LogXP: %v", err)
	}

	da := r.Domains[catalog.Meditation]
	if da.Total != 20 || len(da.Activities) != 2 {
		t.Errorf("got total %d with %d activities", da.Total, len(da.Activities))
	}

	errCases := []struct {
		domain   catalog.DomainID
		category catalog.Category
		xp       int
	}{
		{"astral", "breathwork", 5},
		{catalog.Meditation, "cardio", 5},
		{catalog.Meditation, catalog.Scary, 5},
		{catalog.Meditation, "breathwork", 0},
	}
	for _, ec := range errCases {
		if err := r.LogXP(cat, ec.domain, ec.category, ec.xp, testNow); err == nil {
			t.Errorf("LogXP(%s, %s, %d) expected error", ec.domain, ec.category, ec.xp)
		}
	}
	if r.Domains[catalog.Meditation].Total != 20 {
		t.Error("failed LogXP must not mutate the record")
	}
}

func TestSaveAlignment(t *testing.T) {
	cat := catalog.Default()
	reason := "Booked two auditions and finished the pilot draft today."

	t.Run("short reason rejected", func(t *testing.T) {
		r := New()
		r.Domains[catalog.Creation] = DomainActivity{Total: 200}
		err := r.SaveAlignment(cat, "too short")
		if err == nil || !strings.Contains(err.Error(), "30") {
			t.Fatalf("expected reason length error, got %v", err)
		}
		if r.Alignment || r.TotalXP != nil {
			t.Error("record must not change on validation failure")
		}
	})

	t.Run("insufficient xp rejected", func(t *testing.T) {
		r := New()
		r.Domains[catalog.Creation] = DomainActivity{Total: 159}
		if err := r.SaveAlignment(cat, reason); err == nil {
			t.Fatal("expected xp error")
		}
	})

	t.Run("caches total", func(t *testing.T) {
		r := New()
		r.Domains[catalog.Creation] = DomainActivity{Total: 150}
		r.Tasks = []Task{{ID: 1, Category: catalog.Scary, XP: 10, Completed: true}}
		if err := r.SaveAlignment(cat, reason); err != nil {
			t.Fatalf("SaveAlignment: %v", err)
		}
		if !r.Alignment || r.TotalXP == nil || *r.TotalXP != 160 {
			t.Fatalf("unexpected state: alignment=%v total=%v", r.Alignment, r.TotalXP)
		}
	})

	t.Run("never decrements cached total", func(t *testing.T) {
		r := New()
		prior := 300
		r.TotalXP = &prior
		r.Domains[catalog.Creation] = DomainActivity{Total: 170}
		if err := r.SaveAlignment(cat, reason); err != nil {
			t.Fatalf("SaveAlignment: %v", err)
		}
		if *r.TotalXP != 300 {
			t.Errorf("TotalXP = %d, want 300", *r.TotalXP)
		}
	})
}
