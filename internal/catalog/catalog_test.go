package catalog

import "testing"

func TestDefault(t *testing.T) {
	c := Default()

	if len(c.Domains()) != 4 {
		t.Fatalf("expected 4 domains, got %d", len(c.Domains()))
	}
	if len(c.Categories()) != 20 {
		t.Errorf("expected 20 categories, got %d", len(c.Categories()))
	}
	for _, d := range c.Domains() {
		if d.Target != 40 {
			t.Errorf("domain %s: expected target 40, got %d", d.ID, d.Target)
		}
		if got := c.WeakThreshold(d); got != 28 {
			t.Errorf("domain %s: expected weak threshold 28, got %v", d.ID, got)
		}
	}
}

func TestDomainOf(t *testing.T) {
	c := Default()

	tests := []struct {
		cat    Category
		want   DomainID
		wantOK bool
	}{
		{"writing", Creation, true},
		{"cardio", Physical, true},
		{"breathwork", Meditation, true},
		{"sleep", Recovery, true},
		{Scary, "", false},
		{Critical, "", false},
		{"unknown", "", false},
	}

	for _, tt := range tests {
		t.Run(string(tt.cat), func(t *testing.T) {
			got, ok := c.DomainOf(tt.cat)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("DomainOf(%q) = %q, %v; want %q, %v", tt.cat, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestFixedXP(t *testing.T) {
	c := Default()

	if xp, ok := c.FixedXP(Scary); !ok || xp != 10 {
		t.Errorf("scary: got %d, %v", xp, ok)
	}
	if xp, ok := c.FixedXP(Critical); !ok || xp != 5 {
		t.Errorf("critical: got %d, %v", xp, ok)
	}
	if _, ok := c.FixedXP("writing"); ok {
		t.Error("writing should not have fixed XP")
	}
	if !c.Valid(Scary) || !c.Valid("rest") || c.Valid("nope") {
		t.Error("unexpected Valid result")
	}
}

func TestNewRejectsBadTables(t *testing.T) {
	tests := []struct {
		name    string
		domains []Domain
		special map[Category]int
	}{
		{
			name:    "duplicate domain",
			domains: []Domain{{ID: "a", Target: 1}, {ID: "a", Target: 1}},
		},
		{
			name:    "shared category",
			domains: []Domain{{ID: "a", Target: 1, Categories: []Category{"x"}}, {ID: "b", Target: 1, Categories: []Category{"x"}}},
		},
		{
			name:    "zero target",
			domains: []Domain{{ID: "a"}},
		},
		{
			name:    "special overlaps domain",
			domains: []Domain{{ID: "a", Target: 1, Categories: []Category{"x"}}},
			special: map[Category]int{"x": 3},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New(tt.domains, tt.special); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestIntensityTargets(t *testing.T) {
	tests := []struct {
		level Intensity
		want  Targets
	}{
		{Standard, Targets{XP: 160, Scary: 1, Critical: 2}},
		{Superstar, Targets{XP: 200, Scary: 2, Critical: 3}},
		{Legend, Targets{XP: 240, Scary: 3, Critical: 4, OutreachRequired: true}},
		{"bogus", Targets{XP: 160, Scary: 1, Critical: 2}},
	}

	for _, tt := range tests {
		t.Run(string(tt.level), func(t *testing.T) {
			if got := tt.level.Targets(); got != tt.want {
				t.Errorf("Targets() = %+v, want %+v", got, tt.want)
			}
		})
	}

	if _, err := ParseIntensity("legend"); err != nil {
		t.Errorf("ParseIntensity(legend): %v", err)
	}
	if _, err := ParseIntensity("godlike"); err == nil {
		t.Error("expected error for unknown level")
	}
}
