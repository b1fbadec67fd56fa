// Package metrics derives scores, streaks and recommendations from daily records.
//
// Every calculation is read-only. Window functions take a slice of DaySummary values,
// most recent first; the few functions that walk history read records through a Source
// and never write them back.
package metrics

import (
	"context"
	"time"

	"github.com/swamp-dev/mastery/internal/catalog"
	"github.com/swamp-dev/mastery/internal/clock"
	"github.com/swamp-dev/mastery/internal/record"
)

// WindowDays is the length of the trailing window used by momentum scoring.
const WindowDays = 7

// Source supplies normalized daily records.
type Source interface {
	Day(ctx context.Context, date time.Time) record.DailyRecord
}

// DaySummary is one day's derived totals.
type DaySummary struct {
	Date      time.Time                `json:"date"`
	TotalXP   int                      `json:"totalXP"`
	Domains   map[catalog.DomainID]int `json:"domains"`
	Alignment bool                     `json:"alignment"`
}

// Engine computes metrics for a catalog, reading history from a source.
type Engine struct {
	catalog *catalog.Catalog
	source  Source
	clock   clock.Clock
}

// NewEngine creates an engine. A nil clock means the wall clock.
func NewEngine(cat *catalog.Catalog, src Source, clk clock.Clock) *Engine {
	if cat == nil {
		panic("metrics.NewEngine: catalog is nil")
	}
	if clk == nil {
		clk = clock.System{}
	}
	return &Engine{catalog: cat, source: src, clock: clk}
}

// Catalog returns the engine's catalog.
func (e *Engine) Catalog() *catalog.Catalog {
	return e.catalog
}

// EffectiveXP returns the day's XP, preferring the total cached at alignment.
func (e *Engine) EffectiveXP(r record.DailyRecord) int {
	return r.EffectiveXP()
}

// Summarize derives a DaySummary from a record.
func (e *Engine) Summarize(date time.Time, r record.DailyRecord) DaySummary {
	return DaySummary{
		Date:      clock.Day(date),
		TotalXP:   r.EffectiveXP(),
		Domains:   r.DomainXP(e.catalog),
		Alignment: r.Alignment,
	}
}

// LastDays summarizes today and the n-1 preceding days, most recent first.
func (e *Engine) LastDays(ctx context.Context, n int) []DaySummary {
	today := clock.Today(e.clock)
	out := make([]DaySummary, 0, n)
	for i := 0; i < n; i++ {
		d := today.AddDate(0, 0, -i)
		out = append(out, e.Summarize(d, e.source.Day(ctx, d)))
	}
	return out
}

// Last7Days summarizes today and the six preceding days, most recent first.
func (e *Engine) Last7Days(ctx context.Context) []DaySummary {
	return e.LastDays(ctx, WindowDays)
}

// Qualifies reports whether a day counts toward a streak.
func (e *Engine) Qualifies(r record.DailyRecord) bool {
	return r.Alignment && r.EffectiveXP() >= e.catalog.QualifyingXP
}

// Snapshot is everything a host displays after a refresh.
type Snapshot struct {
	GeneratedAt time.Time    `json:"generated_at"`
	Days        []DaySummary `json:"days"`
	Momentum    Momentum     `json:"momentum"`
	WeakDomains []WeakDomain `json:"weak_domains"`
	Preview     []Suggestion `json:"preview"`
	Streak      StreakStatus `json:"streak"`
}

// Refresh re-reads the trailing window and recomputes every derived value. Hosts call
// it on whatever schedule they like; the engine keeps no timers.
func (e *Engine) Refresh(ctx context.Context) Snapshot {
	days := e.Last7Days(ctx)
	weak := e.WeakDomains(days)
	return Snapshot{
		GeneratedAt: e.clock.Now(),
		Days:        days,
		Momentum:    e.Momentum(days),
		WeakDomains: weak,
		Preview:     e.TomorrowPreview(weak),
		Streak:      e.Streak(ctx),
	}
}

func averageXP(days []DaySummary) float64 {
	if len(days) == 0 {
		return 0
	}
	total := 0
	for _, d := range days {
		total += d.TotalXP
	}
	return float64(total) / float64(len(days))
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
