// Package career tracks monthly Hollywood career metrics: auditions, callbacks and
// bookings.
package career

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/swamp-dev/mastery/internal/clock"
	"github.com/swamp-dev/mastery/internal/metrics"
	"github.com/swamp-dev/mastery/internal/store"
)

// Metric identifies one tracked career counter.
type Metric string

const (
	Tier1Auditions Metric = "tier1_auditions"
	Tier2Auditions Metric = "tier2_auditions"
	Callbacks      Metric = "callbacks"
	RolesBooked    Metric = "roles_booked"
)

// Metrics returns every metric in display order.
func Metrics() []Metric {
	return []Metric{Tier1Auditions, Tier2Auditions, Callbacks, RolesBooked}
}

// ParseMetric accepts a metric id.
func ParseMetric(s string) (Metric, error) {
	for _, m := range Metrics() {
		if string(m) == s {
			return m, nil
		}
	}
	return "", fmt.Errorf("unknown career metric %q (want one of tier1_auditions, tier2_auditions, callbacks, roles_booked)", s)
}

// Entry is one logged occurrence of a metric.
type Entry struct {
	Timestamp time.Time `json:"timestamp"`
	Note      string    `json:"note"`
}

// Counts are a month's totals.
type Counts struct {
	Month          time.Time `json:"month"`
	Tier1Auditions int       `json:"tier1_auditions"`
	Tier2Auditions int       `json:"tier2_auditions"`
	Callbacks      int       `json:"callbacks"`
	RolesBooked    int       `json:"roles_booked"`
}

// Opportunities is the month's audition count across both tiers.
func (c Counts) Opportunities() int {
	return c.Tier1Auditions + c.Tier2Auditions
}

// SuccessRate is callbacks as a percentage of opportunities, 0 when there were none.
func (c Counts) SuccessRate() float64 {
	total := c.Opportunities()
	if total == 0 {
		return 0
	}
	return float64(c.Callbacks) / float64(total) * 100
}

func (c *Counts) set(m Metric, n int) {
	switch m {
	case Tier1Auditions:
		c.Tier1Auditions = n
	case Tier2Auditions:
		c.Tier2Auditions = n
	case Callbacks:
		c.Callbacks = n
	case RolesBooked:
		c.RolesBooked = n
	}
}

// Tracker reads and writes career metrics through a store.
type Tracker struct {
	store  *store.Store
	logger *slog.Logger
}

// New creates a tracker. A nil logger discards output.
func New(s *store.Store, logger *slog.Logger) *Tracker {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Tracker{store: s, logger: logger}
}

// Log records one occurrence of m in the current month, appending to its history and
// bumping the monthly count. It returns the new count.
func (t *Tracker) Log(ctx context.Context, m Metric, note string) (int, error) {
	now := t.store.Clock().Now()

	histKey := store.HistoryKey(string(m), now)
	history := store.Get(ctx, t.store, histKey, []Entry{})
	history = append(history, Entry{Timestamp: now, Note: strings.TrimSpace(note)})
	if !t.store.Set(ctx, histKey, history) {
		return 0, fmt.Errorf("saving %s history: %w", m, store.ErrNotPersisted)
	}

	countKey := store.CountKey(string(m), now)
	count := store.Get(ctx, t.store, countKey, 0) + 1
	if !t.store.Set(ctx, countKey, count) {
		return 0, fmt.Errorf("saving %s count: %w", m, store.ErrNotPersisted)
	}

	t.logger.Debug("career metric logged", "metric", m, "count", count)
	return count, nil
}

// History returns the logged entries of m for month.
func (t *Tracker) History(ctx context.Context, m Metric, month time.Time) []Entry {
	return store.Get(ctx, t.store, store.HistoryKey(string(m), month), []Entry{})
}

// Counts returns every metric's count for month.
func (t *Tracker) Counts(ctx context.Context, month time.Time) Counts {
	y, mo, _ := month.Date()
	c := Counts{Month: time.Date(y, mo, 1, 0, 0, 0, 0, month.Location())}
	for _, m := range Metrics() {
		c.set(m, store.Get(ctx, t.store, store.CountKey(string(m), month), 0))
	}
	return c
}

// Months lists every month holding at least one count, oldest first.
func (t *Tracker) Months(ctx context.Context) ([]time.Time, error) {
	keys, err := t.store.Keys(ctx, store.Prefix)
	if err != nil {
		return nil, fmt.Errorf("listing career counts: %w", err)
	}

	seen := map[string]bool{}
	var months []time.Time
	for _, key := range keys {
		for _, m := range Metrics() {
			rest, ok := strings.CutPrefix(key, store.Prefix+string(m)+"_")
			if !ok || len(rest) != len(clock.MonthLayout) || seen[rest] {
				continue
			}
			month, err := clock.ParseMonth(rest)
			if err != nil {
				continue
			}
			seen[rest] = true
			months = append(months, month)
		}
	}

	sort.Slice(months, func(i, j int) bool { return months[i].Before(months[j]) })
	return months, nil
}

// Probability computes the breakthrough probability from streak and this month's counts.
func (t *Tracker) Probability(ctx context.Context, streak int) metrics.Probability {
	c := t.Counts(ctx, t.store.Clock().Now())
	return metrics.BreakthroughProbability(streak, c.Tier1Auditions, c.Callbacks, c.RolesBooked)
}
