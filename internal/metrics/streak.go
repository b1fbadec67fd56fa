package metrics

import (
	"context"

	"github.com/swamp-dev/mastery/internal/clock"
)

// MaxStreakDays bounds how far back a streak walk looks.
const MaxStreakDays = 30

// StreakStatus is the counted streak plus today's standing.
type StreakStatus struct {
	Length         int  `json:"length"`
	TodayQualified bool `json:"today_qualified"`
	AtRisk         bool `json:"at_risk"`
}

// StreakLength counts consecutive qualifying days ending yesterday. The walk stops at
// the first day that is unaligned or under the qualifying XP. Today never counts.
func (e *Engine) StreakLength(ctx context.Context) int {
	today := clock.Today(e.clock)
	n := 0
	for i := 1; i <= MaxStreakDays; i++ {
		if !e.Qualifies(e.source.Day(ctx, today.AddDate(0, 0, -i))) {
			break
		}
		n++
	}
	return n
}

// Streak returns the counted streak and whether today still has to qualify to keep it.
func (e *Engine) Streak(ctx context.Context) StreakStatus {
	length := e.StreakLength(ctx)
	todayOK := e.Qualifies(e.source.Day(ctx, clock.Today(e.clock)))
	return StreakStatus{
		Length:         length,
		TodayQualified: todayOK,
		AtRisk:         length > 0 && !todayOK,
	}
}
