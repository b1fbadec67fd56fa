package store

import (
	"strings"
	"time"

	"github.com/swamp-dev/mastery/internal/clock"
)

// Fixed keys of the persisted namespace.
const (
	Prefix            = "mastery_"
	GoalPathKey       = "mastery_goal_path"
	RunwaySavingsKey  = "mastery_runway_savings"
	RunwayExpensesKey = "mastery_runway_expenses"
	RelationshipsKey  = "industry_relationships"
	IntensityKey      = "current_intensity"
	LastBackupKey     = "last_backup_time"

	todaysGoalPrefix = "mastery_todays_goal_"
	reviewPrefix     = "mastery_review_"
	industryPrefix   = "industry_"
)

// DayKey is the key of the daily record for t's calendar day.
func DayKey(t time.Time) string {
	return Prefix + clock.FormatDate(t)
}

// ParseDayKey reports whether key is exactly a daily-record key and returns its date.
func ParseDayKey(key string) (time.Time, bool) {
	rest, ok := strings.CutPrefix(key, Prefix)
	if !ok || len(rest) != len(clock.DateLayout) {
		return time.Time{}, false
	}
	d, err := clock.ParseDate(rest)
	if err != nil {
		return time.Time{}, false
	}
	return d, true
}

// TodaysGoalKey is the key of the free-text goal for t's day.
func TodaysGoalKey(t time.Time) string {
	return todaysGoalPrefix + clock.FormatDate(t)
}

// ReviewKey is the key of the weekly review for the week containing t.
func ReviewKey(t time.Time) string {
	return reviewPrefix + clock.FormatDate(clock.Monday(t))
}

// ReviewPrefix is the prefix shared by all weekly review keys.
func ReviewPrefix() string {
	return reviewPrefix
}

// IndustryKey is the key of an industry log (events, followups, contacts) for t's month.
func IndustryKey(kind string, t time.Time) string {
	return industryPrefix + kind + "_" + clock.FormatMonth(t)
}

// HistoryKey is the key of a career metric's monthly log.
func HistoryKey(metric string, t time.Time) string {
	return metric + "_history_" + clock.FormatMonth(t)
}

// CountKey is the key of a career metric's monthly count.
func CountKey(metric string, t time.Time) string {
	return Prefix + metric + "_" + clock.FormatMonth(t)
}
