// Package goals stores the goal hierarchy, the per-day focus goal and the financial
// runway.
package goals

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/swamp-dev/mastery/internal/record"
	"github.com/swamp-dev/mastery/internal/store"
)

// Path is the goal hierarchy from the ultimate aim down to today.
type Path struct {
	UltimateAim    string `json:"ultimateAim"`
	YearlyGoals    string `json:"yearlyGoals"`
	QuarterlyGoals string `json:"quarterlyGoals"`
	WeeklyGoals    string `json:"weeklyGoals"`
	TodaysGoal     string `json:"todaysGoal"`
}

// Field names accepted by Path.Set.
var Fields = []string{"ultimate", "yearly", "quarterly", "weekly", "today"}

// Set assigns the named level of the hierarchy.
func (p *Path) Set(field, value string) error {
	value = strings.TrimSpace(value)
	switch field {
	case "ultimate":
		p.UltimateAim = value
	case "yearly":
		p.YearlyGoals = value
	case "quarterly":
		p.QuarterlyGoals = value
	case "weekly":
		p.WeeklyGoals = value
	case "today":
		p.TodaysGoal = value
	default:
		return &record.ValidationError{
			Field:   "field",
			Message: fmt.Sprintf("unknown goal level %q (want one of %s)", field, strings.Join(Fields, ", ")),
		}
	}
	return nil
}

// Runway is how long savings cover monthly expenses.
type Runway struct {
	Savings  float64 `json:"savings"`
	Expenses float64 `json:"expenses"`
	Months   float64 `json:"months"`
}

// Planner reads and writes goals through a store.
type Planner struct {
	store  *store.Store
	logger *slog.Logger
}

// New creates a Planner. A nil logger discards output.
func New(s *store.Store, logger *slog.Logger) *Planner {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Planner{store: s, logger: logger}
}

// Path returns the stored goal hierarchy.
func (p *Planner) Path(ctx context.Context) Path {
	return store.Get(ctx, p.store, store.GoalPathKey, Path{})
}

// SetPath replaces the goal hierarchy.
func (p *Planner) SetPath(ctx context.Context, path Path) error {
	if !p.store.Set(ctx, store.GoalPathKey, path) {
		return fmt.Errorf("saving goal path: %w", store.ErrNotPersisted)
	}
	return nil
}

// UpdatePath applies one field change to the stored hierarchy.
func (p *Planner) UpdatePath(ctx context.Context, field, value string) (Path, error) {
	path := p.Path(ctx)
	if err := path.Set(field, value); err != nil {
		return path, err
	}
	return path, p.SetPath(ctx, path)
}

// TodaysGoal returns the focus goal for day, or "".
func (p *Planner) TodaysGoal(ctx context.Context, day time.Time) string {
	return p.store.GetString(ctx, store.TodaysGoalKey(day), "")
}

// SetTodaysGoal stores the focus goal for day.
func (p *Planner) SetTodaysGoal(ctx context.Context, day time.Time, goal string) error {
	goal = strings.TrimSpace(goal)
	if goal == "" {
		return &record.ValidationError{Field: "goal", Message: "today's goal cannot be empty"}
	}
	if !p.store.SetString(ctx, store.TodaysGoalKey(day), goal) {
		return fmt.Errorf("saving today's goal: %w", store.ErrNotPersisted)
	}
	return nil
}

// SetRunway stores savings and monthly expenses as plain numbers.
func (p *Planner) SetRunway(ctx context.Context, savings, expenses float64) error {
	if savings < 0 || math.IsNaN(savings) || math.IsInf(savings, 0) {
		return &record.ValidationError{Field: "savings", Message: "savings must be a non-negative number"}
	}
	if expenses <= 0 || math.IsNaN(expenses) || math.IsInf(expenses, 0) {
		return &record.ValidationError{Field: "expenses", Message: "monthly expenses must be a positive number"}
	}

	if !p.store.SetString(ctx, store.RunwaySavingsKey, strconv.FormatFloat(savings, 'f', -1, 64)) {
		return fmt.Errorf("saving runway savings: %w", store.ErrNotPersisted)
	}
	if !p.store.SetString(ctx, store.RunwayExpensesKey, strconv.FormatFloat(expenses, 'f', -1, 64)) {
		return fmt.Errorf("saving runway expenses: %w", store.ErrNotPersisted)
	}
	return nil
}

// Runway returns the stored figures. Months is zero unless expenses are positive.
func (p *Planner) Runway(ctx context.Context) Runway {
	r := Runway{
		Savings:  p.number(ctx, store.RunwaySavingsKey),
		Expenses: p.number(ctx, store.RunwayExpensesKey),
	}
	if r.Expenses > 0 {
		r.Months = r.Savings / r.Expenses
	}
	return r
}

func (p *Planner) number(ctx context.Context, key string) float64 {
	raw := strings.TrimSpace(p.store.GetString(ctx, key, ""))
	if raw == "" {
		return 0
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		p.logger.Warn("malformed number, using 0", "key", key, "value", raw)
		return 0
	}
	return v
}
