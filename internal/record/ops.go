package record

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/swamp-dev/mastery/internal/catalog"
)

// MinReasonLength is the shortest alignment evidence accepted.
const MinReasonLength = 30

// ValidationError is a user-input rejection. No state is changed when one is returned.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func invalid(field, format string, args ...any) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// AddTask appends a new task. Special categories always carry their fixed XP.
func (r *DailyRecord) AddTask(cat *catalog.Catalog, text string, category catalog.Category, xp int, now time.Time) (Task, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Task{}, invalid("text", "task text cannot be empty")
	}
	if !cat.Valid(category) {
		return Task{}, invalid("category", "unknown category: %s", category)
	}
	if fixed, ok := cat.FixedXP(category); ok {
		xp = fixed
	} else if xp <= 0 {
		return Task{}, invalid("xp", "xp must be a positive number")
	}

	r.Normalize()

	id := now.UnixMilli()
	for {
		if _, taken := r.Task(id); !taken {
			break
		}
		id++
	}

	t := Task{
		ID:        id,
		Text:      text,
		Category:  category,
		XP:        xp,
		Timestamp: now,
	}
	r.Tasks = append(r.Tasks, t)
	return t, nil
}

// ToggleTask flips a task's completion state.
func (r *DailyRecord) ToggleTask(id int64, now time.Time) (Task, error) {
	for i := range r.Tasks {
		if r.Tasks[i].ID != id {
			continue
		}
		r.Tasks[i].Completed = !r.Tasks[i].Completed
		updated := now
		r.Tasks[i].Updated = &updated
		return r.Tasks[i], nil
	}
	return Task{}, invalid("id", "task %d not found", id)
}

// LogXP records a quick-XP contribution to a domain. The category must belong to it.
func (r *DailyRecord) LogXP(cat *catalog.Catalog, domain catalog.DomainID, category catalog.Category, xp int, now time.Time) error {
	if _, ok := cat.Domain(domain); !ok {
		return invalid("domain", "unknown domain: %s", domain)
	}
	if owner, ok := cat.DomainOf(category); !ok || owner != domain {
		return invalid("category", "category %s does not belong to %s", category, domain)
	}
	if xp <= 0 {
		return invalid("xp", "xp must be a positive number")
	}

	r.Normalize()

	da := r.Domains[domain]
	da.Total += xp
	da.Activities = append(da.Activities, Activity{Category: category, XP: xp, Timestamp: now})
	r.Domains[domain] = da
	return nil
}

// SaveAlignment certifies the day and caches its XP total. The cached total never
// drops below a previously saved value.
func (r *DailyRecord) SaveAlignment(cat *catalog.Catalog, reason string) error {
	reason = strings.TrimSpace(reason)
	if n := utf8.RuneCountInString(reason); n < MinReasonLength {
		return invalid("reason", "alignment evidence needs at least %d characters (got %d)", MinReasonLength, n)
	}
	xp := r.RawXP()
	if xp < cat.QualifyingXP {
		return invalid("xp", "alignment requires at least %d XP (have %d)", cat.QualifyingXP, xp)
	}

	r.Normalize()

	if r.TotalXP != nil && *r.TotalXP > xp {
		xp = *r.TotalXP
	}
	r.Alignment = true
	r.AlignmentReason = reason
	r.TotalXP = &xp
	return nil
}
