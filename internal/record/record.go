// Package record defines the per-day aggregate of tasks and domain activity.
package record

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/swamp-dev/mastery/internal/catalog"
)

// Task is a single to-do item recorded on a day.
type Task struct {
	ID        int64            `json:"id"`
	Text      string           `json:"text"`
	Category  catalog.Category `json:"category"`
	XP        int              `json:"xp"`
	Completed bool             `json:"completed"`
	Timestamp time.Time        `json:"timestamp"`
	Updated   *time.Time       `json:"updated,omitempty"`
}

// Activity is one quick-XP contribution to a domain.
type Activity struct {
	Category  catalog.Category `json:"category"`
	XP        int              `json:"xp"`
	Timestamp time.Time        `json:"timestamp"`
}

// DomainActivity accumulates a domain's quick-XP contributions for one day.
type DomainActivity struct {
	Total      int        `json:"total"`
	Activities []Activity `json:"activities"`
}

// DailyRecord is everything recorded for one calendar day.
type DailyRecord struct {
	Tasks           []Task                              `json:"tasks"`
	Domains         map[catalog.DomainID]DomainActivity `json:"domains"`
	Alignment       bool                                `json:"alignment"`
	AlignmentReason string                              `json:"alignmentReason,omitempty"`
	TotalXP         *int                                `json:"totalXP,omitempty"`
}

// New returns an empty, fully populated record.
func New() DailyRecord {
	return DailyRecord{
		Tasks:   []Task{},
		Domains: map[catalog.DomainID]DomainActivity{},
	}
}

// Normalize fills absent collections with empty values so callers never nil-check.
func (r *DailyRecord) Normalize() {
	if r.Tasks == nil {
		r.Tasks = []Task{}
	}
	if r.Domains == nil {
		r.Domains = map[catalog.DomainID]DomainActivity{}
	}
	for id, da := range r.Domains {
		if da.Activities == nil {
			da.Activities = []Activity{}
			r.Domains[id] = da
		}
	}
}

// UnmarshalJSON decodes a record, treating any non-boolean alignment as false.
func (r *DailyRecord) UnmarshalJSON(data []byte) error {
	type plain DailyRecord
	var raw struct {
		plain
		Alignment json.RawMessage `json:"alignment"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*r = DailyRecord(raw.plain)
	r.Alignment = bytes.Equal(bytes.TrimSpace(raw.Alignment), []byte("true"))
	r.Normalize()
	return nil
}

// RawXP sums domain activity totals and completed task XP, ignoring the cached total.
func (r DailyRecord) RawXP() int {
	total := 0
	for _, da := range r.Domains {
		total += da.Total
	}
	for _, t := range r.Tasks {
		if t.Completed {
			total += t.XP
		}
	}
	return total
}

// EffectiveXP returns the cached total when alignment saved one, otherwise RawXP.
func (r DailyRecord) EffectiveXP() int {
	if r.TotalXP != nil {
		return *r.TotalXP
	}
	return r.RawXP()
}

// DomainXP returns each catalog domain's activity total plus the XP of completed
// tasks whose category maps to it.
func (r DailyRecord) DomainXP(cat *catalog.Catalog) map[catalog.DomainID]int {
	out := make(map[catalog.DomainID]int, len(cat.Domains()))
	for _, id := range cat.DomainIDs() {
		out[id] = r.Domains[id].Total
	}
	for _, t := range r.Tasks {
		if !t.Completed {
			continue
		}
		if id, ok := cat.DomainOf(t.Category); ok {
			if _, tracked := out[id]; tracked {
				out[id] += t.XP
			}
		}
	}
	return out
}

// CompletedIn counts completed tasks in the given category.
func (r DailyRecord) CompletedIn(c catalog.Category) int {
	n := 0
	for _, t := range r.Tasks {
		if t.Completed && t.Category == c {
			n++
		}
	}
	return n
}

// Task returns the task with the given id.
func (r DailyRecord) Task(id int64) (Task, bool) {
	for _, t := range r.Tasks {
		if t.ID == id {
			return t, true
		}
	}
	return Task{}, false
}
