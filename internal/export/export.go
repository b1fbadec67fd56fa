// Package export writes daily records and career counts as CSV.
package export

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"
	"time"

	"github.com/swamp-dev/mastery/internal/career"
	"github.com/swamp-dev/mastery/internal/catalog"
	"github.com/swamp-dev/mastery/internal/clock"
	"github.com/swamp-dev/mastery/internal/record"
	"github.com/swamp-dev/mastery/internal/store"
)

// Kind selects one CSV schema.
type Kind string

const (
	Daily     Kind = "daily"
	Tasks     Kind = "tasks"
	Domains   Kind = "domains"
	Hollywood Kind = "hollywood"
)

// Kinds returns every schema.
func Kinds() []Kind {
	return []Kind{Daily, Tasks, Domains, Hollywood}
}

// ParseKind accepts a schema name.
func ParseKind(s string) (Kind, error) {
	for _, k := range Kinds() {
		if string(k) == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown export %q (want daily, tasks, domains or hollywood)", s)
}

// Header rows, one per schema.
var (
	DailyHeader     = []string{"Date", "Total XP", "Creation XP", "Physical XP", "Meditation XP", "Recovery XP", "Alignment", "Streak Valid"}
	TasksHeader     = []string{"Date", "Task", "Category", "XP", "Completed", "Timestamp"}
	DomainsHeader   = []string{"Date", "Domain", "Total XP", "Activities Count", "Target", "Percentage"}
	HollywoodHeader = []string{"Month", "Tier 1 Auditions", "Tier 2 Auditions", "Callbacks", "Roles Booked", "Total Opportunities", "Success Rate"}
)

// Day is one dated record.
type Day struct {
	Date   time.Time
	Record record.DailyRecord
}

// Load reads the records from start to end inclusive.
func Load(ctx context.Context, s *store.Store, start, end time.Time) []Day {
	dates, recs := s.DaysBetween(ctx, start, end)
	days := make([]Day, len(dates))
	for i := range dates {
		days[i] = Day{Date: dates[i], Record: recs[i]}
	}
	return days
}

// WriteDaily writes one row per day with per-domain XP and streak eligibility.
func WriteDaily(w io.Writer, cat *catalog.Catalog, days []Day) error {
	rows := [][]string{DailyHeader}
	for _, d := range days {
		xp := d.Record.EffectiveXP()
		domains := d.Record.DomainXP(cat)
		rows = append(rows, []string{
			clock.FormatDate(d.Date),
			strconv.Itoa(xp),
			strconv.Itoa(domains[catalog.Creation]),
			strconv.Itoa(domains[catalog.Physical]),
			strconv.Itoa(domains[catalog.Meditation]),
			strconv.Itoa(domains[catalog.Recovery]),
			yesNo(d.Record.Alignment),
			yesNo(d.Record.Alignment && xp >= cat.QualifyingXP),
		})
	}
	return writeAll(w, rows)
}

// WriteTasks writes one row per task.
func WriteTasks(w io.Writer, days []Day) error {
	rows := [][]string{TasksHeader}
	for _, d := range days {
		for _, t := range d.Record.Tasks {
			rows = append(rows, []string{
				clock.FormatDate(d.Date),
				t.Text,
				string(t.Category),
				strconv.Itoa(t.XP),
				yesNo(t.Completed),
				t.Timestamp.Format(time.RFC3339),
			})
		}
	}
	return writeAll(w, rows)
}

// WriteDomains writes one row per day and domain with progress toward the target.
func WriteDomains(w io.Writer, cat *catalog.Catalog, days []Day) error {
	rows := [][]string{DomainsHeader}
	for _, d := range days {
		xp := d.Record.DomainXP(cat)
		for _, dom := range cat.Domains() {
			pct := int(math.Round(float64(xp[dom.ID]) / float64(dom.Target) * 100))
			rows = append(rows, []string{
				clock.FormatDate(d.Date),
				dom.Name,
				strconv.Itoa(xp[dom.ID]),
				strconv.Itoa(len(d.Record.Domains[dom.ID].Activities)),
				strconv.Itoa(dom.Target),
				strconv.Itoa(pct),
			})
		}
	}
	return writeAll(w, rows)
}

// WriteHollywood writes one row per month of career counts.
func WriteHollywood(w io.Writer, months []career.Counts) error {
	rows := [][]string{HollywoodHeader}
	for _, c := range months {
		rows = append(rows, []string{
			clock.FormatMonth(c.Month),
			strconv.Itoa(c.Tier1Auditions),
			strconv.Itoa(c.Tier2Auditions),
			strconv.Itoa(c.Callbacks),
			strconv.Itoa(c.RolesBooked),
			strconv.Itoa(c.Opportunities()),
			fmt.Sprintf("%.1f%%", c.SuccessRate()),
		})
	}
	return writeAll(w, rows)
}

// Filename is the default output name for kind exported at t.
func Filename(kind Kind, t time.Time) string {
	return fmt.Sprintf("mastery-%s-%s.csv", kind, clock.FormatDate(t))
}

func writeAll(w io.Writer, rows [][]string) error {
	cw := csv.NewWriter(w)
	if err := cw.WriteAll(rows); err != nil {
		return fmt.Errorf("writing csv: %w", err)
	}
	return nil
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}
