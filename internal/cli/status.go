package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/swamp-dev/mastery/internal/clock"
	"github.com/swamp-dev/mastery/internal/metrics"
	"github.com/swamp-dev/mastery/internal/record"
)

var statusJSON bool

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show today's progress",
	Long: `Status displays today's XP per domain, task list, alignment and how the day
measures up to the current intensity targets.

Examples:
  mastery status
  mastery status --json`,
	RunE: runStatus,
}

func init() {
	statusCmd.Flags().BoolVar(&statusJSON, "json", false, "output in JSON format")
}

// todayStatus is the JSON shape of the status command.
type todayStatus struct {
	Date       string               `json:"date"`
	Record     record.DailyRecord   `json:"record"`
	XP         int                  `json:"xp"`
	Domains    map[string]int       `json:"domains"`
	Targets    metrics.TargetStatus `json:"targets"`
	Streak     metrics.StreakStatus `json:"streak"`
	TodaysGoal string               `json:"todays_goal,omitempty"`
}

func runStatus(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := cmd.Context()
	today := a.today()
	r := a.store.Day(ctx, today)

	st := todayStatus{
		Date:       clock.FormatDate(today),
		Record:     r,
		XP:         r.EffectiveXP(),
		Domains:    map[string]int{},
		Targets:    a.engine.CheckTargets(r, a.intensity(ctx), a.industry.OutreachOn(ctx, today)),
		Streak:     a.engine.Streak(ctx),
		TodaysGoal: a.goals.TodaysGoal(ctx, today),
	}
	for id, xp := range r.DomainXP(a.catalog) {
		st.Domains[string(id)] = xp
	}

	if statusJSON {
		return printJSON(st)
	}

	printStatusText(a, st)
	return nil
}

func printStatusText(a *app, st todayStatus) {
	fmt.Printf("╔══════════════════════════════════════════════════════════════╗\n")
	fmt.Printf("║  MASTERY  %-50s ║\n", st.Date)
	fmt.Printf("╠══════════════════════════════════════════════════════════════╣\n")
	if st.TodaysGoal != "" {
		fmt.Printf("║  Focus: %-52s ║\n", truncate(st.TodaysGoal, 52))
		fmt.Printf("╠══════════════════════════════════════════════════════════════╣\n")
	}

	qualifying := a.catalog.QualifyingXP
	fmt.Printf("║  XP: %s %4d/%-4d        ║\n", renderProgressBar(percentOf(st.XP, qualifying), 30), st.XP, qualifying)
	fmt.Printf("║                                                              ║\n")
	for _, d := range a.catalog.Domains() {
		xp := st.Domains[string(d.ID)]
		fmt.Printf("║    %-10s %s %3d/%-3d             ║\n", d.Name, renderProgressBar(percentOf(xp, d.Target), 25), xp, d.Target)
	}
	fmt.Printf("╠══════════════════════════════════════════════════════════════╣\n")

	if len(st.Record.Tasks) == 0 {
		fmt.Printf("║  No tasks yet. Run 'mastery task add' to plan the day.       ║\n")
	}
	for _, t := range st.Record.Tasks {
		fmt.Printf("║    %s %-44s %-8s %3d ║\n", taskIcon(t.Completed), truncate(t.Text, 44), truncate(string(t.Category), 8), t.XP)
	}
	fmt.Printf("╠══════════════════════════════════════════════════════════════╣\n")

	tg := st.Targets
	fmt.Printf("║  Intensity: %-48s ║\n", tg.Level)
	fmt.Printf("║    Scary %d/%d  Critical %d/%d  XP %d/%d%-24s ║\n",
		tg.Scary, tg.Targets.Scary, tg.Critical, tg.Targets.Critical, tg.XP, tg.Targets.XP, "")
	if tg.Met {
		fmt.Printf("║    ✓ All targets met                                         ║\n")
	} else {
		for _, m := range tg.Missing {
			fmt.Printf("║    ✗ %-55s ║\n", m)
		}
	}
	fmt.Printf("╠══════════════════════════════════════════════════════════════╣\n")

	if st.Record.Alignment {
		fmt.Printf("║  ✓ Aligned: %-48s ║\n", truncate(st.Record.AlignmentReason, 48))
	} else {
		fmt.Printf("║  ○ Not aligned yet                                           ║\n")
	}
	streak := fmt.Sprintf("%d day(s)", st.Streak.Length)
	if st.Streak.AtRisk {
		streak += "  ⚠ at risk: qualify today to keep it"
	}
	fmt.Printf("║  Streak: %-51s ║\n", streak)
	fmt.Printf("╚══════════════════════════════════════════════════════════════╝\n")
}
