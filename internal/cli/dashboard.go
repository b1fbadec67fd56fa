package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/swamp-dev/mastery/internal/career"
	"github.com/swamp-dev/mastery/internal/catalog"
	"github.com/swamp-dev/mastery/internal/goals"
	"github.com/swamp-dev/mastery/internal/metrics"
)

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Show momentum, streak, weak domains and breakthrough odds",
	Long: `Display a dashboard of the derived metrics: momentum over the last seven
days, the current streak, weak domains with a plan for tomorrow, this month's
career numbers with the breakthrough probability, and the financial runway.

With --watch the dashboard stays open and recomputes each metric on its own
schedule (refresh.momentum, refresh.probability, refresh.streak in mastery.yaml).`,
	RunE: runDashboard,
}

var (
	dashboardJSON  bool
	dashboardWatch bool
)

func init() {
	dashboardCmd.Flags().BoolVar(&dashboardJSON, "json", false, "output as JSON")
	dashboardCmd.Flags().BoolVar(&dashboardWatch, "watch", false, "continuously refresh")
}

// dashboardData is everything the dashboard renders.
type dashboardData struct {
	Snapshot    metrics.Snapshot    `json:"snapshot"`
	Probability metrics.Probability `json:"probability"`
	Career      career.Counts       `json:"career"`
	Runway      goals.Runway        `json:"runway"`
	Intensity   catalog.Intensity   `json:"intensity"`
	Goals       goals.Path          `json:"goals"`
}

func loadDashboard(ctx context.Context, a *app) *dashboardData {
	snap := a.engine.Refresh(ctx)
	return &dashboardData{
		Snapshot:    snap,
		Probability: a.career.Probability(ctx, snap.Streak.Length),
		Career:      a.career.Counts(ctx, a.clock.Now()),
		Runway:      a.goals.Runway(ctx),
		Intensity:   a.intensity(ctx),
		Goals:       a.goals.Path(ctx),
	}
}

func runDashboard(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	data := loadDashboard(cmd.Context(), a)

	if dashboardJSON && !dashboardWatch {
		return printJSON(data)
	}
	if !dashboardWatch {
		printDashboard(data)
		return nil
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()
	return watchDashboard(ctx, a, data, a.cfg.Refresh.Momentum, a.cfg.Refresh.Probability, a.cfg.Refresh.Streak)
}

// watchDashboard re-renders whenever one of the three schedules fires. Each tick
// recomputes only its own metric.
func watchDashboard(ctx context.Context, a *app, data *dashboardData, momentumEvery, probabilityEvery, streakEvery time.Duration) error {
	momentumTick := time.NewTicker(momentumEvery)
	defer momentumTick.Stop()
	probabilityTick := time.NewTicker(probabilityEvery)
	defer probabilityTick.Stop()
	streakTick := time.NewTicker(streakEvery)
	defer streakTick.Stop()

	render := func() {
		if dashboardJSON {
			if err := printJSON(data); err != nil {
				logger.Error("rendering dashboard", "error", err)
			}
			return
		}
		fmt.Print("\033[H\033[2J")
		printDashboard(data)
		fmt.Printf("Watching (momentum %s, probability %s, streak %s). Ctrl-C to exit.\n",
			momentumEvery, probabilityEvery, streakEvery)
	}
	render()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-momentumTick.C:
			days := a.engine.Last7Days(ctx)
			weak := a.engine.WeakDomains(days)
			data.Snapshot.Days = days
			data.Snapshot.Momentum = a.engine.Momentum(days)
			data.Snapshot.WeakDomains = weak
			data.Snapshot.Preview = a.engine.TomorrowPreview(weak)
			data.Snapshot.GeneratedAt = a.clock.Now()
			logger.Debug("momentum refreshed", "score", data.Snapshot.Momentum.Score)
		case <-probabilityTick.C:
			data.Career = a.career.Counts(ctx, a.clock.Now())
			data.Probability = a.career.Probability(ctx, data.Snapshot.Streak.Length)
			logger.Debug("probability refreshed", "total", data.Probability.Total)
		case <-streakTick.C:
			data.Snapshot.Streak = a.engine.Streak(ctx)
			logger.Debug("streak refreshed", "length", data.Snapshot.Streak.Length)
		}
		render()
	}
}

func printDashboard(data *dashboardData) {
	fmt.Println("=== Mastery Dashboard ===")
	fmt.Println()

	if data.Goals.UltimateAim != "" {
		fmt.Printf("Aim:       %s\n", data.Goals.UltimateAim)
	}
	fmt.Printf("Intensity: %s\n", data.Intensity)
	fmt.Printf("Updated:   %s\n", data.Snapshot.GeneratedAt.Format("2006-01-02 15:04:05"))
	fmt.Println()

	fmt.Println("--- Momentum ---")
	printMomentum(data.Snapshot.Momentum)
	fmt.Println()

	st := data.Snapshot.Streak
	fmt.Println("--- Streak ---")
	fmt.Printf("%d day(s)", st.Length)
	switch {
	case st.TodayQualified:
		fmt.Print(" | today qualifies ✓")
	case st.AtRisk:
		fmt.Print(" | ⚠ at risk: align today with 160+ XP")
	}
	fmt.Println()
	fmt.Println()

	if len(data.Snapshot.WeakDomains) > 0 {
		fmt.Println("--- Weak Domains ---")
		for _, w := range data.Snapshot.WeakDomains {
			fmt.Printf("%-10s avg %.1f of %d\n", w.Domain, w.Average, w.Target)
		}
		fmt.Println()
		fmt.Println("--- Tomorrow ---")
		for _, s := range data.Snapshot.Preview {
			fmt.Printf("• %s\n", s.Text)
		}
		fmt.Println()
	}

	c := data.Career
	p := data.Probability
	fmt.Println("--- Hollywood ---")
	fmt.Printf("Tier 1: %d | Tier 2: %d | Callbacks: %d | Booked: %d\n",
		c.Tier1Auditions, c.Tier2Auditions, c.Callbacks, c.RolesBooked)
	fmt.Printf("Breakthrough probability: %d%% %s\n", p.Total, renderProgressBar(float64(p.Total), 20))
	fmt.Printf("  consistency %d | opportunities %d | callbacks %d | bookings %d\n",
		p.Breakdown.Consistency, p.Breakdown.Opportunities, p.Breakdown.Callbacks, p.Breakdown.Bookings)
	fmt.Println()

	if data.Runway.Expenses > 0 {
		fmt.Println("--- Runway ---")
		fmt.Printf("%.1f months (savings %.2f / expenses %.2f per month)\n",
			data.Runway.Months, data.Runway.Savings, data.Runway.Expenses)
		fmt.Println()
	}
}
