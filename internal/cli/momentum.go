package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/swamp-dev/mastery/internal/clock"
	"github.com/swamp-dev/mastery/internal/metrics"
)

var momentumJSON bool

var momentumCmd = &cobra.Command{
	Use:   "momentum",
	Short: "Show the 7-day momentum score",
	Long: `Momentum scores the last seven days (today included) from four factors:
consistency (40%), growth (30%), domain balance (20%) and intensity (10%).`,
	RunE: runMomentum,
}

func init() {
	momentumCmd.Flags().BoolVar(&momentumJSON, "json", false, "output in JSON format")
}

func runMomentum(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	days := a.engine.Last7Days(cmd.Context())
	m := a.engine.Momentum(days)

	if momentumJSON {
		return printJSON(struct {
			Momentum metrics.Momentum     `json:"momentum"`
			Days     []metrics.DaySummary `json:"days"`
		}{m, days})
	}

	printMomentum(m)
	fmt.Println()
	fmt.Println("--- Last 7 Days ---")
	for _, d := range days {
		mark := " "
		if d.Alignment {
			mark = "✓"
		}
		fmt.Printf("%s %s %s %4d XP\n", mark, clock.FormatDate(d.Date),
			renderProgressBar(percentOf(d.TotalXP, a.catalog.IntensiveXP), 20), d.TotalXP)
	}
	return nil
}

func printMomentum(m metrics.Momentum) {
	fmt.Printf("Momentum: %d/100 %s %s\n", m.Score, renderProgressBar(float64(m.Score), 30), trendIcon(m.Trend))
	fmt.Printf("Trend:    %s\n", m.Trend)
	fmt.Printf("Factors:  consistency %d | growth %d | balance %d | intensity %d\n",
		m.Factors.Consistency, m.Factors.Growth, m.Factors.Balance, m.Factors.Intensity)
	fmt.Printf("→ %s\n", m.Recommendation)
}
