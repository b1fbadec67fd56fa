package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/swamp-dev/mastery/internal/clock"
)

var sweepMonths int

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Delete daily records older than the retention window",
	Long: `Sweep removes daily records dated before the retention cutoff
(retention.months in mastery.yaml, default 3). The same sweep runs
automatically when the store runs out of space.`,
	RunE: runSweep,
}

func init() {
	sweepCmd.Flags().IntVar(&sweepMonths, "months", 0, "override retention months")
}

func runSweep(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	cutoff := a.store.RetentionCutoff()
	if sweepMonths > 0 {
		cutoff = a.today().AddDate(0, -sweepMonths, 0)
	}

	n, err := a.store.SweepOlderThan(cmd.Context(), cutoff)
	if err != nil {
		return err
	}
	fmt.Printf("✓ Removed %d daily record(s) before %s\n", n, clock.FormatDate(cutoff))
	return nil
}
