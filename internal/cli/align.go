package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/swamp-dev/mastery/internal/record"
)

var alignCmd = &cobra.Command{
	Use:   "align <evidence>",
	Short: "Certify today as aligned",
	Long: `Align marks today as aligned with your goals. It needs at least 160 XP and
a written reason of 30 or more characters. Saving alignment caches the day's XP.

Example:
  mastery align "Filmed the audition tape and wrote two scenes before noon"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAlign,
}

func runAlign(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	r, err := a.store.UpdateDay(cmd.Context(), a.clock.Now(), func(r *record.DailyRecord) error {
		return r.SaveAlignment(a.catalog, strings.Join(args, " "))
	})
	if err != nil {
		return err
	}

	fmt.Printf("✓ Day aligned at %d XP\n", r.EffectiveXP())
	st := a.engine.Streak(cmd.Context())
	fmt.Printf("  Streak: %d day(s) before today\n", st.Length)
	return nil
}
