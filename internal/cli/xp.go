package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/swamp-dev/mastery/internal/catalog"
	"github.com/swamp-dev/mastery/internal/record"
)

var xpCmd = &cobra.Command{
	Use:   "xp <domain> <category> <amount>",
	Short: "Log quick XP to a domain",
	Long: `Log XP earned in a domain without creating a task.

Examples:
  mastery xp physical cardio 30
  mastery xp meditation breathwork 15`,
	Args: cobra.ExactArgs(3),
	RunE: runXP,
}

func runXP(cmd *cobra.Command, args []string) error {
	amount, err := strconv.Atoi(args[2])
	if err != nil {
		return fmt.Errorf("invalid xp amount %q", args[2])
	}

	a, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	domain := catalog.DomainID(args[0])
	now := a.clock.Now()
	r, err := a.store.UpdateDay(cmd.Context(), now, func(r *record.DailyRecord) error {
		return r.LogXP(a.catalog, domain, catalog.Category(args[1]), amount, now)
	})
	if err != nil {
		return err
	}

	d, _ := a.catalog.Domain(domain)
	total := r.DomainXP(a.catalog)[domain]
	fmt.Printf("✓ +%d XP %s (%s)\n", amount, d.Name, args[1])
	fmt.Printf("  %s %s %d/%d\n", d.Name, renderProgressBar(percentOf(total, d.Target), 20), total, d.Target)
	fmt.Printf("  Today: %d XP\n", r.EffectiveXP())
	return nil
}
