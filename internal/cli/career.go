package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/swamp-dev/mastery/internal/career"
	"github.com/swamp-dev/mastery/internal/clock"
)

var careerMonth string

var careerCmd = &cobra.Command{
	Use:   "career",
	Short: "Track auditions, callbacks and bookings",
}

var careerLogCmd = &cobra.Command{
	Use:   "log <metric> [note]",
	Short: "Log an audition, callback or booking",
	Long: `Log one occurrence of a career metric for the current month.

Metrics: tier1_auditions, tier2_auditions, callbacks, roles_booked

Examples:
  mastery career log tier1_auditions "Network drama, guest star"
  mastery career log callbacks`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCareerLog,
}

var careerShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show a month's career numbers",
	RunE:  runCareerShow,
}

func init() {
	careerShowCmd.Flags().StringVar(&careerMonth, "month", "", "month to show (YYYY-MM, default current)")

	careerCmd.AddCommand(careerLogCmd)
	careerCmd.AddCommand(careerShowCmd)
}

func runCareerLog(cmd *cobra.Command, args []string) error {
	m, err := career.ParseMetric(args[0])
	if err != nil {
		return err
	}

	a, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	n, err := a.career.Log(cmd.Context(), m, strings.Join(args[1:], " "))
	if err != nil {
		return err
	}
	fmt.Printf("✓ %s: %d this month\n", m, n)
	return nil
}

func runCareerShow(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := cmd.Context()
	month := a.clock.Now()
	if careerMonth != "" {
		if month, err = clock.ParseMonth(careerMonth); err != nil {
			return fmt.Errorf("invalid month %q (want YYYY-MM)", careerMonth)
		}
	}

	c := a.career.Counts(ctx, month)
	fmt.Printf("Career %s\n", clock.FormatMonth(month))
	fmt.Printf("  Tier 1 auditions: %d\n", c.Tier1Auditions)
	fmt.Printf("  Tier 2 auditions: %d\n", c.Tier2Auditions)
	fmt.Printf("  Callbacks:        %d\n", c.Callbacks)
	fmt.Printf("  Roles booked:     %d\n", c.RolesBooked)
	fmt.Printf("  Success rate:     %.1f%%\n", c.SuccessRate())

	for _, m := range career.Metrics() {
		entries := a.career.History(ctx, m, month)
		if len(entries) == 0 {
			continue
		}
		fmt.Printf("\n%s:\n", m)
		for _, e := range entries {
			note := e.Note
			if note == "" {
				note = "-"
			}
			fmt.Printf("  %s  %s\n", e.Timestamp.Format("2006-01-02 15:04"), note)
		}
	}
	return nil
}
