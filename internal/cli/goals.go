package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/swamp-dev/mastery/internal/goals"
)

var goalsCmd = &cobra.Command{
	Use:   "goals",
	Short: "Set and show the goal path",
}

var goalsSetCmd = &cobra.Command{
	Use:   "set <ultimate|yearly|quarterly|weekly|today> <text>",
	Short: "Set one level of the goal path",
	Long: `Set one level of the goal path. Setting "today" also records the day's
focus goal shown by 'mastery status'.

Examples:
  mastery goals set ultimate "Series regular on a network drama"
  mastery goals set today "Finish the self-tape"`,
	Args:      cobra.MinimumNArgs(2),
	ValidArgs: goals.Fields,
	RunE:      runGoalsSet,
}

var goalsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the goal path",
	RunE:  runGoalsShow,
}

func init() {
	goalsCmd.AddCommand(goalsSetCmd)
	goalsCmd.AddCommand(goalsShowCmd)
}

func runGoalsSet(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := cmd.Context()
	text := strings.Join(args[1:], " ")
	if _, err := a.goals.UpdatePath(ctx, args[0], text); err != nil {
		return err
	}
	if args[0] == "today" {
		if err := a.goals.SetTodaysGoal(ctx, a.today(), text); err != nil {
			return err
		}
	}
	fmt.Printf("✓ %s goal set\n", args[0])
	return nil
}

func runGoalsShow(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := cmd.Context()
	p := a.goals.Path(ctx)
	today := a.goals.TodaysGoal(ctx, a.today())
	if today == "" {
		today = p.TodaysGoal
	}

	printGoal := func(label, value string) {
		if value == "" {
			value = "(not set)"
		}
		fmt.Printf("%-10s %s\n", label+":", value)
	}
	printGoal("Ultimate", p.UltimateAim)
	printGoal("Yearly", p.YearlyGoals)
	printGoal("Quarterly", p.QuarterlyGoals)
	printGoal("Weekly", p.WeeklyGoals)
	printGoal("Today", today)
	return nil
}

var (
	runwaySavings  float64
	runwayExpenses float64
)

var runwayCmd = &cobra.Command{
	Use:   "runway",
	Short: "Show or set the financial runway",
	Long: `Runway divides savings by monthly expenses to show how many months you can
keep pursuing the craft full time.

Examples:
  mastery runway
  mastery runway --savings 18000 --expenses 3000`,
	RunE: runRunway,
}

func init() {
	runwayCmd.Flags().Float64Var(&runwaySavings, "savings", 0, "current savings")
	runwayCmd.Flags().Float64Var(&runwayExpenses, "expenses", 0, "monthly expenses")
}

func runRunway(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := cmd.Context()
	if cmd.Flags().Changed("savings") || cmd.Flags().Changed("expenses") {
		current := a.goals.Runway(ctx)
		if !cmd.Flags().Changed("savings") {
			runwaySavings = current.Savings
		}
		if !cmd.Flags().Changed("expenses") {
			runwayExpenses = current.Expenses
		}
		if err := a.goals.SetRunway(ctx, runwaySavings, runwayExpenses); err != nil {
			return err
		}
	}

	r := a.goals.Runway(ctx)
	if r.Expenses <= 0 {
		fmt.Println("No runway set. Use --savings and --expenses.")
		return nil
	}
	fmt.Printf("Savings:  %.2f\n", r.Savings)
	fmt.Printf("Expenses: %.2f / month\n", r.Expenses)
	fmt.Printf("Runway:   %.1f months %s\n", r.Months, renderProgressBar(r.Months/12*100, 24))
	return nil
}
