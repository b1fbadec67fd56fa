package cli

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/swamp-dev/mastery/internal/clock"
	"github.com/swamp-dev/mastery/internal/industry"
)

var industryMonth string

var industryCmd = &cobra.Command{
	Use:   "industry",
	Short: "Track industry relationships and outreach",
}

var industryRateCmd = &cobra.Command{
	Use:   "rate <name> <level>",
	Short: "Set relationship strength (1-5) with a person or company",
	Args:  cobra.ExactArgs(2),
	RunE:  runIndustryRate,
}

var industryLogCmd = &cobra.Command{
	Use:   "log <events|followups|contacts> <type> <details>",
	Short: "Log outreach",
	Long: `Log an industry event, follow-up or new contact for the current month.
Any entry logged today satisfies the legend outreach target.

Example:
  mastery industry log followups email "Thanked the casting associate for the read"`,
	Args: cobra.MinimumNArgs(3),
	RunE: runIndustryLog,
}

var industryListCmd = &cobra.Command{
	Use:   "list [kind]",
	Short: "List relationships and a month's outreach",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runIndustryList,
}

func init() {
	industryListCmd.Flags().StringVar(&industryMonth, "month", "", "month to list (YYYY-MM, default current)")

	industryCmd.AddCommand(industryRateCmd)
	industryCmd.AddCommand(industryLogCmd)
	industryCmd.AddCommand(industryListCmd)
}

func runIndustryRate(cmd *cobra.Command, args []string) error {
	level, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("invalid level %q", args[1])
	}

	a, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.industry.SetRelationship(cmd.Context(), args[0], level); err != nil {
		return err
	}
	fmt.Printf("✓ %s: %s\n", args[0], stars(level))
	return nil
}

func runIndustryLog(cmd *cobra.Command, args []string) error {
	kind, err := industry.ParseKind(args[0])
	if err != nil {
		return err
	}

	a, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	e, err := a.industry.Add(cmd.Context(), kind, args[1], strings.Join(args[2:], " "))
	if err != nil {
		return err
	}
	fmt.Printf("✓ Logged %s (%s): %s\n", kind, e.Type, e.Details)
	return nil
}

func runIndustryList(cmd *cobra.Command, args []string) error {
	kinds := industry.Kinds()
	if len(args) == 1 {
		k, err := industry.ParseKind(args[0])
		if err != nil {
			return err
		}
		kinds = []industry.Kind{k}
	}

	a, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := cmd.Context()
	month := a.clock.Now()
	if industryMonth != "" {
		if month, err = clock.ParseMonth(industryMonth); err != nil {
			return fmt.Errorf("invalid month %q (want YYYY-MM)", industryMonth)
		}
	}

	rels := a.industry.Relationships(ctx)
	if len(rels) > 0 {
		names := make([]string, 0, len(rels))
		for name := range rels {
			names = append(names, name)
		}
		sort.Strings(names)

		fmt.Println("--- Relationships ---")
		for _, name := range names {
			fmt.Printf("  %-30s %s\n", truncate(name, 30), stars(rels[name]))
		}
		fmt.Println()
	}

	for _, k := range kinds {
		entries := a.industry.Entries(ctx, k, month)
		fmt.Printf("--- %s %s (%d) ---\n", strings.ToUpper(string(k[:1]))+string(k[1:]), clock.FormatMonth(month), len(entries))
		for _, e := range entries {
			fmt.Printf("  %s  %-10s %s\n", e.Timestamp.Format("01-02 15:04"), truncate(e.Type, 10), e.Details)
		}
	}
	return nil
}

func stars(level int) string {
	if level < 0 {
		level = 0
	}
	if level > industry.MaxLevel {
		level = industry.MaxLevel
	}
	return strings.Repeat("★", level) + strings.Repeat("☆", industry.MaxLevel-level)
}
