package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/swamp-dev/mastery/internal/clock"
	"github.com/swamp-dev/mastery/internal/review"
)

var (
	reviewEvidence   string
	reviewReflection string
	reviewNext       string
	reviewAll        bool
	reviewExport     string
)

var reviewCmd = &cobra.Command{
	Use:   "review",
	Short: "Write and read weekly reviews",
}

var reviewAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Save this week's review",
	Long: `Save the review for the current week (keyed by its Monday). Saving again
replaces it. The current weekly goal is stored with the review as context.

Example:
  mastery review add --evidence "Three aligned days, one callback" \
    --reflection "Evenings still leak time" --next "Lock 7pm writing block"`,
	RunE: runReviewAdd,
}

var reviewShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show weekly reviews as markdown",
	RunE:  runReviewShow,
}

func init() {
	reviewAddCmd.Flags().StringVar(&reviewEvidence, "evidence", "", "what you did this week (required)")
	reviewAddCmd.Flags().StringVar(&reviewReflection, "reflection", "", "how aligned the week felt")
	reviewAddCmd.Flags().StringVar(&reviewNext, "next", "", "next actions")
	_ = reviewAddCmd.MarkFlagRequired("evidence")

	reviewShowCmd.Flags().BoolVar(&reviewAll, "all", false, "show every week, not just the current one")
	reviewShowCmd.Flags().StringVar(&reviewExport, "export", "", "write all reviews as markdown to this file")

	reviewCmd.AddCommand(reviewAddCmd)
	reviewCmd.AddCommand(reviewShowCmd)
}

func runReviewAdd(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := cmd.Context()
	goalContext := a.goals.Path(ctx).WeeklyGoals
	r, err := a.reviews.Save(ctx, review.Review{
		Evidence:            reviewEvidence,
		AlignmentReflection: reviewReflection,
		NextActions:         reviewNext,
		GoalContext:         goalContext,
	})
	if err != nil {
		return err
	}
	fmt.Printf("✓ Review saved for week of %s\n", clock.FormatDate(clock.Monday(r.Timestamp)))
	return nil
}

func runReviewShow(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := cmd.Context()
	if reviewExport != "" || reviewAll {
		md, err := a.reviews.ExportMarkdown(ctx)
		if err != nil {
			return fmt.Errorf("exporting reviews: %w", err)
		}
		if reviewExport == "" {
			fmt.Print(md)
			return nil
		}
		if dir := filepath.Dir(reviewExport); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return err
			}
		}
		if err := os.WriteFile(reviewExport, []byte(md), 0644); err != nil {
			return err
		}
		fmt.Printf("Exported: %s\n", reviewExport)
		return nil
	}

	now := a.clock.Now()
	r, ok := a.reviews.Get(ctx, now)
	if !ok {
		fmt.Println("No review for this week yet. Run 'mastery review add'.")
		return nil
	}
	fmt.Print(review.RenderMarkdown(review.Week{Monday: clock.Monday(now), Review: r}))
	return nil
}
