package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/swamp-dev/mastery/internal/catalog"
	"github.com/swamp-dev/mastery/internal/clock"
	"github.com/swamp-dev/mastery/internal/record"
)

var (
	taskCategory string
	taskXP       int
	taskDate     string
)

var taskCmd = &cobra.Command{
	Use:   "task",
	Short: "Manage today's tasks",
}

var taskAddCmd = &cobra.Command{
	Use:   "add <text>",
	Short: "Add a task",
	Long: `Add a task to today's list. Tasks in the scary and critical categories
always carry their fixed XP (10 and 5).

Examples:
  mastery task add "Draft act two" --category writing --xp 40
  mastery task add "Call the agent" --category scary`,
	Args: cobra.MinimumNArgs(1),
	RunE: runTaskAdd,
}

var taskDoneCmd = &cobra.Command{
	Use:   "done <id>",
	Short: "Toggle a task's completion",
	Args:  cobra.ExactArgs(1),
	RunE:  runTaskDone,
}

var taskListCmd = &cobra.Command{
	Use:   "list",
	Short: "List tasks for a day",
	RunE:  runTaskList,
}

func init() {
	taskAddCmd.Flags().StringVarP(&taskCategory, "category", "c", "", "task category (required)")
	taskAddCmd.Flags().IntVar(&taskXP, "xp", 0, "XP awarded on completion")
	_ = taskAddCmd.MarkFlagRequired("category")

	taskListCmd.Flags().StringVar(&taskDate, "date", "", "day to list (YYYY-MM-DD, default today)")

	taskCmd.AddCommand(taskAddCmd)
	taskCmd.AddCommand(taskDoneCmd)
	taskCmd.AddCommand(taskListCmd)
}

func runTaskAdd(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	var added record.Task
	now := a.clock.Now()
	_, err = a.store.UpdateDay(cmd.Context(), now, func(r *record.DailyRecord) error {
		t, err := r.AddTask(a.catalog, strings.Join(args, " "), catalog.Category(taskCategory), taskXP, now)
		added = t
		return err
	})
	if err != nil {
		return err
	}

	fmt.Printf("✓ Added task %d: %s (%s, %d XP)\n", added.ID, added.Text, added.Category, added.XP)
	return nil
}

func runTaskDone(cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid task id %q", args[0])
	}

	a, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	var toggled record.Task
	now := a.clock.Now()
	_, err = a.store.UpdateDay(cmd.Context(), now, func(r *record.DailyRecord) error {
		t, err := r.ToggleTask(id, now)
		toggled = t
		return err
	})
	if err != nil {
		return err
	}

	if toggled.Completed {
		fmt.Printf("✓ Completed: %s (+%d XP)\n", toggled.Text, toggled.XP)
	} else {
		fmt.Printf("○ Reopened: %s\n", toggled.Text)
	}
	return nil
}

func runTaskList(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	day := a.today()
	if taskDate != "" {
		if day, err = clock.ParseDate(taskDate); err != nil {
			return fmt.Errorf("invalid date %q (want YYYY-MM-DD)", taskDate)
		}
	}

	r := a.store.Day(cmd.Context(), day)
	fmt.Printf("Tasks for %s\n", clock.FormatDate(day))
	if len(r.Tasks) == 0 {
		fmt.Println("  No tasks yet. Add one with 'mastery task add'.")
		return nil
	}
	for _, t := range r.Tasks {
		fmt.Printf("  %s %d  %-50s %-12s %3d XP\n", taskIcon(t.Completed), t.ID, truncate(t.Text, 50), t.Category, t.XP)
	}
	return nil
}

func taskIcon(completed bool) string {
	if completed {
		return "✓"
	}
	return "○"
}
