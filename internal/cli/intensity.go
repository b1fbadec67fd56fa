package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/swamp-dev/mastery/internal/catalog"
	"github.com/swamp-dev/mastery/internal/store"
)

var intensityCmd = &cobra.Command{
	Use:   "intensity [standard|superstar|legend]",
	Short: "Show or change the daily intensity level",
	Long: `Intensity sets the daily targets checked by 'mastery status':

  standard   160 XP, 1 scary task, 2 critical tasks
  superstar  200 XP, 2 scary tasks, 3 critical tasks
  legend     240 XP, 3 scary tasks, 4 critical tasks, industry outreach`,
	Args: cobra.MaximumNArgs(1),
	RunE: runIntensity,
}

func runIntensity(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := cmd.Context()
	if len(args) == 1 {
		level, err := catalog.ParseIntensity(args[0])
		if err != nil {
			return err
		}
		if !a.store.SetString(ctx, store.IntensityKey, string(level)) {
			return fmt.Errorf("saving intensity: %w", store.ErrNotPersisted)
		}
		logger.Info("intensity changed", "level", level)
	}

	current := a.intensity(ctx)
	for _, level := range catalog.Intensities() {
		marker := " "
		if level == current {
			marker = "▶"
		}
		t := level.Targets()
		outreach := ""
		if t.OutreachRequired {
			outreach = ", outreach"
		}
		fmt.Printf("%s %-10s %d XP, %d scary, %d critical%s\n", marker, level, t.XP, t.Scary, t.Critical, outreach)
	}
	return nil
}
