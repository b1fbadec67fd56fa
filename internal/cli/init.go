package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/swamp-dev/mastery/internal/catalog"
	"github.com/swamp-dev/mastery/internal/config"
	"github.com/swamp-dev/mastery/internal/store"
)

var (
	initIntensity string
	initForce     bool
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create mastery.yaml and the local database",
	Long: `Initialize writes a mastery.yaml configuration file in the current directory
and creates the database it points at.

Examples:
  mastery init
  mastery init --intensity superstar
  mastery init --db ~/mastery.db --force`,
	RunE: runInit,
}

func init() {
	initCmd.Flags().StringVar(&initIntensity, "intensity", "standard", "starting intensity (standard, superstar, legend)")
	initCmd.Flags().BoolVarP(&initForce, "force", "f", false, "overwrite an existing mastery.yaml")
}

func runInit(cmd *cobra.Command, args []string) error {
	level, err := catalog.ParseIntensity(initIntensity)
	if err != nil {
		return err
	}

	path := cfgFile
	if path == "" {
		path = config.FileName
	}

	if _, err := os.Stat(path); err == nil && !initForce {
		fmt.Printf("%s already exists (use --force to overwrite)\n", path)
	} else {
		cfg := config.DefaultConfig()
		cfg.Intensity = string(level)
		if dbPath != "" {
			cfg.Store.Path = dbPath
		}
		if err := cfg.Save(path); err != nil {
			return err
		}
		fmt.Printf("✓ Created %s\n", path)
	}

	a, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	if a.store.GetString(cmd.Context(), store.IntensityKey, "") == "" {
		a.store.SetString(cmd.Context(), store.IntensityKey, string(level))
	}

	logger.Info("initialized mastery", "driver", a.cfg.Store.Driver, "intensity", level)
	fmt.Printf("✓ Store ready (%s)\n", describeStore(a))
	fmt.Println("\nNext steps:")
	fmt.Println("  1. Set your aim:   mastery goals set ultimate \"...\"")
	fmt.Println("  2. Log activity:   mastery xp physical cardio 30")
	fmt.Println("  3. Check in:       mastery status")
	return nil
}

func describeStore(a *app) string {
	if a.cfg.Store.Driver == "redis" {
		return "redis " + a.cfg.Store.Redis.Addr
	}
	return "sqlite " + a.cfg.Store.Path
}
