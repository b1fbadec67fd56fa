// Package cli provides the command-line interface for mastery.
package cli

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	dbPath  string
	verbose bool
	logger  *slog.Logger
)

// rootCmd represents the base command.
var rootCmd = &cobra.Command{
	Use:   "mastery",
	Short: "Daily mastery tracker with momentum and streak metrics",
	Long: `Mastery records daily activity across four domains (creation, physical,
meditation, recovery), tasks and alignment evidence, and derives momentum,
streaks, weak domains and breakthrough probability from that history.

Data lives in a local SQLite file by default, or in Redis.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logLevel := slog.LevelInfo
		if verbose {
			logLevel = slog.LevelDebug
		}

		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: logLevel,
		}))
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./mastery.yaml)")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "SQLite database path (overrides store.path)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")

	_ = viper.BindPFlag("store.path", rootCmd.PersistentFlags().Lookup("db"))

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(taskCmd)
	rootCmd.AddCommand(xpCmd)
	rootCmd.AddCommand(alignCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(momentumCmd)
	rootCmd.AddCommand(dashboardCmd)
	rootCmd.AddCommand(careerCmd)
	rootCmd.AddCommand(industryCmd)
	rootCmd.AddCommand(goalsCmd)
	rootCmd.AddCommand(runwayCmd)
	rootCmd.AddCommand(reviewCmd)
	rootCmd.AddCommand(intensityCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(backupCmd)
	rootCmd.AddCommand(sweepCmd)
	rootCmd.AddCommand(versionCmd)
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("mastery")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
	}

	viper.SetEnvPrefix("mastery")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil && verbose && logger != nil {
		logger.Debug("using config file", "path", viper.ConfigFileUsed())
	}
}
