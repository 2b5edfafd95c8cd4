package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/bohm/binstretch-search/pkg/config"
	"github.com/bohm/binstretch-search/pkg/utils"
)

var (
	// Global flags
	verbose    bool
	configPath string

	// cfg and logger are populated by rootCmd's PersistentPreRunE and
	// consumed by every subcommand.
	cfg    *config.Config
	logger utils.Logger
)

// rootCmd represents the base command.
var rootCmd = &cobra.Command{
	Use:   "binstretch",
	Short: "Search for lower bounds in the online bin stretching game",
	Long: `binstretch searches a game tree for online bin stretching: an
adversary assigns items one at a time, trying to force an online
algorithm to stretch some bin beyond a target factor. The search grows
a bipartite game DAG, splits its frontier into tasks, and explores each
task's subtree with a minimax evaluator backed by a dynamic-programming
feasibility oracle and a quantised fixed-point cache (minibs).`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logLevel := utils.LevelInfo
		if verbose {
			logLevel = utils.LevelDebug
		}
		logger = utils.NewDefaultLogger(logLevel, os.Stdout)

		loaded, err := config.Load(configPath)
		if err != nil {
			return err
		}
		cfg = loaded
		return nil
	},
}

// Execute adds all child commands to the root command and runs it.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file (defaults: ./config.yaml, ./configs/config.yaml, /etc/binstretch-search/config.yaml)")

	rootCmd.Example = `  # Run one full search from the empty root for m=3, R/S=19/14
  binstretch solve --root "[0 0 0] (0 0 0 0 0 0 0 0 0 0 0 0 0 0) 1" --m 3 --r 19 --s 14

  # Build and save the minibs table for m=3, r=19, s=14, d=12
  binstretch minibs build --m 3 --r 19 --s 14 --d 12 --out ./data/minibs/minibs-m3-r19-s14-d12.bin

  # Query a single load/item configuration against a saved minibs table
  binstretch minibs query --cache ./data/minibs/minibs-m3-r19-s14-d12.bin --loads "5,3,0" --items "2,1,0,0,0,0,0,0,0,0,0,0"

  # Print version information
  binstretch version`
}

// GetLogger returns the configured logger.
func GetLogger() utils.Logger {
	return logger
}

// GetConfig returns the loaded configuration.
func GetConfig() *config.Config {
	return cfg
}
