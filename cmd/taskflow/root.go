package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/suyash-2004/TaskFlow-PBL-T180/internal/config"
	"github.com/suyash-2004/TaskFlow-PBL-T180/internal/logging"
)

var (
	cfgFile string
	cfg     *config.Config
	log     *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "taskflow",
	Short: "Dependency-aware daily task scheduler",
	Long: `TaskFlow plans your working day.

It orders tasks by dependency and scheduling policy, packs them into
your working window, inserts breaks with automatic reflow, tracks
execution, and generates productivity reports with optional
AI-written summaries.

Configuration is stored at ~/.config/taskflow/config.yaml
Project-specific overrides can be placed in .taskflow.yaml`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		if cfgFile != "" {
			cfg, err = config.LoadFromPath(cfgFile)
		} else {
			cfg, err = config.Load()
		}
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		log, err = logging.New(cfg.Logging.Level, cfg.Server.Debug)
		if err != nil {
			return fmt.Errorf("build logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if log != nil {
			_ = log.Sync()
		}
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Path to config file (default ~/.config/taskflow/config.yaml)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(dailyCmd)
	rootCmd.AddCommand(breakCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(tasksCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}
