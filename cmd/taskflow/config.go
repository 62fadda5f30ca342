package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/suyash-2004/TaskFlow-PBL-T180/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	Long: `View or initialize TaskFlow configuration.

Configuration is stored at ~/.config/taskflow/config.yaml
Project-specific overrides can be placed in .taskflow.yaml
Environment variables use the TASKFLOW_ prefix; the Anthropic key is
read from ANTHROPIC_API_KEY.`,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default config file",
	Run: func(cmd *cobra.Command, args []string) {
		path, err := config.WriteUserConfig(config.Default())
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error writing config: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Wrote %s\n", path)
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	Run: func(cmd *cobra.Command, args []string) {
		shown := *cfg
		shown.Summary.APIKey = config.MaskAPIKey(shown.Summary.APIKey)
		out, err := shown.YAML()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error rendering config: %v\n", err)
			os.Exit(1)
		}
		fmt.Print(string(out))
	},
}

func init() {
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
}
