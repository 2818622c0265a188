// Package cli implements the equipvizctl command-line interface.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Mayukh-Jain/equipviz/internal/cli/client"
	"github.com/Mayukh-Jain/equipviz/internal/cli/config"
)

var rootCmd = &cobra.Command{
	Use:   "equipvizctl",
	Short: "Equipment parameter visualizer CLI",
	Long: `equipvizctl is a command-line client for the equipviz API server.
Upload equipment-parameter CSV files, inspect stored datasets and their
summaries, and download generated PDF reports.`,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(uploadCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(reportCmd)
}

// exitError prints an error and exits.
func exitError(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "error: "+format+"\n", args...)
	os.Exit(1)
}

// initClient loads the saved config and builds a client from it.
func initClient() (*client.Client, *config.Config) {
	cfg, err := config.Load()
	if err != nil {
		exitError("%v", err)
	}

	c, err := client.New(cfg.Server, cfg.AccessToken)
	if err != nil {
		exitError("%v", err)
	}

	return c, cfg
}
