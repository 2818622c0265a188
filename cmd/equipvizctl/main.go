// Command equipvizctl is the CLI client for the equipviz API server.
package main

import (
	"os"

	"github.com/Mayukh-Jain/equipviz/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
