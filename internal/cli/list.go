package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored datasets",
	Long:  `List the stored datasets, newest first, with their row counts.`,
	Run:   runList,
}

func runList(cmd *cobra.Command, args []string) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	c, _ := initClient()

	datasets, err := c.List(ctx)
	if err != nil {
		exitError("failed to list datasets: %v", err)
	}

	if len(datasets) == 0 {
		fmt.Println("No datasets uploaded yet")
		return
	}

	cyan := color.New(color.FgCyan)
	cyan.Printf("%-20s %-30s %-25s %s\n", "ID", "NAME", "UPLOADED", "ROWS")

	for _, ds := range datasets {
		fmt.Printf("%-20d %-30s %-25s %d\n",
			ds.ID, ds.Name, ds.UploadedAt.Local().Format(time.RFC3339), ds.Summary.TotalCount)
	}

	fmt.Printf("\n%d dataset(s)\n", len(datasets))
}
