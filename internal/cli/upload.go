package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var uploadCmd = &cobra.Command{
	Use:   "upload <file.csv>",
	Short: "Upload an equipment-parameter CSV file",
	Long: `Upload a CSV file of equipment parameters. The server parses the file,
computes its summary, and stores it. Only the five most recent datasets
are retained; older ones are evicted.

Requires authentication (run 'equipvizctl login' first).`,
	Args: cobra.ExactArgs(1),
	Run:  runUpload,
}

func runUpload(cmd *cobra.Command, args []string) {
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	c, cfg := initClient()
	if !cfg.IsAuthenticated() {
		exitError("not authenticated, run 'equipvizctl login' first")
	}

	ds, err := c.Upload(ctx, args[0])
	if err != nil {
		exitError("upload failed: %v", err)
	}

	color.New(color.FgGreen).Printf("Uploaded %s (id %d)\n", ds.Name, ds.ID)
	fmt.Printf("Rows: %d\n", ds.Summary.TotalCount)
	printSummary(ds.Summary)
}
