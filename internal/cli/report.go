package cli

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var reportOutput string

var reportCmd = &cobra.Command{
	Use:   "report <id>",
	Short: "Download a dataset's PDF report",
	Long: `Generate and download the PDF analysis report for a dataset. The report
contains the summary statistics and a pie chart of the equipment type
distribution. By default the file is saved under the server-suggested
name in the current directory.`,
	Args: cobra.ExactArgs(1),
	Run:  runReport,
}

func init() {
	reportCmd.Flags().StringVarP(&reportOutput, "output", "o", "", "Output file path")
}

func runReport(cmd *cobra.Command, args []string) {
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		exitError("invalid dataset id %q", args[0])
	}

	c, _ := initClient()

	pdf, filename, err := c.DownloadReport(ctx, id)
	if err != nil {
		exitError("failed to generate report: %v", err)
	}

	out := reportOutput
	if out == "" {
		out = filename
	}
	if out == "" {
		out = fmt.Sprintf("dataset_%d_report.pdf", id)
	}

	if err := os.WriteFile(out, pdf, 0644); err != nil {
		exitError("failed to write report: %v", err)
	}

	color.New(color.FgGreen).Printf("Report saved to %s (%d bytes)\n", out, len(pdf))
}
