package cli

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Mayukh-Jain/equipviz/internal/cli/client"
)

var showRows bool

var showCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a dataset's summary",
	Long: `Show a stored dataset with its computed summary: the row count, the
average Flowrate, Pressure, and Temperature, and the equipment type
distribution. Use --rows to also print the parsed file rows.`,
	Args: cobra.ExactArgs(1),
	Run:  runShow,
}

func init() {
	showCmd.Flags().BoolVar(&showRows, "rows", false, "Also print the parsed file rows")
}

func runShow(cmd *cobra.Command, args []string) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		exitError("invalid dataset id %q", args[0])
	}

	c, _ := initClient()

	ds, err := c.Get(ctx, id)
	if err != nil {
		exitError("failed to get dataset: %v", err)
	}

	color.New(color.FgCyan).Printf("%s (id %d)\n", ds.Name, ds.ID)
	fmt.Printf("Uploaded: %s\n", ds.UploadedAt.Local().Format(time.RFC3339))
	fmt.Printf("Rows: %d\n", ds.Summary.TotalCount)
	printSummary(ds.Summary)

	if showRows {
		rows, err := c.Rows(ctx, id)
		if err != nil {
			exitError("failed to fetch rows: %v", err)
		}

		fmt.Println()
		printRowTable(rows)
	}
}

// printSummary prints averages and the type distribution in a fixed order.
func printSummary(s client.Summary) {
	fmt.Println("Averages:")
	for _, col := range []string{"Flowrate", "Pressure", "Temperature"} {
		if avg := s.Averages[col]; avg != nil {
			fmt.Printf("  %-12s %.2f\n", col, *avg)
		} else {
			fmt.Printf("  %-12s N/A\n", col)
		}
	}

	if len(s.TypeDistribution) == 0 {
		return
	}

	labels := make([]string, 0, len(s.TypeDistribution))
	for label := range s.TypeDistribution {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	fmt.Println("Type distribution:")
	for _, label := range labels {
		fmt.Printf("  %-12s %d\n", label, s.TypeDistribution[label])
	}
}

func printRowTable(rows []map[string]any) {
	if len(rows) == 0 {
		fmt.Println("No data rows")
		return
	}

	columns := make([]string, 0, len(rows[0]))
	for col := range rows[0] {
		columns = append(columns, col)
	}
	sort.Strings(columns)

	header := color.New(color.FgCyan)
	for _, col := range columns {
		header.Printf("%-16s", col)
	}
	fmt.Println()

	for _, row := range rows {
		for _, col := range columns {
			fmt.Printf("%-16v", row[col])
		}
		fmt.Println()
	}
}
