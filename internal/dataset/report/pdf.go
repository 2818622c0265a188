// Package report renders a dataset's stored summary into a single-page PDF:
// a statistics text block and a pie chart of the type distribution.
package report

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
	"github.com/wcharczuk/go-chart/v2"

	"github.com/Mayukh-Jain/equipviz/internal/dataset/entity"
)

// IncompleteSummaryError reports a stored summary that lacks fields required
// by the report, e.g. a record written before a schema change. Rendering a
// partial report would hide the corruption, so we refuse instead.
type IncompleteSummaryError struct {
	Reason string
}

func (e *IncompleteSummaryError) Error() string {
	return fmt.Sprintf("incomplete summary: %s", e.Reason)
}

const (
	pageMargin  = 72  // 1 inch, in points
	chartWidth  = 288 // 4 inches
	chartHeight = 216 // 3 inches
)

// PDF renders reports with gofpdf and go-chart.
type PDF struct{}

func NewPDF() *PDF {
	return &PDF{}
}

// Render produces the report for a dataset. It reads only the stored summary
// and metadata and is deterministic: the same dataset yields byte-identical
// output (the PDF creation date is pinned to the upload time).
func (p *PDF) Render(ds entity.Dataset) ([]byte, error) {
	if err := validateSummary(ds.Summary); err != nil {
		return nil, err
	}

	sum := ds.Summary

	pdf := gofpdf.New("P", "pt", "Letter", "")
	pdf.SetCreationDate(ds.UploadedAt.UTC())
	pdf.SetModificationDate(ds.UploadedAt.UTC())
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Text(pageMargin, 72, fmt.Sprintf("Analysis Report for: %s", ds.Name))

	pdf.SetFont("Helvetica", "", 12)
	pdf.Text(pageMargin, 108, "Summary Statistics:")
	pdf.Text(pageMargin+14, 130, fmt.Sprintf("Total Equipment Count: %d", sum.TotalCount))
	pdf.Text(pageMargin+14, 148, "Averages:")
	pdf.Text(pageMargin+28, 166, fmt.Sprintf("Flowrate: %s", formatAverage(sum.Averages.Flowrate)))
	pdf.Text(pageMargin+28, 182, fmt.Sprintf("Pressure: %s", formatAverage(sum.Averages.Pressure)))
	pdf.Text(pageMargin+28, 198, fmt.Sprintf("Temperature: %s", formatAverage(sum.Averages.Temperature)))

	if sum.TotalCount == 0 {
		pdf.Text(pageMargin, 240, "No data rows; type distribution chart omitted.")
	} else {
		pdf.Text(pageMargin, 240, "Equipment Type Distribution:")

		png, err := renderPie(sum.TypeDistribution)
		if err != nil {
			return nil, fmt.Errorf("render distribution chart: %w", err)
		}

		opts := gofpdf.ImageOptions{ImageType: "PNG"}
		pdf.RegisterImageOptionsReader("type-distribution", opts, bytes.NewReader(png))
		pdf.ImageOptions("type-distribution", pageMargin, 252, chartWidth, chartHeight, false, opts, 0, "")
	}

	var out bytes.Buffer
	if err := pdf.Output(&out); err != nil {
		return nil, fmt.Errorf("write pdf: %w", err)
	}

	return out.Bytes(), nil
}

// renderPie draws the distribution as a pie chart PNG. Slices follow
// distribution order; labels carry the percentage to one decimal place.
func renderPie(dist entity.Distribution) ([]byte, error) {
	total := dist.Total()

	values := make([]chart.Value, 0, len(dist))
	for _, tc := range dist {
		pct := 100 * float64(tc.Count) / float64(total)
		values = append(values, chart.Value{
			Value: float64(tc.Count),
			Label: fmt.Sprintf("%s %.1f%%", tc.Label, pct),
		})
	}

	pie := chart.PieChart{
		Width:  2 * chartWidth, // rendered at 2x and scaled down in the PDF
		Height: 2 * chartHeight,
		Values: values,
	}

	var buf bytes.Buffer
	if err := pie.Render(chart.PNG, &buf); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

func validateSummary(sum entity.Summary) error {
	if sum.TotalCount < 0 {
		return &IncompleteSummaryError{Reason: "negative total count"}
	}

	if sum.TotalCount == 0 {
		return nil
	}

	if sum.Averages.Flowrate == nil || sum.Averages.Pressure == nil || sum.Averages.Temperature == nil {
		return &IncompleteSummaryError{Reason: "averages are missing"}
	}

	if len(sum.TypeDistribution) == 0 {
		return &IncompleteSummaryError{Reason: "type distribution is missing"}
	}

	return nil
}

func formatAverage(v *float64) string {
	if v == nil {
		return "N/A"
	}
	return fmt.Sprintf("%.2f", *v)
}
