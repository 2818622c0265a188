package usecase

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/Mayukh-Jain/equipviz/internal/dataset/entity"
)

// MalformedInputError reports a file that could not be read as a delimited
// table at all.
type MalformedInputError struct {
	Err error
}

func (e *MalformedInputError) Error() string {
	return fmt.Sprintf("malformed csv: %v", e.Err)
}

func (e *MalformedInputError) Unwrap() error {
	return e.Err
}

// MissingColumnError reports an absent required column.
type MissingColumnError struct {
	Column string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("missing required column %q", e.Column)
}

// InvalidCellError reports a required numeric cell that does not parse.
// Ingestion fails on the first such cell rather than skipping it.
type InvalidCellError struct {
	Column string
	Row    int // 1-based data row number, excluding the header
	Value  string
}

func (e *InvalidCellError) Error() string {
	return fmt.Sprintf("column %q row %d: value %q is not numeric", e.Column, e.Row, e.Value)
}

var requiredNumericColumns = []string{
	entity.ColumnFlowrate,
	entity.ColumnPressure,
	entity.ColumnTemperature,
}

// Summarize parses an equipment-parameter CSV into its summary.
//
// The first record is the header. Flowrate, Pressure and Temperature must be
// present and numeric in every data row; Type must be present and may hold
// any string. A header-only file is valid: it yields a zero total count,
// undefined (nil) averages and an empty distribution. A file without a
// readable header is malformed.
func Summarize(r io.Reader) (entity.Summary, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			err = errors.New("no header row")
		}
		return entity.Summary{}, &MalformedInputError{Err: err}
	}

	cols, err := resolveColumns(header)
	if err != nil {
		return entity.Summary{}, err
	}

	sums := make(map[string]float64, len(requiredNumericColumns))
	dist := entity.Distribution{}
	distIndex := make(map[string]int)
	rows := 0

	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return entity.Summary{}, &MalformedInputError{Err: err}
		}

		rows++
		for _, column := range requiredNumericColumns {
			raw := strings.TrimSpace(record[cols[column]])
			value, parseErr := strconv.ParseFloat(raw, 64)
			if parseErr != nil {
				return entity.Summary{}, &InvalidCellError{Column: column, Row: rows, Value: raw}
			}
			sums[column] += value
		}

		label := strings.TrimSpace(record[cols[entity.ColumnType]])
		if i, seen := distIndex[label]; seen {
			dist[i].Count++
		} else {
			distIndex[label] = len(dist)
			dist = append(dist, entity.TypeCount{Label: label, Count: 1})
		}
	}

	summary := entity.Summary{
		TotalCount:       rows,
		TypeDistribution: dist,
	}

	if rows > 0 {
		summary.Averages = entity.Averages{
			Flowrate:    mean(sums[entity.ColumnFlowrate], rows),
			Pressure:    mean(sums[entity.ColumnPressure], rows),
			Temperature: mean(sums[entity.ColumnTemperature], rows),
		}
	}

	return summary, nil
}

// resolveColumns maps each required column name to its header index.
func resolveColumns(header []string) (map[string]int, error) {
	index := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.TrimSpace(name)
		if i == 0 {
			name = strings.TrimPrefix(name, "\uFEFF")
		}
		index[name] = i
	}

	required := append(append([]string{}, requiredNumericColumns...), entity.ColumnType)

	cols := make(map[string]int, len(required))
	for _, column := range required {
		i, ok := index[column]
		if !ok {
			return nil, &MissingColumnError{Column: column}
		}
		cols[column] = i
	}

	return cols, nil
}

func mean(sum float64, count int) *float64 {
	m := sum / float64(count)
	return &m
}

// ParseRows re-parses a stored file into one mapping per data row, preserving
// the file's own column set. Numeric-looking values are returned as numbers
// so the JSON row listing matches what was uploaded.
func ParseRows(r io.Reader) ([]map[string]any, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			err = errors.New("no header row")
		}
		return nil, &MalformedInputError{Err: err}
	}

	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\uFEFF")
	}

	out := []map[string]any{}
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, &MalformedInputError{Err: err}
		}

		row := make(map[string]any, len(header))
		for i, name := range header {
			raw := strings.TrimSpace(record[i])
			if value, parseErr := strconv.ParseFloat(raw, 64); parseErr == nil {
				row[name] = value
			} else {
				row[name] = raw
			}
		}
		out = append(out, row)
	}

	return out, nil
}
