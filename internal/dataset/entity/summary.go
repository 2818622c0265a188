package entity

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Required columns of an equipment-parameter file.
const (
	ColumnFlowrate    = "Flowrate"
	ColumnPressure    = "Pressure"
	ColumnTemperature = "Temperature"
	ColumnType        = "Type"
)

// Averages holds the arithmetic means of the numeric columns. Values are nil
// when the file has zero data rows (a mean over nothing is undefined) and
// serialize as JSON null in that case.
type Averages struct {
	Flowrate    *float64 `json:"Flowrate"`
	Pressure    *float64 `json:"Pressure"`
	Temperature *float64 `json:"Temperature"`
}

// TypeCount is one category of the Type column with its occurrence count.
type TypeCount struct {
	Label string
	Count int
}

// Distribution is the Type-column histogram in first-encounter order.
//
// Order matters: the report's pie chart draws slices in distribution order,
// so it is preserved through JSON in both directions instead of using a map.
type Distribution []TypeCount

// Count returns the occurrence count for label, or zero if absent.
func (d Distribution) Count(label string) int {
	for _, tc := range d {
		if tc.Label == label {
			return tc.Count
		}
	}
	return 0
}

// Total returns the sum of all counts.
func (d Distribution) Total() int {
	total := 0
	for _, tc := range d {
		total += tc.Count
	}
	return total
}

// MarshalJSON renders the distribution as a JSON object with keys in
// distribution order.
func (d Distribution) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')

	for i, tc := range d {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(tc.Label)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		fmt.Fprintf(&buf, ":%d", tc.Count)
	}

	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads a JSON object back into an ordered distribution,
// keeping the key order of the document.
func (d *Distribution) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("type distribution: expected object, got %v", tok)
	}

	out := Distribution{}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("type distribution: unexpected key %v", keyTok)
		}

		var count int
		if err := dec.Decode(&count); err != nil {
			return fmt.Errorf("type distribution %q: %w", key, err)
		}

		out = append(out, TypeCount{Label: key, Count: count})
	}

	if _, err := dec.Token(); err != nil { // closing brace
		return err
	}

	*d = out
	return nil
}

// Summary is the derived statistics of a dataset, computed once at ingestion
// and never recomputed.
type Summary struct {
	TotalCount       int          `json:"total_count"`
	Averages         Averages     `json:"averages"`
	TypeDistribution Distribution `json:"type_distribution"`
}
