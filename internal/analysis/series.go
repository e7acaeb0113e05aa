// internal/analysis/series.go
package analysis

import (
	"bytes"
	"encoding/json"
)

// Column names emitted by the service for each instrument.
const (
	FieldPos              = "Pos"
	FieldIobs             = "Iobs"
	FieldWavenumber       = "Wavenumber"
	FieldAbsorbance       = "Absorbance"
	FieldRelativePressure = "P/P0"
	FieldBETPlot          = "BET_Plot"
	FieldTemp             = "Temp"
	FieldWeight           = "Weight_normalized"
	FieldDTG              = "DTG"
)

// Point is one record of a tabular series, keyed by column name.
type Point map[string]float64

// UnmarshalJSON keeps numeric columns and skips the rest. The service emits
// helper columns (for example boolean peak markers) next to the measurements.
func (p *Point) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	out := make(Point, len(raw))
	for key, value := range raw {
		value = bytes.TrimSpace(value)
		if len(value) == 0 || value[0] == '"' || value[0] == 't' || value[0] == 'f' || value[0] == 'n' {
			continue
		}
		var f float64
		if err := json.Unmarshal(value, &f); err != nil {
			continue
		}
		out[key] = f
	}
	*p = out
	return nil
}

// Series is an ordered sequence of records.
type Series []Point

// Column extracts one named column. Records without the column contribute zero
// so that every column of a series has the same length.
func (s Series) Column(name string) []float64 {
	values := make([]float64, len(s))
	for i, point := range s {
		values[i] = point[name]
	}
	return values
}
