// internal/analysis/history.go
package analysis

import (
	"bytes"
	"encoding/json"
	"time"
)

// DisplayTimeLayout is the local date-time form used wherever a history
// timestamp is shown or searched.
const DisplayTimeLayout = "1/2/2006, 3:04:05 PM"

var timestampLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	time.RFC3339Nano,
}

// HistoryRecord is one past analysis as listed by the history endpoint.
// Which fields are populated depends on the analysis type.
type HistoryRecord struct {
	Timestamp string `json:"timestamp"`
	UserQuery string `json:"user_query,omitempty"`

	OriginalXRDPeaks json.RawMessage `json:"original_xrd_peaks,omitempty"`
	ModifiedXRDPeaks json.RawMessage `json:"modified_xrd_peaks,omitempty"`
	OriginalIRPeaks  json.RawMessage `json:"original_ir_peaks,omitempty"`
	ModifiedIRPeaks  json.RawMessage `json:"modified_ir_peaks,omitempty"`

	OriginalBETSurfaceArea *float64 `json:"original_bet_surface_area,omitempty"`
	ModifiedBETSurfaceArea *float64 `json:"modified_bet_surface_area,omitempty"`

	TGAResults         *TGASummary `json:"tga_results,omitempty"`
	AdsorptionCapacity any         `json:"adsorption_capacity,omitempty"`
	DesorptionEnergy   any         `json:"desorption_energy,omitempty"`

	AISuggestion *string `json:"ai_suggestion,omitempty"`
}

// Time parses the timestamp. Zone-less timestamps are read as local time.
func (h HistoryRecord) Time() (time.Time, bool) {
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, h.Timestamp, time.Local); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// FormattedTime returns the display form of the timestamp, or the raw value
// when it cannot be parsed.
func (h HistoryRecord) FormattedTime() string {
	if t, ok := h.Time(); ok {
		return t.Local().Format(DisplayTimeLayout)
	}
	return h.Timestamp
}

// Commentary returns the AI suggestion, empty when absent.
func (h HistoryRecord) Commentary() string {
	if h.AISuggestion == nil {
		return ""
	}
	return *h.AISuggestion
}

// TGA returns the TGA metrics. The TGA endpoint flattens them onto the record
// while the combined endpoint nests them under tga_results.
func (h HistoryRecord) TGA() (TGASummary, bool) {
	if h.TGAResults != nil {
		return *h.TGAResults, true
	}
	s := TGASummary{AdsorptionCapacity: h.AdsorptionCapacity, DesorptionEnergy: h.DesorptionEnergy}
	if s.IsZero() {
		return TGASummary{}, false
	}
	return s, true
}

// CompactPeaks renders a peak list as compact JSON. It reports false when the
// list is absent, null or an empty string.
func CompactPeaks(raw json.RawMessage) (string, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) || bytes.Equal(raw, []byte(`""`)) ||
		bytes.Equal(raw, []byte("false")) || bytes.Equal(raw, []byte("0")) {
		return "", false
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return string(raw), true
	}
	return buf.String(), true
}
