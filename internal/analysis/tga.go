// internal/analysis/tga.go
package analysis

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// TGASummary holds the two scalar metrics the service derives from a TGA run.
// Values are kept as decoded JSON scalars so numeric and string payloads both
// display verbatim.
type TGASummary struct {
	AdsorptionCapacity any `json:"adsorption_capacity,omitempty"`
	DesorptionEnergy   any `json:"desorption_energy,omitempty"`
}

// IsZero reports whether neither metric is present.
func (s TGASummary) IsZero() bool {
	return s.AdsorptionCapacity == nil && s.DesorptionEnergy == nil
}

// TGAPayload is the tga_data member of a combined result. The service now sends
// a summary object; older builds sent an array of samples.
type TGAPayload struct {
	summary *TGASummary
	samples Series
}

// UnmarshalJSON accepts either an object (summary) or an array (samples).
func (p *TGAPayload) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*p = TGAPayload{}
		return nil
	}
	switch data[0] {
	case '{':
		var s TGASummary
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("decode tga summary: %w", err)
		}
		*p = TGAPayload{summary: &s}
	case '[':
		var samples Series
		if err := json.Unmarshal(data, &samples); err != nil {
			return fmt.Errorf("decode tga samples: %w", err)
		}
		*p = TGAPayload{samples: samples}
	default:
		return fmt.Errorf("decode tga data: unexpected JSON %q", truncateJSON(data))
	}
	return nil
}

// MarshalJSON writes the payload back in whichever shape it was received.
func (p TGAPayload) MarshalJSON() ([]byte, error) {
	switch {
	case p.summary != nil:
		return json.Marshal(p.summary)
	case p.samples != nil:
		return json.Marshal(p.samples)
	default:
		return []byte("null"), nil
	}
}

// Summary returns the summary object when the payload carried one.
func (p *TGAPayload) Summary() (TGASummary, bool) {
	if p == nil || p.summary == nil {
		return TGASummary{}, false
	}
	return *p.summary, true
}

// Samples returns the deprecated sample array when the payload carried one.
func (p *TGAPayload) Samples() (Series, bool) {
	if p == nil || p.samples == nil {
		return nil, false
	}
	return p.samples, true
}

// NewTGASummaryPayload wraps a summary. Used by tests and fixtures.
func NewTGASummaryPayload(s TGASummary) *TGAPayload { return &TGAPayload{summary: &s} }

// NewTGASamplesPayload wraps a sample series.
func NewTGASamplesPayload(samples Series) *TGAPayload {
	if samples == nil {
		samples = Series{}
	}
	return &TGAPayload{samples: samples}
}

// FormatScalar renders a decoded JSON scalar the way a browser would
// concatenate it into text.
func FormatScalar(v any) string {
	switch x := v.(type) {
	case nil:
		return "null"
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	case json.Number:
		return x.String()
	default:
		b, err := json.Marshal(x)
		if err != nil {
			return fmt.Sprint(x)
		}
		return string(b)
	}
}

// Truthy mirrors JavaScript truthiness for decoded JSON scalars.
func Truthy(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case string:
		return x != ""
	case float64:
		return x != 0
	case bool:
		return x
	default:
		return true
	}
}

func truncateJSON(data []byte) string {
	if len(data) > 32 {
		return string(data[:32]) + "..."
	}
	return string(data)
}
