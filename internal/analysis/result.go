// internal/analysis/result.go
package analysis

import (
	"encoding/json"
	"fmt"
)

// Result is a successful analysis response. Raw keeps the exact bytes the
// service returned so a follow-up can send them back unchanged.
type Result struct {
	Type Type            `json:"-"`
	Raw  json.RawMessage `json:"-"`

	OriginalData  Series `json:"original_data,omitempty"`
	ModifiedData  Series `json:"modified_data,omitempty"`
	OriginalPeaks Series `json:"original_peaks,omitempty"`
	ModifiedPeaks Series `json:"modified_peaks,omitempty"`

	OriginalSurfaceArea *float64 `json:"original_surface_area,omitempty"`
	ModifiedSurfaceArea *float64 `json:"modified_surface_area,omitempty"`

	TGAResults *TGASummary `json:"tga_results,omitempty"`
	TGAData    *TGAPayload `json:"tga_data,omitempty"`

	OriginalXRD Series `json:"original_xrd,omitempty"`
	ModifiedXRD Series `json:"modified_xrd,omitempty"`
	OriginalIR  Series `json:"original_ir,omitempty"`
	ModifiedIR  Series `json:"modified_ir,omitempty"`
	OriginalBET Series `json:"original_bet,omitempty"`
	ModifiedBET Series `json:"modified_bet,omitempty"`

	AISuggestion string `json:"ai_suggestion"`
}

// DecodeResult parses a response body for the given analysis type.
func DecodeResult(t Type, body []byte) (*Result, error) {
	var r Result
	if err := json.Unmarshal(body, &r); err != nil {
		return nil, fmt.Errorf("decode %s result: %w", t, err)
	}
	r.Type = t
	r.Raw = append(json.RawMessage(nil), body...)
	return &r, nil
}

// Previous returns the payload sent as previous_analysis in a follow-up.
// A nil result serialises as null.
func (r *Result) Previous() json.RawMessage {
	if r == nil || len(r.Raw) == 0 {
		return json.RawMessage("null")
	}
	return r.Raw
}

// TGASamples returns the sample series for TGA charts, from either the
// top-level tga_data (TGA flow) or the combined tga_data member.
func (r *Result) TGASamples() (Series, bool) {
	if r == nil {
		return nil, false
	}
	return r.TGAData.Samples()
}

// TGASummary returns the TGA metrics from tga_results or a summary-shaped
// tga_data.
func (r *Result) TGASummary() (TGASummary, bool) {
	if r == nil {
		return TGASummary{}, false
	}
	if r.TGAResults != nil {
		return *r.TGAResults, true
	}
	return r.TGAData.Summary()
}
