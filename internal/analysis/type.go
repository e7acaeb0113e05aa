// internal/analysis/type.go
// Package analysis defines the data exchanged with the materials-analysis service:
// analysis types, instrument series, analysis results, history records and the
// multipart forms used to submit instrument files.
package analysis

import (
	"fmt"
	"strings"
)

// Type identifies one of the analysis flows offered by the service.
type Type string

const (
	// XRD is X-ray diffraction: intensity over scattering angle.
	XRD Type = "xrd"
	// IR is infrared spectroscopy: absorbance over wavenumber.
	IR Type = "ir"
	// BET is surface-area analysis from an adsorption isotherm.
	BET Type = "bet"
	// TGA is thermogravimetric analysis: weight over temperature.
	TGA Type = "tga"
	// Combined submits any subset of the other instruments in one request.
	Combined Type = "combined"
)

// AllTypes returns every analysis type in display order.
func AllTypes() []Type {
	return []Type{XRD, IR, BET, TGA, Combined}
}

// ParseType converts user input into a Type.
func ParseType(s string) (Type, error) {
	t := Type(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range AllTypes() {
		if t == known {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown analysis type %q (expected one of xrd, ir, bet, tga, combined)", s)
}

// Label returns the display name of the analysis type.
func (t Type) Label() string {
	switch t {
	case Combined:
		return "Combined"
	default:
		return strings.ToUpper(string(t))
	}
}

// HistoryLabel returns the name used in history error messages.
func (t Type) HistoryLabel() string {
	if t == Combined {
		return "combined"
	}
	return t.Label()
}

// AnalyzeEndpoint is the path that accepts new submissions of this type.
func (t Type) AnalyzeEndpoint() string { return "/analyze-" + string(t) }

// FollowUpEndpoint is the path that answers follow-up questions for this type.
func (t Type) FollowUpEndpoint() string { return "/analyze-" + string(t) + "-followup" }

// HistoryEndpoint is the path listing past analyses of this type.
func (t Type) HistoryEndpoint() string { return "/history/" + string(t) }
