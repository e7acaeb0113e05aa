// internal/page/section.go
package page

import (
	"fmt"

	"github.com/mwiater/matscope/internal/analysis"
	"github.com/mwiater/matscope/internal/charts"
	"github.com/mwiater/matscope/internal/markdown"
)

// Surface ids used by the sections.
const (
	PlotOriginal = "originalPlot"
	PlotModified = "modifiedPlot"
	PlotTGA      = "tgaPlot"
	PlotXRD      = "xrdPlot"
	PlotIR       = "irPlot"
	PlotBET      = "betPlot"
)

// Messages shown in place of missing data.
const (
	NoOriginalData = "No original data provided."
	NoModifiedData = "No modified data provided."
	NoTGAData      = "No TGA data provided or data format is incorrect."
	NotAvailable   = "N/A"
)

// Metric labels for BET results.
const (
	MetricOriginalSurfaceArea = "Original Surface Area"
	MetricModifiedSurfaceArea = "Modified Surface Area"
)

// FollowUp is one answered follow-up question.
type FollowUp struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
	HTML     string `json:"html"`
}

// Section is the view model of one analysis type's result area.
type Section struct {
	Type            analysis.Type
	Loading         bool
	Error           string
	ResultVisible   bool
	FollowUpVisible bool
	SummaryVisible  bool
	Plots           *charts.Surfaces
	Metrics         []charts.Field
	Commentary      string
	CommentaryHTML  string
	FollowUps       []FollowUp
	Prompt          string
}

func surfaceIDs(t analysis.Type) []string {
	switch t {
	case analysis.TGA:
		return []string{PlotTGA}
	case analysis.Combined:
		return []string{PlotXRD, PlotIR, PlotBET, PlotTGA}
	default:
		return []string{PlotOriginal, PlotModified}
	}
}

func newSection(t analysis.Type) *Section {
	return &Section{Type: t, Plots: charts.NewSurfaces(surfaceIDs(t)...)}
}

// snapshot copies the section so callers cannot race later updates.
func (s *Section) snapshot() Section {
	out := *s
	plots := charts.NewSurfaces()
	for _, id := range s.Plots.IDs() {
		c, _ := s.Plots.Get(id)
		plots.Replace(id, c)
	}
	out.Plots = plots
	out.Metrics = append([]charts.Field(nil), s.Metrics...)
	out.FollowUps = append([]FollowUp(nil), s.FollowUps...)
	return out
}

// present fills the section from a successful result.
func (s *Section) present(r *analysis.Result) {
	s.Plots.Reset()
	s.Metrics = nil
	s.SummaryVisible = false

	switch r.Type {
	case analysis.XRD:
		s.Plots.Replace(PlotOriginal, charts.ChartContent(charts.XRD("Original XRD Data", r.OriginalData, r.OriginalPeaks)))
		s.Plots.Replace(PlotModified, charts.ChartContent(charts.XRD("Modified XRD Data", r.ModifiedData, r.ModifiedPeaks)))
	case analysis.IR:
		s.Plots.Replace(PlotOriginal, charts.ChartContent(charts.IR("Original IR Data", r.OriginalData, r.OriginalPeaks)))
		s.Plots.Replace(PlotModified, charts.ChartContent(charts.IR("Modified IR Data", r.ModifiedData, r.ModifiedPeaks)))
	case analysis.BET:
		s.presentBET(r)
	case analysis.TGA:
		s.presentTGA(r)
	case analysis.Combined:
		s.presentCombined(r)
	}

	s.Commentary = r.AISuggestion
	s.CommentaryHTML = markdown.ToHTML(r.AISuggestion)
	s.ResultVisible = true
	s.FollowUpVisible = true
}

func (s *Section) presentBET(r *analysis.Result) {
	original, originalArea := charts.Placeholder(NoOriginalData), NotAvailable
	if r.OriginalData != nil {
		original = charts.ChartContent(charts.BET("Original BET Analysis", r.OriginalData))
		originalArea = formatArea(r.OriginalSurfaceArea)
	}
	modified, modifiedArea := charts.Placeholder(NoModifiedData), NotAvailable
	if r.ModifiedData != nil {
		modified = charts.ChartContent(charts.BET("Modified BET Analysis", r.ModifiedData))
		modifiedArea = formatArea(r.ModifiedSurfaceArea)
	}
	s.Plots.Replace(PlotOriginal, original)
	s.Plots.Replace(PlotModified, modified)
	s.Metrics = []charts.Field{
		{Label: MetricOriginalSurfaceArea, Value: originalArea},
		{Label: MetricModifiedSurfaceArea, Value: modifiedArea},
	}
}

func (s *Section) presentTGA(r *analysis.Result) {
	if samples, ok := r.TGASamples(); ok {
		s.Plots.Replace(PlotTGA, charts.ChartContent(charts.TGA("TGA Analysis", samples)))
		return
	}
	if summary, ok := r.TGASummary(); ok {
		s.Plots.Replace(PlotTGA, charts.FieldsContent(tgaFields(summary)...))
		s.SummaryVisible = true
		return
	}
	s.Plots.Replace(PlotTGA, charts.Placeholder(NoTGAData))
}

func (s *Section) presentCombined(r *analysis.Result) {
	if r.OriginalXRD != nil && r.ModifiedXRD != nil {
		s.Plots.Replace(PlotXRD, charts.ChartContent(charts.CombinedXRD(r.OriginalXRD, r.ModifiedXRD)))
	}
	if r.OriginalIR != nil && r.ModifiedIR != nil {
		s.Plots.Replace(PlotIR, charts.ChartContent(charts.CombinedIR(r.OriginalIR, r.ModifiedIR)))
	}
	if r.OriginalBET != nil && r.ModifiedBET != nil {
		s.Plots.Replace(PlotBET, charts.ChartContent(charts.CombinedBET(r.OriginalBET, r.ModifiedBET)))
	}
	if samples, ok := r.TGAData.Samples(); ok {
		s.Plots.Replace(PlotTGA, charts.ChartContent(charts.TGA("TGA Analysis", samples)))
	} else if summary, ok := r.TGAData.Summary(); ok {
		s.Plots.Replace(PlotTGA, charts.FieldsContent(tgaFields(summary)...))
	}
}

func tgaFields(s analysis.TGASummary) []charts.Field {
	return []charts.Field{
		{Label: "Adsorption Capacity", Value: scalarOrNA(s.AdsorptionCapacity)},
		{Label: "Desorption Energy", Value: scalarOrNA(s.DesorptionEnergy)},
	}
}

func scalarOrNA(v any) string {
	if v == nil {
		return NotAvailable
	}
	return analysis.FormatScalar(v)
}

func formatArea(v *float64) string {
	if v == nil {
		return NotAvailable
	}
	return fmt.Sprintf("%.2f", *v)
}
