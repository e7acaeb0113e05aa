// internal/page/page_test.go
package page

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/mwiater/matscope/internal/analysis"
	"github.com/mwiater/matscope/internal/api"
	"github.com/mwiater/matscope/internal/charts"
)

type fakeService struct {
	bodies   map[analysis.Type]string
	err      error
	answer   string
	previous json.RawMessage
	question string
	followUp int
	history  []analysis.HistoryRecord
}

func (f *fakeService) Analyze(_ context.Context, t analysis.Type, _ analysis.Form) (*analysis.Result, error) {
	if f.err != nil {
		return nil, f.err
	}
	return analysis.DecodeResult(t, []byte(f.bodies[t]))
}

func (f *fakeService) FollowUp(_ context.Context, _ analysis.Type, question string, previous json.RawMessage) (string, error) {
	f.followUp++
	f.question = question
	f.previous = previous
	if f.err != nil {
		return "", f.err
	}
	return f.answer, nil
}

func (f *fakeService) History(context.Context, analysis.Type) ([]analysis.HistoryRecord, error) {
	return f.history, f.err
}

type recordingIndicator struct {
	shown  []string
	hidden int
}

func (r *recordingIndicator) Show(label string) { r.shown = append(r.shown, label) }
func (r *recordingIndicator) Hide()             { r.hidden++ }

const xrdBody = `{
  "original_data": [{"Pos": 20, "Iobs": 100}, {"Pos": 21, "Iobs": 150}],
  "modified_data": [{"Pos": 20, "Iobs": 90}],
  "original_peaks": [{"Pos": 21, "Iobs": 150}],
  "modified_peaks": [],
  "ai_suggestion": "Peak at **21** shifted."
}`

func TestSubmitAnalysisSuccess(t *testing.T) {
	t.Parallel()

	svc := &fakeService{bodies: map[analysis.Type]string{analysis.XRD: xrdBody}}
	ind := &recordingIndicator{}
	c := New(svc, ind)

	r, err := c.SubmitAnalysis(context.Background(), analysis.XRD, analysis.NewXRDForm("a.csv", "b.csv", "", ""))
	if err != nil {
		t.Fatalf("SubmitAnalysis: %v", err)
	}
	if len(ind.shown) != 1 || ind.hidden != 1 {
		t.Fatalf("indicator not balanced: %+v", ind)
	}
	if c.Session().Last(analysis.XRD) != r {
		t.Fatalf("session slot not stored")
	}

	s := c.Section(analysis.XRD)
	if !s.ResultVisible || !s.FollowUpVisible || s.Loading || s.Error != "" {
		t.Fatalf("unexpected section state: %+v", s)
	}
	if s.Commentary != "Peak at **21** shifted." || !strings.Contains(s.CommentaryHTML, "<strong>21</strong>") {
		t.Fatalf("unexpected commentary: %q / %q", s.Commentary, s.CommentaryHTML)
	}
	content, _ := s.Plots.Get(PlotOriginal)
	if content.Chart == nil || len(content.Chart.Datasets) != 2 || content.Chart.Datasets[1].Label != "Identified Peaks" {
		t.Fatalf("unexpected original plot: %+v", content)
	}
}

func TestSubmitAnalysisFailureKeepsSession(t *testing.T) {
	t.Parallel()

	svc := &fakeService{bodies: map[analysis.Type]string{analysis.XRD: xrdBody}}
	ind := &recordingIndicator{}
	c := New(svc, ind)
	first, err := c.SubmitAnalysis(context.Background(), analysis.XRD, analysis.Form{})
	if err != nil {
		t.Fatalf("first submit: %v", err)
	}

	svc.err = &api.APIError{Op: api.OpAnalyze, Status: 400, Message: "Original file is missing."}
	if _, err := c.SubmitAnalysis(context.Background(), analysis.XRD, analysis.Form{}); err == nil {
		t.Fatalf("expected error")
	}
	s := c.Section(analysis.XRD)
	if s.Error != "Original file is missing." || s.ResultVisible || s.Loading {
		t.Fatalf("unexpected section after failure: %+v", s)
	}
	if c.Session().Last(analysis.XRD) != first {
		t.Fatalf("failed request must not replace the session slot")
	}
	if ind.hidden != 2 {
		t.Fatalf("indicator should hide after every request, hidden=%d", ind.hidden)
	}
}

func TestSubmitAnalysisTransportError(t *testing.T) {
	t.Parallel()

	svc := &fakeService{err: &api.TransportError{Op: api.OpAnalyze, Err: errors.New("dial tcp: refused")}}
	c := New(svc, nil)
	if _, err := c.SubmitAnalysis(context.Background(), analysis.IR, analysis.Form{}); err == nil {
		t.Fatalf("expected error")
	}
	if got := c.Section(analysis.IR).Error; got != "Request failed: dial tcp: refused" {
		t.Fatalf("unexpected error text: %q", got)
	}
}

func TestBETPlaceholders(t *testing.T) {
	t.Parallel()

	body := `{"original_data": [{"P/P0": 0.1, "BET_Plot": 0.002}, {"P/P0": 0.2, "BET_Plot": 0.004}],
	          "original_surface_area": 412.3456, "ai_suggestion": "ok"}`
	svc := &fakeService{bodies: map[analysis.Type]string{analysis.BET: body}}
	c := New(svc, nil)
	if _, err := c.SubmitAnalysis(context.Background(), analysis.BET, analysis.Form{}); err != nil {
		t.Fatalf("SubmitAnalysis: %v", err)
	}

	s := c.Section(analysis.BET)
	original, _ := s.Plots.Get(PlotOriginal)
	modified, _ := s.Plots.Get(PlotModified)
	if original.Chart == nil || !original.Chart.Trend {
		t.Fatalf("expected BET chart with trend, got %+v", original)
	}
	if modified.Chart != nil || modified.Message != NoModifiedData {
		t.Fatalf("expected placeholder, got %+v", modified)
	}
	want := []charts.Field{
		{Label: MetricOriginalSurfaceArea, Value: "412.35"},
		{Label: MetricModifiedSurfaceArea, Value: NotAvailable},
	}
	if len(s.Metrics) != 2 || s.Metrics[0] != want[0] || s.Metrics[1] != want[1] {
		t.Fatalf("unexpected metrics: %+v", s.Metrics)
	}
}

func TestTGAPresentation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		body        string
		wantChart   bool
		wantSummary bool
		wantMessage string
	}{
		{
			name:      "samples",
			body:      `{"tga_data": [{"Temp": 25, "Weight_normalized": 100, "DTG": 0}]}`,
			wantChart: true,
		},
		{
			name:        "summary",
			body:        `{"tga_results": {"adsorption_capacity": 2.5, "desorption_energy": 40}}`,
			wantSummary: true,
		},
		{
			name:        "missing",
			body:        `{"ai_suggestion": "nothing"}`,
			wantMessage: NoTGAData,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			svc := &fakeService{bodies: map[analysis.Type]string{analysis.TGA: tt.body}}
			c := New(svc, nil)
			if _, err := c.SubmitAnalysis(context.Background(), analysis.TGA, analysis.Form{}); err != nil {
				t.Fatalf("SubmitAnalysis: %v", err)
			}
			s := c.Section(analysis.TGA)
			content, _ := s.Plots.Get(PlotTGA)
			if (content.Chart != nil) != tt.wantChart {
				t.Fatalf("chart presence mismatch: %+v", content)
			}
			if s.SummaryVisible != tt.wantSummary {
				t.Fatalf("summary visibility mismatch: %v", s.SummaryVisible)
			}
			if content.Message != tt.wantMessage {
				t.Fatalf("message = %q, want %q", content.Message, tt.wantMessage)
			}
			if tt.wantSummary && content.Fields[0].Value != "2.5" {
				t.Fatalf("unexpected summary fields: %+v", content.Fields)
			}
		})
	}
}

func TestCombinedHidesIncompletePairs(t *testing.T) {
	t.Parallel()

	body := `{
	  "original_xrd": [{"Pos": 20, "Iobs": 1}], "modified_xrd": [{"Pos": 20, "Iobs": 2}],
	  "original_ir": [{"Wavenumber": 1700, "Absorbance": 0.8}],
	  "tga_data": {"adsorption_capacity": 1.2, "desorption_energy": 33},
	  "ai_suggestion": "combined"
	}`
	svc := &fakeService{bodies: map[analysis.Type]string{analysis.Combined: body}}
	c := New(svc, nil)
	if _, err := c.SubmitAnalysis(context.Background(), analysis.Combined, analysis.Form{}); err != nil {
		t.Fatalf("SubmitAnalysis: %v", err)
	}
	s := c.Section(analysis.Combined)
	visible := s.Plots.Visible()
	if len(visible) != 2 || visible[0] != PlotXRD || visible[1] != PlotTGA {
		t.Fatalf("unexpected visible surfaces: %v", visible)
	}
	tga, _ := s.Plots.Get(PlotTGA)
	if len(tga.Fields) != 2 || tga.Fields[1].Value != "33" {
		t.Fatalf("unexpected TGA fields: %+v", tga.Fields)
	}
}

func TestFollowUpUsesSessionSlot(t *testing.T) {
	t.Parallel()

	svc := &fakeService{bodies: map[analysis.Type]string{analysis.XRD: xrdBody}, answer: "It is **anatase**."}
	c := New(svc, nil)
	if _, err := c.SubmitAnalysis(context.Background(), analysis.XRD, analysis.Form{}); err != nil {
		t.Fatalf("SubmitAnalysis: %v", err)
	}

	answer, err := c.SubmitFollowUp(context.Background(), analysis.XRD, "  which phase?  ")
	if err != nil {
		t.Fatalf("SubmitFollowUp: %v", err)
	}
	if answer != "It is **anatase**." || svc.question != "which phase?" {
		t.Fatalf("unexpected answer/question: %q %q", answer, svc.question)
	}
	if !strings.Contains(string(svc.previous), `"original_peaks"`) {
		t.Fatalf("previous analysis not sent: %s", svc.previous)
	}
	s := c.Section(analysis.XRD)
	if len(s.FollowUps) != 1 || !strings.Contains(s.FollowUps[0].HTML, "<strong>anatase</strong>") {
		t.Fatalf("unexpected follow-ups: %+v", s.FollowUps)
	}
}

func TestFollowUpWithoutPriorResultSendsNull(t *testing.T) {
	t.Parallel()

	svc := &fakeService{answer: "ok"}
	c := New(svc, nil)
	if _, err := c.SubmitFollowUp(context.Background(), analysis.IR, "why?"); err != nil {
		t.Fatalf("SubmitFollowUp: %v", err)
	}
	if string(svc.previous) != "null" {
		t.Fatalf("previous = %s, want null", svc.previous)
	}
}

func TestEmptyFollowUpPrompts(t *testing.T) {
	t.Parallel()

	svc := &fakeService{}
	ind := &recordingIndicator{}
	c := New(svc, ind)
	_, err := c.SubmitFollowUp(context.Background(), analysis.BET, "   ")
	if !errors.Is(err, ErrEmptyQuestion) {
		t.Fatalf("err = %v, want ErrEmptyQuestion", err)
	}
	if svc.followUp != 0 || len(ind.shown) != 0 {
		t.Fatalf("no request or loading expected, calls=%d shown=%v", svc.followUp, ind.shown)
	}
	if got := c.Section(analysis.BET).Prompt; got != EmptyQuestionPrompt {
		t.Fatalf("prompt = %q", got)
	}
}

func TestFollowUpFailureShowsError(t *testing.T) {
	t.Parallel()

	svc := &fakeService{err: &api.APIError{Op: api.OpFollowUp, Status: 500, Message: api.FallbackFollowUpMessage}}
	c := New(svc, nil)
	if _, err := c.SubmitFollowUp(context.Background(), analysis.TGA, "more?"); err == nil {
		t.Fatalf("expected error")
	}
	s := c.Section(analysis.TGA)
	if s.Error != api.FallbackFollowUpMessage || len(s.FollowUps) != 0 {
		t.Fatalf("unexpected section: %+v", s)
	}
}

func TestHistoryDelegation(t *testing.T) {
	t.Parallel()

	msg := "Surface area dropped."
	svc := &fakeService{history: []analysis.HistoryRecord{{Timestamp: "2024-05-01T09:00:00", AISuggestion: &msg}}}
	c := New(svc, nil)
	if err := c.ToggleHistory(context.Background(), analysis.BET); err != nil {
		t.Fatalf("ToggleHistory: %v", err)
	}
	if !c.History().Visible(analysis.BET) {
		t.Fatalf("history should be visible")
	}
	if got := c.FilterHistory(analysis.BET, "dropped"); len(got) != 1 {
		t.Fatalf("filter: %+v", got)
	}
	if got := c.RenderHistory(analysis.BET); len(got) != 1 || got[0].Summary != msg {
		t.Fatalf("render: %+v", got)
	}
}
