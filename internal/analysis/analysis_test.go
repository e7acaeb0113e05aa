// internal/analysis/analysis_test.go
package analysis

import (
	"encoding/json"
	"testing"
	"time"
)

func TestParseType(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    Type
		wantErr bool
	}{
		{in: "xrd", want: XRD},
		{in: " IR ", want: IR},
		{in: "Combined", want: Combined},
		{in: "nmr", wantErr: true},
	}
	for _, tt := range tests {
		got, err := ParseType(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Fatalf("ParseType(%q) expected error", tt.in)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Fatalf("ParseType(%q)=%q,%v want %q", tt.in, got, err, tt.want)
		}
	}
}

func TestTypeEndpoints(t *testing.T) {
	t.Parallel()

	if got := BET.AnalyzeEndpoint(); got != "/analyze-bet" {
		t.Fatalf("AnalyzeEndpoint=%q", got)
	}
	if got := Combined.FollowUpEndpoint(); got != "/analyze-combined-followup" {
		t.Fatalf("FollowUpEndpoint=%q", got)
	}
	if got := TGA.HistoryEndpoint(); got != "/history/tga" {
		t.Fatalf("HistoryEndpoint=%q", got)
	}
	if XRD.Label() != "XRD" || Combined.Label() != "Combined" || Combined.HistoryLabel() != "combined" {
		t.Fatalf("unexpected labels: %q %q %q", XRD.Label(), Combined.Label(), Combined.HistoryLabel())
	}
}

func TestPointSkipsNonNumericColumns(t *testing.T) {
	t.Parallel()

	var s Series
	body := `[{"Pos": 10.5, "Iobs": 200, "Peak_Marker": true, "Label": "a", "Gap": null}]`
	if err := json.Unmarshal([]byte(body), &s); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(s) != 1 || len(s[0]) != 2 {
		t.Fatalf("expected 2 numeric columns, got %#v", s)
	}
	if s.Column(FieldPos)[0] != 10.5 || s.Column(FieldIobs)[0] != 200 {
		t.Fatalf("unexpected columns: %#v", s[0])
	}
	if got := s.Column("missing"); len(got) != 1 || got[0] != 0 {
		t.Fatalf("missing column should be zero filled, got %v", got)
	}
}

func TestDecodeResultKeepsRawBytes(t *testing.T) {
	t.Parallel()

	body := []byte(`{"original_data":[{"P/P0":0.1,"BET_Plot":2}],"modified_data":null,"original_surface_area":412.3456,"ai_suggestion":"ok"}`)
	r, err := DecodeResult(BET, body)
	if err != nil {
		t.Fatalf("DecodeResult: %v", err)
	}
	if r.Type != BET || string(r.Previous()) != string(body) {
		t.Fatalf("raw bytes not retained: %s", r.Previous())
	}
	if r.ModifiedData != nil {
		t.Fatalf("null series should decode as absent")
	}
	if r.OriginalSurfaceArea == nil || *r.OriginalSurfaceArea != 412.3456 {
		t.Fatalf("surface area not decoded: %v", r.OriginalSurfaceArea)
	}
	if r.ModifiedSurfaceArea != nil {
		t.Fatalf("missing surface area should be nil")
	}

	var none *Result
	if string(none.Previous()) != "null" {
		t.Fatalf("nil result should serialise as null")
	}
}

func TestTGAPayloadShapes(t *testing.T) {
	t.Parallel()

	r, err := DecodeResult(Combined, []byte(`{"tga_data":{"adsorption_capacity":1.25,"desorption_energy":"high"},"ai_suggestion":""}`))
	if err != nil {
		t.Fatalf("decode summary: %v", err)
	}
	sum, ok := r.TGASummary()
	if !ok || FormatScalar(sum.AdsorptionCapacity) != "1.25" || FormatScalar(sum.DesorptionEnergy) != "high" {
		t.Fatalf("unexpected summary: %#v %v", sum, ok)
	}
	if _, ok := r.TGASamples(); ok {
		t.Fatalf("summary payload should not expose samples")
	}

	r, err = DecodeResult(TGA, []byte(`{"tga_data":[{"Temp":30,"Weight_normalized":100,"DTG":0}],"ai_suggestion":""}`))
	if err != nil {
		t.Fatalf("decode samples: %v", err)
	}
	samples, ok := r.TGASamples()
	if !ok || len(samples) != 1 || samples[0][FieldTemp] != 30 {
		t.Fatalf("unexpected samples: %#v", samples)
	}

	r, err = DecodeResult(TGA, []byte(`{"tga_data":null,"ai_suggestion":""}`))
	if err != nil {
		t.Fatalf("decode null: %v", err)
	}
	if _, ok := r.TGASummary(); ok {
		t.Fatalf("null tga_data should not yield a summary")
	}

	if _, err := DecodeResult(TGA, []byte(`{"tga_data":42}`)); err == nil {
		t.Fatalf("expected error for scalar tga_data")
	}
}

func TestHistoryRecordHelpers(t *testing.T) {
	t.Parallel()

	var recs []HistoryRecord
	body := `[
		{"timestamp":"2024-03-05T14:07:09.123456","adsorption_capacity":2.5,"desorption_energy":40,"user_query":"why"},
		{"timestamp":"not a date","tga_results":{"adsorption_capacity":1},"original_xrd_peaks":[ {"Pos": 1} ],"ai_suggestion":"text"}
	]`
	if err := json.Unmarshal([]byte(body), &recs); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	want := time.Date(2024, 3, 5, 14, 7, 9, 0, time.Local).Format(DisplayTimeLayout)
	if got := recs[0].FormattedTime(); got != want {
		t.Fatalf("FormattedTime=%q want %q", got, want)
	}
	if got := recs[1].FormattedTime(); got != "not a date" {
		t.Fatalf("unparsable timestamp should be verbatim, got %q", got)
	}

	tga, ok := recs[0].TGA()
	if !ok || FormatScalar(tga.AdsorptionCapacity) != "2.5" || FormatScalar(tga.DesorptionEnergy) != "40" {
		t.Fatalf("flattened TGA not merged: %#v", tga)
	}
	tga, ok = recs[1].TGA()
	if !ok || FormatScalar(tga.AdsorptionCapacity) != "1" || tga.DesorptionEnergy != nil {
		t.Fatalf("nested TGA not used: %#v", tga)
	}

	if recs[0].Commentary() != "" || recs[1].Commentary() != "text" {
		t.Fatalf("unexpected commentary")
	}
	if peaks, ok := CompactPeaks(recs[1].OriginalXRDPeaks); !ok || peaks != `[{"Pos":1}]` {
		t.Fatalf("CompactPeaks=%q,%v", peaks, ok)
	}
	if _, ok := CompactPeaks(recs[1].ModifiedXRDPeaks); ok {
		t.Fatalf("absent peaks should report false")
	}
}

func TestCombinedFormAttachesOnlyPresentFiles(t *testing.T) {
	t.Parallel()

	f := NewCombinedForm(CombinedFiles{OriginalXRD: "/data/a.xy", TGA: "/data/t.csv"}, "compare")
	if len(f.Files) != 2 {
		t.Fatalf("expected 2 files, got %d", len(f.Files))
	}
	if file, ok := f.File("tga_file"); !ok || file.Filename() != "t.csv" {
		t.Fatalf("tga_file missing: %#v", file)
	}
	if _, ok := f.File("modified_ir_file"); ok {
		t.Fatalf("absent file should not be attached")
	}
	if v, _ := f.Value("ai_query"); v != "compare" {
		t.Fatalf("ai_query=%q", v)
	}

	pair := NewXRDForm("o.xy", "m.xy", "annealed", "")
	if v, ok := pair.Value("explanation"); !ok || v != "annealed" {
		t.Fatalf("explanation=%q", v)
	}
	if len(pair.Files) != 2 || pair.Files[0].Field != "original_file" {
		t.Fatalf("unexpected files: %#v", pair.Files)
	}
}

func TestTruthyAndFormatScalar(t *testing.T) {
	t.Parallel()

	if Truthy(nil) || Truthy("") || Truthy(0.0) || Truthy(false) {
		t.Fatalf("falsy values reported truthy")
	}
	if !Truthy("x") || !Truthy(1.0) {
		t.Fatalf("truthy values reported falsy")
	}
	if got := FormatScalar(3.0); got != "3" {
		t.Fatalf("FormatScalar(3.0)=%q", got)
	}
}
