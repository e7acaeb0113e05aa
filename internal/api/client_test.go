// internal/api/client_test.go
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/mwiater/matscope/internal/analysis"
	"github.com/mwiater/matscope/internal/appconfig"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return New(&appconfig.Config{BaseURL: server.URL, TimeoutSeconds: 5})
}

// TestAnalyzeSendsMultipartForm verifies the request layout of an XRD
// submission and the decoding of its response.
func TestAnalyzeSendsMultipartForm(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	original := filepath.Join(dir, "orig.xy")
	modified := filepath.Join(dir, "mod.xy")
	if err := os.WriteFile(original, []byte("10 200\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(modified, []byte("11 180\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/analyze-xrd" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		if r.Header.Get(RequestIDHeader) == "" {
			t.Errorf("missing %s header", RequestIDHeader)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parse multipart: %v", err)
		}
		if got := r.FormValue("explanation"); got != "annealed" {
			t.Errorf("explanation=%q", got)
		}
		if got := r.FormValue("ai_query"); got != "what changed?" {
			t.Errorf("ai_query=%q", got)
		}
		if _, header, err := r.FormFile("modified_file"); err != nil || header.Filename != "mod.xy" {
			t.Errorf("modified_file missing: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"original_data":[{"Pos":10,"Iobs":200}],"modified_data":[{"Pos":11,"Iobs":180}],"original_peaks":[],"modified_peaks":[{"Pos":11,"Iobs":180,"Peak_Marker":true}],"ai_suggestion":"# Summary"}`))
	})

	form := analysis.NewXRDForm(original, modified, "annealed", "what changed?")
	result, err := client.Analyze(context.Background(), analysis.XRD, form)
	if err != nil {
		t.Fatalf("Analyze returned error: %v", err)
	}
	if result.AISuggestion != "# Summary" || len(result.ModifiedPeaks) != 1 {
		t.Fatalf("unexpected result: %+v", result)
	}
	if !strings.Contains(string(result.Raw), `"Peak_Marker":true`) {
		t.Fatalf("raw body not retained: %s", result.Raw)
	}
}

func TestAnalyzeServerErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		status  int
		body    string
		wantMsg string
	}{
		{name: "error field", status: http.StatusBadRequest, body: `{"error":"Missing original or modified file"}`, wantMsg: "Missing original or modified file"},
		{name: "no error field", status: http.StatusInternalServerError, body: `{}`, wantMsg: FallbackAnalyzeMessage},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})
			_, err := client.Analyze(context.Background(), analysis.TGA, analysis.NewTGAForm("", ""))
			var apiErr *APIError
			if !errors.As(err, &apiErr) {
				t.Fatalf("expected APIError, got %T %v", err, err)
			}
			if apiErr.Status != tt.status || apiErr.Error() != tt.wantMsg {
				t.Fatalf("unexpected APIError: %+v", apiErr)
			}
		})
	}
}

func TestAnalyzeTransportErrors(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("<html>boom</html>"))
	})
	_, err := client.Analyze(context.Background(), analysis.BET, analysis.Form{})
	var transportErr *TransportError
	if !errors.As(err, &transportErr) {
		t.Fatalf("expected TransportError, got %T %v", err, err)
	}
	if !strings.HasPrefix(err.Error(), "Request failed: ") {
		t.Fatalf("unexpected message: %s", err)
	}

	missing := analysis.NewTGAForm(filepath.Join(t.TempDir(), "absent.csv"), "")
	if _, err := client.Analyze(context.Background(), analysis.TGA, missing); !errors.As(err, &transportErr) {
		t.Fatalf("expected TransportError for unreadable file, got %v", err)
	}

	unreachable := New(&appconfig.Config{BaseURL: "http://127.0.0.1:1"})
	if _, err := unreachable.History(context.Background(), analysis.XRD); !errors.As(err, &transportErr) {
		t.Fatalf("expected TransportError for unreachable host, got %v", err)
	}
}

func TestFollowUp(t *testing.T) {
	t.Parallel()

	previous := json.RawMessage(`{"ai_suggestion":"earlier","original_peaks":[]}`)
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/analyze-ir-followup" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parse multipart: %v", err)
		}
		if got := r.FormValue("user_query"); got != "Which peak shifted?" {
			t.Errorf("user_query=%q", got)
		}
		if got := r.FormValue("previous_analysis"); got != string(previous) {
			t.Errorf("previous_analysis=%q", got)
		}
		_, _ = w.Write([]byte(`{"ai_suggestion":"The **C=O** band."}`))
	})

	answer, err := client.FollowUp(context.Background(), analysis.IR, "Which peak shifted?", previous)
	if err != nil {
		t.Fatalf("FollowUp returned error: %v", err)
	}
	if answer != "The **C=O** band." {
		t.Fatalf("unexpected answer: %q", answer)
	}
}

func TestFollowUpErrors(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parse multipart: %v", err)
		}
		if r.FormValue("previous_analysis") == "null" {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":"Missing query or previous analysis data."}`))
			return
		}
		if r.FormValue("user_query") == "empty" {
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`{"error":""}`))
			return
		}
		_, _ = w.Write([]byte(`{"answer":"wrong shape"}`))
	})

	_, err := client.FollowUp(context.Background(), analysis.XRD, "q", nil)
	if err == nil || err.Error() != "Missing query or previous analysis data." {
		t.Fatalf("expected server message, got %v", err)
	}

	_, err = client.FollowUp(context.Background(), analysis.XRD, "empty", json.RawMessage(`{}`))
	if err == nil || err.Error() != FallbackFollowUpMessage {
		t.Fatalf("expected follow-up fallback, got %v", err)
	}

	_, err = client.FollowUp(context.Background(), analysis.XRD, "q", json.RawMessage(`{}`))
	var transportErr *TransportError
	if !errors.As(err, &transportErr) || !strings.HasPrefix(err.Error(), "Follow-up request failed: ") {
		t.Fatalf("expected schema mismatch transport error, got %v", err)
	}
}

func TestHistory(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/history/bet" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		_, _ = w.Write([]byte(`[
			{"timestamp":"2024-01-02T03:04:05","original_bet_surface_area":412.5,"modified_bet_surface_area":null,"ai_suggestion":"good"},
			{"timestamp":"2024-01-03T03:04:05","user_query":"compare"}
		]`))
	})

	records, err := client.History(context.Background(), analysis.BET)
	if err != nil {
		t.Fatalf("History returned error: %v", err)
	}
	if len(records) != 2 || records[1].UserQuery != "compare" {
		t.Fatalf("unexpected records: %+v", records)
	}
	if records[0].OriginalBETSurfaceArea == nil || *records[0].OriginalBETSurfaceArea != 412.5 {
		t.Fatalf("surface area not decoded")
	}

	notArray := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"error":"nope"}`))
	})
	if _, err := notArray.History(context.Background(), analysis.BET); err == nil {
		t.Fatalf("expected error for non-array history")
	}
}

func TestTimeoutApplied(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(3 * time.Second):
		}
	}))
	defer server.Close()

	client := New(&appconfig.Config{BaseURL: server.URL})
	client.timeout = 50 * time.Millisecond
	_, err := client.History(context.Background(), analysis.XRD)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
}
