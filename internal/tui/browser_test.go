// internal/tui/browser_test.go
package tui

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mwiater/matscope/internal/analysis"
	"github.com/mwiater/matscope/internal/history"
	"github.com/mwiater/matscope/internal/page"
)

type testService struct {
	records map[analysis.Type][]analysis.HistoryRecord
	fail    map[analysis.Type]error
	calls   int
}

func (s *testService) Analyze(context.Context, analysis.Type, analysis.Form) (*analysis.Result, error) {
	return nil, errors.New("not used")
}

func (s *testService) FollowUp(context.Context, analysis.Type, string, json.RawMessage) (string, error) {
	return "", errors.New("not used")
}

func (s *testService) History(_ context.Context, t analysis.Type) ([]analysis.HistoryRecord, error) {
	s.calls++
	if err := s.fail[t]; err != nil {
		return nil, err
	}
	return s.records[t], nil
}

func strPtr(s string) *string { return &s }

func newTestModel(svc *testService) *model {
	m := initialModel(context.Background(), page.New(svc, nil), analysis.XRD)
	_, _ = m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	return m
}

// load runs the fetch command synchronously and feeds its result back.
func load(t *testing.T, m *model) {
	t.Helper()
	msg := fetchHistoryCmd(m.ctx, m.controller, m.current())()
	if _, ok := msg.(historyLoadedMsg); !ok {
		t.Fatalf("unexpected message %T", msg)
	}
	_, _ = m.Update(msg)
}

func TestBrowserLoadsAndFilters(t *testing.T) {
	svc := &testService{records: map[analysis.Type][]analysis.HistoryRecord{
		analysis.XRD: {
			{Timestamp: "2024-05-01T09:00:00", AISuggestion: strPtr("Rutile peaks sharpened.")},
			{Timestamp: "2024-05-02T09:00:00", AISuggestion: strPtr("Anatase phase appeared.")},
		},
	}}
	m := newTestModel(svc)
	m.isLoading = true
	load(t, m)

	if m.isLoading {
		t.Fatalf("expected loading to stop")
	}
	out := m.View()
	if !strings.Contains(out, "Rutile peaks sharpened.") || !strings.Contains(out, "Anatase phase appeared.") {
		t.Fatalf("expected both entries in view; got: %s", out)
	}

	_, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("anat")})
	if m.input.Value() != "anat" {
		t.Fatalf("input value = %q", m.input.Value())
	}
	out = m.View()
	if strings.Contains(out, "Rutile") || !strings.Contains(out, "Anatase") {
		t.Fatalf("expected filtered view; got: %s", out)
	}
	if p := m.controller.History().Panel(analysis.XRD); len(p.Records) != 2 {
		t.Fatalf("filtering must keep the cache, got %d records", len(p.Records))
	}

	_, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("zzz")})
	if !strings.Contains(m.View(), history.NoMatchMessage) {
		t.Fatalf("expected no-match placeholder")
	}
}

func TestBrowserTabCyclesTypes(t *testing.T) {
	svc := &testService{
		records: map[analysis.Type][]analysis.HistoryRecord{analysis.XRD: {{Timestamp: "2024-05-01T09:00:00"}}},
		fail:    map[analysis.Type]error{analysis.IR: errors.New("service unavailable")},
	}
	m := newTestModel(svc)
	load(t, m)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyTab})
	if cmd == nil || !m.isLoading || m.current() != analysis.IR {
		t.Fatalf("expected IR fetch to start; loading=%v type=%s", m.isLoading, m.current())
	}
	if m.controller.History().Visible(analysis.XRD) {
		t.Fatalf("leaving a tab should hide its panel")
	}
	if !strings.Contains(m.View(), "Fetching IR history") {
		t.Fatalf("expected spinner text in view")
	}

	load(t, m)
	if !strings.Contains(m.View(), "Error fetching IR history: service unavailable") {
		t.Fatalf("expected fetch error in view; got: %s", m.View())
	}

	_, _ = m.Update(tea.KeyMsg{Type: tea.KeyShiftTab})
	if m.current() != analysis.XRD {
		t.Fatalf("shift+tab should go back to XRD, got %s", m.current())
	}
}

func TestBrowserIgnoresStaleLoads(t *testing.T) {
	svc := &testService{}
	m := newTestModel(svc)
	m.isLoading = true
	_, _ = m.Update(historyLoadedMsg{t: analysis.TGA})
	if !m.isLoading {
		t.Fatalf("a result for another type must not end loading")
	}
}

func TestBrowserQuitKeys(t *testing.T) {
	m := newTestModel(&testService{})
	for _, key := range []tea.KeyMsg{{Type: tea.KeyCtrlC}, {Type: tea.KeyEsc}} {
		_, cmd := m.Update(key)
		if cmd == nil {
			t.Fatalf("expected quit command for %s", key.String())
		}
		if _, ok := cmd().(tea.QuitMsg); !ok {
			t.Fatalf("expected QuitMsg for %s", key.String())
		}
	}
}
