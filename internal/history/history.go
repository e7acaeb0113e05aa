// internal/history/history.go
// Package history caches per-type analysis history, renders it into display
// entries and filters it by free text without touching the cache.
package history

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/mwiater/matscope/internal/analysis"
	"github.com/mwiater/matscope/internal/markdown"
)

// Placeholder and label texts shown by history panels.
const (
	EmptyMessage    = "No analysis history found."
	NoMatchMessage  = "No matching analysis history found."
	NotAvailable    = "N/A"
	SummaryRunes    = 150
	surfaceAreaUnit = "m²/g"
)

// Fetcher retrieves the full history list for one analysis type.
type Fetcher interface {
	History(ctx context.Context, t analysis.Type) ([]analysis.HistoryRecord, error)
}

// Field is one labelled line of an entry.
type Field struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Entry is the display form of a history record.
type Entry struct {
	Date    string  `json:"date"`
	Query   string  `json:"query,omitempty"`
	Fields  []Field `json:"fields"`
	Summary string  `json:"summary"`
}

// Panel is the view model of one type's history area.
type Panel struct {
	Type    analysis.Type
	Visible bool
	// Records is the cached list as returned by the service.
	Records []analysis.HistoryRecord
	Display []Entry
	Query   string
	Empty   string
	Err     string
}

// Manager owns one panel per analysis type.
type Manager struct {
	mu      sync.Mutex
	fetcher Fetcher
	panels  map[analysis.Type]*Panel
}

// NewManager returns a manager with every panel hidden and empty.
func NewManager(fetcher Fetcher) *Manager {
	m := &Manager{fetcher: fetcher, panels: make(map[analysis.Type]*Panel)}
	for _, t := range analysis.AllTypes() {
		m.panels[t] = &Panel{Type: t}
	}
	return m
}

func (m *Manager) panel(t analysis.Type) *Panel {
	p, ok := m.panels[t]
	if !ok {
		p = &Panel{Type: t}
		m.panels[t] = p
	}
	return p
}

// Panel returns a snapshot of the panel for t.
func (m *Manager) Panel(t analysis.Type) Panel {
	m.mu.Lock()
	defer m.mu.Unlock()
	p := *m.panel(t)
	p.Display = append([]Entry(nil), p.Display...)
	return p
}

// Visible reports whether the panel for t is shown.
func (m *Manager) Visible(t analysis.Type) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.panel(t).Visible
}

// Toggle hides a visible panel without any request, or fetches, renders and
// reveals a hidden one. A failed fetch still reveals the panel with the error.
func (m *Manager) Toggle(ctx context.Context, t analysis.Type) error {
	if m.Visible(t) {
		m.Hide(t)
		return nil
	}
	records, err := m.fetcher.History(ctx, t)
	if err != nil {
		m.Fail(t, err)
		return err
	}
	m.Load(t, records)
	return nil
}

// Hide hides the panel for t.
func (m *Manager) Hide(t analysis.Type) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.panel(t).Visible = false
}

// Load replaces the cache for t wholesale, renders it and reveals the panel.
func (m *Manager) Load(t analysis.Type, records []analysis.HistoryRecord) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p := m.panel(t)
	p.Records = records
	p.Err = ""
	p.Query = ""
	m.render(p)
	p.Visible = true
}

// Fail shows a fetch error in place of the entries and reveals the panel.
// The previous cache is kept.
func (m *Manager) Fail(t analysis.Type, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p := m.panel(t)
	p.Err = fmt.Sprintf("Error fetching %s history: %v", t.HistoryLabel(), err)
	p.Display = nil
	p.Empty = ""
	p.Visible = true
}

// Render shows every cached record of t.
func (m *Manager) Render(t analysis.Type) []Entry {
	m.mu.Lock()
	defer m.mu.Unlock()
	p := m.panel(t)
	p.Query = ""
	m.render(p)
	return append([]Entry(nil), p.Display...)
}

func (m *Manager) render(p *Panel) {
	p.Err = ""
	p.Display = Entries(p.Type, p.Records)
	p.Empty = ""
	if len(p.Display) == 0 {
		p.Empty = EmptyMessage
	}
}

// Filter shows the cached records of t whose commentary, query or formatted
// date contains query, ignoring case. The cache itself is never modified.
func (m *Manager) Filter(t analysis.Type, query string) []Entry {
	m.mu.Lock()
	defer m.mu.Unlock()
	p := m.panel(t)
	p.Err = ""
	p.Query = query
	matches := Match(p.Records, query)
	p.Display = Entries(t, matches)
	p.Empty = ""
	if len(p.Display) == 0 {
		p.Empty = NoMatchMessage
	}
	return append([]Entry(nil), p.Display...)
}

// Match returns the records matching query in their original order.
func Match(records []analysis.HistoryRecord, query string) []analysis.HistoryRecord {
	q := strings.ToLower(query)
	var out []analysis.HistoryRecord
	for _, rec := range records {
		if strings.Contains(strings.ToLower(rec.Commentary()), q) ||
			strings.Contains(strings.ToLower(rec.UserQuery), q) ||
			strings.Contains(strings.ToLower(rec.FormattedTime()), q) {
			out = append(out, rec)
		}
	}
	return out
}

// Entries renders records for display.
func Entries(t analysis.Type, records []analysis.HistoryRecord) []Entry {
	entries := make([]Entry, 0, len(records))
	for _, rec := range records {
		entries = append(entries, NewEntry(t, rec))
	}
	return entries
}

// NewEntry renders one record with the fields relevant to t.
func NewEntry(t analysis.Type, rec analysis.HistoryRecord) Entry {
	e := Entry{Date: rec.FormattedTime(), Query: rec.UserQuery}
	if t == analysis.XRD || t == analysis.Combined {
		e.Fields = append(e.Fields,
			Field{Label: "Original XRD Peaks", Value: peaks(rec.OriginalXRDPeaks)},
			Field{Label: "Modified XRD Peaks", Value: peaks(rec.ModifiedXRDPeaks)},
		)
	}
	if t == analysis.IR || t == analysis.Combined {
		e.Fields = append(e.Fields,
			Field{Label: "Original IR Peaks", Value: peaks(rec.OriginalIRPeaks)},
			Field{Label: "Modified IR Peaks", Value: peaks(rec.ModifiedIRPeaks)},
		)
	}
	if t == analysis.BET || t == analysis.Combined {
		e.Fields = append(e.Fields,
			Field{Label: "Original BET Surface Area", Value: surfaceArea(rec.OriginalBETSurfaceArea)},
			Field{Label: "Modified BET Surface Area", Value: surfaceArea(rec.ModifiedBETSurfaceArea)},
		)
	}
	if t == analysis.TGA || t == analysis.Combined {
		if tga, ok := rec.TGA(); ok {
			e.Fields = append(e.Fields,
				Field{Label: "Adsorption Capacity", Value: scalar(tga.AdsorptionCapacity)},
				Field{Label: "Desorption Energy", Value: scalar(tga.DesorptionEnergy)},
			)
		} else {
			e.Fields = append(e.Fields, Field{Label: "TGA Results", Value: NotAvailable})
		}
	}
	e.Summary = NotAvailable
	if c := rec.Commentary(); c != "" {
		e.Summary = markdown.Excerpt(c, SummaryRunes)
	}
	return e
}

func peaks(raw []byte) string {
	if s, ok := analysis.CompactPeaks(raw); ok {
		return s
	}
	return NotAvailable
}

func surfaceArea(v *float64) string {
	if v == nil || *v == 0 {
		return NotAvailable
	}
	return fmt.Sprintf("%.2f %s", *v, surfaceAreaUnit)
}

func scalar(v any) string {
	if !analysis.Truthy(v) {
		return NotAvailable
	}
	return analysis.FormatScalar(v)
}
