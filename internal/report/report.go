// internal/report/report.go
// Package report renders page sections and history panels into HTML, either
// as the interactive page served by the web UI or as a standalone report
// written by the CLI.
package report

import (
	"bytes"
	"fmt"
	"html/template"
	"io"

	"github.com/mwiater/matscope/internal/analysis"
	"github.com/mwiater/matscope/internal/charts"
	"github.com/mwiater/matscope/internal/history"
	"github.com/mwiater/matscope/internal/page"
)

// DefaultTitle is used when a page has no title.
const DefaultTitle = "matscope: Materials Analysis"

// Page is the data behind one HTML document.
type Page struct {
	Title       string
	ChartJS     string
	Interactive bool
	Sections    []Section
}

// Section is a rendered page section.
type Section struct {
	Type            analysis.Type
	Title           string
	Loading         bool
	Error           string
	Prompt          string
	ResultVisible   bool
	FollowUpVisible bool
	SummaryVisible  bool
	Plots           []Plot
	Metrics         []charts.Field
	Commentary      template.HTML
	FollowUps       []FollowUp
	FileFields      []string
	TextFields      []string
	History         History
}

// Plot is one surface with its chart already rendered.
type Plot struct {
	ID      string
	Chart   template.HTML
	Message string
	Fields  []charts.Field
}

// FollowUp is an answered question with its HTML answer.
type FollowUp struct {
	Question string
	Answer   template.HTML
}

// History is a rendered history panel.
type History struct {
	Visible bool
	Query   string
	Entries []history.Entry
	Empty   string
	Err     string
}

// NewSection renders the visible plots of s with Chart.js and pairs them
// with the history panel of the same type.
func NewSection(s page.Section, panel history.Panel) (Section, error) {
	out := Section{
		Type:            s.Type,
		Title:           sectionTitle(s.Type),
		Loading:         s.Loading,
		Error:           s.Error,
		Prompt:          s.Prompt,
		ResultVisible:   s.ResultVisible,
		FollowUpVisible: s.FollowUpVisible,
		SummaryVisible:  s.SummaryVisible,
		Metrics:         s.Metrics,
		// Commentary is service output converted by the markdown formatter,
		// which passes HTML through unescaped.
		Commentary: template.HTML(s.CommentaryHTML),
		FileFields: analysis.FileFields(s.Type),
		TextFields: analysis.TextFields(s.Type),
		History: History{
			Visible: panel.Visible,
			Query:   panel.Query,
			Entries: panel.Display,
			Empty:   panel.Empty,
			Err:     panel.Err,
		},
	}

	var renderer charts.HTMLRenderer
	for _, id := range s.Plots.Visible() {
		content, _ := s.Plots.Get(id)
		plot := Plot{ID: string(s.Type) + "-" + id, Message: content.Message, Fields: content.Fields}
		if content.Chart != nil {
			fragment, err := renderer.Render(plot.ID, content.Chart)
			if err != nil {
				return Section{}, fmt.Errorf("render %s %s: %w", s.Type, id, err)
			}
			plot.Chart = fragment
		}
		out.Plots = append(out.Plots, plot)
	}

	for _, f := range s.FollowUps {
		out.FollowUps = append(out.FollowUps, FollowUp{Question: f.Question, Answer: template.HTML(f.HTML)})
	}
	return out, nil
}

func sectionTitle(t analysis.Type) string {
	if t == analysis.Combined {
		return "Combined Analysis"
	}
	return t.Label() + " Analysis"
}

// Render writes p as a complete HTML document.
func Render(w io.Writer, p Page) error {
	if p.Title == "" {
		p.Title = DefaultTitle
	}
	if p.ChartJS == "" {
		p.ChartJS = charts.ChartJSScriptURL
	}
	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, p); err != nil {
		return fmt.Errorf("render page: %w", err)
	}
	_, err := buf.WriteTo(w)
	return err
}

// Standalone writes a read-only report of the given controller sections.
func Standalone(w io.Writer, title string, c *page.Controller, types ...analysis.Type) error {
	p := Page{Title: title}
	for _, t := range types {
		s, err := NewSection(c.Section(t), c.History().Panel(t))
		if err != nil {
			return err
		}
		p.Sections = append(p.Sections, s)
	}
	return Render(w, p)
}
