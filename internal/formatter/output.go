// internal/formatter/output.go
// Package formatter prints analysis results, follow-up answers and history
// panels as coloured terminal text, JSON or YAML.
package formatter

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/fatih/color"
	"gopkg.in/yaml.v3"

	"github.com/mwiater/matscope/internal/analysis"
	"github.com/mwiater/matscope/internal/charts"
	"github.com/mwiater/matscope/internal/history"
	"github.com/mwiater/matscope/internal/markdown"
	"github.com/mwiater/matscope/internal/page"
)

// Output formats.
const (
	FormatHuman = "human"
	FormatJSON  = "json"
	FormatYAML  = "yaml"
)

// ValidFormat reports whether format is one of the supported outputs.
func ValidFormat(format string) bool {
	switch format {
	case FormatHuman, FormatJSON, FormatYAML:
		return true
	default:
		return false
	}
}

// PlotView is the machine-readable form of a surface.
type PlotView struct {
	ID      string         `json:"id" yaml:"id"`
	Title   string         `json:"title,omitempty" yaml:"title,omitempty"`
	Kind    string         `json:"kind,omitempty" yaml:"kind,omitempty"`
	Points  int            `json:"points,omitempty" yaml:"points,omitempty"`
	Message string         `json:"message,omitempty" yaml:"message,omitempty"`
	Fields  []charts.Field `json:"fields,omitempty" yaml:"fields,omitempty"`
}

// FollowUpView is an answered follow-up question.
type FollowUpView struct {
	Question string `json:"question" yaml:"question"`
	Answer   string `json:"answer" yaml:"answer"`
}

// AnalysisView is the machine-readable form of a page section.
type AnalysisView struct {
	Type       analysis.Type  `json:"type" yaml:"type"`
	Error      string         `json:"error,omitempty" yaml:"error,omitempty"`
	Plots      []PlotView     `json:"plots,omitempty" yaml:"plots,omitempty"`
	Metrics    []charts.Field `json:"metrics,omitempty" yaml:"metrics,omitempty"`
	Commentary string         `json:"commentary,omitempty" yaml:"commentary,omitempty"`
	FollowUps  []FollowUpView `json:"followUps,omitempty" yaml:"followUps,omitempty"`
}

// HistoryView is the machine-readable form of a history panel.
type HistoryView struct {
	Type    analysis.Type   `json:"type" yaml:"type"`
	Query   string          `json:"query,omitempty" yaml:"query,omitempty"`
	Error   string          `json:"error,omitempty" yaml:"error,omitempty"`
	Message string          `json:"message,omitempty" yaml:"message,omitempty"`
	Entries []history.Entry `json:"entries" yaml:"entries"`
}

// NewAnalysisView summarises s. Only visible surfaces are listed.
func NewAnalysisView(s page.Section) AnalysisView {
	v := AnalysisView{Type: s.Type, Error: s.Error, Metrics: s.Metrics, Commentary: s.Commentary}
	if s.ResultVisible {
		for _, id := range s.Plots.Visible() {
			c, _ := s.Plots.Get(id)
			p := PlotView{ID: id, Message: c.Message, Fields: c.Fields}
			if c.Chart != nil {
				p.Title = c.Chart.Title
				p.Kind = string(c.Chart.Kind)
				p.Points = c.Chart.Points()
			}
			v.Plots = append(v.Plots, p)
		}
	}
	for _, f := range s.FollowUps {
		v.FollowUps = append(v.FollowUps, FollowUpView{Question: f.Question, Answer: f.Answer})
	}
	return v
}

// NewHistoryView summarises a history panel.
func NewHistoryView(p history.Panel) HistoryView {
	entries := p.Display
	if entries == nil {
		entries = []history.Entry{}
	}
	return HistoryView{Type: p.Type, Query: p.Query, Error: p.Err, Message: p.Empty, Entries: entries}
}

// DisplayAnalysis prints a page section in the requested format.
func DisplayAnalysis(w io.Writer, s page.Section, format string) error {
	v := NewAnalysisView(s)
	switch format {
	case FormatJSON:
		return displayJSON(w, v)
	case FormatYAML:
		return displayYAML(w, v)
	default:
		displayAnalysisHuman(w, v)
		return nil
	}
}

// DisplayFollowUp prints one follow-up answer.
func DisplayFollowUp(w io.Writer, question, answer, format string) error {
	v := FollowUpView{Question: question, Answer: answer}
	switch format {
	case FormatJSON:
		return displayJSON(w, v)
	case FormatYAML:
		return displayYAML(w, v)
	default:
		displayFollowUpHuman(w, v)
		return nil
	}
}

// DisplayHistory prints a history panel in the requested format.
func DisplayHistory(w io.Writer, p history.Panel, format string) error {
	v := NewHistoryView(p)
	switch format {
	case FormatJSON:
		return displayJSON(w, v)
	case FormatYAML:
		return displayYAML(w, v)
	default:
		displayHistoryHuman(w, v)
		return nil
	}
}

func displayJSON(w io.Writer, v any) error {
	output, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(output))
	return err
}

func displayYAML(w io.Writer, v any) error {
	output, err := yaml.Marshal(v)
	if err != nil {
		return err
	}
	_, err = fmt.Fprint(w, string(output))
	return err
}

var titleStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("#3B82F6")).
	BorderStyle(lipgloss.NormalBorder()).
	BorderBottom(true).
	BorderForeground(lipgloss.Color("#64748B"))

func displayAnalysisHuman(w io.Writer, v AnalysisView) {
	red := color.New(color.FgRed, color.Bold)
	cyan := color.New(color.FgCyan, color.Bold)
	green := color.New(color.FgGreen, color.Bold)

	fmt.Fprintln(w, titleStyle.Render(strings.ToUpper(v.Type.Label())+" ANALYSIS"))

	if v.Error != "" {
		red.Fprintf(w, "Error: %s\n", v.Error)
		return
	}

	if len(v.Plots) > 0 {
		cyan.Fprintln(w, "Charts:")
		for _, p := range v.Plots {
			switch {
			case p.Title != "":
				fmt.Fprintf(w, "   %s (%s, %d points)\n", p.Title, p.Kind, p.Points)
			case p.Message != "":
				fmt.Fprintf(w, "   %s: %s\n", p.ID, color.HiBlackString(p.Message))
			}
			for _, f := range p.Fields {
				fmt.Fprintf(w, "   %s: %s\n", f.Label, color.YellowString(f.Value))
			}
		}
		fmt.Fprintln(w)
	}

	if len(v.Metrics) > 0 {
		cyan.Fprintln(w, "Metrics:")
		for _, m := range v.Metrics {
			fmt.Fprintf(w, "   %s: %s\n", m.Label, color.YellowString(m.Value))
		}
		fmt.Fprintln(w)
	}

	if v.Commentary != "" {
		green.Fprintln(w, "AI Commentary:")
		fmt.Fprintln(w, wrapText(markdown.PlainText(v.Commentary), 80, "   "))
		fmt.Fprintln(w)
	}

	for _, f := range v.FollowUps {
		displayFollowUpHuman(w, f)
	}

	fmt.Fprintln(w, strings.Repeat("─", 80))
	fmt.Fprintln(w, color.HiBlackString("Run with -o json or -o yaml for machine-readable output"))
}

func displayFollowUpHuman(w io.Writer, f FollowUpView) {
	cyan := color.New(color.FgCyan, color.Bold)
	cyan.Fprintln(w, "Follow-up Response:")
	fmt.Fprintf(w, "   Q: %s\n", f.Question)
	fmt.Fprintln(w, wrapText(markdown.PlainText(f.Answer), 80, "   "))
	fmt.Fprintln(w)
}

func displayHistoryHuman(w io.Writer, v HistoryView) {
	title := strings.ToUpper(v.Type.Label()) + " HISTORY"
	if v.Query != "" {
		title += fmt.Sprintf(" (filter: %q)", v.Query)
	}
	fmt.Fprintln(w, titleStyle.Render(title))

	if v.Error != "" {
		color.New(color.FgRed, color.Bold).Fprintln(w, v.Error)
		return
	}
	if v.Message != "" {
		fmt.Fprintln(w, color.HiBlackString(v.Message))
		return
	}

	label := color.New(color.FgWhite, color.Bold)
	for i, e := range v.Entries {
		label.Fprintf(w, "%d. %s\n", i+1, e.Date)
		if e.Query != "" {
			fmt.Fprintf(w, "   User Query: %s\n", e.Query)
		}
		for _, f := range e.Fields {
			fmt.Fprintf(w, "   %s: %s\n", f.Label, color.YellowString(f.Value))
		}
		fmt.Fprintf(w, "   AI Summary: %s\n\n", e.Summary)
	}
}

func wrapText(text string, width int, indent string) string {
	var result strings.Builder
	for _, line := range strings.Split(text, "\n") {
		words := strings.Fields(line)
		if len(words) == 0 {
			result.WriteString("\n")
			continue
		}

		currentLine := indent
		for _, word := range words {
			if len(currentLine)+len(word)+1 > width && currentLine != indent {
				result.WriteString(currentLine + "\n")
				currentLine = indent + word
			} else if currentLine == indent {
				currentLine += word
			} else {
				currentLine += " " + word
			}
		}
		result.WriteString(currentLine + "\n")
	}
	return strings.TrimSuffix(result.String(), "\n")
}
