// internal/tui/browser.go
// Package tui provides the terminal history browser.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mwiater/matscope/internal/analysis"
	"github.com/mwiater/matscope/internal/history"
	"github.com/mwiater/matscope/internal/page"
)

var (
	headerStyle      = lipgloss.NewStyle().Background(lipgloss.Color("62")).Foreground(lipgloss.Color("230")).Padding(0, 1)
	activeTabStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("230")).Background(lipgloss.Color("205")).Padding(0, 1)
	inactiveTabStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Padding(0, 1)
	dateStyle        = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	labelStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	errorStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	helpStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// historyLoadedMsg reports that a history fetch finished. Failures are
// already recorded on the panel.
type historyLoadedMsg struct {
	t   analysis.Type
	err error
}

// model is the Bubble Tea model of the history browser.
type model struct {
	ctx              context.Context
	controller       *page.Controller
	types            []analysis.Type
	active           int
	input            textinput.Model
	viewport         viewport.Model
	spinner          spinner.Model
	isLoading        bool
	width, height    int
	requestStartTime time.Time
}

func initialModel(ctx context.Context, controller *page.Controller, start analysis.Type) *model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	ti := textinput.New()
	ti.Placeholder = "Search history..."
	ti.Prompt = "Filter: "
	ti.CharLimit = 256
	ti.Focus()

	types := analysis.AllTypes()
	active := 0
	for i, t := range types {
		if t == start {
			active = i
		}
	}

	return &model{
		ctx:        ctx,
		controller: controller,
		types:      types,
		active:     active,
		input:      ti,
		viewport:   viewport.New(100, 10),
		spinner:    s,
	}
}

func (m *model) current() analysis.Type { return m.types[m.active] }

// fetchHistoryCmd reveals the panel for t, fetching it from the service.
func fetchHistoryCmd(ctx context.Context, controller *page.Controller, t analysis.Type) tea.Cmd {
	return func() tea.Msg {
		err := controller.ToggleHistory(ctx, t)
		return historyLoadedMsg{t: t, err: err}
	}
}

func (m *model) startFetch() tea.Cmd {
	m.isLoading = true
	m.requestStartTime = time.Now()
	return tea.Batch(m.spinner.Tick, fetchHistoryCmd(m.ctx, m.controller, m.current()))
}

// Init starts loading the initial type.
func (m *model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.startFetch())
}

// Update handles key presses, fetch results and resizes.
func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var (
		cmd  tea.Cmd
		cmds []tea.Cmd
	)

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit
		case "tab", "shift+tab":
			if m.isLoading {
				return m, nil
			}
			m.controller.History().Hide(m.current())
			step := 1
			if msg.String() == "shift+tab" {
				step = len(m.types) - 1
			}
			m.active = (m.active + step) % len(m.types)
			return m, m.startFetch()
		}

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.input.Width = msg.Width - len(m.input.Prompt) - 2
		headerHeight := 4
		footerHeight := 2
		m.viewport.Width = msg.Width
		m.viewport.Height = max(msg.Height-headerHeight-footerHeight, 1)
		m.refresh()
		return m, nil

	case historyLoadedMsg:
		if msg.t != m.current() {
			return m, nil
		}
		m.isLoading = false
		if q := m.input.Value(); q != "" && msg.err == nil {
			m.controller.FilterHistory(msg.t, q)
		}
		m.refresh()
		m.viewport.GotoTop()
		return m, nil

	case spinner.TickMsg:
		if m.isLoading {
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil
	}

	before := m.input.Value()
	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)
	if after := m.input.Value(); after != before && !m.isLoading {
		m.controller.FilterHistory(m.current(), after)
		m.refresh()
		m.viewport.GotoTop()
	}

	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

func (m *model) refresh() {
	m.viewport.SetContent(renderPanel(m.controller.History().Panel(m.current()), m.viewport.Width))
}

// View renders tabs, the filter input and the entry list.
func (m *model) View() string {
	if m.width == 0 {
		return "Initializing..."
	}

	var b strings.Builder
	b.WriteString(headerStyle.Render("matscope history"))
	b.WriteString("\n")
	b.WriteString(m.tabs())
	b.WriteString("\n")
	b.WriteString(m.input.View())
	b.WriteString("\n\n")

	if m.isLoading {
		timer := fmt.Sprintf("%.1f", time.Since(m.requestStartTime).Seconds())
		b.WriteString(fmt.Sprintf("  %s Fetching %s history... %ss\n", m.spinner.View(), m.current().HistoryLabel(), timer))
	} else {
		b.WriteString(m.viewport.View())
		b.WriteString("\n")
	}

	b.WriteString(helpStyle.Render("tab/shift+tab: switch type • ↑/↓: scroll • esc: quit"))
	return b.String()
}

func (m *model) tabs() string {
	tabs := make([]string, len(m.types))
	for i, t := range m.types {
		if i == m.active {
			tabs[i] = activeTabStyle.Render(t.Label())
		} else {
			tabs[i] = inactiveTabStyle.Render(t.Label())
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

// renderPanel lays out a history panel as plain styled text.
func renderPanel(p history.Panel, width int) string {
	if p.Err != "" {
		return errorStyle.Render(p.Err)
	}
	if p.Empty != "" {
		return labelStyle.Render(p.Empty)
	}

	wrap := lipgloss.NewStyle()
	if width > 4 {
		wrap = wrap.Width(width - 2)
	}

	var b strings.Builder
	for _, e := range p.Display {
		b.WriteString(dateStyle.Render(e.Date))
		b.WriteString("\n")
		if e.Query != "" {
			b.WriteString(wrap.Render(labelStyle.Render("User Query: ") + e.Query))
			b.WriteString("\n")
		}
		for _, f := range e.Fields {
			b.WriteString(wrap.Render(labelStyle.Render(f.Label+": ") + f.Value))
			b.WriteString("\n")
		}
		b.WriteString(wrap.Render(labelStyle.Render("AI Summary: ") + e.Summary))
		b.WriteString("\n\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// Run starts the browser on the history of start.
func Run(ctx context.Context, controller *page.Controller, start analysis.Type) error {
	p := tea.NewProgram(initialModel(ctx, controller, start), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}
