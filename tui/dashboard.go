// Package tui is a terminal dashboard for the ecosystem, for use over SSH
// or wherever no window can be opened.
package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/pthm-cable/ecocycle/ecosystem"
	"github.com/pthm-cable/ecocycle/game"
)

var (
	title  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
	dim    = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
	white  = lipgloss.NewStyle().Foreground(lipgloss.Color("255"))
	red    = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	yellow = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	green  = lipgloss.NewStyle().Foreground(lipgloss.Color("82"))

	speciesStyle = [3]lipgloss.Style{
		lipgloss.NewStyle().Foreground(lipgloss.Color("208")),
		lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		lipgloss.NewStyle().Foreground(lipgloss.Color("112")),
	}
)

// sparkWidth is the number of recent days drawn per species.
const sparkWidth = 40

type tickMsg time.Time

type model struct {
	g        *game.Game
	last     time.Time
	maxDays  int
	quitting bool
}

// New returns the dashboard model for g. A positive maxDays quits once
// that day is reached.
func New(g *game.Game, maxDays int) tea.Model {
	return model{g: g, maxDays: maxDays}
}

// Run starts the dashboard on the alternate screen and blocks until quit.
func Run(g *game.Game, maxDays int) error {
	p := tea.NewProgram(New(g, maxDays), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

func (m model) tick() tea.Cmd {
	return tea.Tick(m.g.Config().Derived.TickInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m model) Init() tea.Cmd {
	return m.tick()
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tickMsg:
		now := time.Time(msg)
		if !m.last.IsZero() {
			m.g.Advance(now.Sub(m.last))
		}
		m.last = now
		if m.maxDays > 0 && m.g.Tick() >= m.maxDays {
			m.quitting = true
			return m, tea.Quit
		}
		return m, m.tick()
	}
	return m, nil
}

func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "esc":
		m.quitting = true
		return m, tea.Quit
	case " ", "s":
		m.g.Toggle()
	case "r":
		m.g.Reset()
	case "n":
		m.g.StepOnce()
	}
	return m, nil
}

func (m model) View() string {
	if m.quitting {
		return ""
	}
	e := m.g.Engine()
	var b strings.Builder

	b.WriteString(title.Render("ecocycle"))
	b.WriteString(dim.Render(fmt.Sprintf("  day %d  %s", m.g.Tick(), m.g.State())))
	b.WriteString("\n\n")

	cur := e.Current().Populations()
	shares := e.Distribution()
	trends, hasTrends := e.Trends()
	view := e.History().Last(sparkWidth)
	top := 1.0
	for _, sp := range ecosystem.AllSpecies {
		for _, v := range view.Series(sp) {
			top = max(top, v)
		}
	}

	for _, sp := range ecosystem.AllSpecies {
		arrow := " "
		if hasTrends {
			arrow = red.Render("v")
			if trends.Get(sp) == ecosystem.TrendUp {
				arrow = green.Render("^")
			}
		}
		fmt.Fprintf(&b, "%s %s %s %s %s\n",
			speciesStyle[sp].Width(8).Render(sp.String()),
			white.Width(9).Align(lipgloss.Right).Render(fmt.Sprintf("%.1f", cur.Get(sp))),
			arrow,
			speciesStyle[sp].Render(Sparkline(view.Series(sp), top)),
			dim.Render(fmt.Sprintf("%5.1f%%", shares.Get(sp)*100)),
		)
	}
	b.WriteString("\n")

	for _, a := range e.Alerts() {
		b.WriteString(red.Render("! "+a.Message) + "\n")
	}
	for _, r := range e.Recommendations() {
		style := yellow
		if r.Kind == ecosystem.RecommendStable {
			style = green
		}
		b.WriteString(style.Render("> "+r.Message) + "\n")
	}

	if bms := m.g.Bookmarks(); len(bms) > 0 {
		bm := bms[len(bms)-1]
		b.WriteString(dim.Render(fmt.Sprintf("\nlast bookmark: day %d %s", bm.Day, bm.Description)) + "\n")
	}

	b.WriteString(dim.Render("\nspace start/pause  n step  r reset  q quit"))
	return b.String()
}
