package telemetry

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/pthm-cable/ecocycle/ecosystem"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
	valueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("255"))
	alertStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	recStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	okStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("82"))
	boxStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("238")).Padding(0, 1)
)

// Report is the end-of-run summary printed by headless runs.
type Report struct {
	Final           ecosystem.Snapshot
	Initial         ecosystem.Populations
	Trends          ecosystem.Trends
	HasTrends       bool
	Alerts          []ecosystem.Alert
	Recommendations []ecosystem.Recommendation
	Series          map[ecosystem.Species]SeriesStats
	Bookmarks       []Bookmark
}

// NewReport assembles a report from the engine's current state.
func NewReport(e *ecosystem.Engine, bookmarks []Bookmark) Report {
	view := e.History()
	series := make(map[ecosystem.Species]SeriesStats, len(ecosystem.AllSpecies))
	for _, sp := range ecosystem.AllSpecies {
		series[sp] = ComputeSeriesStats(view.Series(sp))
	}
	trends, ok := e.Trends()
	return Report{
		Final:           e.Current(),
		Initial:         e.Params().Initial(),
		Trends:          trends,
		HasTrends:       ok,
		Alerts:          e.Alerts(),
		Recommendations: e.Recommendations(),
		Series:          series,
		Bookmarks:       bookmarks,
	}
}

// RenderReport formats a report for the terminal.
func RenderReport(r Report) string {
	var rows []string
	rows = append(rows, titleStyle.Render(fmt.Sprintf("Day %d", r.Final.Day)))

	header := fmt.Sprintf("%-8s %9s %9s %6s %9s %9s %6s",
		"species", "now", "start", "trend", "mean", "max", "cv")
	rows = append(rows, labelStyle.Render(header))
	pop := r.Final.Populations()
	for _, sp := range ecosystem.AllSpecies {
		trend := "-"
		if r.HasTrends {
			trend = r.Trends.Get(sp).String()
		}
		s := r.Series[sp]
		rows = append(rows, valueStyle.Render(fmt.Sprintf("%-8s %9.1f %9.1f %6s %9.1f %9.1f %6.2f",
			sp, pop.Get(sp), r.Initial.Get(sp), trend, s.Mean, s.Max, s.CV)))
	}

	if len(r.Alerts) > 0 {
		rows = append(rows, "", titleStyle.Render("Alerts"))
		for _, a := range r.Alerts {
			rows = append(rows, alertStyle.Render("! "+a.Message))
		}
	}

	if len(r.Recommendations) > 0 {
		rows = append(rows, "", titleStyle.Render("Recommendations"))
		for _, rec := range r.Recommendations {
			style := recStyle
			if rec.Kind == ecosystem.RecommendStable {
				style = okStyle
			}
			rows = append(rows, style.Render("* "+rec.Message))
		}
	}

	if len(r.Bookmarks) > 0 {
		rows = append(rows, "", titleStyle.Render("Bookmarks"))
		for _, b := range r.Bookmarks {
			rows = append(rows, valueStyle.Render(fmt.Sprintf("day %-5d %s", b.Day, b.Description)))
		}
	}

	return boxStyle.Render(strings.Join(rows, "\n"))
}
