package tui

import (
	"fmt"

	"coachdash/internal/service"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
)

// TrendModel is the multi-ride trend screen model
type TrendModel struct {
	queryService *service.QueryService
	units        Units
	report       *service.TrendReport
	loading      bool
	err          error
}

// NewTrendModel creates a new trend model
func NewTrendModel(qs *service.QueryService, units Units) TrendModel {
	return TrendModel{
		queryService: qs,
		units:        units,
		loading:      true,
	}
}

// Init initializes the trend screen
func (m TrendModel) Init() tea.Cmd {
	return m.loadReport
}

type trendLoadedMsg struct {
	report *service.TrendReport
	err    error
}

func (m TrendModel) loadReport() tea.Msg {
	report, err := m.queryService.GetTrendReport()
	return trendLoadedMsg{report: report, err: err}
}

// Update handles messages
func (m TrendModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case trendLoadedMsg:
		m.loading = false
		m.err = msg.err
		m.report = msg.report
	case tea.KeyMsg:
		switch msg.String() {
		case "r":
			m.loading = true
			return m, m.loadReport
		}
	}
	return m, nil
}

// View renders the trend screen
func (m TrendModel) View() string {
	if m.loading {
		return "\n  Loading trend..."
	}

	if m.err != nil {
		return errorStyle.Render(fmt.Sprintf("\n  Error: %v", m.err))
	}

	if m.report == nil || len(m.report.Dataset.Rows) == 0 {
		return "\n  No rides cached yet. Press 's' to sync from Drive."
	}

	var sections []string

	// Top row: totals and fitness side by side
	topRow := lipgloss.JoinHorizontal(lipgloss.Top, m.renderTotalsCard(), "  ", m.renderFitnessCard())
	sections = append(sections, topRow)

	// Power trend chart
	if chart := m.renderPowerChart(); chart != "" {
		sections = append(sections, chart)
	}

	// Per-ride table
	sections = append(sections, m.renderRideTable())

	// Threshold response table
	if len(m.report.Threshold) > 0 {
		sections = append(sections, m.renderThresholdTable())
	}

	help := statusStyle.Render("Press 'r' to refresh, '1' for the ride list")
	sections = append(sections, help)

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m TrendModel) renderTotalsCard() string {
	title := cardTitleStyle.Render("Totals")

	t := m.report.Dataset.Totals
	lines := []string{
		RenderMetric("Rides", fmt.Sprintf("%d", t.Activities), ""),
		RenderMetric("Distance", m.units.FormatDistance(t.DistanceKM), ""),
		RenderMetric("Climbing", fmt.Sprintf("%.0f m", t.ElevationGainM), ""),
		RenderMetric("Time", fmt.Sprintf("%.1f h", t.DurationHours), ""),
		RenderMetric("Est. Calories", fmt.Sprintf("%.0f kcal", t.Calories), ""),
	}

	content := lipgloss.JoinVertical(lipgloss.Left, lines...)
	return cardStyle.Width(38).Render(lipgloss.JoinVertical(lipgloss.Left, title, content))
}

func (m TrendModel) renderFitnessCard() string {
	title := cardTitleStyle.Render("Fitness")

	r := m.report
	lines := []string{
		RenderMetric("FTP", fmt.Sprintf("%d W (%s)", r.FTPWatts, r.FTPSource), ""),
	}

	if r.FTPWkg > 0 {
		lines = append(lines, RenderMetric("FTP per kg", fmt.Sprintf("%.2f W/kg", r.FTPWkg), ""))
	}

	if delta := r.Dataset.PowerDeltaW; delta != nil {
		lines = append(lines, RenderMetric("Avg Power Change", fmt.Sprintf("%.0f W", *delta), trendArrow(*delta)))
	}
	if delta := r.Dataset.WattsPerKgDelta; delta != nil {
		lines = append(lines, RenderMetric("W/kg Change", fmt.Sprintf("%.2f", *delta), trendArrow(*delta)))
	}

	content := lipgloss.JoinVertical(lipgloss.Left, lines...)
	return cardStyle.Width(42).Render(lipgloss.JoinVertical(lipgloss.Left, title, content))
}

func trendArrow(delta float64) string {
	switch {
	case delta > 0:
		return "↑"
	case delta < 0:
		return "↓"
	default:
		return ""
	}
}

func (m TrendModel) renderPowerChart() string {
	var data []float64
	for _, row := range m.report.Dataset.Rows {
		if row.AvgPowerW > 0 {
			data = append(data, row.AvgPowerW)
		}
	}
	if len(data) < 3 {
		return ""
	}

	title := cardTitleStyle.Render("Average Power per Ride (W)")
	graph := asciigraph.Plot(data,
		asciigraph.Height(8),
		asciigraph.Width(60),
	)

	return cardStyle.Render(lipgloss.JoinVertical(lipgloss.Left, title, graph))
}

func (m TrendModel) renderRideTable() string {
	title := cardTitleStyle.Render("Rides")

	header := tableHeaderStyle.Render(fmt.Sprintf("%-10s  %-20s  %9s  %7s  %7s  %6s",
		"Date", "Name", "Distance", "Time", "Avg Pwr", "Avg HR"))

	rows := []string{header}
	for _, r := range m.report.Dataset.Rows {
		power := "-"
		if r.AvgPowerW > 0 {
			power = fmt.Sprintf("%.0fW", r.AvgPowerW)
		}

		hr := "-"
		if r.AvgHeartRateBPM > 0 {
			hr = fmt.Sprintf("%.0f", r.AvgHeartRateBPM)
		}

		row := tableRowStyle.Render(fmt.Sprintf("%-10s  %-20s  %9s  %7s  %7s  %6s",
			r.Date.Format("Jan 02"),
			truncateName(r.Name, 20),
			m.units.FormatDistance(r.DistanceKM),
			formatDuration(r.DurationMin),
			power,
			hr,
		))
		rows = append(rows, row)
	}

	table := lipgloss.JoinVertical(lipgloss.Left, rows...)
	return cardStyle.Render(lipgloss.JoinVertical(lipgloss.Left, title, table))
}

func (m TrendModel) renderThresholdTable() string {
	title := cardTitleStyle.Render(fmt.Sprintf("Response at Threshold (%d W ±5%%)", m.report.FTPWatts))

	header := tableHeaderStyle.Render(fmt.Sprintf("%-10s  %-20s  %7s  %8s  %8s",
		"Date", "Name", "Avg HR", "Cadence", "Samples"))

	rows := []string{header}
	for _, r := range m.report.Threshold {
		row := tableRowStyle.Render(fmt.Sprintf("%-10s  %-20s  %7.0f  %8.0f  %8d",
			r.Date.Format("Jan 02"),
			truncateName(r.Name, 20),
			r.AvgHeartRateBPM,
			r.AvgCadenceRPM,
			r.SampleCount,
		))
		rows = append(rows, row)
	}

	table := lipgloss.JoinVertical(lipgloss.Left, rows...)
	return cardStyle.Render(lipgloss.JoinVertical(lipgloss.Left, title, table))
}
