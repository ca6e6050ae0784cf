package tui

import (
	"fmt"
	"strings"

	"coachdash/internal/service"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
)

// ActivityDetailModel is the ride detail screen model
type ActivityDetailModel struct {
	queryService *service.QueryService
	units        Units
	activityID   string
	detail       *service.ActivityDetail
	viewport     viewport.Model
	loading      bool
	err          error
	width        int
	height       int
	ready        bool
}

// NewActivityDetailModel creates a new ride detail model
func NewActivityDetailModel(qs *service.QueryService, units Units, activityID string, width, height int) ActivityDetailModel {
	m := ActivityDetailModel{
		queryService: qs,
		units:        units,
		activityID:   activityID,
		loading:      true,
		width:        width,
		height:       height,
	}

	if width > 0 && height > 0 {
		m.viewport = viewport.New(width, height-6) // Reserve space for header/footer
		m.ready = true
	}

	return m
}

// Init initializes the ride detail screen
func (m ActivityDetailModel) Init() tea.Cmd {
	return m.loadDetail
}

type activityDetailLoadedMsg struct {
	detail *service.ActivityDetail
	err    error
}

func (m ActivityDetailModel) loadDetail() tea.Msg {
	detail, err := m.queryService.GetActivityDetail(m.activityID)
	return activityDetailLoadedMsg{detail: detail, err: err}
}

// Update handles messages
func (m ActivityDetailModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case activityDetailLoadedMsg:
		m.loading = false
		m.err = msg.err
		m.detail = msg.detail
		if m.ready {
			m.viewport.SetContent(m.renderContent())
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if !m.ready {
			m.viewport = viewport.New(msg.Width, msg.Height-6)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = msg.Height - 6
		}
		if m.detail != nil {
			m.viewport.SetContent(m.renderContent())
		}

	case tea.KeyMsg:
		switch msg.String() {
		case "r":
			m.loading = true
			return m, m.loadDetail
		}
	}

	// Handle viewport scrolling
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// View renders the ride detail screen
func (m ActivityDetailModel) View() string {
	if m.loading {
		return "\n  Loading ride details..."
	}

	if m.err != nil {
		return errorStyle.Render(fmt.Sprintf("\n  Error: %v", m.err))
	}

	if !m.ready {
		return "\n  Initializing..."
	}

	footer := statusStyle.Render("  esc: back to list  j/k or arrows: scroll  r: refresh")

	return lipgloss.JoinVertical(lipgloss.Left, m.viewport.View(), footer)
}

func (m ActivityDetailModel) renderContent() string {
	if m.detail == nil {
		return "No data"
	}

	var sections []string

	sections = append(sections, m.renderHeader())
	sections = append(sections, m.renderSummary())

	if m.detail.Zones != nil {
		sections = append(sections, m.renderZones())
	}

	if m.detail.Altitude != nil {
		sections = append(sections, m.renderClimbing())
	}

	if m.detail.Threshold != nil {
		sections = append(sections, m.renderThreshold())
	}

	if len(m.detail.PowerChart) > 5 {
		sections = append(sections, m.renderChart("Power Over Time (W)", m.detail.PowerChart))
	}
	if len(m.detail.SpeedChart) > 5 {
		title := fmt.Sprintf("Speed Over Time (%s)", m.units.SpeedLabel())
		sections = append(sections, m.renderChart(title, m.units.ConvertSpeedData(m.detail.SpeedChart)))
	}
	if len(m.detail.AltitudeChart) > 5 {
		sections = append(sections, m.renderChart("Altitude Profile (m)", m.detail.AltitudeChart))
	}
	if len(m.detail.HeartRateChart) > 5 {
		sections = append(sections, m.renderChart("Heart Rate Over Time (bpm)", m.detail.HeartRateChart))
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m ActivityDetailModel) renderHeader() string {
	a := m.detail.Activity
	title := cardTitleStyle.Render(a.Name)

	date := a.StartDate.Format("Monday, January 2, 2006 at 3:04 PM")
	subtitle := lipgloss.NewStyle().Foreground(mutedColor).Render(date)

	stats := fmt.Sprintf("%s  •  %s  •  %s avg",
		m.units.FormatDistance(a.DistanceKM),
		formatDuration(a.DurationMin),
		m.units.FormatSpeed(a.AvgSpeedKMH),
	)
	statsLine := lipgloss.NewStyle().Foreground(textColor).Bold(true).Render(stats)

	return lipgloss.JoinVertical(lipgloss.Left, "", title, subtitle, statsLine, "")
}

func (m ActivityDetailModel) renderSummary() string {
	var lines []string

	lines = append(lines, lipgloss.NewStyle().Bold(true).Foreground(secondaryColor).Render("Summary"))

	d := m.detail

	if d.Power != nil {
		lines = append(lines, fmt.Sprintf("  Average Power:        %.0f W", d.Power.Avg))
		lines = append(lines, fmt.Sprintf("  Max Power:            %.0f W", d.Power.Max))
		lines = append(lines, fmt.Sprintf("  FTP (%s):      %d W", paddedFTPSource(d.FTPSource), d.FTPWatts))
		if d.FTPWkg > 0 {
			lines = append(lines, fmt.Sprintf("  FTP per kg:           %.2f W/kg", d.FTPWkg))
		}
		if d.SessionWkg > 0 {
			lines = append(lines, fmt.Sprintf("  Ride avg per kg:      %.2f W/kg", d.SessionWkg))
		}
	}

	if d.HeartRate != nil {
		lines = append(lines, fmt.Sprintf("  Average HR:           %.0f bpm", d.HeartRate.Avg))
		lines = append(lines, fmt.Sprintf("  Max HR:               %.0f bpm", d.HeartRate.Max))
	}

	if d.Cadence != nil {
		lines = append(lines, fmt.Sprintf("  Average Cadence:      %.0f rpm", d.Cadence.Avg))
	}

	if d.Calories > 0 {
		lines = append(lines, fmt.Sprintf("  Est. Calories:        %.0f kcal", d.Calories))
	}

	lines = append(lines, "")
	return strings.Join(lines, "\n")
}

// paddedFTPSource keeps the summary column aligned for both sources.
func paddedFTPSource(source string) string {
	if source == service.FTPSourceConfig {
		return "config   "
	}
	return "estimated"
}

func (m ActivityDetailModel) renderZones() string {
	var lines []string

	title := fmt.Sprintf("Power Zone Distribution (FTP %d W)", m.detail.FTPWatts)
	lines = append(lines, lipgloss.NewStyle().Bold(true).Foreground(secondaryColor).Render(title))

	zoneColors := []lipgloss.Color{
		lipgloss.Color("#10B981"), // Z1 - Green (recovery)
		lipgloss.Color("#3B82F6"), // Z2 - Blue (endurance)
		lipgloss.Color("#F59E0B"), // Z3 - Amber (tempo)
		lipgloss.Color("#EF4444"), // Z4 - Red (threshold)
		lipgloss.Color("#9333EA"), // Z5 - Purple (VO2max)
	}

	maxBarWidth := 30
	for i, z := range m.detail.Zones {
		barWidth := int(z.Percent / 100 * float64(maxBarWidth))
		if barWidth < 1 && z.Seconds > 0 {
			barWidth = 1
		}

		bar := strings.Repeat("█", barWidth)
		color := zoneColors[i%len(zoneColors)]

		label := fmt.Sprintf("  %-14s", z.Label)
		pct := fmt.Sprintf("%5.1f%%", z.Percent)

		line := label + lipgloss.NewStyle().Foreground(color).Render(bar) + " " + pct + fmt.Sprintf(" (%.1f min)", z.Minutes)
		lines = append(lines, line)
	}

	lines = append(lines, "")
	return strings.Join(lines, "\n")
}

func (m ActivityDetailModel) renderClimbing() string {
	var lines []string

	lines = append(lines, lipgloss.NewStyle().Bold(true).Foreground(secondaryColor).Render("Climbing"))

	alt := m.detail.Altitude
	lines = append(lines, fmt.Sprintf("  Elevation Gain:       %.0f m", alt.GainM))
	lines = append(lines, fmt.Sprintf("  Max Altitude:         %.0f m", alt.MaxAltitudeM))
	lines = append(lines, fmt.Sprintf("  Min Altitude:         %.0f m", alt.MinAltitudeM))

	if alt.AvgGradePct != nil {
		lines = append(lines, fmt.Sprintf("  Average Grade:        %.1f%%", *alt.AvgGradePct))
	}
	if alt.MaxGradePct != nil {
		lines = append(lines, fmt.Sprintf("  Max Grade:            %.1f%%", *alt.MaxGradePct))
	}

	lines = append(lines, "")
	return strings.Join(lines, "\n")
}

func (m ActivityDetailModel) renderThreshold() string {
	var lines []string

	title := fmt.Sprintf("At Threshold (%d W ±5%%)", m.detail.FTPWatts)
	lines = append(lines, lipgloss.NewStyle().Bold(true).Foreground(secondaryColor).Render(title))

	th := m.detail.Threshold
	lines = append(lines, fmt.Sprintf("  Average HR:           %.0f bpm", th.AvgHeartRateBPM))
	lines = append(lines, fmt.Sprintf("  Average Cadence:      %.0f rpm", th.AvgCadenceRPM))
	lines = append(lines, fmt.Sprintf("  Samples:              %d", th.SampleCount))

	lines = append(lines, "")
	return strings.Join(lines, "\n")
}

func (m ActivityDetailModel) renderChart(title string, data []float64) string {
	var lines []string

	lines = append(lines, lipgloss.NewStyle().Bold(true).Foreground(secondaryColor).Render(title))

	if len(data) > 2 {
		chart := asciigraph.Plot(data,
			asciigraph.Height(8),
			asciigraph.Width(50),
		)
		lines = append(lines, chart)
	}

	lines = append(lines, "")
	return strings.Join(lines, "\n")
}
