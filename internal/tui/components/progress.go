package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/rgehrsitz/sipgo/internal/tui/tuistyles"
)

// ProgressBar renders Current out of Total as a horizontal bar
type ProgressBar struct {
	Current     int
	Total       int
	Width       int
	Label       string
	ShowPercent bool
	ShowCount   bool
	Color       lipgloss.TerminalColor
}

// NewProgressBar creates a 40-cell bar showing the count
func NewProgressBar(current, total int) *ProgressBar {
	return &ProgressBar{
		Current:   current,
		Total:     total,
		Width:     40,
		ShowCount: true,
		Color:     tuistyles.ColorSuccess,
	}
}

// NewAllocationBar renders one asset class weight out of 100
func NewAllocationBar(label string, percentage int, color lipgloss.TerminalColor) *ProgressBar {
	return &ProgressBar{
		Current:     percentage,
		Total:       100,
		Width:       30,
		Label:       label,
		ShowPercent: true,
		Color:       color,
	}
}

// WithLabel sets the label printed before the bar
func (p *ProgressBar) WithLabel(label string) *ProgressBar {
	p.Label = label
	return p
}

// WithWidth sets the bar width in cells
func (p *ProgressBar) WithWidth(width int) *ProgressBar {
	p.Width = width
	return p
}

// Percentage returns the completion percentage
func (p *ProgressBar) Percentage() float64 {
	if p.Total == 0 {
		return 0
	}
	return float64(p.Current) / float64(p.Total) * 100
}

// Filled is the number of solid cells
func (p *ProgressBar) Filled() int {
	filled := int(float64(p.Width) * p.Percentage() / 100)
	if filled > p.Width {
		filled = p.Width
	}
	if filled < 0 {
		filled = 0
	}
	return filled
}

// Render returns the styled bar on one line
func (p *ProgressBar) Render() string {
	var b strings.Builder

	if p.Label != "" {
		b.WriteString(tuistyles.MetricLabelStyle.Render(fmt.Sprintf("%-8s", p.Label)))
		b.WriteString(" ")
	}

	filled := p.Filled()
	b.WriteString(lipgloss.NewStyle().Foreground(p.Color).Render(strings.Repeat("█", filled)))
	b.WriteString(lipgloss.NewStyle().Foreground(tuistyles.ColorBorder).Render(strings.Repeat("░", p.Width-filled)))

	var stats []string
	if p.ShowPercent {
		stats = append(stats, tuistyles.MetricValueStyle.Render(fmt.Sprintf("%3d%%", int(p.Percentage()+0.5))))
	}
	if p.ShowCount {
		stats = append(stats, tuistyles.MetricLabelStyle.Render(fmt.Sprintf("%d/%d", p.Current, p.Total)))
	}
	if len(stats) > 0 {
		b.WriteString(" ")
		b.WriteString(strings.Join(stats, " • "))
	}
	return b.String()
}
