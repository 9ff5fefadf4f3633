package output

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/rgehrsitz/sipgo/internal/domain"
	"github.com/rgehrsitz/sipgo/internal/tui/tuistyles"
)

// TableFormatter renders a console summary followed by the year-by-year table
type TableFormatter struct{}

func (t TableFormatter) Name() string { return "table" }

func (t TableFormatter) Format(result *domain.ProjectionResult) ([]byte, error) {
	var b strings.Builder

	title := "SIP PROJECTION"
	if result.Mode == domain.ModeGoal {
		title = "GOAL-BASED SIP PLAN"
	}
	b.WriteString(tuistyles.TitleStyle.Render(title))
	b.WriteString("\n")

	summary := [][2]string{}
	if result.Mode == domain.ModeGoal {
		summary = append(summary,
			[2]string{"Target Value", FormatCurrency(result.TargetValue)},
			[2]string{"Required Monthly SIP", FormatCurrency(result.Contribution)},
		)
	} else {
		summary = append(summary, [2]string{"Monthly SIP", FormatCurrency(result.Contribution)})
	}
	summary = append(summary,
		[2]string{"Expected Return", FormatPercentage(result.AnnualRatePercent)},
		[2]string{"Duration", strconv.Itoa(result.Years) + " years"},
		[2]string{"Total Invested", FormatCurrency(result.TotalInvested)},
		[2]string{"Future Value", FormatCurrency(result.FinalFutureValue)},
		[2]string{"Total Gains", FormatCurrency(result.TotalGains)},
	)
	for _, row := range summary {
		b.WriteString(tuistyles.MetricLabelStyle.Render(padRight(row[0]+":", 22)))
		b.WriteString(tuistyles.MetricValueStyle.Render(row[1]))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(renderPointsTable(result.Points))
	b.WriteString("\n")
	return []byte(b.String()), nil
}

func renderPointsTable(points []domain.ProjectionYearPoint) string {
	rows := make([][]string, 0, len(points))
	for _, p := range points {
		rows = append(rows, []string{
			strconv.Itoa(p.Year),
			FormatCurrency(p.Invested),
			FormatCurrency(p.Value),
			FormatCurrency(p.Gains),
		})
	}

	widths := make([]int, len(CSVHeader))
	for i, h := range CSVHeader {
		widths[i] = lipgloss.Width(h)
	}
	for _, r := range rows {
		for i, cell := range r {
			if w := lipgloss.Width(cell); w > widths[i] {
				widths[i] = w
			}
		}
	}

	lines := make([]string, 0, len(rows)+2)
	header := make([]string, len(CSVHeader))
	for i, h := range CSVHeader {
		header[i] = tuistyles.TableHeaderStyle.Render(padLeft(h, widths[i]))
	}
	lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top, header...))

	rule := 0
	for _, w := range widths {
		rule += w + 2
	}
	lines = append(lines, strings.Repeat("─", rule))

	for i, r := range rows {
		style := tuistyles.TableCellStyle
		if i == len(rows)-1 {
			style = tuistyles.TableHighlightStyle
		}
		cells := make([]string, len(r))
		for j, cell := range r {
			cells[j] = style.Render(padLeft(cell, widths[j]))
		}
		lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func padLeft(s string, width int) string {
	if n := width - lipgloss.Width(s); n > 0 {
		return strings.Repeat(" ", n) + s
	}
	return s
}

func padRight(s string, width int) string {
	if n := width - lipgloss.Width(s); n > 0 {
		return s + strings.Repeat(" ", n)
	}
	return s
}
