package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/rgehrsitz/sipgo/internal/domain"
	"github.com/rgehrsitz/sipgo/internal/tui/components"
	"github.com/rgehrsitz/sipgo/internal/tui/tuistyles"
)

// View renders the current state of the quiz
func (m Model) View() string {
	var content string
	switch m.scene {
	case SceneQuestion:
		content = m.renderQuestion()
	case SceneResult:
		content = m.renderResult()
	default:
		content = "Unknown scene"
	}
	return m.renderApp(content)
}

func (m Model) renderApp(content string) string {
	title := tuistyles.TitleStyle.Render("SIP Risk Profile Quiz")
	sections := []string{title, content}
	if m.err != nil {
		sections = append(sections, tuistyles.ErrorStyle.Render("Error: "+m.err.Error()))
	}
	sections = append(sections, statusBarStyle.Render(m.help.View(m.keys)))
	return tuistyles.AppStyle.Render(lipgloss.JoinVertical(lipgloss.Left, sections...))
}

func (m Model) renderQuestion() string {
	q := m.questions[m.current]

	var b strings.Builder
	progress := components.NewProgressBar(m.current+1, len(m.questions)).
		WithLabel("Question").
		WithWidth(24)
	b.WriteString(progress.Render())
	b.WriteString("\n\n")
	b.WriteString(questionStyle.Render(q.Text))
	b.WriteString("\n")

	for i, o := range q.Options {
		prefix := "  "
		style := tuistyles.UnselectedItemStyle
		if i == m.cursor {
			prefix = cursorStyle.Render("› ")
			style = tuistyles.SelectedItemStyle
		}
		line := style.Render(o.Text)
		if m.chosen[m.current] == i {
			line += tuistyles.InfoStyle.Render("  (current answer)")
		}
		b.WriteString(prefix + line + "\n")
	}
	return tuistyles.BorderStyle.Render(b.String())
}

func (m Model) renderResult() string {
	r := m.result
	if r == nil {
		return tuistyles.SubtitleStyle.Render("Scoring your answers...")
	}

	header := lipgloss.JoinHorizontal(lipgloss.Center,
		profileBadge(r.Profile), " ", tuistyles.SubtitleStyle.Render(r.Description.Title))

	cards := []*components.MetricCard{
		components.NewMetricCard("Risk score", fmt.Sprintf("%d / %d", r.TotalScore, r.MaxScore)),
	}
	if rate, ok := m.returns[r.Profile]; ok {
		card := components.NewMetricCard("Expected return", rate.StringFixed(2)+"% a year")
		if base, ok := m.returns[domain.Moderate]; ok && r.Profile != domain.Moderate {
			diff := rate.Sub(base)
			card.WithTrend(diff.IsPositive(), fmt.Sprintf("%s%% vs Moderate", signed(diff.StringFixed(2))))
		}
		cards = append(cards, card)
	}

	var alloc strings.Builder
	alloc.WriteString(tuistyles.TableHeaderStyle.Render("Recommended allocation"))
	alloc.WriteString("\n")
	for _, a := range r.Allocation {
		alloc.WriteString(components.NewAllocationBar(string(a.AssetClass), a.Percentage, assetColor(a.AssetClass)).Render())
		alloc.WriteString("\n")
	}

	sections := []string{
		header,
		components.MetricGrid(cards, 2),
		alloc.String(),
		lipgloss.NewStyle().Width(min(m.width-6, 72)).Render(r.Description.Description),
	}

	switch {
	case m.saveErr != nil:
		sections = append(sections, tuistyles.ErrorStyle.Render("Could not save profile: "+m.saveErr.Error()))
	case m.saved:
		sections = append(sections, tuistyles.InfoStyle.Render(fmt.Sprintf("Saved as the profile of %q", m.userID)))
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func signed(s string) string {
	if strings.HasPrefix(s, "-") {
		return s
	}
	return "+" + s
}
