package tui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/rgehrsitz/sipgo/internal/domain"
	"github.com/rgehrsitz/sipgo/internal/tui/tuistyles"
)

var (
	cursorStyle = lipgloss.NewStyle().Foreground(tuistyles.ColorAccent).Bold(true)

	questionStyle = lipgloss.NewStyle().
			Foreground(tuistyles.ColorForeground).
			Bold(true).
			MarginBottom(1)

	profileTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Padding(0, 1).
				Foreground(lipgloss.Color("#FFFFFF"))

	statusBarStyle = lipgloss.NewStyle().
			Foreground(tuistyles.ColorMuted).
			MarginTop(1)
)

// assetColors keeps each asset class the same colour on every screen
var assetColors = map[domain.AssetClass]lipgloss.TerminalColor{
	domain.AssetEquity: tuistyles.ColorPrimary,
	domain.AssetHybrid: tuistyles.ColorSecondary,
	domain.AssetDebt:   tuistyles.ColorSuccess,
	domain.AssetGold:   tuistyles.ColorAccent,
}

func assetColor(class domain.AssetClass) lipgloss.TerminalColor {
	if c, ok := assetColors[class]; ok {
		return c
	}
	return tuistyles.ColorInfo
}

// profileBadge renders the profile name on a background matching its risk
func profileBadge(p domain.RiskProfile) string {
	bg := tuistyles.ColorInfo
	switch p {
	case domain.Conservative:
		bg = tuistyles.ColorSuccess
	case domain.Moderate:
		bg = tuistyles.ColorAccent
	case domain.Aggressive:
		bg = tuistyles.ColorDanger
	}
	return profileTitleStyle.Background(bg).Render(string(p))
}
