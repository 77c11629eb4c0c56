package tui

import "github.com/charmbracelet/lipgloss"

// Color palette.
var (
	colorPrimary = lipgloss.Color("#F97316") // Orange
	colorSuccess = lipgloss.Color("#10B981") // Green (created)
	colorDanger  = lipgloss.Color("#EF4444") // Red
	colorMuted   = lipgloss.Color("#6B7280") // Gray
	colorBorder  = lipgloss.Color("#374151") // Dark gray
	colorWarning = lipgloss.Color("#F59E0B") // Amber (overwritten)
)

// Shared styles.
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(colorPrimary).
			Padding(0, 1)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorMuted)

	mutedStyle = lipgloss.NewStyle().
			Foreground(colorMuted)

	pathStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#D1D5DB"))

	// Action badges, fixed width so paths line up.
	createStyle = lipgloss.NewStyle().
			Foreground(colorSuccess).
			Bold(true).
			Width(badgeWidth)

	overwriteStyle = lipgloss.NewStyle().
			Foreground(colorWarning).
			Bold(true).
			Width(badgeWidth)

	skipStyle = lipgloss.NewStyle().
			Foreground(colorMuted).
			Width(badgeWidth)

	warningStyle = lipgloss.NewStyle().
			Foreground(colorWarning)

	ruleStyle = lipgloss.NewStyle().
			Foreground(colorBorder)

	// Confirmation dialog.
	dialogBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorPrimary).
			Padding(1, 2)

	dialogButtonStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#FFF7DB")).
				Background(colorMuted).
				Padding(0, 2)

	dialogActiveButtonStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#FFF7DB")).
				Background(colorDanger).
				Padding(0, 2).
				Bold(true)
)

const badgeWidth = 11

// renderSectionHeader renders a label between short rules: "── PLAN ──".
func renderSectionHeader(label string) string {
	rule := ruleStyle.Render("──")
	return rule + headerStyle.Render(" "+label+" ") + rule
}
