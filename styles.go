package main

import "github.com/charmbracelet/lipgloss"

var (
	colorRed    = lipgloss.Color("#FF5555")
	colorYellow = lipgloss.Color("#F1FA8C")
	colorGreen  = lipgloss.Color("#50FA7B")
	colorCyan   = lipgloss.Color("#8BE9FD")
	colorGray   = lipgloss.Color("#6272A4")

	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	labelStyle = lipgloss.NewStyle().Foreground(colorGray).Width(12)
	okStyle    = lipgloss.NewStyle().Foreground(colorGreen).Bold(true)
	warnStyle  = lipgloss.NewStyle().Foreground(colorYellow).Bold(true)
	critStyle  = lipgloss.NewStyle().Foreground(colorRed).Bold(true)
	dimStyle   = lipgloss.NewStyle().Foreground(colorGray)
)

// field renders one "label value" row of an info block.
func field(label, value string) string {
	return "  " + labelStyle.Render(label) + value
}

func usageStyle(usedPct float64) lipgloss.Style {
	switch {
	case usedPct >= 95:
		return critStyle
	case usedPct >= 80:
		return warnStyle
	default:
		return okStyle
	}
}
