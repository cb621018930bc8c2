package released

import "github.com/charmbracelet/lipgloss"

type styles struct {
	date      lipgloss.Style
	cell      lipgloss.Style
	separator lipgloss.Style
	empty     lipgloss.Style
	summary   lipgloss.Style
}

func newStyles() styles {
	return styles{
		date:      lipgloss.NewStyle().Foreground(lipgloss.Color("39")),
		cell:      lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		separator: lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		empty:     lipgloss.NewStyle().Faint(true),
		summary:   lipgloss.NewStyle().Bold(true),
	}
}
