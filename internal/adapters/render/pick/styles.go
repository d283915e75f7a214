package pick

import "github.com/charmbracelet/lipgloss"

type styles struct {
	title   lipgloss.Style
	path    lipgloss.Style
	count   lipgloss.Style
	meta    lipgloss.Style
	url     lipgloss.Style
	warning lipgloss.Style
	empty   lipgloss.Style
	section lipgloss.Style
}

func newStyles() styles {
	return styles{
		title:   lipgloss.NewStyle().Bold(true),
		path:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
		count:   lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		meta:    lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		url:     lipgloss.NewStyle().Underline(true).Foreground(lipgloss.Color("159")),
		warning: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("203")),
		empty:   lipgloss.NewStyle().Faint(true),
		section: lipgloss.NewStyle().MarginTop(1),
	}
}
