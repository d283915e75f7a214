package tui

import "github.com/charmbracelet/lipgloss"

type styles struct {
	title    lipgloss.Style
	cursor   lipgloss.Style
	selected lipgloss.Style
	item     lipgloss.Style
	meta     lipgloss.Style
	help     lipgloss.Style
	detail   lipgloss.Style
	empty    lipgloss.Style
}

func newStyles() styles {
	return styles{
		title:    lipgloss.NewStyle().Bold(true),
		cursor:   lipgloss.NewStyle().Foreground(lipgloss.Color("69")),
		selected: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
		item:     lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		meta:     lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		help:     lipgloss.NewStyle().Faint(true),
		detail:   lipgloss.NewStyle().MarginTop(1).Foreground(lipgloss.Color("250")),
		empty:    lipgloss.NewStyle().Faint(true),
	}
}
