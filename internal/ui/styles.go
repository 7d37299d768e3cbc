package ui

import "github.com/charmbracelet/lipgloss"

type styles struct {
	author    lipgloss.Style
	timestamp lipgloss.Style
	body      lipgloss.Style
	statusBar lipgloss.Style
	statusTag lipgloss.Style
	errorTag  lipgloss.Style
}

func newStyles(theme string) styles {
	s := styles{
		author:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")),
		timestamp: lipgloss.NewStyle().Faint(true),
		body:      lipgloss.NewStyle(),
		statusBar: lipgloss.NewStyle().Background(lipgloss.Color("236")).Foreground(lipgloss.Color("250")).Padding(0, 1),
		statusTag: lipgloss.NewStyle().Bold(true),
		errorTag:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9")),
	}
	if theme == "light" {
		s.author = s.author.Foreground(lipgloss.Color("4"))
		s.statusBar = s.statusBar.Background(lipgloss.Color("254")).Foreground(lipgloss.Color("238"))
	}
	return s
}
