package team

import "github.com/charmbracelet/lipgloss"

type styles struct {
	title     lipgloss.Style
	header    lipgloss.Style
	worker    lipgloss.Style
	focused   lipgloss.Style
	detail    lipgloss.Style
	working   lipgloss.Style
	available lipgloss.Style
	offline   lipgloss.Style
	warning   lipgloss.Style
	section   lipgloss.Style
	empty     lipgloss.Style
}

func newStyles() styles {
	return styles{
		title:     lipgloss.NewStyle().Bold(true),
		header:    lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		worker:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
		focused:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("220")),
		detail:    lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		working:   lipgloss.NewStyle().Foreground(lipgloss.Color("159")),
		available: lipgloss.NewStyle().Foreground(lipgloss.Color("114")),
		offline:   lipgloss.NewStyle().Foreground(lipgloss.Color("238")),
		warning:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("203")),
		section:   lipgloss.NewStyle().MarginTop(1),
		empty:     lipgloss.NewStyle().Faint(true),
	}
}
