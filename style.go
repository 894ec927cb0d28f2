package main

import "github.com/charmbracelet/lipgloss"

var (
	keyword = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#04B575")).
		Render

	paragraph = lipgloss.NewStyle().
			Width(78). //nolint:mnd
			Padding(0, 0, 0, 2).
			Render

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39"))

	subtle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#888888")).
		Render
)
