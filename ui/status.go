package ui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/readaloud/readaloud/internal/tts"
)

var (
	subtleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF0000"))
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#04B575"))
)

func stateIcon(s tts.State) string {
	switch s {
	case tts.StateChunking:
		return "✂"
	case tts.StateSynthesizing:
		return "▶"
	case tts.StateAssembling:
		return "⟳"
	case tts.StateDone:
		return "✓"
	case tts.StateFailed:
		return "✗"
	default:
		return "■"
	}
}

func stateColor(s tts.State) lipgloss.Color {
	switch s {
	case tts.StateSynthesizing:
		return lipgloss.Color("#00FF00")
	case tts.StateAssembling, tts.StateChunking:
		return lipgloss.Color("#00AAFF")
	case tts.StateDone:
		return lipgloss.Color("#04B575")
	case tts.StateFailed:
		return lipgloss.Color("#FF0000")
	default:
		return lipgloss.Color("#888888")
	}
}

// StatusLine renders one event as a short status string.
func StatusLine(e tts.Event) string {
	label := lipgloss.NewStyle().Foreground(stateColor(e.State)).
		Render(fmt.Sprintf("%s %s", stateIcon(e.State), e.State))
	if e.Backend != "" {
		label += subtleStyle.Render(" [" + e.Backend + "]")
	}
	if e.State == tts.StateSynthesizing && e.Total > 0 {
		label += subtleStyle.Render(fmt.Sprintf(" %d/%d", e.Chunk+1, e.Total))
	}
	return label
}
