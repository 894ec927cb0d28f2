// Package ui renders conversion progress in the terminal.
package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"
	"github.com/muesli/reflow/truncate"
	"github.com/readaloud/readaloud/internal/tts"
)

const maxWidth = 60

// EventMsg carries an orchestrator event into the program.
type EventMsg tts.Event

// ProgressModel shows a spinner while the engine is selected and a bar
// while chunks are synthesized.
type ProgressModel struct {
	title    string
	spinner  spinner.Model
	progress progress.Model
	event    tts.Event
	done     map[int]bool
	finished bool
}

// NewProgressModel returns a model titled after the converted document.
func NewProgressModel(title string) ProgressModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = okStyle

	return ProgressModel{
		title:    truncate.StringWithTail(title, maxWidth, "…"),
		spinner:  s,
		progress: progress.New(progress.WithDefaultGradient(), progress.WithWidth(maxWidth)),
		done:     make(map[int]bool),
	}
}

func (m ProgressModel) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m ProgressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.progress.Width = min(msg.Width-4, maxWidth)
	case EventMsg:
		e := tts.Event(msg)
		m.event = e
		if e.State == tts.StateSynthesizing {
			m.done[e.Chunk] = true
		}
		if e.State == tts.StateDone || e.State == tts.StateFailed {
			m.finished = true
			return m, tea.Quit
		}
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

// Percent is the share of chunks whose synthesis has started.
func (m ProgressModel) Percent() float64 {
	if m.event.Total == 0 {
		return 0
	}
	if m.event.State == tts.StateAssembling || m.event.State == tts.StateDone {
		return 1
	}
	return float64(len(m.done)) / float64(m.event.Total)
}

func (m ProgressModel) View() string {
	var b strings.Builder
	b.WriteString("\n  ")
	if !m.finished {
		b.WriteString(m.spinner.View() + " ")
	}
	b.WriteString(m.title)
	b.WriteString("\n\n  ")
	b.WriteString(StatusLine(m.event))
	b.WriteString("\n")

	if m.event.Total > 0 {
		b.WriteString("\n  " + m.progress.ViewAs(m.Percent()) + "\n")
	}

	switch {
	case m.event.Result != nil:
		r := m.event.Result
		b.WriteString("\n  " + okStyle.Render(fmt.Sprintf("Wrote %s (%s, %s)",
			r.Path, r.Format, humanize.Bytes(uint64(r.Size)))) + "\n") //nolint:gosec
	case m.event.Err != nil:
		msg := truncate.StringWithTail(m.event.Err.Error(), maxWidth*2, "…")
		b.WriteString("\n  " + errorStyle.Render("Error: "+msg) + "\n")
	}
	return b.String()
}

// NewProgram returns a program rendering to out.
func NewProgram(title string, out io.Writer) *tea.Program {
	return tea.NewProgram(NewProgressModel(title), tea.WithOutput(out))
}

// Observer forwards orchestrator events to p.
func Observer(p *tea.Program) tts.Observer {
	return func(e tts.Event) {
		p.Send(EventMsg(e))
	}
}
