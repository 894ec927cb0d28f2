package ui

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/readaloud/readaloud/internal/audio"
	"github.com/readaloud/readaloud/internal/tts"
)

func send(m tea.Model, e tts.Event) (ProgressModel, tea.Cmd) {
	next, cmd := m.Update(EventMsg(e))
	return next.(ProgressModel), cmd
}

func TestProgressModel_Percent(t *testing.T) {
	m := NewProgressModel("report.docx")
	m, _ = send(m, tts.Event{State: tts.StateChunking, Backend: "piper"})
	if m.Percent() != 0 {
		t.Errorf("Percent() = %v before synthesis", m.Percent())
	}

	for i := range 2 {
		m, _ = send(m, tts.Event{State: tts.StateSynthesizing, Backend: "piper", Chunk: i, Total: 4})
	}
	if m.Percent() != 0.5 {
		t.Errorf("Percent() = %v, want 0.5", m.Percent())
	}
	if !strings.Contains(m.View(), "2/4") {
		t.Errorf("view is missing the chunk counter:\n%s", m.View())
	}

	m, _ = send(m, tts.Event{State: tts.StateAssembling, Backend: "piper", Total: 4})
	if m.Percent() != 1 {
		t.Errorf("Percent() = %v while assembling", m.Percent())
	}
}

func TestProgressModel_QuitsWhenFinished(t *testing.T) {
	res := &tts.Result{Path: "out.mp3", Format: audio.FormatMP3, Size: 2048}
	m, cmd := send(NewProgressModel("doc"), tts.Event{State: tts.StateDone, Total: 1, Result: res})
	if cmd == nil {
		t.Fatal("expected a quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("command is not tea.Quit")
	}
	if !strings.Contains(m.View(), "Wrote out.mp3") {
		t.Errorf("view:\n%s", m.View())
	}

	m, _ = send(NewProgressModel("doc"), tts.Event{State: tts.StateFailed, Err: errors.New("no engine")})
	if !strings.Contains(m.View(), "Error: no engine") {
		t.Errorf("view:\n%s", m.View())
	}
}

func TestStatusLine(t *testing.T) {
	got := StatusLine(tts.Event{State: tts.StateSynthesizing, Backend: "gtts", Chunk: 0, Total: 3})
	for _, want := range []string{"synthesizing", "[gtts]", "1/3"} {
		if !strings.Contains(got, want) {
			t.Errorf("StatusLine() = %q, missing %q", got, want)
		}
	}
}
