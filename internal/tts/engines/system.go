package engines

import (
	"context"
	"errors"
	"os/exec"
	"runtime"
	"strconv"

	"github.com/readaloud/readaloud/internal/audio"
	"github.com/readaloud/readaloud/internal/tts"
)

// ErrNoSystemVoice is returned when no operating system voice is installed.
var ErrNoSystemVoice = errors.New("no system voice found (install espeak-ng or espeak)")

// systemVoices are tried in order. say is only considered on macOS.
var systemVoices = []string{"espeak-ng", "espeak", "say"}

// SystemEngine speaks through the operating system voice.
type SystemEngine struct {
	base
	voice string
	rate  int
}

// NewSystemEngine returns the offline system voice engine.
func NewSystemEngine(cfg tts.SystemConfig, opts ...Option) *SystemEngine {
	return &SystemEngine{
		base:  newBase(false, opts),
		voice: cfg.Voice,
		rate:  cfg.Rate,
	}
}

func (e *SystemEngine) Name() string         { return tts.EngineSystem }
func (e *SystemEngine) MaxChars() int        { return 1000 }
func (e *SystemEngine) Format() audio.Format { return audio.FormatWAV }
func (e *SystemEngine) Voice() string        { return e.voice }

// Prerequisite reports whether a speech binary is on PATH.
func (e *SystemEngine) Prerequisite() error {
	_, err := e.binary()
	return err
}

func (e *SystemEngine) Initialize(ctx context.Context) bool {
	return e.initialize(ctx, e)
}

// Synthesize writes a WAV file spoken by the system voice.
func (e *SystemEngine) Synthesize(ctx context.Context, text, dest string) error {
	bin, err := e.binary()
	if err != nil {
		return err
	}

	var args []string
	if bin == "say" {
		args = []string{"-o", dest, "--file-format=WAVE", "--data-format=LEI16@22050", "-f", "-"}
		if e.voice != "" {
			args = append(args, "-v", e.voice)
		}
		if e.rate > 0 {
			args = append(args, "-r", strconv.Itoa(e.rate))
		}
	} else {
		args = []string{"-w", dest}
		if e.voice != "" {
			args = append(args, "-v", e.voice)
		}
		if e.rate > 0 {
			args = append(args, "-s", strconv.Itoa(e.rate))
		}
		args = append(args, "--stdin")
	}

	if _, err := e.runner.Run(ctx, text, bin, args...); err != nil {
		return err
	}
	return checkOutput(dest)
}

func (e *SystemEngine) binary() (string, error) {
	for _, name := range systemVoices {
		if name == "say" && runtime.GOOS != "darwin" {
			continue
		}
		if _, err := exec.LookPath(name); err == nil {
			return name, nil
		}
	}
	return "", ErrNoSystemVoice
}

var _ tts.Backend = (*SystemEngine)(nil)
