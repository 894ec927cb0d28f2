package engines

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"

	"github.com/readaloud/readaloud/internal/audio"
	"github.com/readaloud/readaloud/internal/tts"
)

// PiperEngine uses Piper, an offline neural voice. A fresh process runs
// per chunk with the text attached to stdin before start.
type PiperEngine struct {
	base
	binary     string
	modelPath  string
	configPath string
	speaker    string
}

// NewPiperEngine returns the Piper engine. The model's JSON config is used
// when it sits next to the model as <model>.json.
func NewPiperEngine(cfg tts.PiperConfig, opts ...Option) *PiperEngine {
	if cfg.Binary == "" {
		cfg.Binary = "piper"
	}
	e := &PiperEngine{
		base:      newBase(false, opts),
		binary:    cfg.Binary,
		modelPath: cfg.Model,
		speaker:   cfg.Speaker,
	}
	if cfg.Model != "" {
		if _, err := os.Stat(cfg.Model + ".json"); err == nil {
			e.configPath = cfg.Model + ".json"
		}
	}
	return e
}

func (e *PiperEngine) Name() string         { return tts.EnginePiper }
func (e *PiperEngine) MaxChars() int        { return 500 }
func (e *PiperEngine) Format() audio.Format { return audio.FormatWAV }
func (e *PiperEngine) Voice() string        { return e.modelPath + "#" + e.speaker }

// Prerequisite reports whether the binary and the model file are present.
func (e *PiperEngine) Prerequisite() error {
	if _, err := exec.LookPath(e.binary); err != nil {
		return fmt.Errorf("%s not found in PATH: %w", e.binary, err)
	}
	if e.modelPath == "" {
		return errors.New("no piper model configured (set tts.piper.model)")
	}
	if _, err := os.Stat(e.modelPath); err != nil {
		return fmt.Errorf("model file not accessible: %w", err)
	}
	return nil
}

func (e *PiperEngine) Initialize(ctx context.Context) bool {
	return e.initialize(ctx, e)
}

// Synthesize writes a WAV file.
func (e *PiperEngine) Synthesize(ctx context.Context, text, dest string) error {
	args := []string{"--model", e.modelPath, "--output_file", dest}
	if e.configPath != "" {
		args = append(args, "--config", e.configPath)
	}
	if e.speaker != "" {
		args = append(args, "--speaker", e.speaker)
	}

	if _, err := e.runner.Run(ctx, text, e.binary, args...); err != nil {
		return err
	}
	return checkOutput(dest)
}

var _ tts.Backend = (*PiperEngine)(nil)
