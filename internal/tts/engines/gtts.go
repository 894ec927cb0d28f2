package engines

import (
	"context"
	"fmt"
	"os/exec"

	"github.com/readaloud/readaloud/internal/audio"
	"github.com/readaloud/readaloud/internal/tts"
	"golang.org/x/time/rate"
)

// GTTSEngine uses gtts-cli (Google Translate TTS). It needs no API key
// but does need network access, so requests are rate limited to avoid
// being blocked.
type GTTSEngine struct {
	base
	language    string
	slow        bool
	rateLimiter *rate.Limiter
}

// NewGTTSEngine returns the gTTS engine.
func NewGTTSEngine(cfg tts.GTTSConfig, opts ...Option) *GTTSEngine {
	if cfg.Language == "" {
		cfg.Language = "en"
	}
	return &GTTSEngine{
		base:        newBase(true, opts),
		language:    cfg.Language,
		slow:        cfg.Slow,
		rateLimiter: newLimiter(cfg.RequestsPerMinute),
	}
}

func (e *GTTSEngine) Name() string         { return tts.EngineGTTS }
func (e *GTTSEngine) MaxChars() int        { return 5000 }
func (e *GTTSEngine) Format() audio.Format { return audio.FormatMP3 }
func (e *GTTSEngine) Voice() string        { return e.language }

// Prerequisite reports whether gtts-cli is on PATH.
func (e *GTTSEngine) Prerequisite() error {
	if _, err := exec.LookPath("gtts-cli"); err != nil {
		return fmt.Errorf("gtts-cli not found in PATH (install with: pip install gtts): %w", err)
	}
	return nil
}

func (e *GTTSEngine) Initialize(ctx context.Context) bool {
	return e.initialize(ctx, e)
}

// Synthesize writes an MP3 file. The text goes through stdin.
func (e *GTTSEngine) Synthesize(ctx context.Context, text, dest string) error {
	if err := waitLimiter(ctx, e.rateLimiter); err != nil {
		return err
	}

	args := []string{"-", "-l", e.language, "-o", dest}
	if e.slow {
		args = append(args, "--slow")
	}
	if _, err := e.runner.Run(ctx, text, "gtts-cli", args...); err != nil {
		return err
	}
	return checkOutput(dest)
}

var _ tts.Backend = (*GTTSEngine)(nil)
