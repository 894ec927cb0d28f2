package engines

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/readaloud/readaloud/internal/tts"
	"golang.org/x/time/rate"
)

const selfTestText = "Test"

// ErrNoOutput is returned when a provider reports success but writes
// nothing.
var ErrNoOutput = errors.New("engine produced no audio output")

// Option configures the shared parts of an engine.
type Option func(*base)

// WithLogger sets the engine logger.
func WithLogger(l *log.Logger) Option {
	return func(b *base) { b.logger = l }
}

// WithProbe sets the connectivity probe used by network engines.
func WithProbe(p *Probe) Option {
	return func(b *base) { b.probe = p }
}

// WithRunner sets the subprocess runner.
func WithRunner(r *Runner) Option {
	return func(b *base) { b.runner = r }
}

// WithSelfTestTimeout bounds the trial synthesis run by Initialize.
func WithSelfTestTimeout(d time.Duration) Option {
	return func(b *base) { b.selfTestTimeout = d }
}

type base struct {
	logger          *log.Logger
	probe           *Probe
	runner          *Runner
	selfTestTimeout time.Duration
}

func newBase(network bool, opts []Option) base {
	b := base{
		logger:          log.Default(),
		runner:          NewRunner(),
		selfTestTimeout: 10 * time.Second,
	}
	if network {
		b.probe = NewProbe("https://www.google.com", 5*time.Second)
		b.selfTestTimeout = 45 * time.Second
	}
	for _, opt := range opts {
		opt(&b)
	}
	return b
}

// initialize checks the prerequisite, the network when the engine needs
// it, and runs a trial synthesis. A panic anywhere counts as failure.
func (b *base) initialize(ctx context.Context, e tts.Backend) (ok bool) {
	logger := b.logger.With("engine", e.Name())
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Engine panicked during initialization", "panic", r)
			ok = false
		}
	}()

	if err := e.Prerequisite(); err != nil {
		logger.Warn("Engine prerequisite missing", "error", err)
		return false
	}
	if b.probe != nil {
		if err := b.probe.Check(ctx); err != nil {
			logger.Warn("Connectivity probe failed", "url", b.probe.URL, "error", err)
			return false
		}
	}
	if err := b.selfTest(ctx, e); err != nil {
		logger.Warn("Engine self-test failed", "error", err)
		return false
	}
	logger.Debug("Engine self-test passed")
	return true
}

func (b *base) selfTest(ctx context.Context, e tts.Backend) error {
	ctx, cancel := context.WithTimeout(ctx, b.selfTestTimeout)
	defer cancel()

	dir, err := os.MkdirTemp("", "readaloud-selftest-*")
	if err != nil {
		return err
	}
	defer os.RemoveAll(dir) //nolint:errcheck

	dest := filepath.Join(dir, "selftest"+e.Format().Ext())
	if err := e.Synthesize(ctx, selfTestText, dest); err != nil {
		return err
	}
	return checkOutput(dest)
}

// checkOutput fails unless path exists and is non-empty.
func checkOutput(path string) error {
	st, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNoOutput, err)
	}
	if st.Size() == 0 {
		_ = os.Remove(path)
		return ErrNoOutput
	}
	return nil
}

// newLimiter allows rpm requests per minute with no burst.
func newLimiter(rpm int) *rate.Limiter {
	if rpm <= 0 {
		rpm = 50
	}
	return rate.NewLimiter(rate.Every(time.Minute/time.Duration(rpm)), 1)
}

func waitLimiter(ctx context.Context, l *rate.Limiter) error {
	if err := l.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait cancelled: %w", err)
	}
	return nil
}
