package engines

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/readaloud/readaloud/internal/audio"
	"github.com/readaloud/readaloud/internal/tts"
	"github.com/wujunwei928/edge-tts-go/edge_tts"
	"golang.org/x/time/rate"
)

// edgeSynth produces MP3 bytes for text.
type edgeSynth func(text string) ([]byte, error)

// EdgeEngine uses the Microsoft Edge read-aloud service.
type EdgeEngine struct {
	base
	voice       string
	rate        string
	rateLimiter *rate.Limiter
	synth       edgeSynth
}

// NewEdgeEngine returns the Edge engine.
func NewEdgeEngine(cfg tts.EdgeConfig, opts ...Option) *EdgeEngine {
	e := &EdgeEngine{
		base:        newBase(true, opts),
		voice:       cfg.Voice,
		rate:        cfg.Rate,
		rateLimiter: newLimiter(cfg.RequestsPerMinute),
	}
	e.synth = e.stream
	return e
}

func (e *EdgeEngine) Name() string         { return tts.EngineEdge }
func (e *EdgeEngine) MaxChars() int        { return 5000 }
func (e *EdgeEngine) Format() audio.Format { return audio.FormatMP3 }
func (e *EdgeEngine) Voice() string        { return e.voice }

// Prerequisite needs only a configured voice; reachability is left to the
// connectivity probe.
func (e *EdgeEngine) Prerequisite() error {
	if e.voice == "" {
		return errors.New("no edge voice configured")
	}
	return nil
}

func (e *EdgeEngine) Initialize(ctx context.Context) bool {
	return e.initialize(ctx, e)
}

// Synthesize writes an MP3 file.
func (e *EdgeEngine) Synthesize(ctx context.Context, text, dest string) error {
	if err := waitLimiter(ctx, e.rateLimiter); err != nil {
		return err
	}

	type result struct {
		data []byte
		err  error
	}
	done := make(chan result, 1)
	go func() {
		data, err := e.synth(text)
		done <- result{data, err}
	}()

	var data []byte
	select {
	case r := <-done:
		if r.err != nil {
			return fmt.Errorf("edge synthesis failed: %w", r.err)
		}
		data = r.data
	case <-ctx.Done():
		return fmt.Errorf("edge synthesis cancelled: %w", ctx.Err())
	}

	if len(data) == 0 {
		return ErrNoOutput
	}
	if err := os.WriteFile(dest, data, 0o600); err != nil {
		return fmt.Errorf("unable to write edge audio: %w", err)
	}
	return nil
}

// communicate prepares a request for text with the configured voice and
// speaking rate. Nothing is sent until Stream is called.
func (e *EdgeEngine) communicate(text string) (*edge_tts.Communicate, error) {
	opts := []edge_tts.CommunicateOption{edge_tts.SetVoice(e.voice)}
	if e.rate != "" {
		opts = append(opts, edge_tts.SetRate(e.rate))
	}
	c, err := edge_tts.NewCommunicate(text, opts...)
	if err != nil {
		return nil, fmt.Errorf("invalid edge request: %w", err)
	}
	return c, nil
}

func (e *EdgeEngine) stream(text string) ([]byte, error) {
	c, err := e.communicate(text)
	if err != nil {
		return nil, err
	}
	return c.Stream()
}

var _ tts.Backend = (*EdgeEngine)(nil)
