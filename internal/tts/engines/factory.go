package engines

import (
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/readaloud/readaloud/internal/tts"
)

// Build returns the backends named by cfg.Engines, in that order. Every
// network engine shares one probe built from cfg.Probe.
func Build(cfg tts.Config, logger *log.Logger) ([]tts.Backend, error) {
	if logger == nil {
		logger = log.Default()
	}
	probe := NewProbe(cfg.Probe.URL, cfg.Probe.Timeout)
	opts := []Option{WithLogger(logger), WithProbe(probe)}

	backends := make([]tts.Backend, 0, len(cfg.Engines))
	for _, name := range cfg.Engines {
		b, err := New(name, cfg, opts...)
		if err != nil {
			return nil, err
		}
		backends = append(backends, b)
	}
	return backends, nil
}

// New returns the single backend called name.
func New(name string, cfg tts.Config, opts ...Option) (tts.Backend, error) {
	switch name {
	case tts.EngineSystem:
		return NewSystemEngine(cfg.System, offline(opts)...), nil
	case tts.EngineGTTS:
		return NewGTTSEngine(cfg.GTTS, opts...), nil
	case tts.EngineEdge:
		return NewEdgeEngine(cfg.Edge, opts...), nil
	case tts.EngineOpenAI:
		return NewOpenAIEngine(cfg.OpenAI, opts...), nil
	case tts.EnginePiper:
		return NewPiperEngine(cfg.Piper, offline(opts)...), nil
	default:
		if err := tts.ValidateEngineName(name); err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %q", tts.ErrInvalidEngine, name)
	}
}

// offline drops any probe from opts.
func offline(opts []Option) []Option {
	return append(opts[:len(opts):len(opts)], WithProbe(nil))
}
