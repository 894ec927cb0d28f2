package tts

import (
	"context"
	"sync"

	"github.com/charmbracelet/log"
)

// Registry holds the candidate backends in priority order and the single
// backend that serves every conversion in the process.
type Registry struct {
	backends []Backend
	logger   *log.Logger

	// selectMu serializes the unselected -> selected transition.
	selectMu sync.Mutex

	mu          sync.RWMutex
	active      Backend
	initialized map[string]bool
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithRegistryLogger sets the logger used for selection diagnostics.
func WithRegistryLogger(l *log.Logger) RegistryOption {
	return func(r *Registry) { r.logger = l }
}

// NewRegistry returns a registry over backends, tried in slice order.
func NewRegistry(backends []Backend, opts ...RegistryOption) *Registry {
	r := &Registry{
		backends:    backends,
		logger:      log.Default(),
		initialized: make(map[string]bool),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Select returns the active backend, choosing one if none is active yet.
// Candidates are initialized in priority order and the first that succeeds
// wins; later candidates are not tried. Once a backend is active, Select
// returns it without running any self-test. If every candidate fails, no
// backend is marked active and an *EngineUnavailableError is returned; a
// later call tries again.
func (r *Registry) Select(ctx context.Context) (Backend, error) {
	if b := r.current(); b != nil {
		return b, nil
	}

	r.selectMu.Lock()
	defer r.selectMu.Unlock()

	// Another caller may have finished selecting while we waited.
	if b := r.current(); b != nil {
		return b, nil
	}

	b, err := r.selectFirst(ctx)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	r.active = b
	r.initialized[b.Name()] = true
	r.mu.Unlock()

	return b, nil
}

// Active is the lazy entry point used by conversions.
func (r *Registry) Active(ctx context.Context) (Backend, error) {
	return r.Select(ctx)
}

// Reselect drops the active backend and selects again.
func (r *Registry) Reselect(ctx context.Context) (Backend, error) {
	r.selectMu.Lock()
	r.mu.Lock()
	if r.active != nil {
		r.logger.Info("Re-selecting TTS engine", "previous", r.active.Name())
	}
	r.active = nil
	r.initialized = make(map[string]bool)
	r.mu.Unlock()
	r.selectMu.Unlock()

	return r.Select(ctx)
}

func (r *Registry) selectFirst(ctx context.Context) (Backend, error) {
	tried := make([]string, 0, len(r.backends))
	for _, b := range r.backends {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		tried = append(tried, b.Name())

		r.logger.Debug("Trying TTS engine", "engine", b.Name())
		if b.Initialize(ctx) {
			r.logger.Info("TTS engine selected", "engine", b.Name(), "max_chars", b.MaxChars())
			return b, nil
		}
		r.logger.Warn("TTS engine unavailable", "engine", b.Name())
	}

	err := &EngineUnavailableError{Tried: tried}
	r.logger.Error("No TTS engine available", "tried", tried)
	return nil, err
}

func (r *Registry) current() Backend {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.active
}

// Status reports the active backend name and whether it is ready.
func (r *Registry) Status() Status {
	b := r.current()
	if b == nil {
		return Status{}
	}
	return Status{Backend: b.Name(), Ready: true}
}

// Plausible lists, in priority order, the backends whose prerequisites are
// present on this host. It does not initialize anything.
func (r *Registry) Plausible() []string {
	var names []string
	for _, b := range r.backends {
		if b.Prerequisite() == nil {
			names = append(names, b.Name())
		}
	}
	return names
}

// Descriptors describes every candidate backend.
func (r *Registry) Descriptors() []Descriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Descriptor, len(r.backends))
	for i, b := range r.backends {
		d := Descriptor{
			Name:        b.Name(),
			Priority:    i,
			Initialized: r.initialized[b.Name()],
			Active:      r.active != nil && r.active.Name() == b.Name(),
		}
		if err := b.Prerequisite(); err != nil {
			d.Reason = err.Error()
		} else {
			d.Available = true
		}
		out[i] = d
	}
	return out
}

var _ Selector = (*Registry)(nil)
