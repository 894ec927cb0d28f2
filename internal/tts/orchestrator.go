package tts

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/dustin/go-humanize"
	"github.com/readaloud/readaloud/internal/audio"
	"github.com/readaloud/readaloud/internal/cache"
	"golang.org/x/sync/errgroup"
)

// Orchestrator converts text into one audio file using the active backend.
// A conversion either produces a complete file or fails leaving nothing at
// the destination.
type Orchestrator struct {
	selector  Selector
	assembler Assembler
	cache     AudioCache
	workers   int
	tempDir   string
	observer  Observer
	logger    *log.Logger
}

// OrchestratorOption configures an Orchestrator.
type OrchestratorOption func(*Orchestrator)

// WithCache enables per-chunk audio caching.
func WithCache(c AudioCache) OrchestratorOption {
	return func(o *Orchestrator) { o.cache = c }
}

// WithWorkers sets how many chunks are synthesized at once.
func WithWorkers(n int) OrchestratorOption {
	return func(o *Orchestrator) {
		if n > 0 {
			o.workers = n
		}
	}
}

// WithTempDir sets the parent directory of per-conversion scratch space.
func WithTempDir(dir string) OrchestratorOption {
	return func(o *Orchestrator) { o.tempDir = dir }
}

// WithObserver registers a callback for conversion events.
func WithObserver(fn Observer) OrchestratorOption {
	return func(o *Orchestrator) { o.observer = fn }
}

// WithLogger sets the logger.
func WithLogger(l *log.Logger) OrchestratorOption {
	return func(o *Orchestrator) { o.logger = l }
}

// NewOrchestrator returns an orchestrator drawing backends from selector
// and combining audio with assembler.
func NewOrchestrator(selector Selector, assembler Assembler, opts ...OrchestratorOption) *Orchestrator {
	o := &Orchestrator{
		selector:  selector,
		assembler: assembler,
		workers:   1,
		logger:    log.Default(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Convert synthesizes text and writes it to dest, encoded as preferred
// when possible. The returned Result names the file and format actually
// written. Errors are *EmptyInputError, *EngineUnavailableError,
// *SynthesisError or *AssemblyError.
func (o *Orchestrator) Convert(ctx context.Context, text, dest string, preferred audio.Format) (Result, error) {
	start := time.Now()

	if strings.TrimSpace(text) == "" {
		return Result{}, o.fail("", &EmptyInputError{})
	}

	backend, err := o.selector.Active(ctx)
	if err != nil {
		return Result{}, o.fail("", err)
	}
	name := backend.Name()

	o.emit(Event{State: StateChunking, Backend: name})
	chunks := Split(text, backend.MaxChars())
	o.logger.Debug("Text chunked", "engine", name, "chunks", len(chunks), "max_chars", backend.MaxChars(), "chars", len(text))

	scratch, err := os.MkdirTemp(o.tempDir, "readaloud-*")
	if err != nil {
		return Result{}, o.fail(name, &AssemblyError{Op: "prepare", Err: err})
	}
	defer os.RemoveAll(scratch) //nolint:errcheck

	segments, err := o.synthesize(ctx, backend, chunks, scratch)
	if err != nil {
		return Result{}, o.fail(name, err)
	}

	o.emit(Event{State: StateAssembling, Backend: name, Total: len(chunks)})
	out, err := o.assembler.Combine(ctx, segments, dest, preferred)
	if err != nil {
		var ae *AssemblyError
		if !errors.As(err, &ae) {
			err = &AssemblyError{Op: "combine", Path: dest, Err: err}
		}
		return Result{}, o.fail(name, err)
	}

	res := Result{
		Path:     out.Path,
		Size:     out.Size,
		Format:   out.Format,
		Backend:  name,
		Chunks:   len(chunks),
		Duration: out.Duration,
	}
	o.logger.Info("Conversion complete",
		"engine", name,
		"path", res.Path,
		"format", res.Format,
		"size", humanize.Bytes(uint64(res.Size)), //nolint:gosec
		"chunks", res.Chunks,
		"elapsed", time.Since(start).Round(time.Millisecond))
	o.emit(Event{State: StateDone, Backend: name, Total: len(chunks), Result: &res})

	return res, nil
}

// synthesize renders every chunk into dir and returns the segments in
// chunk order. The first failure stops chunks that have not started yet.
func (o *Orchestrator) synthesize(ctx context.Context, b Backend, chunks []Chunk, dir string) ([]audio.Segment, error) {
	segments := make([]audio.Segment, len(chunks))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.workers)

	for _, c := range chunks {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return &SynthesisError{ChunkIndex: c.Index, Backend: b.Name(), Err: err}
			}
			o.emit(Event{State: StateSynthesizing, Backend: b.Name(), Chunk: c.Index, Total: len(chunks)})

			seg, err := o.synthesizeChunk(gctx, b, c, dir)
			if err != nil {
				o.logger.Error("Chunk synthesis failed", "engine", b.Name(), "chunk", c.Index, "error", err)
				return &SynthesisError{ChunkIndex: c.Index, Backend: b.Name(), Err: err}
			}
			segments[c.Index] = seg
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return segments, nil
}

func (o *Orchestrator) synthesizeChunk(ctx context.Context, b Backend, c Chunk, dir string) (audio.Segment, error) {
	seg := audio.Segment{ChunkIndex: c.Index, Format: b.Format()}

	var key string
	if o.cache != nil {
		key = cacheKey(b, c.Content)
		if data, ok := o.cache.Get(key); ok {
			o.logger.Debug("Chunk served from cache", "chunk", c.Index)
			seg.Data = data
			return seg, nil
		}
	}

	path := filepath.Join(dir, fmt.Sprintf("chunk-%05d%s", c.Index, b.Format().Ext()))
	if err := b.Synthesize(ctx, c.Content, path); err != nil {
		return seg, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return seg, fmt.Errorf("unable to read synthesized audio: %w", err)
	}
	if len(data) == 0 {
		return seg, ErrEmptyAudio
	}
	_ = os.Remove(path)
	seg.Data = data

	if o.cache != nil {
		if err := o.cache.Put(key, data); err != nil {
			o.logger.Debug("Unable to cache chunk audio", "chunk", c.Index, "error", err)
		}
	}
	return seg, nil
}

func (o *Orchestrator) emit(e Event) {
	if o.observer != nil {
		o.observer(e)
	}
}

func (o *Orchestrator) fail(backend string, err error) error {
	o.emit(Event{State: StateFailed, Backend: backend, Err: err})
	return err
}

func cacheKey(b Backend, text string) string {
	var voice string
	if v, ok := b.(Voiced); ok {
		voice = v.Voice()
	}
	return cache.Key(b.Name(), voice, text)
}
