package tts

import (
	"context"

	"github.com/readaloud/readaloud/internal/audio"
)

// Backend is a speech synthesis provider. Implementations live in the
// engines package.
type Backend interface {
	// Name is the stable identifier used in configuration and diagnostics.
	Name() string

	// MaxChars is the largest chunk the provider accepts in one request.
	MaxChars() int

	// Format is the container Synthesize writes.
	Format() audio.Format

	// Prerequisite reports whether the host provides what the backend
	// needs (binaries, model files, credentials). It must be cheap and
	// must not touch the network.
	Prerequisite() error

	// Initialize checks the prerequisite and runs a trial synthesis. It
	// returns false on any failure and never panics.
	Initialize(ctx context.Context) bool

	// Synthesize writes speech for text to dest. It fails if the provider
	// errors or the output is missing or empty.
	Synthesize(ctx context.Context, text, dest string) error
}

// Voiced is implemented by backends whose output depends on a configured
// voice, so cached audio is keyed per voice.
type Voiced interface {
	Voice() string
}

// Selector hands out the process-wide active backend.
type Selector interface {
	Active(ctx context.Context) (Backend, error)
}

// Assembler combines per-chunk audio into one file.
type Assembler interface {
	Combine(ctx context.Context, segments []audio.Segment, dest string, preferred audio.Format) (audio.Result, error)
}

// AudioCache stores synthesized chunk audio between conversions.
type AudioCache interface {
	Get(key string) ([]byte, bool)
	Put(key string, audio []byte) error
}
