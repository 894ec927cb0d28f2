package tts

import (
	"context"
	"errors"
	"os"
	"sync"
	"sync/atomic"

	"github.com/readaloud/readaloud/internal/audio"
)

var pcmFormat = audio.PCMFormat{SampleRate: 16000, Channels: 1, BitDepth: 16}

// fakeBackend writes a short tone per chunk.
type fakeBackend struct {
	name     string
	maxChars int
	ready    bool
	prereq   error
	failOn   int // chunk number to fail on, -1 for never

	inits atomic.Int32

	mu    sync.Mutex
	texts []string
}

func newFakeBackend(name string, maxChars int) *fakeBackend {
	return &fakeBackend{name: name, maxChars: maxChars, ready: true, failOn: -1}
}

func (b *fakeBackend) Name() string         { return b.name }
func (b *fakeBackend) MaxChars() int        { return b.maxChars }
func (b *fakeBackend) Format() audio.Format { return audio.FormatWAV }
func (b *fakeBackend) Prerequisite() error  { return b.prereq }

func (b *fakeBackend) Initialize(context.Context) bool {
	b.inits.Add(1)
	return b.prereq == nil && b.ready
}

func (b *fakeBackend) Synthesize(_ context.Context, text, dest string) error {
	b.mu.Lock()
	n := len(b.texts)
	b.texts = append(b.texts, text)
	b.mu.Unlock()

	if n == b.failOn {
		return errors.New("provider rejected request")
	}
	data := make([]byte, 320*pcmFormat.FrameSize())
	return os.WriteFile(dest, audio.EncodeWAV(audio.PCM{Format: pcmFormat, Data: data}), 0o600)
}

func (b *fakeBackend) calls() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.texts...)
}

// fakeEncoder prefixes the WAV payload so tests can tell it ran.
type fakeEncoder struct{}

func (fakeEncoder) Format() audio.Format { return audio.FormatMP3 }
func (fakeEncoder) Available() error     { return nil }

func (fakeEncoder) Encode(_ context.Context, src, dst string) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	return os.WriteFile(dst, append([]byte("MP3:"), data...), 0o600)
}

type mapCache struct {
	mu   sync.Mutex
	data map[string][]byte
	hits int
}

func newMapCache() *mapCache { return &mapCache{data: make(map[string][]byte)} }

func (c *mapCache) Get(key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.data[key]
	if ok {
		c.hits++
	}
	return v, ok
}

func (c *mapCache) Put(key string, v []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = v
	return nil
}

type countingSelector struct {
	backend Backend
	calls   int
}

func (s *countingSelector) Active(context.Context) (Backend, error) {
	s.calls++
	return s.backend, nil
}
