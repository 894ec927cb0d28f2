package engines

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/readaloud/readaloud/internal/audio"
	"github.com/readaloud/readaloud/internal/tts"
	"github.com/sashabaranov/go-openai"
	"golang.org/x/time/rate"
)

// ErrNoAPIKey is returned when the OpenAI engine has no credentials.
var ErrNoAPIKey = errors.New("OPENAI_API_KEY is not set")

// OpenAIEngine uses the OpenAI speech endpoint, requesting WAV output.
type OpenAIEngine struct {
	base
	apiKey      string
	model       string
	voice       string
	client      *openai.Client
	rateLimiter *rate.Limiter
}

// NewOpenAIEngine returns the OpenAI engine. A non-empty BaseURL points the
// client at a compatible server.
func NewOpenAIEngine(cfg tts.OpenAIConfig, opts ...Option) *OpenAIEngine {
	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}
	return &OpenAIEngine{
		base:        newBase(true, opts),
		apiKey:      cfg.APIKey,
		model:       cfg.Model,
		voice:       cfg.Voice,
		client:      openai.NewClientWithConfig(clientConfig),
		rateLimiter: newLimiter(cfg.RequestsPerMinute),
	}
}

func (e *OpenAIEngine) Name() string         { return tts.EngineOpenAI }
func (e *OpenAIEngine) MaxChars() int        { return 4096 }
func (e *OpenAIEngine) Format() audio.Format { return audio.FormatWAV }
func (e *OpenAIEngine) Voice() string        { return e.model + "/" + e.voice }

// Prerequisite reports whether an API key is configured.
func (e *OpenAIEngine) Prerequisite() error {
	if e.apiKey == "" {
		return ErrNoAPIKey
	}
	return nil
}

func (e *OpenAIEngine) Initialize(ctx context.Context) bool {
	return e.initialize(ctx, e)
}

// Synthesize writes a WAV file.
func (e *OpenAIEngine) Synthesize(ctx context.Context, text, dest string) error {
	if err := waitLimiter(ctx, e.rateLimiter); err != nil {
		return err
	}

	resp, err := e.client.CreateSpeech(ctx, openai.CreateSpeechRequest{
		Model:          openai.SpeechModel(e.model),
		Input:          text,
		Voice:          openai.SpeechVoice(e.voice),
		ResponseFormat: openai.SpeechResponseFormatWav,
	})
	if err != nil {
		return fmt.Errorf("openai speech request failed: %w", err)
	}
	defer resp.Close() //nolint:errcheck

	f, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("unable to create audio file: %w", err)
	}
	_, err = io.Copy(f, resp)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(dest)
		return fmt.Errorf("unable to write openai audio: %w", err)
	}
	return checkOutput(dest)
}

var _ tts.Backend = (*OpenAIEngine)(nil)
