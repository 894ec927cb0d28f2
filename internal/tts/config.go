package tts

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/readaloud/readaloud/internal/audio"
	"github.com/sahilm/fuzzy"
)

var edgeRatePattern = regexp.MustCompile(`^[+-]\d+%$`)

// Config holds every setting of the conversion pipeline.
type Config struct {
	// Engines lists backend names in priority order.
	Engines []string
	// Format is the preferred output encoding.
	Format audio.Format
	// Workers is the number of chunks synthesized concurrently.
	Workers int

	Probe  ProbeConfig
	System SystemConfig
	GTTS   GTTSConfig
	Edge   EdgeConfig
	OpenAI OpenAIConfig
	Piper  PiperConfig
	Cache  CacheConfig
}

// ProbeConfig controls the connectivity check of network backends.
type ProbeConfig struct {
	URL     string
	Timeout time.Duration
}

// SystemConfig configures the operating system voice.
type SystemConfig struct {
	Voice string
	// Rate in words per minute; 0 keeps the voice default.
	Rate int
}

// GTTSConfig configures gtts-cli.
type GTTSConfig struct {
	Language          string
	Slow              bool
	RequestsPerMinute int
}

// EdgeConfig configures the Microsoft Edge read-aloud service.
type EdgeConfig struct {
	Voice string
	// Rate adjusts the speaking rate, e.g. "+10%" or "-20%". Empty keeps
	// the voice default.
	Rate              string
	RequestsPerMinute int
}

// OpenAIConfig configures the OpenAI speech endpoint. APIKey comes from the
// environment, never from the config file.
type OpenAIConfig struct {
	APIKey            string
	BaseURL           string
	Model             string
	Voice             string
	RequestsPerMinute int
}

// PiperConfig configures the piper neural voice.
type PiperConfig struct {
	Binary  string
	Model   string
	Speaker string
}

// CacheConfig configures the chunk audio cache.
type CacheConfig struct {
	Enabled   bool
	Dir       string
	MaxSizeMB int
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() Config {
	return Config{
		Engines: append([]string(nil), KnownEngines...),
		Format:  audio.FormatMP3,
		Workers: 1,
		Probe: ProbeConfig{
			URL:     "https://www.google.com",
			Timeout: 5 * time.Second,
		},
		GTTS: GTTSConfig{
			Language:          "en",
			RequestsPerMinute: 50,
		},
		Edge: EdgeConfig{
			Voice:             "en-US-AriaNeural",
			RequestsPerMinute: 50,
		},
		OpenAI: OpenAIConfig{
			Model:             "tts-1",
			Voice:             "alloy",
			RequestsPerMinute: 50,
		},
		Piper: PiperConfig{
			Binary: "piper",
		},
		Cache: CacheConfig{
			Enabled:   true,
			MaxSizeMB: 100,
		},
	}
}

// Validate checks the configuration and returns every problem found.
func (c *Config) Validate() error {
	var errs []error

	if len(c.Engines) == 0 {
		errs = append(errs, errors.New("at least one engine must be listed"))
	}
	seen := make(map[string]bool)
	for _, name := range c.Engines {
		if err := ValidateEngineName(name); err != nil {
			errs = append(errs, err)
			continue
		}
		if seen[name] {
			errs = append(errs, fmt.Errorf("engine %q listed twice", name))
		}
		seen[name] = true
	}

	if _, err := audio.ParseFormat(string(c.Format)); err != nil {
		errs = append(errs, err)
	}
	if c.Workers < 1 || c.Workers > 32 {
		errs = append(errs, fmt.Errorf("workers must be between 1 and 32, got %d", c.Workers))
	}
	if c.Probe.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("probe timeout must be positive, got %s", c.Probe.Timeout))
	}
	if u, err := url.Parse(c.Probe.URL); err != nil || u.Host == "" {
		errs = append(errs, fmt.Errorf("invalid probe url %q", c.Probe.URL))
	}
	if c.System.Rate < 0 {
		errs = append(errs, fmt.Errorf("system rate must not be negative, got %d", c.System.Rate))
	}
	if l := len(c.GTTS.Language); l < 2 || l > 5 {
		errs = append(errs, fmt.Errorf("gtts language code must be 2-5 characters, got %q", c.GTTS.Language))
	}
	if c.Edge.Rate != "" && !edgeRatePattern.MatchString(c.Edge.Rate) {
		errs = append(errs, fmt.Errorf("edge rate must look like +10%% or -20%%, got %q", c.Edge.Rate))
	}
	for name, rpm := range map[string]int{
		EngineGTTS:   c.GTTS.RequestsPerMinute,
		EngineEdge:   c.Edge.RequestsPerMinute,
		EngineOpenAI: c.OpenAI.RequestsPerMinute,
	} {
		if rpm < 1 {
			errs = append(errs, fmt.Errorf("%s requests_per_minute must be positive, got %d", name, rpm))
		}
	}
	if c.Cache.MaxSizeMB < 1 || c.Cache.MaxSizeMB > 10000 {
		errs = append(errs, fmt.Errorf("cache max_size must be between 1 and 10000 MB, got %d", c.Cache.MaxSizeMB))
	}

	return errors.Join(errs...)
}

// ValidateEngineName checks name against the known engines and suggests
// the closest match for typos.
func ValidateEngineName(name string) error {
	for _, known := range KnownEngines {
		if name == known {
			return nil
		}
	}
	msg := fmt.Sprintf("%s: %q (known: %s)", ErrInvalidEngine, name, strings.Join(KnownEngines, ", "))
	if matches := fuzzy.Find(name, KnownEngines); len(matches) > 0 {
		msg += fmt.Sprintf("; did you mean %q?", matches[0].Str)
	}
	return &configError{msg: msg}
}

type configError struct{ msg string }

func (e *configError) Error() string        { return e.msg }
func (e *configError) Is(target error) bool { return target == ErrInvalidEngine }
