package tts

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/readaloud/readaloud/internal/audio"
	"github.com/spf13/viper"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"no engines", func(c *Config) { c.Engines = nil }, "at least one engine"},
		{"duplicate engine", func(c *Config) { c.Engines = []string{"gtts", "gtts"} }, "listed twice"},
		{"bad format", func(c *Config) { c.Format = "ogg" }, "ogg"},
		{"zero workers", func(c *Config) { c.Workers = 0 }, "workers"},
		{"bad probe url", func(c *Config) { c.Probe.URL = "not a url" }, "probe url"},
		{"zero probe timeout", func(c *Config) { c.Probe.Timeout = 0 }, "probe timeout"},
		{"language", func(c *Config) { c.GTTS.Language = "x" }, "language code"},
		{"edge rate", func(c *Config) { c.Edge.Rate = "fast" }, "edge rate"},
		{"rpm", func(c *Config) { c.Edge.RequestsPerMinute = 0 }, "edge requests_per_minute"},
		{"cache size", func(c *Config) { c.Cache.MaxSizeMB = 0 }, "cache max_size"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() = %v, want error containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestValidateEngineName_Suggests(t *testing.T) {
	err := ValidateEngineName("pipr")
	if !errors.Is(err, ErrInvalidEngine) {
		t.Fatalf("expected ErrInvalidEngine, got %v", err)
	}
	if !strings.Contains(err.Error(), `did you mean "piper"`) {
		t.Errorf("no suggestion in %q", err.Error())
	}
	if err := ValidateEngineName("edge"); err != nil {
		t.Errorf("known engine rejected: %v", err)
	}
}

func TestLoadConfigFromViper(t *testing.T) {
	v := viper.New()
	SetDefaults(v)
	v.Set("tts.engines", []string{"piper", "system"})
	v.Set("tts.format", "wav")
	v.Set("tts.workers", 3)
	v.Set("tts.probe.timeout", "2s")
	v.Set("tts.piper.model", "/models/en.onnx")
	v.Set("tts.cache.enabled", false)
	v.Set("tts.edge.rate", "+15%")

	cfg, err := LoadConfigFromViper(v)
	if err != nil {
		t.Fatalf("LoadConfigFromViper() error = %v", err)
	}
	if len(cfg.Engines) != 2 || cfg.Engines[0] != "piper" {
		t.Errorf("Engines = %v", cfg.Engines)
	}
	if cfg.Format != audio.FormatWAV || cfg.Workers != 3 || cfg.Probe.Timeout != 2*time.Second {
		t.Errorf("unexpected config: %+v", cfg)
	}
	if cfg.Piper.Model != "/models/en.onnx" || cfg.Cache.Enabled {
		t.Errorf("unexpected piper/cache config: %+v %+v", cfg.Piper, cfg.Cache)
	}
	if cfg.Edge.Voice != "en-US-AriaNeural" || cfg.Edge.Rate != "+15%" {
		t.Errorf("unexpected edge config: %+v", cfg.Edge)
	}
}

func TestLoadConfigFromViper_Invalid(t *testing.T) {
	v := viper.New()
	SetDefaults(v)
	v.Set("tts.engines", []string{"festival"})
	if _, err := LoadConfigFromViper(v); !errors.Is(err, ErrInvalidEngine) {
		t.Errorf("expected ErrInvalidEngine, got %v", err)
	}
}
