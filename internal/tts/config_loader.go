package tts

import (
	"fmt"

	"github.com/readaloud/readaloud/internal/audio"
	"github.com/spf13/viper"
)

// SetDefaults registers the pipeline defaults with v.
func SetDefaults(v *viper.Viper) {
	d := DefaultConfig()

	v.SetDefault("tts.engines", d.Engines)
	v.SetDefault("tts.format", string(d.Format))
	v.SetDefault("tts.workers", d.Workers)

	v.SetDefault("tts.probe.url", d.Probe.URL)
	v.SetDefault("tts.probe.timeout", d.Probe.Timeout)

	v.SetDefault("tts.system.voice", d.System.Voice)
	v.SetDefault("tts.system.rate", d.System.Rate)

	v.SetDefault("tts.gtts.language", d.GTTS.Language)
	v.SetDefault("tts.gtts.slow", d.GTTS.Slow)
	v.SetDefault("tts.gtts.requests_per_minute", d.GTTS.RequestsPerMinute)

	v.SetDefault("tts.edge.voice", d.Edge.Voice)
	v.SetDefault("tts.edge.rate", d.Edge.Rate)
	v.SetDefault("tts.edge.requests_per_minute", d.Edge.RequestsPerMinute)

	v.SetDefault("tts.openai.base_url", d.OpenAI.BaseURL)
	v.SetDefault("tts.openai.model", d.OpenAI.Model)
	v.SetDefault("tts.openai.voice", d.OpenAI.Voice)
	v.SetDefault("tts.openai.requests_per_minute", d.OpenAI.RequestsPerMinute)

	v.SetDefault("tts.piper.binary", d.Piper.Binary)
	v.SetDefault("tts.piper.model", d.Piper.Model)
	v.SetDefault("tts.piper.speaker", d.Piper.Speaker)

	v.SetDefault("tts.cache.enabled", d.Cache.Enabled)
	v.SetDefault("tts.cache.dir", d.Cache.Dir)
	v.SetDefault("tts.cache.max_size", d.Cache.MaxSizeMB)
}

// LoadConfigFromViper builds a validated Config from v.
func LoadConfigFromViper(v *viper.Viper) (Config, error) {
	cfg := DefaultConfig()

	if v.IsSet("tts.engines") {
		cfg.Engines = v.GetStringSlice("tts.engines")
	}
	if v.IsSet("tts.format") {
		f, err := audio.ParseFormat(v.GetString("tts.format"))
		if err != nil {
			return cfg, fmt.Errorf("invalid TTS configuration: %w", err)
		}
		cfg.Format = f
	}
	if v.IsSet("tts.workers") {
		cfg.Workers = v.GetInt("tts.workers")
	}

	if v.IsSet("tts.probe.url") {
		cfg.Probe.URL = v.GetString("tts.probe.url")
	}
	if v.IsSet("tts.probe.timeout") {
		cfg.Probe.Timeout = v.GetDuration("tts.probe.timeout")
	}

	cfg.System.Voice = v.GetString("tts.system.voice")
	cfg.System.Rate = v.GetInt("tts.system.rate")

	if v.IsSet("tts.gtts.language") {
		cfg.GTTS.Language = v.GetString("tts.gtts.language")
	}
	cfg.GTTS.Slow = v.GetBool("tts.gtts.slow")
	if v.IsSet("tts.gtts.requests_per_minute") {
		cfg.GTTS.RequestsPerMinute = v.GetInt("tts.gtts.requests_per_minute")
	}

	if v.IsSet("tts.edge.voice") {
		cfg.Edge.Voice = v.GetString("tts.edge.voice")
	}
	cfg.Edge.Rate = v.GetString("tts.edge.rate")
	if v.IsSet("tts.edge.requests_per_minute") {
		cfg.Edge.RequestsPerMinute = v.GetInt("tts.edge.requests_per_minute")
	}

	cfg.OpenAI.BaseURL = v.GetString("tts.openai.base_url")
	if v.IsSet("tts.openai.model") {
		cfg.OpenAI.Model = v.GetString("tts.openai.model")
	}
	if v.IsSet("tts.openai.voice") {
		cfg.OpenAI.Voice = v.GetString("tts.openai.voice")
	}
	if v.IsSet("tts.openai.requests_per_minute") {
		cfg.OpenAI.RequestsPerMinute = v.GetInt("tts.openai.requests_per_minute")
	}

	if v.IsSet("tts.piper.binary") {
		cfg.Piper.Binary = v.GetString("tts.piper.binary")
	}
	cfg.Piper.Model = v.GetString("tts.piper.model")
	cfg.Piper.Speaker = v.GetString("tts.piper.speaker")

	if v.IsSet("tts.cache.enabled") {
		cfg.Cache.Enabled = v.GetBool("tts.cache.enabled")
	}
	cfg.Cache.Dir = v.GetString("tts.cache.dir")
	if v.IsSet("tts.cache.max_size") {
		cfg.Cache.MaxSizeMB = v.GetInt("tts.cache.max_size")
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid TTS configuration: %w", err)
	}
	return cfg, nil
}
