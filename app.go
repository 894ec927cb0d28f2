package main

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/charmbracelet/log"
	"github.com/readaloud/readaloud/internal/audio"
	"github.com/readaloud/readaloud/internal/cache"
	"github.com/readaloud/readaloud/internal/tts"
	"github.com/readaloud/readaloud/internal/tts/engines"
	"github.com/readaloud/readaloud/ui"
	"github.com/readaloud/readaloud/utils"
	"github.com/spf13/viper"
)

// app wires the conversion pipeline from the loaded configuration.
type app struct {
	cfg      tts.Config
	env      ui.Config
	registry *tts.Registry
	cache    *cache.Manager
	logger   *log.Logger
}

// newApp builds the pipeline. A non-empty engine replaces the configured
// priority list with that single backend.
func newApp(engine string) (*app, error) {
	cfg, err := tts.LoadConfigFromViper(viper.GetViper())
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	if engine != "" {
		if err := tts.ValidateEngineName(engine); err != nil {
			return nil, err //nolint:wrapcheck
		}
		cfg.Engines = []string{engine}
	}

	envCfg, err := env.ParseAs[ui.Config]()
	if err != nil {
		return nil, fmt.Errorf("error parsing environment: %w", err)
	}
	cfg.OpenAI.APIKey = envCfg.OpenAIAPIKey
	cfg.Piper.Model = utils.ExpandPath(cfg.Piper.Model)
	cfg.Piper.Binary = utils.ExpandPath(cfg.Piper.Binary)

	logger := log.Default()
	backends, err := engines.Build(cfg, logger)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}

	a := &app{
		cfg:      cfg,
		env:      envCfg,
		registry: tts.NewRegistry(backends, tts.WithRegistryLogger(logger)),
		logger:   logger,
	}

	if cfg.Cache.Enabled {
		cc := cache.DefaultConfig()
		cc.DiskCapacity = int64(cfg.Cache.MaxSizeMB) * 1024 * 1024
		if cfg.Cache.Dir != "" {
			cc.Dir = utils.ExpandPath(cfg.Cache.Dir)
		}
		m, err := cache.NewManager(cc, logger)
		if err != nil {
			// Conversions work without a cache.
			logger.Warn("Audio cache disabled", "error", err)
		} else {
			a.cache = m
		}
	}
	return a, nil
}

// orchestrator returns a converter reporting to observer, which may be nil.
func (a *app) orchestrator(observer tts.Observer) *tts.Orchestrator {
	opts := []tts.OrchestratorOption{
		tts.WithWorkers(a.cfg.Workers),
		tts.WithLogger(a.logger),
	}
	if a.cache != nil {
		opts = append(opts, tts.WithCache(a.cache))
	}
	if observer != nil {
		opts = append(opts, tts.WithObserver(observer))
	}
	return tts.NewOrchestrator(a.registry, audio.NewAssembler(audio.WithLogger(a.logger)), opts...)
}

func (a *app) Close() error {
	if a.cache == nil {
		return nil
	}
	return a.cache.Close() //nolint:wrapcheck
}
