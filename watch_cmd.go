package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
	"github.com/google/uuid"
	"github.com/readaloud/readaloud/internal/audio"
	"github.com/readaloud/readaloud/internal/extract"
	"github.com/readaloud/readaloud/internal/tts"
	"github.com/readaloud/readaloud/utils"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// settleDelay is how long a file must stay unchanged before it is read.
const settleDelay = 500 * time.Millisecond

var watchCmd = &cobra.Command{
	Use:   "watch DIR",
	Short: "Convert documents as they appear in a directory",
	Long: paragraph(fmt.Sprintf("\n%s DIR for new or changed documents and convert each one. "+
		"Output files get a unique name in output.dir. Editing the config file re-runs engine selection.",
		keyword("Watch"))),
	Example: paragraph("readaloud watch ~/inbox"),
	Args:    cobra.ExactArgs(1),
	RunE:    runWatch,
}

func runWatch(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	dir := utils.ExpandPath(args[0])
	if st, err := os.Stat(dir); err != nil || !st.IsDir() {
		return fmt.Errorf("%s is not a directory", dir)
	}

	a, err := newApp("")
	if err != nil {
		return err
	}
	defer a.Close() //nolint:errcheck

	w := &watcher{
		orchestrator: a.orchestrator(nil),
		outDir:       utils.ExpandPath(viper.GetString("output.dir")),
		format:       a.cfg.Format,
		timers:       make(map[string]*time.Timer),
		queue:        make(chan string, 64), //nolint:mnd
	}

	viper.OnConfigChange(func(e fsnotify.Event) {
		log.Info("Configuration changed, re-selecting engine", "file", e.Name)
		if _, err := a.registry.Reselect(ctx); err != nil {
			log.Error("Engine re-selection failed", "error", err)
		}
	})
	viper.WatchConfig()

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("unable to watch %s: %w", dir, err)
	}
	defer fsw.Close() //nolint:errcheck
	if err := fsw.Add(dir); err != nil {
		return fmt.Errorf("unable to watch %s: %w", dir, err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Watching %s, writing to %s\n", keyword(dir), w.outDir)
	go w.convertLoop(ctx, cmd)

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if event.Has(fsnotify.Create) || event.Has(fsnotify.Write) {
				w.schedule(event.Name)
			}
		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			log.Error("Watch error", "error", err)
		}
	}
}

type watcher struct {
	orchestrator *tts.Orchestrator
	outDir       string
	format       audio.Format

	mu     sync.Mutex
	timers map[string]*time.Timer
	queue  chan string
}

// schedule queues path once it has stopped changing.
func (w *watcher) schedule(path string) {
	if !extract.Supported(path) || strings.HasPrefix(filepath.Base(path), ".") {
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if t, ok := w.timers[path]; ok {
		t.Reset(settleDelay)
		return
	}
	w.timers[path] = time.AfterFunc(settleDelay, func() {
		w.mu.Lock()
		delete(w.timers, path)
		w.mu.Unlock()
		w.queue <- path
	})
}

// convertLoop converts queued documents one at a time, so every file is
// served by the same active engine.
func (w *watcher) convertLoop(ctx context.Context, cmd *cobra.Command) {
	for {
		select {
		case <-ctx.Done():
			return
		case path := <-w.queue:
			w.convert(ctx, cmd, path)
		}
	}
}

func (w *watcher) convert(ctx context.Context, cmd *cobra.Command, path string) {
	text, err := extract.Text(path)
	if err != nil {
		log.Warn("Skipping document", "path", path, "error", err)
		return
	}

	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	dest := filepath.Join(w.outDir, fmt.Sprintf("%s-%s%s", base, uuid.NewString()[:8], w.format.Ext()))

	res, err := w.orchestrator.Convert(ctx, text, dest, w.format)
	if err != nil {
		var ee *tts.EmptyInputError
		if errors.As(err, &ee) {
			log.Info("Skipping empty document", "path", path)
			return
		}
		log.Error("Conversion failed", "path", path, "code", tts.Code(err), "error", err)
		fmt.Fprintf(cmd.ErrOrStderr(), "%s %s: %v\n", subtle("failed"), filepath.Base(path), err)
		return
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s %s -> %s\n", keyword("converted"), filepath.Base(path), res.Path)
}
