package main

import (
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	gap "github.com/muesli/go-app-paths"
)

func getLogFilePath() (string, error) {
	dir, err := gap.NewScope(gap.User, "readaloud").CacheDir()
	if err != nil {
		return "", err //nolint:wrapcheck
	}
	return filepath.Join(dir, "readaloud.log"), nil
}

// setupLog sends the default logger to the log file. Nothing is written to
// the terminal unless debug output is enabled later.
func setupLog() (func() error, error) {
	log.SetOutput(io.Discard)

	logFile, err := getLogFilePath()
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(logFile), 0o755); err != nil { //nolint:mnd
		return nil, err //nolint:wrapcheck
	}
	f, err := os.OpenFile(logFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644) //nolint:mnd,gosec
	if err != nil {
		return nil, err //nolint:wrapcheck
	}

	log.SetDefault(log.NewWithOptions(f, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
		Level:           log.InfoLevel,
	}))
	logOutput = f
	return f.Close, nil
}

var logOutput io.Writer = io.Discard

// enableDebugLog lowers the level and mirrors log lines to stderr.
func enableDebugLog() {
	log.SetOutput(io.MultiWriter(logOutput, os.Stderr))
	log.SetLevel(log.DebugLevel)
}
