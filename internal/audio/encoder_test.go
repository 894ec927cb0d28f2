package audio

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"slices"
	"testing"
	"time"
)

func TestFFmpegEncoder_Command(t *testing.T) {
	cmd := NewFFmpegEncoder().Command(context.Background(), "in.wav", "out.mp3")

	args := cmd.Args[1:]
	for _, want := range []string{"in.wav", "out.mp3", "-y", "libmp3lame", "192k"} {
		if !slices.Contains(args, want) {
			t.Errorf("args %q missing %q", args, want)
		}
	}
	if args[len(args)-1] != "out.mp3" && args[len(args)-2] != "out.mp3" {
		t.Errorf("output is not last: %q", args)
	}
}

func TestFFmpegEncoder_Cancel(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell stubs need a POSIX shell")
	}
	dir := t.TempDir()
	if sleep, err := exec.LookPath("sleep"); err == nil {
		if err := os.Symlink(sleep, filepath.Join(dir, "sleep")); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.WriteFile(filepath.Join(dir, "ffmpeg"), []byte("#!/bin/sh\nexec sleep 10\n"), 0o755); err != nil { //nolint:gosec
		t.Fatal(err)
	}
	t.Setenv("PATH", dir)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	dst := filepath.Join(t.TempDir(), "out.mp3")
	start := time.Now()
	err := NewFFmpegEncoder().Encode(ctx, filepath.Join(dir, "in.wav"), dst)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("Encode() = %v, want deadline exceeded", err)
	}
	if time.Since(start) > 5*time.Second {
		t.Error("ffmpeg was not stopped when the context ended")
	}
	if _, err := os.Stat(dst); !os.IsNotExist(err) {
		t.Error("partial output left behind")
	}
}
