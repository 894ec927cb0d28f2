package audio

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	ffmpeg "github.com/u2takey/ffmpeg-go"
)

// Encoder exports an uncompressed WAV file into another container.
type Encoder interface {
	// Format is the container Encode produces.
	Format() Format
	// Available reports whether the encoding toolchain is installed.
	Available() error
	// Encode reads the WAV file at src and writes the encoded file to dst.
	Encode(ctx context.Context, src, dst string) error
}

// FFmpegEncoder encodes MP3 with ffmpeg and libmp3lame.
type FFmpegEncoder struct {
	Bitrate string
}

// NewFFmpegEncoder returns an MP3 encoder at 192 kbit/s.
func NewFFmpegEncoder() *FFmpegEncoder {
	return &FFmpegEncoder{Bitrate: "192k"}
}

// Format implements Encoder.
func (e *FFmpegEncoder) Format() Format { return FormatMP3 }

// Available implements Encoder.
func (e *FFmpegEncoder) Available() error {
	if _, err := exec.LookPath("ffmpeg"); err != nil {
		return fmt.Errorf("%w: %v", ErrFFmpegNotFound, err)
	}
	return nil
}

// Command returns the ffmpeg invocation encoding src into dst, bound to
// ctx: cancelling ctx interrupts ffmpeg and kills it shortly after.
func (e *FFmpegEncoder) Command(ctx context.Context, src, dst string) *exec.Cmd {
	compiled := ffmpeg.Input(src).
		Output(dst, ffmpeg.KwArgs{
			"c:a": "libmp3lame",
			"b:a": e.Bitrate,
		}).
		OverWriteOutput().
		Silent(true).
		Compile()

	cmd := exec.CommandContext(ctx, compiled.Args[0], compiled.Args[1:]...)
	cmd.Cancel = func() error { return cmd.Process.Signal(os.Interrupt) }
	cmd.WaitDelay = 500 * time.Millisecond
	return cmd
}

// Encode implements Encoder.
func (e *FFmpegEncoder) Encode(ctx context.Context, src, dst string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var stderr bytes.Buffer
	cmd := e.Command(ctx, src, dst)
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		_ = os.Remove(dst)
		if ctxErr := ctx.Err(); ctxErr != nil {
			return fmt.Errorf("ffmpeg cancelled: %w", ctxErr)
		}
		return fmt.Errorf("ffmpeg failed: %w, stderr: %s", err, lastLine(stderr.String()))
	}

	st, err := os.Stat(dst)
	if err != nil {
		return fmt.Errorf("ffmpeg produced no output: %w", err)
	}
	if st.Size() == 0 {
		_ = os.Remove(dst)
		return fmt.Errorf("ffmpeg produced an empty file")
	}
	return nil
}

func lastLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.LastIndexByte(s, '\n'); i >= 0 {
		return s[i+1:]
	}
	return s
}
