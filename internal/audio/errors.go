package audio

import (
	"errors"
	"fmt"
)

var (
	// ErrNoSegments is returned when there is nothing to combine.
	ErrNoSegments = errors.New("no audio segments to combine")

	// ErrDecoderUnavailable is returned when a segment's format cannot be
	// decoded, so segments cannot be concatenated.
	ErrDecoderUnavailable = errors.New("no decoder available for segment format")

	// ErrEncoderUnavailable is returned when the compressed encoder is missing.
	ErrEncoderUnavailable = errors.New("compressed audio encoder unavailable")

	// ErrFFmpegNotFound indicates the ffmpeg binary is not on PATH.
	ErrFFmpegNotFound = errors.New("ffmpeg not found in PATH")

	// ErrPlaybackUnavailable is returned by builds without an audio device backend.
	ErrPlaybackUnavailable = errors.New("audio playback not available in this build")
)

// AssemblyError reports a failure to combine or export audio.
type AssemblyError struct {
	Op   string
	Path string
	Err  error
}

func (e *AssemblyError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("audio assembly failed: %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("audio assembly failed: %s %s: %v", e.Op, e.Path, e.Err)
}

// Unwrap returns the underlying error.
func (e *AssemblyError) Unwrap() error { return e.Err }
