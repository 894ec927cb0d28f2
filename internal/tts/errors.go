package tts

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/readaloud/readaloud/internal/audio"
)

var (
	// ErrEmptyInput indicates there is no text to synthesize.
	ErrEmptyInput = errors.New("no text to synthesize")

	// ErrEngineUnavailable indicates no backend passed initialization.
	ErrEngineUnavailable = errors.New("no TTS engine could be initialized")

	// ErrSynthesisFailed indicates a chunk could not be synthesized.
	ErrSynthesisFailed = errors.New("text synthesis failed")

	// ErrAssemblyFailed indicates the chunk audio could not be combined.
	ErrAssemblyFailed = errors.New("audio assembly failed")

	// ErrInvalidEngine indicates an unknown engine name.
	ErrInvalidEngine = errors.New("invalid TTS engine specified")

	// ErrEmptyAudio indicates a backend produced no audio bytes.
	ErrEmptyAudio = errors.New("engine produced no audio output")
)

// ErrorCode is the stable kind reported to users.
type ErrorCode string

const (
	ErrorCodeEmptyInput        ErrorCode = "EMPTY_INPUT"
	ErrorCodeEngineUnavailable ErrorCode = "ENGINE_UNAVAILABLE"
	ErrorCodeSynthesisFailed   ErrorCode = "SYNTHESIS_FAILED"
	ErrorCodeAssemblyFailed    ErrorCode = "ASSEMBLY_FAILED"
	ErrorCodeCanceled          ErrorCode = "CANCELED"
	ErrorCodeUnknown           ErrorCode = "UNKNOWN"
)

// EmptyInputError is returned when the text is blank.
type EmptyInputError struct{}

func (*EmptyInputError) Error() string        { return ErrEmptyInput.Error() }
func (*EmptyInputError) Is(target error) bool { return target == ErrEmptyInput }

// EngineUnavailableError is returned when every candidate failed to
// initialize. Tried lists the candidates in the order attempted.
type EngineUnavailableError struct {
	Tried []string
}

func (e *EngineUnavailableError) Error() string {
	if len(e.Tried) == 0 {
		return ErrEngineUnavailable.Error() + ": no engines configured"
	}
	return fmt.Sprintf("%s (tried %s)", ErrEngineUnavailable, strings.Join(e.Tried, ", "))
}

func (*EngineUnavailableError) Is(target error) bool { return target == ErrEngineUnavailable }

// SynthesisError reports the chunk that failed and the backend in use.
type SynthesisError struct {
	ChunkIndex int
	Backend    string
	Err        error
}

func (e *SynthesisError) Error() string {
	return fmt.Sprintf("%s: chunk %d on %s: %v", ErrSynthesisFailed, e.ChunkIndex, e.Backend, e.Err)
}

func (e *SynthesisError) Unwrap() error      { return e.Err }
func (*SynthesisError) Is(target error) bool { return target == ErrSynthesisFailed }

// AssemblyError is returned when combining or writing audio fails.
type AssemblyError = audio.AssemblyError

// Code maps err to its stable kind.
func Code(err error) ErrorCode {
	var ae *AssemblyError
	switch {
	case err == nil:
		return ""
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return ErrorCodeCanceled
	case errors.Is(err, ErrEmptyInput):
		return ErrorCodeEmptyInput
	case errors.Is(err, ErrEngineUnavailable):
		return ErrorCodeEngineUnavailable
	case errors.Is(err, ErrSynthesisFailed):
		return ErrorCodeSynthesisFailed
	case errors.As(err, &ae), errors.Is(err, ErrAssemblyFailed):
		return ErrorCodeAssemblyFailed
	default:
		return ErrorCodeUnknown
	}
}

// IsFatal reports whether err persists until the environment changes.
func IsFatal(err error) bool {
	return Code(err) == ErrorCodeEngineUnavailable
}
