package audio

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

// Segment is the audio synthesized for one text chunk.
type Segment struct {
	ChunkIndex int
	Data       []byte
	Format     Format
}

// Result describes the file written by Combine.
type Result struct {
	Path     string
	Size     int64
	Format   Format
	Duration time.Duration
}

// Assembler concatenates segments into a single output file.
type Assembler struct {
	decoders map[Format]Decoder
	encoder  Encoder
	logger   *log.Logger
}

// Option configures an Assembler.
type Option func(*Assembler)

// WithDecoders replaces the per-format decoders.
func WithDecoders(decoders map[Format]Decoder) Option {
	return func(a *Assembler) { a.decoders = decoders }
}

// WithEncoder sets the encoder used for compressed output. A nil encoder
// forces uncompressed output.
func WithEncoder(e Encoder) Option {
	return func(a *Assembler) { a.encoder = e }
}

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option {
	return func(a *Assembler) { a.logger = l }
}

// NewAssembler returns an Assembler using the default decoders and the
// ffmpeg MP3 encoder.
func NewAssembler(opts ...Option) *Assembler {
	a := &Assembler{
		decoders: DefaultDecoders(),
		encoder:  NewFFmpegEncoder(),
		logger:   log.Default(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Combine concatenates segments in chunk order and writes them to dest,
// encoded as preferred when possible. When the compressed export is not
// possible the audio is written as WAV next to dest and the returned
// Result reports the format actually used.
func (a *Assembler) Combine(ctx context.Context, segments []Segment, dest string, preferred Format) (Result, error) {
	if len(segments) == 0 {
		return Result{}, &AssemblyError{Op: "combine", Path: dest, Err: ErrNoSegments}
	}

	ordered := make([]Segment, len(segments))
	copy(ordered, segments)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].ChunkIndex < ordered[j].ChunkIndex
	})

	for _, s := range ordered {
		if _, ok := a.decoders[s.Format]; ok {
			continue
		}
		if len(ordered) == 1 {
			a.logger.Warn("No decoder for segment, copying raw audio", "format", s.Format)
			return a.copyRaw(s, dest)
		}
		return Result{}, &AssemblyError{
			Op:   "decode",
			Path: dest,
			Err:  fmt.Errorf("%w: %q (chunk %d)", ErrDecoderUnavailable, s.Format, s.ChunkIndex),
		}
	}

	pcm, err := a.concat(ordered)
	if err != nil {
		return Result{}, &AssemblyError{Op: "decode", Path: dest, Err: err}
	}
	wav := EncodeWAV(pcm)

	if preferred.Compressed() {
		res, err := a.export(ctx, wav, dest, preferred)
		if err == nil {
			res.Duration = pcm.Duration()
			return res, nil
		}
		a.logger.Warn("Compressed export failed, falling back to WAV",
			"format", preferred, "error", err)
	}

	res, err := writeAudio(wav, WithExt(dest, FormatWAV), FormatWAV)
	if err != nil {
		return Result{}, err
	}
	res.Duration = pcm.Duration()
	return res, nil
}

// concat decodes every segment and joins them in the format of the first.
func (a *Assembler) concat(segments []Segment) (PCM, error) {
	var (
		target PCMFormat
		data   []byte
	)
	for i, s := range segments {
		pcm, err := a.decoders[s.Format](s.Data)
		if err != nil {
			return PCM{}, fmt.Errorf("chunk %d: %w", s.ChunkIndex, err)
		}
		if i == 0 {
			target = pcm.Format
		} else if pcm, err = Convert(pcm, target); err != nil {
			return PCM{}, fmt.Errorf("chunk %d: %w", s.ChunkIndex, err)
		}
		data = append(data, pcm.Data...)
	}
	return PCM{Format: target, Data: data}, nil
}

func (a *Assembler) export(ctx context.Context, wav []byte, dest string, format Format) (Result, error) {
	if a.encoder == nil || a.encoder.Format() != format {
		return Result{}, fmt.Errorf("%w: %s", ErrEncoderUnavailable, format)
	}
	if err := a.encoder.Available(); err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrEncoderUnavailable, err)
	}

	tmp, err := os.CreateTemp("", "readaloud-*.wav")
	if err != nil {
		return Result{}, fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name()) //nolint:errcheck

	_, err = tmp.Write(wav)
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return Result{}, fmt.Errorf("failed to write temp file: %w", err)
	}

	out := WithExt(dest, format)
	staged, err := stagingPath(out)
	if err != nil {
		return Result{}, err
	}
	defer os.Remove(staged) //nolint:errcheck

	if err := a.encoder.Encode(ctx, tmp.Name(), staged); err != nil {
		return Result{}, err
	}
	st, err := os.Stat(staged)
	if err != nil {
		return Result{}, err
	}
	if err := os.Rename(staged, out); err != nil {
		return Result{}, &AssemblyError{Op: "write", Path: out, Err: err}
	}
	return Result{Path: out, Size: st.Size(), Format: format}, nil
}

func (a *Assembler) copyRaw(s Segment, dest string) (Result, error) {
	out := dest
	if s.Format != "" {
		out = WithExt(dest, s.Format)
	}
	return writeAudio(s.Data, out, s.Format)
}

// writeAudio replaces path with data. A failed write leaves any existing
// file at path untouched.
func writeAudio(data []byte, path string, format Format) (Result, error) {
	staged, err := stagingPath(path)
	if err != nil {
		return Result{}, &AssemblyError{Op: "write", Path: path, Err: err}
	}
	defer os.Remove(staged) //nolint:errcheck

	if err := os.WriteFile(staged, data, 0o644); err != nil { //nolint:gosec
		return Result{}, &AssemblyError{Op: "write", Path: path, Err: err}
	}
	if err := os.Rename(staged, path); err != nil {
		return Result{}, &AssemblyError{Op: "write", Path: path, Err: err}
	}
	return Result{Path: path, Size: int64(len(data)), Format: format}, nil
}

// stagingPath reserves a hidden file next to path, keeping its extension so
// encoders can infer the container from the name.
func stagingPath(path string) (string, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	ext := filepath.Ext(path)
	stem := strings.TrimSuffix(filepath.Base(path), ext)
	f, err := os.CreateTemp(dir, "."+stem+"-*"+ext)
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	name := f.Name()
	if err := f.Close(); err != nil {
		_ = os.Remove(name)
		return "", err
	}
	return name, nil
}
