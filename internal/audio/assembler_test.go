package audio

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

// fakeEncoder copies the WAV input and prefixes it with a marker so tests
// can tell encoded output apart.
type fakeEncoder struct {
	available error
	failWith  error
	calls     int
}

func (e *fakeEncoder) Format() Format   { return FormatMP3 }
func (e *fakeEncoder) Available() error { return e.available }

func (e *fakeEncoder) Encode(_ context.Context, src, dst string) error {
	e.calls++
	if e.failWith != nil {
		// Leave a partial file behind like a crashing encoder would.
		_ = os.WriteFile(dst, []byte("partial"), 0o644)
		return e.failWith
	}
	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	return os.WriteFile(dst, append([]byte("MP3:"), data...), 0o644)
}

var mono22k = PCMFormat{SampleRate: 22050, Channels: 1, BitDepth: 16}

func wavSegment(index, frames int, v int16) Segment {
	return Segment{ChunkIndex: index, Data: EncodeWAV(tone(mono22k, frames, v)), Format: FormatWAV}
}

func TestAssembler_ConcatenatesInIndexOrder(t *testing.T) {
	dir := t.TempDir()
	a := NewAssembler(WithEncoder(nil))

	segments := []Segment{
		wavSegment(2, 10, 3),
		wavSegment(0, 10, 1),
		wavSegment(1, 10, 2),
	}

	res, err := a.Combine(context.Background(), segments, filepath.Join(dir, "out.wav"), FormatWAV)
	if err != nil {
		t.Fatalf("Combine failed: %v", err)
	}
	if res.Format != FormatWAV {
		t.Errorf("format = %s, want wav", res.Format)
	}

	data, err := os.ReadFile(res.Path)
	if err != nil {
		t.Fatal(err)
	}
	if int64(len(data)) != res.Size {
		t.Errorf("size = %d, file has %d bytes", res.Size, len(data))
	}
	pcm, err := DecodeWAV(data)
	if err != nil {
		t.Fatalf("output is not valid WAV: %v", err)
	}
	samples := toSamples(pcm.Data)
	if len(samples) != 30 {
		t.Fatalf("got %d samples, want 30", len(samples))
	}
	for i, s := range samples {
		if want := int16(i/10 + 1); s != want {
			t.Fatalf("sample %d = %d, want %d", i, s, want)
		}
	}
}

func TestAssembler_NormalisesMixedFormats(t *testing.T) {
	dir := t.TempDir()
	a := NewAssembler(WithEncoder(nil))

	stereo44k := PCMFormat{SampleRate: 44100, Channels: 2, BitDepth: 16}
	segments := []Segment{
		wavSegment(0, 2205, 100),
		{ChunkIndex: 1, Data: EncodeWAV(tone(stereo44k, 4410, 100)), Format: FormatWAV},
	}

	res, err := a.Combine(context.Background(), segments, filepath.Join(dir, "out.wav"), FormatWAV)
	if err != nil {
		t.Fatalf("Combine failed: %v", err)
	}
	data, _ := os.ReadFile(res.Path)
	pcm, err := DecodeWAV(data)
	if err != nil {
		t.Fatal(err)
	}
	if pcm.Format != mono22k {
		t.Errorf("format = %+v, want first segment format %+v", pcm.Format, mono22k)
	}
	if got, want := len(pcm.Data)/2, 2205*2; got != want {
		t.Errorf("frames = %d, want %d", got, want)
	}
}

func TestAssembler_CompressedExport(t *testing.T) {
	dir := t.TempDir()
	enc := &fakeEncoder{}
	a := NewAssembler(WithEncoder(enc))

	dest := filepath.Join(dir, "book.mp3")
	res, err := a.Combine(context.Background(), []Segment{wavSegment(0, 10, 1)}, dest, FormatMP3)
	if err != nil {
		t.Fatalf("Combine failed: %v", err)
	}
	if res.Format != FormatMP3 || res.Path != dest {
		t.Errorf("got %s at %s, want mp3 at %s", res.Format, res.Path, dest)
	}
	data, _ := os.ReadFile(dest)
	if !bytes.HasPrefix(data, []byte("MP3:")) {
		t.Error("output was not produced by the encoder")
	}
	if res.Size != int64(len(data)) {
		t.Errorf("size = %d, want %d", res.Size, len(data))
	}
}

func TestAssembler_FallsBackWhenEncoderUnavailable(t *testing.T) {
	tests := []struct {
		name string
		enc  Encoder
	}{
		{"no encoder", nil},
		{"encoder missing", &fakeEncoder{available: ErrFFmpegNotFound}},
		{"encoder fails", &fakeEncoder{failWith: errors.New("boom")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			a := NewAssembler(WithEncoder(tt.enc))

			dest := filepath.Join(dir, "out.mp3")
			res, err := a.Combine(context.Background(), []Segment{wavSegment(0, 10, 1), wavSegment(1, 10, 2)}, dest, FormatMP3)
			if err != nil {
				t.Fatalf("Combine failed: %v", err)
			}
			if res.Format != FormatWAV {
				t.Errorf("format = %s, want wav", res.Format)
			}
			if want := filepath.Join(dir, "out.wav"); res.Path != want {
				t.Errorf("path = %s, want %s", res.Path, want)
			}
			if _, err := os.Stat(dest); !os.IsNotExist(err) {
				t.Errorf("compressed destination should not exist, stat err = %v", err)
			}
		})
	}
}

func TestAssembler_FailedEncodeKeepsExistingFile(t *testing.T) {
	dir := t.TempDir()
	dest := filepath.Join(dir, "out.mp3")
	if err := os.WriteFile(dest, []byte("earlier"), 0o644); err != nil {
		t.Fatal(err)
	}

	a := NewAssembler(WithEncoder(&fakeEncoder{failWith: errors.New("boom")}))
	res, err := a.Combine(context.Background(), []Segment{wavSegment(0, 10, 1)}, dest, FormatMP3)
	if err != nil {
		t.Fatalf("Combine failed: %v", err)
	}
	if res.Format != FormatWAV {
		t.Errorf("format = %s, want wav", res.Format)
	}
	if got, _ := os.ReadFile(dest); string(got) != "earlier" {
		t.Errorf("existing mp3 = %q, want it untouched", got)
	}

	entries, _ := os.ReadDir(dir)
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	if len(names) != 2 {
		t.Errorf("dir holds %q, want only out.mp3 and out.wav", names)
	}
}

func TestAssembler_ReplacesExistingFile(t *testing.T) {
	dir := t.TempDir()
	dest := filepath.Join(dir, "out.wav")
	if err := os.WriteFile(dest, []byte("earlier"), 0o644); err != nil {
		t.Fatal(err)
	}

	res, err := NewAssembler(WithEncoder(nil)).Combine(context.Background(), []Segment{wavSegment(0, 10, 1)}, dest, FormatWAV)
	if err != nil {
		t.Fatalf("Combine failed: %v", err)
	}
	got, _ := os.ReadFile(dest)
	if _, err := DecodeWAV(got); err != nil || int64(len(got)) != res.Size {
		t.Errorf("output not replaced: %d bytes, decode err %v", len(got), err)
	}
}

func TestAssembler_NoSegments(t *testing.T) {
	a := NewAssembler()
	_, err := a.Combine(context.Background(), nil, filepath.Join(t.TempDir(), "x.mp3"), FormatMP3)

	var ae *AssemblyError
	if !errors.As(err, &ae) {
		t.Fatalf("error = %v, want *AssemblyError", err)
	}
	if !errors.Is(err, ErrNoSegments) {
		t.Errorf("error = %v, want ErrNoSegments", err)
	}
}

func TestAssembler_SingleSegmentRawCopy(t *testing.T) {
	dir := t.TempDir()
	a := NewAssembler(WithDecoders(map[Format]Decoder{}), WithEncoder(&fakeEncoder{}))

	raw := []byte("not decodable but still audio")
	res, err := a.Combine(context.Background(), []Segment{{ChunkIndex: 0, Data: raw, Format: FormatMP3}},
		filepath.Join(dir, "out.wav"), FormatWAV)
	if err != nil {
		t.Fatalf("Combine failed: %v", err)
	}
	if res.Format != FormatMP3 {
		t.Errorf("format = %s, want the segment's own format", res.Format)
	}
	got, _ := os.ReadFile(res.Path)
	if !bytes.Equal(got, raw) {
		t.Error("raw copy altered the segment")
	}
}

func TestAssembler_MultiSegmentWithoutDecoderFails(t *testing.T) {
	dir := t.TempDir()
	a := NewAssembler(WithDecoders(map[Format]Decoder{}))

	dest := filepath.Join(dir, "out.mp3")
	_, err := a.Combine(context.Background(), []Segment{wavSegment(0, 5, 1), wavSegment(1, 5, 1)}, dest, FormatMP3)
	if !errors.Is(err, ErrDecoderUnavailable) {
		t.Fatalf("error = %v, want ErrDecoderUnavailable", err)
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Errorf("expected no output files, found %d", len(entries))
	}
}

func TestAssembler_UnwritableDestination(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	if err := os.WriteFile(blocker, nil, 0o644); err != nil {
		t.Fatal(err)
	}

	a := NewAssembler(WithEncoder(nil))
	_, err := a.Combine(context.Background(), []Segment{wavSegment(0, 5, 1)}, filepath.Join(blocker, "out.wav"), FormatWAV)

	var ae *AssemblyError
	if !errors.As(err, &ae) || ae.Op != "write" {
		t.Fatalf("error = %v, want write AssemblyError", err)
	}
}

func TestAssembler_CorruptSegment(t *testing.T) {
	a := NewAssembler(WithEncoder(nil))
	segments := []Segment{
		wavSegment(0, 5, 1),
		{ChunkIndex: 1, Data: []byte("garbage"), Format: FormatWAV},
	}
	_, err := a.Combine(context.Background(), segments, filepath.Join(t.TempDir(), "o.wav"), FormatWAV)
	if !errors.Is(err, ErrInvalidWAV) {
		t.Errorf("error = %v, want ErrInvalidWAV", err)
	}
}
