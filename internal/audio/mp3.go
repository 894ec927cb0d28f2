package audio

import (
	"bytes"
	"fmt"
	"io"

	"github.com/hajimehoshi/go-mp3"
)

// DecodeMP3 decodes an MP3 stream to 16-bit stereo PCM.
func DecodeMP3(data []byte) (PCM, error) {
	d, err := mp3.NewDecoder(bytes.NewReader(data))
	if err != nil {
		return PCM{}, fmt.Errorf("failed to open mp3 stream: %w", err)
	}

	pcm, err := io.ReadAll(d)
	if err != nil {
		return PCM{}, fmt.Errorf("failed to decode mp3 stream: %w", err)
	}

	// go-mp3 always produces interleaved 16-bit stereo.
	format := PCMFormat{SampleRate: d.SampleRate(), Channels: 2, BitDepth: 16}
	if err := ValidatePCMData(pcm, format); err != nil {
		return PCM{}, fmt.Errorf("mp3 stream decoded to no audio: %w", err)
	}
	return PCM{Format: format, Data: pcm}, nil
}

// Decoder turns one encoded segment into PCM.
type Decoder func(data []byte) (PCM, error)

// DefaultDecoders returns the decoders for every format backends produce.
func DefaultDecoders() map[Format]Decoder {
	return map[Format]Decoder{
		FormatWAV: DecodeWAV,
		FormatMP3: DecodeMP3,
	}
}
