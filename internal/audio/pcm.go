package audio

import (
	"encoding/binary"
	"errors"
	"fmt"
	"time"
)

// PCMFormat describes interleaved signed little-endian PCM.
type PCMFormat struct {
	SampleRate int
	Channels   int
	BitDepth   int
}

// FrameSize returns the number of bytes in one frame (one sample per channel).
func (f PCMFormat) FrameSize() int {
	return f.BitDepth / 8 * f.Channels
}

// Validate rejects formats the assembler cannot handle.
func (f PCMFormat) Validate() error {
	if f.SampleRate <= 0 {
		return fmt.Errorf("invalid sample rate %d", f.SampleRate)
	}
	if f.Channels < 1 || f.Channels > 8 {
		return fmt.Errorf("invalid channel count %d", f.Channels)
	}
	if f.BitDepth != 16 {
		return fmt.Errorf("unsupported bit depth %d (only 16-bit PCM)", f.BitDepth)
	}
	return nil
}

// Duration returns the playing time of n bytes of audio in this format.
func (f PCMFormat) Duration(n int) time.Duration {
	if f.SampleRate == 0 || f.FrameSize() == 0 {
		return 0
	}
	frames := n / f.FrameSize()
	return time.Duration(frames) * time.Second / time.Duration(f.SampleRate)
}

// PCM is a decoded audio stream.
type PCM struct {
	Format PCMFormat
	Data   []byte
}

// Duration returns the playing time of the stream.
func (p PCM) Duration() time.Duration {
	return p.Format.Duration(len(p.Data))
}

// ValidatePCMData checks that data is non-empty and frame aligned.
func ValidatePCMData(data []byte, format PCMFormat) error {
	if len(data) == 0 {
		return errors.New("empty PCM data")
	}
	if fs := format.FrameSize(); fs == 0 || len(data)%fs != 0 {
		return fmt.Errorf("PCM data length %d is not aligned to %d-byte frames", len(data), fs)
	}
	return nil
}

// Convert re-expresses p in the target channel layout and sample rate.
// Channels are averaged down to mono or copied up; rates are changed with
// linear interpolation.
func Convert(p PCM, target PCMFormat) (PCM, error) {
	if err := p.Format.Validate(); err != nil {
		return PCM{}, err
	}
	if err := target.Validate(); err != nil {
		return PCM{}, err
	}
	if p.Format == target {
		return p, nil
	}

	samples := toSamples(p.Data)
	samples = remix(samples, p.Format.Channels, target.Channels)
	samples = resample(samples, target.Channels, p.Format.SampleRate, target.SampleRate)

	return PCM{Format: target, Data: fromSamples(samples)}, nil
}

func toSamples(data []byte) []int16 {
	out := make([]int16, len(data)/2)
	for i := range out {
		out[i] = int16(binary.LittleEndian.Uint16(data[i*2:]))
	}
	return out
}

func fromSamples(samples []int16) []byte {
	out := make([]byte, len(samples)*2)
	for i, s := range samples {
		binary.LittleEndian.PutUint16(out[i*2:], uint16(s))
	}
	return out
}

func remix(samples []int16, from, to int) []int16 {
	if from == to {
		return samples
	}
	frames := len(samples) / from
	out := make([]int16, frames*to)
	for i := 0; i < frames; i++ {
		in := samples[i*from : (i+1)*from]
		if to == 1 {
			var sum int
			for _, s := range in {
				sum += int(s)
			}
			out[i] = int16(sum / from)
			continue
		}
		for c := 0; c < to; c++ {
			src := c
			if src >= from {
				src = from - 1
			}
			out[i*to+c] = in[src]
		}
	}
	return out
}

func resample(samples []int16, channels, from, to int) []int16 {
	if from == to || len(samples) == 0 {
		return samples
	}
	inFrames := len(samples) / channels
	outFrames := int(int64(inFrames) * int64(to) / int64(from))
	out := make([]int16, outFrames*channels)
	ratio := float64(from) / float64(to)

	for i := 0; i < outFrames; i++ {
		pos := float64(i) * ratio
		j := int(pos)
		if j >= inFrames {
			j = inFrames - 1
		}
		k := j + 1
		if k >= inFrames {
			k = inFrames - 1
		}
		frac := pos - float64(j)
		for c := 0; c < channels; c++ {
			a := float64(samples[j*channels+c])
			b := float64(samples[k*channels+c])
			out[i*channels+c] = int16(a + (b-a)*frac)
		}
	}
	return out
}
