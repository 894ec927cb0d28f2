//go:build !nocgo
// +build !nocgo

package audio

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"time"

	"github.com/ebitengine/oto/v3"
)

// playbackFormat is the device format; oto is most reliable at 44.1 kHz.
var playbackFormat = PCMFormat{SampleRate: 44100, Channels: 2, BitDepth: 16}

// Play decodes the WAV or MP3 file at path and plays it on the default
// output device, returning when playback ends or ctx is done.
func Play(ctx context.Context, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("unable to read audio file: %w", err)
	}

	decode, ok := DefaultDecoders()[FormatFromPath(path)]
	if !ok {
		return fmt.Errorf("%w: %s", ErrDecoderUnavailable, path)
	}
	pcm, err := decode(data)
	if err != nil {
		return err
	}
	if pcm, err = Convert(pcm, playbackFormat); err != nil {
		return err
	}

	otoCtx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   playbackFormat.SampleRate,
		ChannelCount: playbackFormat.Channels,
		Format:       oto.FormatSignedInt16LE,
	})
	if err != nil {
		return fmt.Errorf("failed to create oto context: %w", err)
	}
	<-ready

	player := otoCtx.NewPlayer(bytes.NewReader(pcm.Data))
	defer player.Close() //nolint:errcheck
	player.Play()

	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()
	for player.IsPlaying() {
		select {
		case <-ctx.Done():
			player.Pause()
			return ctx.Err()
		case <-ticker.C:
		}
	}
	return nil
}
