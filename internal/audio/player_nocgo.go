//go:build nocgo
// +build nocgo

package audio

import "context"

// Play is unavailable without cgo.
func Play(context.Context, string) error {
	return ErrPlaybackUnavailable
}
