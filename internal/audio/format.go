package audio

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Format identifies an audio container.
type Format string

const (
	// FormatWAV is uncompressed 16-bit PCM in a RIFF/WAVE container.
	FormatWAV Format = "wav"
	// FormatMP3 is MPEG-1 Layer III.
	FormatMP3 Format = "mp3"
)

// ParseFormat maps a user supplied name or extension to a Format.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(strings.TrimSpace(s), ".")) {
	case "wav", "wave", "uncompressed":
		return FormatWAV, nil
	case "mp3", "compressed":
		return FormatMP3, nil
	default:
		return "", fmt.Errorf("unsupported audio format %q (use mp3 or wav)", s)
	}
}

// FormatFromPath infers the format from a file extension. It returns the
// empty Format when the extension is not recognised.
func FormatFromPath(path string) Format {
	f, err := ParseFormat(filepath.Ext(path))
	if err != nil {
		return ""
	}
	return f
}

// Ext returns the file extension including the leading dot.
func (f Format) Ext() string { return "." + string(f) }

// Compressed reports whether the format is a lossy compressed encoding.
func (f Format) Compressed() bool { return f == FormatMP3 }

// MIMEType returns the media type served for the format.
func (f Format) MIMEType() string {
	switch f {
	case FormatMP3:
		return "audio/mpeg"
	case FormatWAV:
		return "audio/wav"
	default:
		return "application/octet-stream"
	}
}

// WithExt replaces the extension of path with the one for f.
func WithExt(path string, f Format) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + f.Ext()
}
