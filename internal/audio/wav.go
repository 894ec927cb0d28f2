package audio

import (
	"encoding/binary"
	"errors"
	"fmt"
)

const wavHeaderSize = 44

// ErrInvalidWAV is returned for data that is not a RIFF/WAVE stream.
var ErrInvalidWAV = errors.New("invalid WAV data")

// EncodeWAV wraps PCM in a canonical 44-byte RIFF/WAVE header.
func EncodeWAV(p PCM) []byte {
	f := p.Format
	dataLen := len(p.Data)
	buf := make([]byte, wavHeaderSize+dataLen)

	copy(buf[0:4], "RIFF")
	binary.LittleEndian.PutUint32(buf[4:8], uint32(36+dataLen))
	copy(buf[8:12], "WAVE")

	copy(buf[12:16], "fmt ")
	binary.LittleEndian.PutUint32(buf[16:20], 16)
	binary.LittleEndian.PutUint16(buf[20:22], 1) // PCM
	binary.LittleEndian.PutUint16(buf[22:24], uint16(f.Channels))
	binary.LittleEndian.PutUint32(buf[24:28], uint32(f.SampleRate))
	binary.LittleEndian.PutUint32(buf[28:32], uint32(f.SampleRate*f.FrameSize()))
	binary.LittleEndian.PutUint16(buf[32:34], uint16(f.FrameSize()))
	binary.LittleEndian.PutUint16(buf[34:36], uint16(f.BitDepth))

	copy(buf[36:40], "data")
	binary.LittleEndian.PutUint32(buf[40:44], uint32(dataLen))
	copy(buf[wavHeaderSize:], p.Data)

	return buf
}

// DecodeWAV walks the RIFF chunks of data and returns its PCM payload.
// Streamed files whose size fields were never patched are tolerated by
// clamping chunk sizes to the data available.
func DecodeWAV(data []byte) (PCM, error) {
	if len(data) < 12 || string(data[0:4]) != "RIFF" || string(data[8:12]) != "WAVE" {
		return PCM{}, ErrInvalidWAV
	}

	var (
		format  PCMFormat
		haveFmt bool
	)
	off := 12
	for off+8 <= len(data) {
		id := string(data[off : off+4])
		size := int(binary.LittleEndian.Uint32(data[off+4 : off+8]))
		body := off + 8
		if body+size > len(data) || body+size < body {
			size = len(data) - body
		}

		switch id {
		case "fmt ":
			if size < 16 {
				return PCM{}, fmt.Errorf("%w: short fmt chunk", ErrInvalidWAV)
			}
			tag := binary.LittleEndian.Uint16(data[body:])
			if tag != 1 && tag != 0xFFFE {
				return PCM{}, fmt.Errorf("%w: unsupported encoding tag %#x", ErrInvalidWAV, tag)
			}
			format = PCMFormat{
				Channels:   int(binary.LittleEndian.Uint16(data[body+2:])),
				SampleRate: int(binary.LittleEndian.Uint32(data[body+4:])),
				BitDepth:   int(binary.LittleEndian.Uint16(data[body+14:])),
			}
			if err := format.Validate(); err != nil {
				return PCM{}, fmt.Errorf("%w: %v", ErrInvalidWAV, err)
			}
			haveFmt = true

		case "data":
			if !haveFmt {
				return PCM{}, fmt.Errorf("%w: data chunk before fmt chunk", ErrInvalidWAV)
			}
			payload := data[body : body+size]
			payload = payload[:len(payload)-len(payload)%format.FrameSize()]
			return PCM{Format: format, Data: payload}, nil
		}

		off = body + size + size%2
	}

	return PCM{}, fmt.Errorf("%w: missing data chunk", ErrInvalidWAV)
}
