package audio

import "encoding/binary"

// tone returns n frames of 16-bit PCM where every sample equals v.
func tone(f PCMFormat, frames int, v int16) PCM {
	data := make([]byte, frames*f.FrameSize())
	for i := 0; i < len(data); i += 2 {
		binary.LittleEndian.PutUint16(data[i:], uint16(v))
	}
	return PCM{Format: f, Data: data}
}
