// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package narrate

import (
	"encoding/binary"
	"fmt"
)

// wavHeaderSize is the canonical PCM header: RIFF chunk, fmt chunk, data
// chunk header.
const wavHeaderSize = 44

// IsWAV reports whether data starts with a RIFF/WAVE header.
func IsWAV(data []byte) bool {
	return len(data) >= 12 && string(data[0:4]) == "RIFF" && string(data[8:12]) == "WAVE"
}

// EncodeWAV wraps raw 16-bit PCM samples in a WAV container.
func EncodeWAV(pcm []byte, sampleRate, channels int) []byte {
	const bitsPerSample = 16
	byteRate := sampleRate * channels * bitsPerSample / 8
	blockAlign := channels * bitsPerSample / 8

	out := make([]byte, wavHeaderSize+len(pcm))
	copy(out[0:4], "RIFF")
	binary.LittleEndian.PutUint32(out[4:8], uint32(36+len(pcm)))
	copy(out[8:12], "WAVE")
	copy(out[12:16], "fmt ")
	binary.LittleEndian.PutUint32(out[16:20], 16)
	binary.LittleEndian.PutUint16(out[20:22], 1) // PCM
	binary.LittleEndian.PutUint16(out[22:24], uint16(channels))
	binary.LittleEndian.PutUint32(out[24:28], uint32(sampleRate))
	binary.LittleEndian.PutUint32(out[28:32], uint32(byteRate))
	binary.LittleEndian.PutUint16(out[32:34], uint16(blockAlign))
	binary.LittleEndian.PutUint16(out[34:36], bitsPerSample)
	copy(out[36:40], "data")
	binary.LittleEndian.PutUint32(out[40:44], uint32(len(pcm)))
	copy(out[wavHeaderSize:], pcm)
	return out
}

// WAVDuration returns the playback length in seconds of a 16-bit PCM WAV
// payload.
func WAVDuration(data []byte) (float64, error) {
	if !IsWAV(data) || len(data) < wavHeaderSize {
		return 0, fmt.Errorf("not a WAV payload")
	}
	channels := int(binary.LittleEndian.Uint16(data[22:24]))
	sampleRate := int(binary.LittleEndian.Uint32(data[24:28]))
	bitsPerSample := int(binary.LittleEndian.Uint16(data[34:36]))
	if channels == 0 || sampleRate == 0 || bitsPerSample == 0 {
		return 0, fmt.Errorf("WAV header carries zero rate or channels")
	}

	dataLen := len(data) - wavHeaderSize
	bytesPerSecond := sampleRate * channels * bitsPerSample / 8
	return float64(dataLen) / float64(bytesPerSecond), nil
}
