// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"encoding/binary"
	"fmt"
	"io"
)

// WritePCM16 writes an interleaved 16-bit PCM WAV with the given channel count.
// The header is written up front, so w does not need to seek.
func WritePCM16(w io.Writer, sampleRate, channels int, samples []int16) error {
	if channels <= 0 {
		return ErrInvalidChannels
	}

	const bitsPerSample = 16
	blockAlign := uint16(channels * bitsPerSample / 8)
	byteRate := uint32(sampleRate) * uint32(blockAlign)
	dataSize := uint32(len(samples) * 2)

	header := make([]byte, 44)

	copy(header[0:4], "RIFF")
	binary.LittleEndian.PutUint32(header[4:8], 36+dataSize)
	copy(header[8:12], "WAVE")

	copy(header[12:16], "fmt ")
	binary.LittleEndian.PutUint32(header[16:20], 16) // PCM fmt chunk size
	binary.LittleEndian.PutUint16(header[20:22], 1)  // PCM format
	binary.LittleEndian.PutUint16(header[22:24], uint16(channels))
	binary.LittleEndian.PutUint32(header[24:28], uint32(sampleRate))
	binary.LittleEndian.PutUint32(header[28:32], byteRate)
	binary.LittleEndian.PutUint16(header[32:34], blockAlign)
	binary.LittleEndian.PutUint16(header[34:36], bitsPerSample)

	copy(header[36:40], "data")
	binary.LittleEndian.PutUint32(header[40:44], dataSize)

	if _, err := w.Write(header); err != nil {
		return fmt.Errorf("%w", err)
	}

	return WriteSamples16(w, samples)
}

// WriteSamples16 writes raw little-endian 16-bit samples in 8KB chunks.
func WriteSamples16(w io.Writer, samples []int16) error {
	const chunkSize = 4096
	if len(samples) == 0 {
		return nil
	}

	buf := make([]byte, min(len(samples), chunkSize)*2)

	for i := 0; i < len(samples); i += chunkSize {
		chunk := samples[i:min(i+chunkSize, len(samples))]
		out := buf[:len(chunk)*2]

		for j, s := range chunk {
			binary.LittleEndian.PutUint16(out[j*2:], uint16(s))
		}

		if _, err := w.Write(out); err != nil {
			return fmt.Errorf("%w", err)
		}
	}

	return nil
}
