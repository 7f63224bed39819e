// SPDX-License-Identifier: EPL-2.0

package graph

import "time"

// Buffer is decoded interleaved PCM in [-1, 1].
type Buffer struct {
	SampleRate int
	Channels   int
	Data       []float32
}

// Frames returns the number of sample frames.
func (b *Buffer) Frames() int {
	if b == nil || b.Channels <= 0 {
		return 0
	}

	return len(b.Data) / b.Channels
}

// Duration returns the playing time at the buffer's own sample rate.
func (b *Buffer) Duration() time.Duration {
	if b == nil || b.SampleRate <= 0 {
		return 0
	}

	return time.Duration(b.Frames()) * time.Second / time.Duration(b.SampleRate)
}
