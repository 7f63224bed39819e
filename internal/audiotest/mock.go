// SPDX-License-Identifier: EPL-2.0

// Package audiotest provides synthetic audio sources for tests.
package audiotest

import (
	"io"
	"math"
	"sync/atomic"
)

// Waveform returns the sample of channel ch at frame i.
type Waveform func(i, ch int) float32

// MockSource plays a fixed number of frames of a waveform. It satisfies
// audio.Source without importing it, so the audio package can use it too.
type MockSource struct {
	sampleRate int
	channels   int
	frames     int
	pos        int
	wave       Waveform
	closed     atomic.Int32
}

func NewMockSource(sampleRate, channels, frames int, wave Waveform) *MockSource {
	return &MockSource{
		sampleRate: sampleRate,
		channels:   channels,
		frames:     frames,
		wave:       wave,
	}
}

func NewSilentSource(sampleRate, channels, frames int) *MockSource {
	return NewConstantSource(sampleRate, channels, frames, 0)
}

func NewConstantSource(sampleRate, channels, frames int, v float32) *MockSource {
	return NewMockSource(sampleRate, channels, frames, func(int, int) float32 { return v })
}

// NewSineSource plays a full scale sine of freq Hz on every channel.
func NewSineSource(sampleRate, channels, frames int, freq float64) *MockSource {
	w := 2 * math.Pi * freq / float64(sampleRate)

	return NewMockSource(sampleRate, channels, frames, func(i, _ int) float32 {
		return float32(math.Sin(w * float64(i)))
	})
}

func (m *MockSource) SampleRate() int { return m.sampleRate }
func (m *MockSource) Channels() int   { return m.channels }

// Close may be called from a render goroutine; Closed counts the calls.
func (m *MockSource) Close() error {
	m.closed.Add(1)
	return nil
}

func (m *MockSource) Closed() int { return int(m.closed.Load()) }

// ReadSamples fills whole frames and reports io.EOF together with the last
// of them.
func (m *MockSource) ReadSamples(dst []float32) (int, error) {
	if m.pos >= m.frames {
		return 0, io.EOF
	}

	n := min(len(dst)/m.channels, m.frames-m.pos)

	for f := range n {
		for ch := range m.channels {
			dst[f*m.channels+ch] = m.wave(m.pos+f, ch)
		}
	}
	m.pos += n

	if m.pos == m.frames {
		return n * m.channels, io.EOF
	}

	return n * m.channels, nil
}
