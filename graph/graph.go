// SPDX-License-Identifier: EPL-2.0

package graph

import "time"

// MinRampGain is the floor for exponential ramps, which cannot reach 0.
const MinRampGain = 0.001

// Node is anything that can feed another node.
type Node interface {
	// Connect routes this node's output into dst, replacing any previous target.
	Connect(dst Node)
	// Disconnect detaches this node's output.
	Disconnect()
}

// GainNode scales its input.
type GainNode interface {
	Node
	// SetGain jumps to v at the given clock time.
	SetGain(v float64, at time.Duration)
	// RampGain ramps exponentially from the current value to v, reaching it at the
	// given clock time.
	RampGain(v float64, at time.Duration)
	// Gain returns the current value.
	Gain() float64
}

// PanNode places a stereo signal between left (-1) and right (1).
type PanNode interface {
	Node
	SetPan(v float64)
}

// Source plays an in-memory Buffer.
type Source interface {
	Node
	// Start begins playback at offset into the buffer. A positive duration limits
	// playback to that much audio; zero plays to the end, or forever when looping.
	// Start may be called once.
	Start(offset, duration time.Duration)
	// Stop ends playback at the given clock time, or immediately when the time
	// already passed.
	Stop(at time.Duration)
	// SetLoop toggles looping between start and end. A zero end means the end of
	// the buffer.
	SetLoop(loop bool, start, end time.Duration)
	// OnEnded registers fn to run once playback has finished, either naturally or
	// because of Stop.
	OnEnded(fn func())
}

// MediaSource plays a long-running stream that loops on its own.
type MediaSource interface {
	Node
	Play()
	Pause()
	// Close releases the underlying media. The source stays silent afterwards.
	Close() error
}

// Context creates nodes and owns the clock.
type Context interface {
	NewBufferSource(buf *Buffer) (Source, error)
	// NewMediaSource must not wait for the media to open; it is called with
	// the engine lock held.
	NewMediaSource(url string) (MediaSource, error)
	NewGain() GainNode
	NewPan() PanNode
	// Destination is the final output node.
	Destination() Node
	// Now is the monotonic position of the clock.
	Now() time.Duration
	// AfterFunc runs fn once, roughly d after Now.
	AfterFunc(d time.Duration, fn func())
}

// ClampRampTarget lifts v to MinRampGain so it can be used as an exponential
// ramp target.
func ClampRampTarget(v float64) float64 {
	if v < MinRampGain {
		return MinRampGain
	}

	return v
}
