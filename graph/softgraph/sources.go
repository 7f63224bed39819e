// SPDX-License-Identifier: EPL-2.0

package softgraph

import (
	"math"
	"time"

	"github.com/ik5/audmux/graph"
)

type sourceState uint8

const (
	stateIdle sourceState = iota
	statePlaying
	stateEnded
)

// bufferSource plays a graph.Buffer with linear interpolation, converting its
// sample rate to the context rate on the fly.
type bufferSource struct {
	base
	data *graph.Buffer
	// step is how many buffer frames one context frame advances.
	step float64

	state     sourceState
	pos       float64
	endPos    float64
	stopFrame int64

	loop               bool
	loopStart, loopEnd float64

	onEnded func()
	fired   bool
}

func newBufferSource(c *Context, buf *graph.Buffer) *bufferSource {
	s := &bufferSource{
		data:      buf,
		step:      float64(buf.SampleRate) / float64(c.rate),
		stopFrame: -1,
	}
	s.base = base{ctx: c, self: s}

	return s
}

// bufferFrames converts a duration into a position in the buffer.
func (s *bufferSource) bufferFrames(d time.Duration) float64 {
	if d <= 0 {
		return 0
	}

	return d.Seconds() * float64(s.data.SampleRate)
}

func (s *bufferSource) Start(offset, duration time.Duration) {
	s.ctx.mu.Lock()
	defer s.ctx.mu.Unlock()

	if s.state != stateIdle {
		return
	}

	total := float64(s.data.Frames())
	s.state = statePlaying
	s.pos = min(s.bufferFrames(offset), total)
	s.endPos = total
	if duration > 0 {
		s.endPos = min(s.pos+s.bufferFrames(duration), total)
	}
}

func (s *bufferSource) Stop(at time.Duration) {
	s.ctx.mu.Lock()
	defer s.ctx.mu.Unlock()

	if s.state == stateEnded {
		return
	}

	f := s.ctx.frameAt(at)
	if s.state == stateIdle || f <= s.ctx.frame {
		s.finish()
		return
	}

	if s.stopFrame < 0 || f < s.stopFrame {
		s.stopFrame = f
	}
}

func (s *bufferSource) SetLoop(loop bool, start, end time.Duration) {
	s.ctx.mu.Lock()
	defer s.ctx.mu.Unlock()

	s.loop = loop
	s.loopStart = s.bufferFrames(start)
	s.loopEnd = s.bufferFrames(end)
}

func (s *bufferSource) OnEnded(fn func()) {
	s.ctx.mu.Lock()
	defer s.ctx.mu.Unlock()

	s.onEnded = fn
	if s.state == stateEnded && !s.fired && fn != nil {
		s.fired = true
		s.ctx.queue(fn)
	}
}

// finish ends playback and queues the ended callback. Callers hold mu.
func (s *bufferSource) finish() {
	s.state = stateEnded
	if s.onEnded != nil && !s.fired {
		s.fired = true
		s.ctx.queue(s.onEnded)
	}
}

// loopBounds returns the effective loop region in buffer frames.
func (s *bufferSource) loopBounds() (float64, float64) {
	total := float64(s.data.Frames())

	end := s.loopEnd
	if end <= 0 || end > total {
		end = total
	}

	start := s.loopStart
	if start < 0 || start >= end {
		start = 0
	}

	return start, end
}

func (s *bufferSource) frameAt(i int) (float32, float32) {
	ch := s.data.Channels
	at := i * ch
	l := s.data.Data[at]
	if ch == 1 {
		return l, l
	}

	return l, s.data.Data[at+1]
}

func (s *bufferSource) process(frames int) []float32 {
	out := s.silence(frames)
	if s.state != statePlaying {
		return out
	}

	total := s.data.Frames()
	start := s.ctx.frame

	for i := range frames {
		if s.stopFrame >= 0 && start+int64(i) >= s.stopFrame {
			s.finish()
			break
		}

		if s.loop {
			ls, le := s.loopBounds()
			if le <= ls {
				// Nothing to loop over, e.g. an empty buffer.
				s.finish()
				break
			}
			if s.pos >= le {
				s.pos = ls + math.Mod(s.pos-le, le-ls)
			}
		} else if s.pos >= s.endPos {
			s.finish()
			break
		}

		i0 := int(s.pos)
		if i0 >= total {
			s.finish()
			break
		}
		i1 := min(i0+1, total-1)
		frac := float32(s.pos - float64(i0))

		l0, r0 := s.frameAt(i0)
		l1, r1 := s.frameAt(i1)
		out[2*i] = l0 + (l1-l0)*frac
		out[2*i+1] = r0 + (r1-r0)*frac

		s.pos += s.step
	}

	return out
}
