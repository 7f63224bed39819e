// SPDX-License-Identifier: EPL-2.0

package softgraph

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/ik5/audmux/formats/wav"
	"github.com/ik5/audmux/graph"
	"github.com/ik5/audmux/utils"
	"github.com/sirupsen/logrus"
)

// Channels is the output channel count; every node carries stereo.
const Channels = 2

// renderChunk bounds how far the clock moves between callback deliveries in Advance.
const renderChunk = 256

type timer struct {
	at int64
	fn func()
}

// Context is a software audio graph rendered on demand.
type Context struct {
	mu     sync.Mutex
	rate   int
	frame  int64
	dest   *gainNode
	timers []timer
	// pending holds callbacks queued while mu is held; they run after the
	// current render releases it.
	pending []func()
	opener  Opener
	log     *logrus.Entry
	scratch []float32
}

// Option configures a Context in New.
type Option func(*Context)

// WithOpener sets how media sources resolve their URL.
func WithOpener(o Opener) Option {
	return func(c *Context) { c.opener = o }
}

// WithLogger replaces the default logger, tagged component=softgraph.
func WithLogger(l *logrus.Entry) Option {
	return func(c *Context) { c.log = l }
}

// New creates a Context rendering at sampleRate.
func New(sampleRate int, opts ...Option) (*Context, error) {
	if sampleRate <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidSampleRate, sampleRate)
	}

	c := &Context{
		rate: sampleRate,
		log:  logrus.WithField("component", "softgraph"),
	}
	for _, opt := range opts {
		opt(c)
	}

	c.dest = newGainNode(c)

	return c, nil
}

var _ graph.Context = (*Context)(nil)

// SampleRate returns the rendering rate in Hz.
func (c *Context) SampleRate() int { return c.rate }

// frameAt converts a clock time to a frame index.
func (c *Context) frameAt(d time.Duration) int64 {
	if d <= 0 {
		return 0
	}

	rate := int64(c.rate)
	return int64(d/time.Second)*rate + int64(d%time.Second)*rate/int64(time.Second)
}

func (c *Context) timeAt(frame int64) time.Duration {
	rate := int64(c.rate)
	return time.Duration(frame/rate)*time.Second + time.Duration(frame%rate)*time.Second/time.Duration(rate)
}

func (c *Context) Now() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.timeAt(c.frame)
}

func (c *Context) Destination() graph.Node { return c.dest }

func (c *Context) NewGain() graph.GainNode { return newGainNode(c) }

func (c *Context) NewPan() graph.PanNode { return newPanNode(c) }

func (c *Context) NewBufferSource(buf *graph.Buffer) (graph.Source, error) {
	if buf == nil || buf.Channels <= 0 || buf.SampleRate <= 0 {
		return nil, ErrInvalidBuffer
	}

	return newBufferSource(c, buf), nil
}

// NewMediaSource returns at once; url is opened and decoded in the
// background, and the source stays silent until audio is ready.
func (c *Context) NewMediaSource(url string) (graph.MediaSource, error) {
	if c.opener == nil {
		return nil, ErrNoOpener
	}

	return newMediaSource(c, url), nil
}

// AfterFunc runs fn from the render path once the clock passed d from now.
func (c *Context) AfterFunc(d time.Duration, fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.timers = append(c.timers, timer{at: c.frame + c.frameAt(d), fn: fn})
}

// queue defers fn until the current render finishes. Callers hold mu.
func (c *Context) queue(fn func()) {
	c.pending = append(c.pending, fn)
}

// Render mixes the graph into dst (interleaved stereo) and advances the clock.
// Ended and timer callbacks run before Render returns, without the graph lock.
func (c *Context) Render(dst []float32) int {
	frames := len(dst) / Channels
	if frames == 0 {
		return 0
	}

	c.mu.Lock()
	out := c.dest.process(frames)
	n := copy(dst, out[:frames*Channels])
	c.frame += int64(frames)
	cbs := c.takeDue()
	c.mu.Unlock()

	for _, fn := range cbs {
		fn()
	}

	return n
}

// takeDue collects pending callbacks and expired timers in registration order.
func (c *Context) takeDue() []func() {
	cbs := c.pending
	c.pending = nil

	kept := c.timers[:0]
	for _, t := range c.timers {
		if t.at <= c.frame {
			cbs = append(cbs, t.fn)
			continue
		}
		kept = append(kept, t)
	}
	c.timers = kept

	return cbs
}

// Advance renders and discards d worth of audio in small chunks, delivering
// callbacks as their time comes.
func (c *Context) Advance(d time.Duration) {
	remaining := c.frameAt(d)
	if cap(c.scratch) < renderChunk*Channels {
		c.scratch = make([]float32, renderChunk*Channels)
	}

	for remaining > 0 {
		n := min(remaining, renderChunk)
		c.Render(c.scratch[:n*Channels])
		remaining -= n
	}
}

// Bounce renders d worth of audio into a new buffer.
func (c *Context) Bounce(d time.Duration) []float32 {
	frames := c.frameAt(d)
	out := make([]float32, frames*Channels)

	for off := int64(0); off < frames; off += renderChunk {
		end := min(off+renderChunk, frames)
		c.Render(out[off*Channels : end*Channels])
	}

	return out
}

// Run renders period sized blocks in real time and writes them to w as
// little-endian 16-bit PCM until ctx is done.
func (c *Context) Run(ctx context.Context, w io.Writer, period time.Duration) error {
	frames := c.frameAt(period)
	if frames <= 0 {
		return fmt.Errorf("%w: %v", ErrInvalidPeriod, period)
	}

	buf := make([]float32, frames*Channels)
	pcm := make([]int16, len(buf))

	ticker := time.NewTicker(period)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}

		c.Render(buf)
		for i, v := range buf {
			pcm[i] = utils.Float32ToInt16(v)
		}

		if err := wav.WriteSamples16(w, pcm); err != nil {
			return fmt.Errorf("writing block: %w", err)
		}
	}
}
