// SPDX-License-Identifier: EPL-2.0

package voice

import (
	"errors"
	"time"

	"github.com/ik5/audmux/graph"
)

// fakeContext records every call the engine makes so tests can assert on
// the schedule without rendering audio. Callbacks only run when a test fires
// them.
type fakeContext struct {
	now     time.Duration
	dest    *fakeNode
	sources []*fakeSource
	media   []*fakeMedia
	gains   []*fakeGain
	pans    []*fakePan
	timers  []fakeTimer

	mediaErr error
}

type fakeTimer struct {
	at time.Duration
	fn func()
}

type scheduled struct {
	value float64
	at    time.Duration
}

func newFakeContext() *fakeContext {
	return &fakeContext{dest: &fakeNode{}}
}

func (c *fakeContext) NewBufferSource(buf *graph.Buffer) (graph.Source, error) {
	if buf == nil {
		return nil, errors.New("nil buffer")
	}

	s := &fakeSource{buf: buf}
	c.sources = append(c.sources, s)

	return s, nil
}

func (c *fakeContext) NewMediaSource(url string) (graph.MediaSource, error) {
	if c.mediaErr != nil {
		return nil, c.mediaErr
	}

	m := &fakeMedia{url: url}
	c.media = append(c.media, m)

	return m, nil
}

func (c *fakeContext) NewGain() graph.GainNode {
	g := &fakeGain{value: 1}
	c.gains = append(c.gains, g)

	return g
}

func (c *fakeContext) NewPan() graph.PanNode {
	p := &fakePan{}
	c.pans = append(c.pans, p)

	return p
}

func (c *fakeContext) Destination() graph.Node { return c.dest }
func (c *fakeContext) Now() time.Duration      { return c.now }

func (c *fakeContext) AfterFunc(d time.Duration, fn func()) {
	c.timers = append(c.timers, fakeTimer{at: c.now + d, fn: fn})
}

// fireTimers runs every timer due at the current time.
func (c *fakeContext) fireTimers() {
	timers := c.timers
	c.timers = nil

	for _, t := range timers {
		if t.at <= c.now {
			t.fn()
			continue
		}
		c.timers = append(c.timers, t)
	}
}

type fakeNode struct {
	out          graph.Node
	disconnected int
}

func (n *fakeNode) Connect(dst graph.Node) { n.out = dst }

func (n *fakeNode) Disconnect() {
	n.out = nil
	n.disconnected++
}

type fakeGain struct {
	fakeNode
	value float64
	sets  []scheduled
	ramps []scheduled
}

func (g *fakeGain) SetGain(v float64, at time.Duration) {
	g.sets = append(g.sets, scheduled{v, at})
	g.value = v
}

func (g *fakeGain) RampGain(v float64, at time.Duration) {
	g.ramps = append(g.ramps, scheduled{v, at})
	g.value = v
}

func (g *fakeGain) Gain() float64 { return g.value }

func (g *fakeGain) lastRamp() scheduled {
	if len(g.ramps) == 0 {
		return scheduled{}
	}

	return g.ramps[len(g.ramps)-1]
}

type fakePan struct {
	fakeNode
	pan float64
}

func (p *fakePan) SetPan(v float64) { p.pan = v }

type fakeSource struct {
	fakeNode
	buf *graph.Buffer

	started          bool
	offset, duration time.Duration
	stops            []time.Duration

	loop               bool
	loopStart, loopEnd time.Duration
	loopCalls          int

	onEnded func()
	ended   bool
}

func (s *fakeSource) Start(offset, duration time.Duration) {
	s.started = true
	s.offset, s.duration = offset, duration
}

func (s *fakeSource) Stop(at time.Duration) { s.stops = append(s.stops, at) }

func (s *fakeSource) SetLoop(loop bool, start, end time.Duration) {
	s.loop, s.loopStart, s.loopEnd = loop, start, end
	s.loopCalls++
}

func (s *fakeSource) OnEnded(fn func()) { s.onEnded = fn }

// end simulates the graph reporting the end of playback.
func (s *fakeSource) end() {
	if s.ended || s.onEnded == nil {
		return
	}
	s.ended = true
	s.onEnded()
}

type fakeMedia struct {
	fakeNode
	url     string
	playing bool
	closed  bool
}

func (m *fakeMedia) Play()  { m.playing = true }
func (m *fakeMedia) Pause() { m.playing = false }

func (m *fakeMedia) Close() error {
	m.closed = true
	return nil
}
