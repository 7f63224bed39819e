// SPDX-License-Identifier: EPL-2.0

package softgraph

import (
	"math"
	"slices"
	"time"

	"github.com/ik5/audmux/graph"
	"github.com/ik5/audmux/utils"
	"github.com/sirupsen/logrus"
)

// processor is a node the render pass can pull from.
type processor interface {
	graph.Node
	core() *base
	// process returns frames of interleaved stereo owned by the node.
	// Called with the context lock held.
	process(frames int) []float32
}

// base carries the wiring shared by all nodes. A node feeds at most one
// downstream node, so each node is pulled once per render pass.
type base struct {
	ctx    *Context
	self   processor
	inputs []processor
	output processor
	buf    []float32
}

func (b *base) core() *base { return b }

func (b *base) Connect(dst graph.Node) {
	d, ok := dst.(processor)
	if !ok || d.core().ctx != b.ctx {
		b.ctx.log.WithFields(logrus.Fields{
			"function": "Connect",
		}).Warn("Ignoring connection to a node from another graph")
		return
	}

	b.ctx.mu.Lock()
	defer b.ctx.mu.Unlock()

	for n := d; n != nil; n = n.core().output {
		if n == b.self {
			b.ctx.log.WithFields(logrus.Fields{
				"function": "Connect",
			}).Warn("Ignoring connection that would create a cycle")
			return
		}
	}

	b.detach()
	b.output = d
	dc := d.core()
	dc.inputs = append(dc.inputs, b.self)
}

func (b *base) Disconnect() {
	b.ctx.mu.Lock()
	defer b.ctx.mu.Unlock()

	b.detach()
}

func (b *base) detach() {
	if b.output == nil {
		return
	}

	oc := b.output.core()
	if i := slices.Index(oc.inputs, b.self); i >= 0 {
		oc.inputs = slices.Delete(oc.inputs, i, i+1)
	}
	b.output = nil
}

// silence returns a zeroed block of frames.
func (b *base) silence(frames int) []float32 {
	n := frames * Channels
	if cap(b.buf) < n {
		b.buf = make([]float32, n)
	}
	b.buf = b.buf[:n]
	clear(b.buf)

	return b.buf
}

func (b *base) mixInputs(frames int) []float32 {
	out := b.silence(frames)

	for _, in := range b.inputs {
		src := in.process(frames)
		for i := range out {
			out[i] += src[i]
		}
	}

	return out
}

type gainSet struct {
	at    int64
	value float64
}

type gainRamp struct {
	from, to   float64
	start, end int64
}

type gainNode struct {
	base
	value float64
	sets  []gainSet
	ramp  *gainRamp
}

func newGainNode(c *Context) *gainNode {
	g := &gainNode{value: 1}
	g.base = base{ctx: c, self: g}

	return g
}

func (g *gainNode) Gain() float64 {
	g.ctx.mu.Lock()
	defer g.ctx.mu.Unlock()

	return g.value
}

func (g *gainNode) SetGain(v float64, at time.Duration) {
	g.ctx.mu.Lock()
	defer g.ctx.mu.Unlock()

	f := g.ctx.frameAt(at)
	if f <= g.ctx.frame {
		g.value = v
		g.ramp = nil
		return
	}

	i, _ := slices.BinarySearchFunc(g.sets, f, func(s gainSet, f int64) int {
		switch {
		case s.at < f:
			return -1
		case s.at > f:
			return 1
		}
		return 0
	})
	g.sets = slices.Insert(g.sets, i, gainSet{at: f, value: v})
}

func (g *gainNode) RampGain(v float64, at time.Duration) {
	g.ctx.mu.Lock()
	defer g.ctx.mu.Unlock()

	v = graph.ClampRampTarget(v)

	end := g.ctx.frameAt(at)
	if end <= g.ctx.frame {
		g.value = v
		g.ramp = nil
		return
	}

	g.ramp = &gainRamp{
		from:  graph.ClampRampTarget(g.value),
		to:    v,
		start: g.ctx.frame,
		end:   end,
	}
}

func (g *gainNode) process(frames int) []float32 {
	out := g.mixInputs(frames)
	start := g.ctx.frame

	for i := range frames {
		f := start + int64(i)

		for len(g.sets) > 0 && g.sets[0].at <= f {
			g.value = g.sets[0].value
			g.ramp = nil
			g.sets = g.sets[1:]
		}

		if r := g.ramp; r != nil {
			if f >= r.end {
				g.value = r.to
				g.ramp = nil
			} else {
				t := float64(f-r.start) / float64(r.end-r.start)
				g.value = r.from * math.Pow(r.to/r.from, t)
			}
		}

		v := float32(g.value)
		out[2*i] *= v
		out[2*i+1] *= v
	}

	return out
}

type panNode struct {
	base
	pan float64
}

func newPanNode(c *Context) *panNode {
	p := &panNode{}
	p.base = base{ctx: c, self: p}

	return p
}

func (p *panNode) SetPan(v float64) {
	p.ctx.mu.Lock()
	defer p.ctx.mu.Unlock()

	p.pan = utils.Clamp(v, -1, 1)
}

// process applies an equal-power stereo pan.
func (p *panNode) process(frames int) []float32 {
	out := p.mixInputs(frames)

	x := p.pan
	if x <= 0 {
		x++
	}
	gl := float32(math.Cos(x * math.Pi / 2))
	gr := float32(math.Sin(x * math.Pi / 2))

	for i := range frames {
		l, r := out[2*i], out[2*i+1]
		if p.pan <= 0 {
			out[2*i] = l + r*gl
			out[2*i+1] = r * gr
		} else {
			out[2*i] = l * gl
			out[2*i+1] = r + l*gr
		}
	}

	return out
}
