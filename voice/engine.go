// SPDX-License-Identifier: EPL-2.0

package voice

import (
	"fmt"
	"maps"
	"sync"
	"time"

	"github.com/ik5/audmux/arena"
	"github.com/ik5/audmux/bank"
	"github.com/ik5/audmux/graph"
	"github.com/sirupsen/logrus"
)

// voiceRecord is the graph subgraph owned by one playing sound.
type voiceRecord struct {
	priority bank.Priority
	source   graph.Source
	pan      graph.PanNode
	gain     graph.GainNode
	buffer   *graph.Buffer

	loop               bool
	loopStart, loopEnd time.Duration
	playOut            bool
	// stopping is set once a stop has been scheduled; the voice is then no
	// longer a candidate for eviction.
	stopping bool
}

type streamRecord struct {
	media graph.MediaSource
	pan   graph.PanNode
	gain  graph.GainNode
}

// Engine plays sounds and streams on a graph.Context. All methods are safe
// for concurrent use, including from graph callbacks.
type Engine struct {
	mu  sync.Mutex
	ctx graph.Context
	cfg Config

	voices  *arena.Arena[*voiceRecord]
	streams *arena.Arena[*streamRecord]

	assets map[string]*graph.Buffer
	defs   map[string]bank.Definition
	mixers map[string]graph.GainNode

	log     *logrus.Entry
	metrics *Metrics
}

// Option configures an Engine in New.
type Option func(*Engine)

// WithLogger replaces the default logger, tagged component=voice.
func WithLogger(l *logrus.Entry) Option {
	return func(e *Engine) { e.log = l }
}

// WithMetrics records engine activity in m.
func WithMetrics(m *Metrics) Option {
	return func(e *Engine) { e.metrics = m }
}

// New creates an engine drawing on ctx. It fails when ctx is nil or cfg is
// invalid.
func New(ctx graph.Context, cfg Config, opts ...Option) (*Engine, error) {
	if ctx == nil {
		return nil, ErrNoContext
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	voices, err := arena.New[*voiceRecord](cfg.MaxSounds)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	streams, err := arena.New[*streamRecord](cfg.MaxStreams)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	e := &Engine{
		ctx:     ctx,
		cfg:     cfg,
		voices:  voices,
		streams: streams,
		assets:  make(map[string]*graph.Buffer),
		defs:    make(map[string]bank.Definition),
		mixers:  make(map[string]graph.GainNode),
		log:     logrus.WithField("component", "voice"),
	}
	for _, opt := range opts {
		opt(e)
	}

	e.log.WithFields(logrus.Fields{
		"function":    "New",
		"max_sounds":  cfg.MaxSounds,
		"max_streams": cfg.MaxStreams,
		"slop_size":   cfg.SlopSize,
	}).Debug("Voice engine created")

	return e, nil
}

// Config returns the configuration the engine was created with.
func (e *Engine) Config() Config { return e.cfg }

// LoadBank makes the assets, definitions and mixers of b available. Mixers are
// created in bank order and must name an already known parent.
func (e *Engine) LoadBank(b *bank.Bank) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	defs := b.Mixers()

	known := make(map[string]bool, len(e.mixers)+len(defs))
	for name := range e.mixers {
		known[name] = true
	}
	for _, def := range defs {
		if known[def.Name] {
			return fmt.Errorf("%w: %q", ErrMixerExists, def.Name)
		}
		if def.Parent != "" && !known[def.Parent] {
			return fmt.Errorf("%w: %q, parent of %q", ErrMixerNotFound, def.Parent, def.Name)
		}
		known[def.Name] = true
	}

	now := e.ctx.Now()
	for _, def := range defs {
		g := e.ctx.NewGain()
		g.SetGain(def.Gain, now)
		if def.Parent == "" {
			g.Connect(e.ctx.Destination())
		} else {
			g.Connect(e.mixers[def.Parent])
		}
		e.mixers[def.Name] = g
	}

	maps.Copy(e.assets, b.Assets())
	maps.Copy(e.defs, b.Definitions())

	e.log.WithFields(logrus.Fields{
		"function":    "Engine.LoadBank",
		"assets":      len(e.assets),
		"definitions": len(e.defs),
		"mixers":      len(e.mixers),
	}).Info("Bank loaded")

	return nil
}

// UnloadBank stops everything that plays and forgets all assets, definitions
// and mixers.
func (e *Engine) UnloadBank() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.stopAllLocked(reasonUnloaded)

	for _, g := range e.mixers {
		g.Disconnect()
	}
	clear(e.mixers)
	clear(e.assets)
	clear(e.defs)

	e.log.WithField("function", "Engine.UnloadBank").Info("Bank unloaded")
}

// SetMixerGain sets the gain of a named mixer immediately.
func (e *Engine) SetMixerGain(name string, v float64) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	g, ok := e.mixers[name]
	if !ok {
		return fmt.Errorf("%w: %q", ErrMixerNotFound, name)
	}
	g.SetGain(v, e.ctx.Now())

	return nil
}

// output resolves the node a new voice or stream feeds. The override wins over
// the definition's mixer; neither means the destination.
func (e *Engine) output(override, mixer string) (graph.Node, error) {
	name := override
	if name == "" {
		name = mixer
	}
	if name == "" {
		return e.ctx.Destination(), nil
	}

	g, ok := e.mixers[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrMixerNotFound, name)
	}

	return g, nil
}

// NumFreeSlots returns the shared admission budget. It can be zero or
// negative while streams hold slots.
func (e *Engine) NumFreeSlots() int {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.freeBudget()
}

func (e *Engine) freeBudget() int {
	return e.voices.NumFreeSlots() - e.streams.NumUsedSlots()
}

// NumUsedVoices returns the number of voice slots held, fading voices included.
func (e *Engine) NumUsedVoices() int {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.voices.NumUsedSlots()
}

// NumUsedStreams returns the number of live streams.
func (e *Engine) NumUsedStreams() int {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.streams.NumUsedSlots()
}

func (e *Engine) updateGauges() {
	e.metrics.setActive(e.voices.NumUsedSlots(), e.streams.NumUsedSlots())
}
